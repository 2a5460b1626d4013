// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package store

import "errors"

var (
	// ErrResourceAlreadyExists is returned by a move-in targeting an
	// occupied slot. A resource location cannot be overwritten; it must be
	// explicitly moved out first.
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// ErrMissingResource is returned by a move-out or borrow targeting an
	// empty or absent slot.
	ErrMissingResource = errors.New("missing resource")

	// ErrUndeclaredAccess is returned when an operation touches a resource
	// type its access declaration does not cover.
	ErrUndeclaredAccess = errors.New("undeclared resource access")

	// ErrCellBorrowed is returned when a move-out or an exclusive borrow
	// targets a slot with an outstanding borrow, or a shared borrow targets
	// a slot with an outstanding exclusive borrow.
	ErrCellBorrowed = errors.New("resource is borrowed")

	// ErrTypeMismatch is returned when the value handed to a move-in does
	// not have the type of the targeted slot.
	ErrTypeMismatch = errors.New("value type does not match slot type")
)
