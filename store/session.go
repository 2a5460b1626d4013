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

import (
	"github.com/rs/zerolog"

	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

// Session is the view of the storage engine scoped to one operation. It
// carries the operation's access declaration and enforces it on every
// guarded primitive: moving a resource out and borrowing, shared or
// exclusive, require the resource's constructor to be declared as acquired.
// Publishing and existence checks are unguarded.
//
// Each primitive either fully succeeds or fails with the table unchanged;
// borrows opened through a session must be released before the operation
// returns.
type Session struct {
	store  *Store
	access AccessDeclaration
	log    zerolog.Logger
}

// Access returns the access declaration the session was opened with.
func (s *Session) Access() AccessDeclaration {
	return s.access
}

// Exists reports whether a resource is published at (owner, key).
func (s *Session) Exists(owner common.Address, key types.TypeKey) bool {
	return s.store.table.Exists(owner, key)
}

// MoveTo publishes the value under the given owner and type identity.
func (s *Session) MoveTo(owner common.Address, key types.TypeKey, value *values.Resource) error {
	if err := s.store.table.MoveTo(owner, key, value); err != nil {
		return err
	}
	s.log.Debug().
		Stringer("owner", owner).
		Stringer("type", key).
		Msg("resource published")
	return nil
}

// MoveFrom withdraws the resource at (owner, key), transferring ownership to
// the caller. The resource's constructor must be declared as acquired.
func (s *Session) MoveFrom(owner common.Address, key types.TypeKey) (*values.Resource, error) {
	if err := s.access.check(key); err != nil {
		return nil, err
	}
	value, err := s.store.table.MoveFrom(owner, key)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Stringer("owner", owner).
		Stringer("type", key).
		Msg("resource withdrawn")
	return value, nil
}

// Borrow returns a shared, scoped view of the resource at (owner, key). The
// resource's constructor must be declared as acquired.
func (s *Session) Borrow(owner common.Address, key types.TypeKey) (*Ref, error) {
	if err := s.access.check(key); err != nil {
		return nil, err
	}
	return s.store.table.Borrow(owner, key)
}

// BorrowMut returns an exclusive, scoped view of the resource at
// (owner, key). The resource's constructor must be declared as acquired.
func (s *Session) BorrowMut(owner common.Address, key types.TypeKey) (*MutRef, error) {
	if err := s.access.check(key); err != nil {
		return nil, err
	}
	return s.store.table.BorrowMut(owner, key)
}
