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
	"fmt"

	"github.com/linearvm/storage/values"
)

// cell is the linear-ownership wrapper around one stored resource. It is
// either empty or holds exactly one value, and it tracks outstanding borrows
// so that no value can be moved out while a view of it is live.
type cell struct {
	value     *values.Resource
	shared    int
	exclusive bool
}

func (c *cell) occupied() bool {
	return c.value != nil
}

func (c *cell) borrowed() bool {
	return c.shared > 0 || c.exclusive
}

// moveIn transitions the cell from empty to occupied. The cell never accepts
// a second value and never accepts an already consumed one.
func (c *cell) moveIn(value *values.Resource) error {
	if c.occupied() {
		return ErrResourceAlreadyExists
	}
	if value.Consumed() {
		return fmt.Errorf("%w: cannot store %s", values.ErrResourceConsumed, value.Type())
	}
	c.value = value
	return nil
}

// moveOut transitions the cell from occupied to empty, transferring
// ownership of the value to the caller. It refuses while any borrow is
// outstanding.
func (c *cell) moveOut() (*values.Resource, error) {
	if !c.occupied() {
		return nil, ErrMissingResource
	}
	if c.borrowed() {
		return nil, ErrCellBorrowed
	}
	value := c.value
	c.value = nil
	return value, nil
}

// borrow returns a shared, read-only view of the stored value. Any number of
// shared borrows may coexist, but none while an exclusive borrow is live.
func (c *cell) borrow() (*Ref, error) {
	if !c.occupied() {
		return nil, ErrMissingResource
	}
	if c.exclusive {
		return nil, ErrCellBorrowed
	}
	c.shared++
	return &Ref{cell: c}, nil
}

// borrowMut returns an exclusive, mutable view of the stored value. It is
// incompatible with any other outstanding borrow.
func (c *cell) borrowMut() (*MutRef, error) {
	if !c.occupied() {
		return nil, ErrMissingResource
	}
	if c.borrowed() {
		return nil, ErrCellBorrowed
	}
	c.exclusive = true
	return &MutRef{cell: c}, nil
}

// Ref is a scoped, shared view of a stored resource. It must be released
// before the enclosing operation returns; while it is live, the underlying
// cell cannot become empty.
type Ref struct {
	cell     *cell
	released bool
}

// Value returns the viewed resource, or nil once the reference has been
// released.
func (r *Ref) Value() *values.Resource {
	if r.released {
		return nil
	}
	return r.cell.value
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *Ref) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.shared--
}

// MutRef is a scoped, exclusive view of a stored resource, permitting
// in-place mutation of the value. The same release discipline as for Ref
// applies.
type MutRef struct {
	cell     *cell
	released bool
}

// Value returns the viewed resource, or nil once the reference has been
// released.
func (r *MutRef) Value() *values.Resource {
	if r.released {
		return nil
	}
	return r.cell.value
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *MutRef) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.exclusive = false
}
