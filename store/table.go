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

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

// slotKey uniquely identifies one storage slot: an owner address and the
// canonical hash of a fully instantiated type.
type slotKey struct {
	owner    common.Address
	typeHash common.Hash
}

// entry pairs the cell of a slot with the full type identity, which the hash
// alone cannot restore.
type entry struct {
	key  types.TypeKey
	cell cell
}

// Table is the authoritative mapping from (owner address, type identity) to
// resource cells. The absence of an entry is equivalent to an empty cell;
// entries are created lazily on the first move-in and pruned once empty.
//
// NOTE: a Table is not thread-safe. The engine exposes a single-writer
// contract; serializing transactions is the business of the embedder.
type Table struct {
	entries map[slotKey]*entry
}

// NewTable creates an empty storage table.
func NewTable() *Table {
	return &Table{entries: map[slotKey]*entry{}}
}

func (t *Table) find(owner common.Address, key types.TypeKey) *entry {
	return t.entries[slotKey{owner: owner, typeHash: key.Hash()}]
}

// Exists reports whether the slot at (owner, key) holds a value. It has no
// side effects.
func (t *Table) Exists(owner common.Address, key types.TypeKey) bool {
	e := t.find(owner, key)
	return e != nil && e.cell.occupied()
}

// MoveTo publishes the value into the slot at (owner, key). The slot must be
// empty and the value's type must match the slot's type. On failure the
// table is unchanged.
func (t *Table) MoveTo(owner common.Address, key types.TypeKey, value *values.Resource) error {
	if !value.Type().Equal(key) {
		return fmt.Errorf("%w: cannot store %s at slot %s", ErrTypeMismatch, value.Type(), key)
	}
	slot := slotKey{owner: owner, typeHash: key.Hash()}
	e := t.entries[slot]
	if e == nil {
		e = &entry{key: key}
	}
	if err := e.cell.moveIn(value); err != nil {
		return err
	}
	t.entries[slot] = e
	return nil
}

// MoveFrom withdraws the value from the slot at (owner, key), transferring
// ownership to the caller and leaving the slot empty. It fails while a
// borrow of the slot is outstanding.
func (t *Table) MoveFrom(owner common.Address, key types.TypeKey) (*values.Resource, error) {
	e := t.find(owner, key)
	if e == nil {
		return nil, ErrMissingResource
	}
	value, err := e.cell.moveOut()
	if err != nil {
		return nil, err
	}
	delete(t.entries, slotKey{owner: owner, typeHash: key.Hash()})
	return value, nil
}

// Borrow returns a shared, scoped view of the value at (owner, key).
func (t *Table) Borrow(owner common.Address, key types.TypeKey) (*Ref, error) {
	e := t.find(owner, key)
	if e == nil {
		return nil, ErrMissingResource
	}
	return e.cell.borrow()
}

// BorrowMut returns an exclusive, scoped view of the value at (owner, key).
func (t *Table) BorrowMut(owner common.Address, key types.TypeKey) (*MutRef, error) {
	e := t.find(owner, key)
	if e == nil {
		return nil, ErrMissingResource
	}
	return e.cell.borrowMut()
}

// Resources lists the type identities of all occupied slots of the given
// owner, in a deterministic order.
func (t *Table) Resources(owner common.Address) []types.TypeKey {
	var res []types.TypeKey
	for slot, e := range t.entries {
		if slot.owner == owner && e.cell.occupied() {
			res = append(res, e.key)
		}
	}
	slices.SortFunc(res, func(a, b types.TypeKey) int {
		return a.Hash().Compare(b.Hash())
	})
	return res
}

// forEach visits every occupied slot in deterministic (owner, type hash)
// order. Used by snapshotting.
func (t *Table) forEach(fn func(owner common.Address, key types.TypeKey, value *values.Resource) error) error {
	slots := maps.Keys(t.entries)
	slices.SortFunc(slots, func(a, b slotKey) int {
		if c := a.owner.Compare(b.owner); c != 0 {
			return c
		}
		return a.typeHash.Compare(b.typeHash)
	})
	for _, slot := range slots {
		e := t.entries[slot]
		if !e.cell.occupied() {
			continue
		}
		if err := fn(slot.owner, e.key, e.cell.value); err != nil {
			return err
		}
	}
	return nil
}
