// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package backend defines the key-value boundary used to persist snapshots
// of the global storage table, and the key schema shared by all backend
// implementations. Backends store opaque blobs; all resource semantics live
// above this boundary.
package backend

import (
	"errors"
	"fmt"

	"github.com/linearvm/storage/common"
)

// ErrNotFound is returned by Get when the key has no value in the backend.
var ErrNotFound = errors.New("key not found")

// Store is a flat key-value store for snapshot blobs.
type Store interface {
	// Get returns the value stored for the key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
	// Put stores the value for the key, replacing any previous value.
	Put(key, value []byte) error
	// Delete removes the key and its value. Deleting an absent key is a
	// no-op.
	Delete(key []byte) error
	// Iterate calls fn for every key with the given prefix, in ascending
	// key order. Iteration stops at the first error returned by fn.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
	// Flush writes all buffered data to the underlying media.
	Flush() error
	// Close flushes and releases the backend.
	Close() error
}

// TableSpace separates key ranges of different logical tables sharing one
// backend instance.
type TableSpace byte

const (
	// ResourceTableSpace holds encoded resource values keyed by owner
	// address and type hash.
	ResourceTableSpace TableSpace = 'R'
)

// ResourceKeySize is the byte length of a resource slot key: one table-space
// byte, the owner address, and the type hash.
const ResourceKeySize = 1 + common.AddressLength + common.HashLength

// ResourceKey is the backend key of a single resource slot.
type ResourceKey [ResourceKeySize]byte

// NewResourceKey builds the backend key of the slot addressed by the given
// owner and type hash.
func NewResourceKey(owner common.Address, typeHash common.Hash) ResourceKey {
	var key ResourceKey
	key[0] = byte(ResourceTableSpace)
	copy(key[1:1+common.AddressLength], owner[:])
	copy(key[1+common.AddressLength:], typeHash[:])
	return key
}

func (k ResourceKey) Bytes() []byte {
	return k[:]
}

// ParseResourceKey splits a backend key back into owner address and type
// hash.
func ParseResourceKey(data []byte) (common.Address, common.Hash, error) {
	if len(data) != ResourceKeySize || TableSpace(data[0]) != ResourceTableSpace {
		return common.Address{}, common.Hash{}, fmt.Errorf("malformed resource key of length %d", len(data))
	}
	owner, _ := common.AddressFromBytes(data[1 : 1+common.AddressLength])
	typeHash, _ := common.HashFromBytes(data[1+common.AddressLength:])
	return owner, typeHash, nil
}

// ResourcePrefix returns the key prefix covering all resource slots.
func ResourcePrefix() []byte {
	return []byte{byte(ResourceTableSpace)}
}

// OwnerPrefix returns the key prefix covering all resource slots of one
// owner address.
func OwnerPrefix(owner common.Address) []byte {
	prefix := make([]byte, 1+common.AddressLength)
	prefix[0] = byte(ResourceTableSpace)
	copy(prefix[1:], owner[:])
	return prefix
}
