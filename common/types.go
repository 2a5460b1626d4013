// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Address is the identifier of a resource owner. It has a fixed length of
// 20 bytes and is used, together with a type identity, to address a single
// slot in the global storage table.
type Address [20]byte

// AddressLength is the number of bytes of an Address.
const AddressLength = 20

// AddressFromBytes creates an Address from the given byte slice. The input
// must be exactly AddressLength bytes long.
func AddressFromBytes(data []byte) (Address, error) {
	var addr Address
	if len(data) != AddressLength {
		return addr, fmt.Errorf("invalid address length %d, expected %d", len(data), AddressLength)
	}
	copy(addr[:], data)
	return addr, nil
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Compare orders addresses lexicographically by their byte representation.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// Hash is a 32-byte digest, used as the canonical identity of a fully
// instantiated type in storage keys.
type Hash [32]byte

// HashLength is the number of bytes of a Hash.
const HashLength = 32

// HashFromBytes creates a Hash from the given byte slice. The input must be
// exactly HashLength bytes long.
func HashFromBytes(data []byte) (Hash, error) {
	var hash Hash
	if len(data) != HashLength {
		return hash, fmt.Errorf("invalid hash length %d, expected %d", len(data), HashLength)
	}
	copy(hash[:], data)
	return hash, nil
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Compare orders hashes lexicographically by their byte representation.
func (h Hash) Compare(o Hash) int {
	return bytes.Compare(h[:], o[:])
}
