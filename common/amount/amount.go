// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package amount

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Amount is an immutable 256-bit unsigned balance value. It is a value type;
// all arithmetic produces new instances and reports overflow or underflow
// explicitly instead of wrapping around.
type Amount struct {
	internal uint256.Int
}

// New creates a new zero-valued Amount.
func New() Amount {
	return Amount{}
}

// NewFromUint64 creates an Amount holding the given value.
func NewFromUint64(value uint64) Amount {
	res := Amount{}
	res.internal.SetUint64(value)
	return res
}

// NewFromBytes creates an Amount from a big-endian byte representation.
// Leading zeros are permitted.
func NewFromBytes(bytes ...byte) (Amount, error) {
	if len(bytes) > 32 {
		return Amount{}, fmt.Errorf("amount exceeds 32 bytes: %d", len(bytes))
	}
	res := Amount{}
	res.internal.SetBytes(bytes)
	return res, nil
}

// NewFromUint256 creates an Amount from an uint256 value.
func NewFromUint256(value *uint256.Int) Amount {
	res := Amount{}
	res.internal.Set(value)
	return res
}

// Uint64 returns the value as an uint64, if it fits.
func (a Amount) Uint64() uint64 {
	return a.internal.Uint64()
}

// Uint256 returns a copy of the underlying 256-bit value.
func (a Amount) Uint256() *uint256.Int {
	res := uint256.Int{}
	res.Set(&a.internal)
	return &res
}

// Bytes32 returns the value as a 32-byte big-endian array.
func (a Amount) Bytes32() [32]byte {
	return a.internal.Bytes32()
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.internal.IsZero()
}

// IsUint64 returns true if the amount fits into an uint64.
func (a Amount) IsUint64() bool {
	return a.internal.IsUint64()
}

// Equal returns true if the two amounts hold the same value.
func (a Amount) Equal(b Amount) bool {
	return a.internal.Eq(&b.internal)
}

// Less returns true if a is strictly less than b.
func (a Amount) Less(b Amount) bool {
	return a.internal.Lt(&b.internal)
}

// Add returns the sum of the two amounts, failing on overflow.
func Add(a, b Amount) (Amount, error) {
	res := Amount{}
	if _, overflow := res.internal.AddOverflow(&a.internal, &b.internal); overflow {
		return Amount{}, fmt.Errorf("amount overflow: %s + %s", a, b)
	}
	return res, nil
}

// Sub returns the difference of the two amounts, failing on underflow.
func Sub(a, b Amount) (Amount, error) {
	res := Amount{}
	if _, underflow := res.internal.SubOverflow(&a.internal, &b.internal); underflow {
		return Amount{}, fmt.Errorf("amount underflow: %s - %s", a, b)
	}
	return res, nil
}

func (a Amount) String() string {
	return a.internal.String()
}
