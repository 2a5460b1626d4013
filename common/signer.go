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

// Signer is an opaque capability representing transaction authorization.
// The only behavior the storage engine relies on is the ability to resolve
// the address the capability stands for. Signature checking and account
// abstraction are the business of outer layers.
type Signer interface {
	// Address returns the address the signer is authorized to act for.
	Address() Address
}

// addressSigner is the trivial Signer implementation backed by a plain
// address, used by embedders that perform authorization elsewhere.
type addressSigner struct {
	address Address
}

// NewSigner creates a Signer for the given address without any attached
// authorization semantics.
func NewSigner(address Address) Signer {
	return addressSigner{address: address}
}

func (s addressSigner) Address() Address {
	return s.address
}
