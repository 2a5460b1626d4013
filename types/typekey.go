// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"

	"github.com/linearvm/storage/common"
)

// Constructor identifies a base type by its module-qualified name, without
// any generic arguments. Access declarations are expressed in terms of
// constructors, covering all instantiations of the named type.
type Constructor struct {
	Module string
	Name   string
}

func (c Constructor) String() string {
	return c.Module + "::" + c.Name
}

// TypeKey is the canonical identity of a fully instantiated type: a
// module-qualified base name plus an ordered sequence of type-argument keys.
// Two instantiations address the same storage slot iff their TypeKeys are
// structurally equal, recursively, including argument order and multiplicity.
// A TypeKey is immutable once constructed.
type TypeKey struct {
	module string
	name   string
	args   []TypeKey
}

// NewTypeKey creates the key of an instantiation of the type identified by
// the given module-qualified name, applied to the given argument keys.
func NewTypeKey(module, name string, args ...TypeKey) TypeKey {
	var copied []TypeKey
	if len(args) > 0 {
		copied = make([]TypeKey, len(args))
		copy(copied, args)
	}
	return TypeKey{module: module, name: name, args: copied}
}

// Constructor returns the base-type constructor of the key, with generic
// arguments stripped.
func (k TypeKey) Constructor() Constructor {
	return Constructor{Module: k.module, Name: k.name}
}

// Args returns a copy of the ordered type-argument keys.
func (k TypeKey) Args() []TypeKey {
	if len(k.args) == 0 {
		return nil
	}
	res := make([]TypeKey, len(k.args))
	copy(res, k.args)
	return res
}

// Equal compares two keys structurally, recursing into generic arguments.
func (k TypeKey) Equal(other TypeKey) bool {
	if k.module != other.module || k.name != other.name || len(k.args) != len(other.args) {
		return false
	}
	for i := range k.args {
		if !k.args[i].Equal(other.args[i]) {
			return false
		}
	}
	return true
}

// ID returns a human-readable rendering of the key, for diagnostics only.
// Storage slots are addressed by Hash, never by this string.
func (k TypeKey) ID() string {
	var builder strings.Builder
	k.writeID(&builder)
	return builder.String()
}

func (k TypeKey) writeID(builder *strings.Builder) {
	builder.WriteString(k.module)
	builder.WriteString("::")
	builder.WriteString(k.name)
	if len(k.args) == 0 {
		return
	}
	builder.WriteByte('<')
	for i, arg := range k.args {
		if i > 0 {
			builder.WriteString(", ")
		}
		arg.writeID(builder)
	}
	builder.WriteByte('>')
}

func (k TypeKey) String() string {
	return k.ID()
}

// encodedTypeKey is the wire shape of a TypeKey for canonical encoding.
type encodedTypeKey struct {
	Module string
	Name   string
	Args   []encodedTypeKey
}

func (k TypeKey) toEncoded() encodedTypeKey {
	args := make([]encodedTypeKey, len(k.args))
	for i, arg := range k.args {
		args[i] = arg.toEncoded()
	}
	return encodedTypeKey{Module: k.module, Name: k.name, Args: args}
}

func fromEncoded(e encodedTypeKey) TypeKey {
	args := make([]TypeKey, len(e.Args))
	for i, arg := range e.Args {
		args[i] = fromEncoded(arg)
	}
	return NewTypeKey(e.Module, e.Name, args...)
}

// Encode returns the canonical RLP encoding of the key. Structurally equal
// keys have byte-identical encodings.
func (k TypeKey) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(k.toEncoded())
}

// DecodeTypeKey restores a key from its canonical encoding.
func DecodeTypeKey(data []byte) (TypeKey, error) {
	var encoded encodedTypeKey
	if err := rlp.DecodeBytes(data, &encoded); err != nil {
		return TypeKey{}, err
	}
	return fromEncoded(encoded), nil
}

// Hash returns the canonical digest of the key, the SHA3-256 of its
// canonical encoding. Structurally equal keys hash equal; the digest is the
// slot coordinate used by the storage table and the persistent backends.
func (k TypeKey) Hash() common.Hash {
	encoded, err := k.Encode()
	if err != nil {
		// RLP encoding of a tree of strings cannot fail.
		panic(err)
	}
	return common.Hash(sha3.Sum256(encoded))
}
