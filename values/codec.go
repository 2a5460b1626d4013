// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package values

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/golang/snappy"

	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/common/amount"
	"github.com/linearvm/storage/types"
)

// The codec turns a live resource into a self-contained blob and back. Blobs
// are CBOR-encoded and snappy-compressed; the type identity is embedded so a
// blob can be decoded without out-of-band schema information.

const (
	kindAmount byte = iota
	kindAddress
	kindResource
)

type encodedType struct {
	Module string        `cbor:"1,keyasint"`
	Name   string        `cbor:"2,keyasint"`
	Args   []encodedType `cbor:"3,keyasint,omitempty"`
}

type encodedValue struct {
	Kind     byte             `cbor:"1,keyasint"`
	Amount   []byte           `cbor:"2,keyasint,omitempty"`
	Address  []byte           `cbor:"3,keyasint,omitempty"`
	Resource *encodedResource `cbor:"4,keyasint,omitempty"`
}

type encodedField struct {
	Name  string       `cbor:"1,keyasint"`
	Value encodedValue `cbor:"2,keyasint"`
}

type encodedResource struct {
	Type   encodedType    `cbor:"1,keyasint"`
	Fields []encodedField `cbor:"2,keyasint,omitempty"`
}

func encodeType(key types.TypeKey) encodedType {
	args := key.Args()
	encoded := make([]encodedType, len(args))
	for i, arg := range args {
		encoded[i] = encodeType(arg)
	}
	ctor := key.Constructor()
	return encodedType{Module: ctor.Module, Name: ctor.Name, Args: encoded}
}

func decodeType(encoded encodedType) types.TypeKey {
	args := make([]types.TypeKey, len(encoded.Args))
	for i, arg := range encoded.Args {
		args[i] = decodeType(arg)
	}
	return types.NewTypeKey(encoded.Module, encoded.Name, args...)
}

func encodeValue(value Value) (encodedValue, error) {
	switch v := value.(type) {
	case amountValue:
		return encodedValue{Kind: kindAmount, Amount: v.value.Uint256().Bytes()}, nil
	case addressValue:
		return encodedValue{Kind: kindAddress, Address: v.value[:]}, nil
	case *Resource:
		encoded, err := encodeResource(v)
		if err != nil {
			return encodedValue{}, err
		}
		return encodedValue{Kind: kindResource, Resource: encoded}, nil
	default:
		return encodedValue{}, fmt.Errorf("unsupported value type %T", value)
	}
}

func decodeValue(encoded encodedValue) (Value, error) {
	switch encoded.Kind {
	case kindAmount:
		value, err := amount.NewFromBytes(encoded.Amount...)
		if err != nil {
			return nil, err
		}
		return AmountValue(value), nil
	case kindAddress:
		address, err := common.AddressFromBytes(encoded.Address)
		if err != nil {
			return nil, err
		}
		return AddressValue(address), nil
	case kindResource:
		if encoded.Resource == nil {
			return nil, fmt.Errorf("missing resource payload in encoded value")
		}
		return decodeResource(*encoded.Resource)
	default:
		return nil, fmt.Errorf("unknown value kind %d", encoded.Kind)
	}
}

func encodeResource(resource *Resource) (*encodedResource, error) {
	fields, err := resource.Fields()
	if err != nil {
		return nil, err
	}
	encodedFields := make([]encodedField, len(fields))
	for i, field := range fields {
		value, err := encodeValue(field.Value)
		if err != nil {
			return nil, err
		}
		encodedFields[i] = encodedField{Name: field.Name, Value: value}
	}
	return &encodedResource{Type: encodeType(resource.Type()), Fields: encodedFields}, nil
}

func decodeResource(encoded encodedResource) (*Resource, error) {
	fields := make([]Field, len(encoded.Fields))
	for i, field := range encoded.Fields {
		value, err := decodeValue(field.Value)
		if err != nil {
			return nil, err
		}
		fields[i] = Field{Name: field.Name, Value: value}
	}
	return NewResource(decodeType(encoded.Type), fields...), nil
}

// Encode serializes the resource into a compressed, self-contained blob.
// A consumed resource cannot be encoded.
func Encode(resource *Resource) ([]byte, error) {
	encoded, err := encodeResource(resource)
	if err != nil {
		return nil, err
	}
	data, err := cbor.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource %s: %w", resource.Type(), err)
	}
	return snappy.Encode(nil, data), nil
}

// Decode restores a resource from a blob produced by Encode.
func Decode(blob []byte) (*Resource, error) {
	data, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress resource blob: %w", err)
	}
	var encoded encodedResource
	if err := cbor.Unmarshal(data, &encoded); err != nil {
		return nil, fmt.Errorf("failed to decode resource blob: %w", err)
	}
	return decodeResource(encoded)
}
