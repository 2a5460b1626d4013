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
	"errors"
	"fmt"

	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/common/amount"
	"github.com/linearvm/storage/types"
)

// ErrResourceConsumed is returned when a resource value is used after it has
// been destructured.
var ErrResourceConsumed = errors.New("resource already consumed")

// Value is a field value of a resource: an amount, an address, or a nested
// resource. The set of implementations is closed.
type Value interface {
	isValue()
}

type amountValue struct {
	value amount.Amount
}

type addressValue struct {
	value common.Address
}

func (amountValue) isValue()  {}
func (addressValue) isValue() {}
func (*Resource) isValue()    {}

// AmountValue wraps a balance amount as a field value.
func AmountValue(value amount.Amount) Value {
	return amountValue{value: value}
}

// AddressValue wraps an owner address as a field value.
func AddressValue(value common.Address) Value {
	return addressValue{value: value}
}

// AsAmount extracts an amount from a field value.
func AsAmount(value Value) (amount.Amount, bool) {
	v, ok := value.(amountValue)
	return v.value, ok
}

// AsAddress extracts an address from a field value.
func AsAddress(value Value) (common.Address, bool) {
	v, ok := value.(addressValue)
	return v.value, ok
}

// AsResource extracts a nested resource from a field value.
func AsResource(value Value) (*Resource, bool) {
	v, ok := value.(*Resource)
	return v, ok
}

// Field is a named field of a resource. Field order is part of the value's
// identity and is preserved by the codec.
type Field struct {
	Name  string
	Value Value
}

// Resource is a linear value of a fixed, fully instantiated type. It is
// exclusively owned: it is moved between storage and the execution context,
// never copied, and it can be destructured exactly once. Every accessor
// fails once the resource has been consumed.
type Resource struct {
	typ      types.TypeKey
	fields   []Field
	consumed bool
}

// NewResource creates a resource of the given type with the given fields.
func NewResource(typ types.TypeKey, fields ...Field) *Resource {
	copied := make([]Field, len(fields))
	copy(copied, fields)
	return &Resource{typ: typ, fields: copied}
}

// Type returns the full type identity of the resource.
func (r *Resource) Type() types.TypeKey {
	return r.typ
}

// Consumed reports whether the resource has been destructured.
func (r *Resource) Consumed() bool {
	return r.consumed
}

// Fields returns a copy of the resource's fields in declaration order.
func (r *Resource) Fields() ([]Field, error) {
	if r.consumed {
		return nil, fmt.Errorf("%w: %s", ErrResourceConsumed, r.typ)
	}
	res := make([]Field, len(r.fields))
	copy(res, r.fields)
	return res, nil
}

// Field returns the value of the named field.
func (r *Resource) Field(name string) (Value, error) {
	if r.consumed {
		return nil, fmt.Errorf("%w: %s", ErrResourceConsumed, r.typ)
	}
	for _, field := range r.fields {
		if field.Name == name {
			return field.Value, nil
		}
	}
	return nil, fmt.Errorf("resource %s has no field %q", r.typ, name)
}

// AmountField returns the named field as an amount.
func (r *Resource) AmountField(name string) (amount.Amount, error) {
	value, err := r.Field(name)
	if err != nil {
		return amount.Amount{}, err
	}
	res, ok := AsAmount(value)
	if !ok {
		return amount.Amount{}, fmt.Errorf("field %q of %s is not an amount", name, r.typ)
	}
	return res, nil
}

// ResourceField returns the named field as a nested resource.
func (r *Resource) ResourceField(name string) (*Resource, error) {
	value, err := r.Field(name)
	if err != nil {
		return nil, err
	}
	res, ok := AsResource(value)
	if !ok {
		return nil, fmt.Errorf("field %q of %s is not a resource", name, r.typ)
	}
	return res, nil
}

// SetField replaces the value of the named field in place. It is the
// mutation primitive used under an exclusive borrow.
func (r *Resource) SetField(name string, value Value) error {
	if r.consumed {
		return fmt.Errorf("%w: %s", ErrResourceConsumed, r.typ)
	}
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = value
			return nil
		}
	}
	return fmt.Errorf("resource %s has no field %q", r.typ, name)
}

// Destructure consumes the resource and returns its fields. After a
// successful call the resource is dead: every further access, including a
// second Destructure, fails with ErrResourceConsumed.
func (r *Resource) Destructure() ([]Field, error) {
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	r.consumed = true
	r.fields = nil
	return fields, nil
}
