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
	"errors"
	"fmt"
	"strings"
)

// ErrUnboundTypeParameter is returned when a type expression references a
// free type parameter that has no binding in the resolution environment.
var ErrUnboundTypeParameter = errors.New("unbound type parameter")

// ErrArityMismatch is returned when the number of type arguments supplied to
// a base type does not match its declared arity.
var ErrArityMismatch = errors.New("type arity mismatch")

// Expr is a type expression: either a reference to a free type parameter or
// the application of a base type to an ordered list of argument expressions.
// Expressions are the transient input of resolution; only the resulting
// TypeKey is ever stored.
type Expr struct {
	param  string
	module string
	name   string
	args   []Expr
}

// Apply creates the expression applying the named base type to the given
// argument expressions.
func Apply(module, name string, args ...Expr) Expr {
	var copied []Expr
	if len(args) > 0 {
		copied = make([]Expr, len(args))
		copy(copied, args)
	}
	return Expr{module: module, name: name, args: copied}
}

// Param creates an expression referencing the free type parameter with the
// given name. The parameter must be bound during resolution.
func Param(name string) Expr {
	return Expr{param: name}
}

// Literal lifts an already resolved key back into an expression, allowing
// concrete types to be spliced into generic expressions.
func Literal(key TypeKey) Expr {
	args := make([]Expr, len(key.args))
	for i, arg := range key.args {
		args[i] = Literal(arg)
	}
	return Apply(key.module, key.name, args...)
}

func (e Expr) String() string {
	if e.param != "" {
		return e.param
	}
	var parts []string
	for _, arg := range e.args {
		parts = append(parts, arg.String())
	}
	if len(parts) == 0 {
		return e.module + "::" + e.name
	}
	return e.module + "::" + e.name + "<" + strings.Join(parts, ", ") + ">"
}

// Bindings maps free type parameter names to the concrete keys they stand
// for during one resolution call.
type Bindings map[string]TypeKey

// Declarations supplies the declared arity of base types. It is the
// interface boundary to the module/type-declaration table of the loading
// layer; the resolver consults it to reject ill-formed instantiations.
type Declarations interface {
	// Arity returns the number of type parameters the given base type is
	// declared with, or an error if the type is unknown.
	Arity(ctor Constructor) (int, error)
}

// DeclarationTable is an in-memory Declarations implementation, mapping
// constructors to their arity.
type DeclarationTable map[Constructor]int

var _ Declarations = DeclarationTable{}

func (t DeclarationTable) Arity(ctor Constructor) (int, error) {
	arity, exists := t[ctor]
	if !exists {
		return 0, fmt.Errorf("unknown type constructor %s", ctor)
	}
	return arity, nil
}

// Resolve computes the canonical TypeKey of the given type expression,
// substituting free parameters from the bindings and validating every base
// type application against its declared arity. Resolution is purely
// functional: the same expression and bindings always produce structurally
// equal keys.
func Resolve(expr Expr, bindings Bindings, decls Declarations) (TypeKey, error) {
	if expr.param != "" {
		key, bound := bindings[expr.param]
		if !bound {
			return TypeKey{}, fmt.Errorf("%w: %s", ErrUnboundTypeParameter, expr.param)
		}
		return key, nil
	}

	ctor := Constructor{Module: expr.module, Name: expr.name}
	arity, err := decls.Arity(ctor)
	if err != nil {
		return TypeKey{}, err
	}
	if arity != len(expr.args) {
		return TypeKey{}, fmt.Errorf("%w: %s declared with %d parameters, got %d arguments",
			ErrArityMismatch, ctor, arity, len(expr.args))
	}

	args := make([]TypeKey, len(expr.args))
	for i, arg := range expr.args {
		key, err := Resolve(arg, bindings, decls)
		if err != nil {
			return TypeKey{}, err
		}
		args[i] = key
	}
	return NewTypeKey(expr.module, expr.name, args...), nil
}
