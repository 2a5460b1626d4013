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
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/linearvm/storage/types"
)

// AccessDeclaration is the static set of resource types an operation is
// permitted to move out of or borrow from global storage. Declarations are
// expressed per base-type constructor: generic parameters are opaque, so
// declaring a generic constructor covers all of its instantiations, while
// distinct constructors never imply one another. The declaration is enforced
// as a runtime precondition on every guarded access.
type AccessDeclaration struct {
	acquired map[types.Constructor]struct{}
}

// NewAccessDeclaration creates a declaration covering exactly the given
// constructors.
func NewAccessDeclaration(ctors ...types.Constructor) AccessDeclaration {
	acquired := make(map[types.Constructor]struct{}, len(ctors))
	for _, ctor := range ctors {
		acquired[ctor] = struct{}{}
	}
	return AccessDeclaration{acquired: acquired}
}

// Declares reports whether the declaration covers the base-type constructor
// of the given key.
func (d AccessDeclaration) Declares(key types.TypeKey) bool {
	_, ok := d.acquired[key.Constructor()]
	return ok
}

// check validates a guarded access against the declaration.
func (d AccessDeclaration) check(key types.TypeKey) error {
	if !d.Declares(key) {
		return fmt.Errorf("%w: %s is not declared as acquired", ErrUndeclaredAccess, key.Constructor())
	}
	return nil
}

func (d AccessDeclaration) String() string {
	ctors := maps.Keys(d.acquired)
	names := make([]string, len(ctors))
	for i, ctor := range ctors {
		names[i] = ctor.String()
	}
	slices.Sort(names)
	return "acquires(" + strings.Join(names, ", ") + ")"
}
