// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package backend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linearvm/storage/common"
)

func TestResourceKey_RoundTrips(t *testing.T) {
	require := require.New(t)

	owner := common.Address{0x01, 0x02}
	typeHash := common.Hash{0xAA, 0xBB}
	key := NewResourceKey(owner, typeHash)

	parsedOwner, parsedHash, err := ParseResourceKey(key.Bytes())
	require.NoError(err)
	require.Equal(owner, parsedOwner)
	require.Equal(typeHash, parsedHash)
}

func TestParseResourceKey_RejectsWrongLength(t *testing.T) {
	_, _, err := ParseResourceKey([]byte{byte(ResourceTableSpace), 0x01})
	require.Error(t, err)
}

func TestParseResourceKey_RejectsWrongTableSpace(t *testing.T) {
	key := NewResourceKey(common.Address{0x01}, common.Hash{0x02})
	raw := key.Bytes()
	raw[0] = 'X'
	_, _, err := ParseResourceKey(raw)
	require.Error(t, err)
}

func TestOwnerPrefix_IsPrefixOfResourceKeys(t *testing.T) {
	require := require.New(t)

	owner := common.Address{0x07}
	key := NewResourceKey(owner, common.Hash{0xFF})
	prefix := OwnerPrefix(owner)
	require.Equal(prefix, key.Bytes()[:len(prefix)])
	require.Equal(ResourcePrefix(), prefix[:1])
}
