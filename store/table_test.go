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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/common/amount"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

func btcCoinKey() types.TypeKey {
	return types.NewTypeKey("Dfinance", "T", types.NewTypeKey("Coins", "BTC"))
}

func usdCoinKey() types.TypeKey {
	return types.NewTypeKey("Dfinance", "T", types.NewTypeKey("Coins", "USD"))
}

func newCoinValue(key types.TypeKey, value uint64) *values.Resource {
	return values.NewResource(key,
		values.Field{Name: "value", Value: values.AmountValue(amount.NewFromUint64(value))})
}

func TestTable_Exists_FalseForAbsentSlot(t *testing.T) {
	table := NewTable()
	require.False(t, table.Exists(common.Address{0x01}, btcCoinKey()))
}

func TestTable_MoveTo_PublishesResource(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}

	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))
	require.True(table.Exists(owner, btcCoinKey()))
}

func TestTable_MoveTo_SecondStoreFails(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}

	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))
	err := table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 20))
	require.ErrorIs(err, ErrResourceAlreadyExists)

	// The stored value is untouched by the failed attempt.
	ref, err := table.Borrow(owner, btcCoinKey())
	require.NoError(err)
	defer ref.Release()
	stored, err := ref.Value().AmountField("value")
	require.NoError(err)
	require.Equal(uint64(10), stored.Uint64())
}

func TestTable_MoveTo_RejectsMismatchedType(t *testing.T) {
	table := NewTable()
	err := table.MoveTo(common.Address{0x01}, btcCoinKey(), newCoinValue(usdCoinKey(), 10))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestTable_MoveTo_RejectsConsumedValue(t *testing.T) {
	require := require.New(t)
	table := NewTable()

	value := newCoinValue(btcCoinKey(), 10)
	_, err := value.Destructure()
	require.NoError(err)

	err = table.MoveTo(common.Address{0x01}, btcCoinKey(), value)
	require.ErrorIs(err, values.ErrResourceConsumed)
	require.False(table.Exists(common.Address{0x01}, btcCoinKey()))
}

func TestTable_SlotsAreDistinctPerTypeArgument(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}

	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 1)))
	require.NoError(table.MoveTo(owner, usdCoinKey(), newCoinValue(usdCoinKey(), 2)))
	require.True(table.Exists(owner, btcCoinKey()))
	require.True(table.Exists(owner, usdCoinKey()))
}

func TestTable_SlotsAreDistinctPerOwner(t *testing.T) {
	require := require.New(t)
	table := NewTable()

	require.NoError(table.MoveTo(common.Address{0x01}, btcCoinKey(), newCoinValue(btcCoinKey(), 1)))
	require.False(table.Exists(common.Address{0x02}, btcCoinKey()))
}

func TestTable_MoveFrom_TransfersOwnership(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}

	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))
	value, err := table.MoveFrom(owner, btcCoinKey())
	require.NoError(err)
	require.True(value.Type().Equal(btcCoinKey()))

	// The slot is empty after the move-out.
	require.False(table.Exists(owner, btcCoinKey()))
	_, err = table.MoveFrom(owner, btcCoinKey())
	require.ErrorIs(err, ErrMissingResource)
}

func TestTable_MoveFrom_AbsentSlot(t *testing.T) {
	table := NewTable()
	_, err := table.MoveFrom(common.Address{0x01}, btcCoinKey())
	require.ErrorIs(t, err, ErrMissingResource)
}

func TestTable_MoveFrom_ThenMoveTo_Succeeds(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}

	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))
	value, err := table.MoveFrom(owner, btcCoinKey())
	require.NoError(err)
	require.NoError(table.MoveTo(owner, btcCoinKey(), value))
	require.True(table.Exists(owner, btcCoinKey()))
}

func TestTable_Borrow_AbsentSlot(t *testing.T) {
	require := require.New(t)
	table := NewTable()

	_, err := table.Borrow(common.Address{0x01}, btcCoinKey())
	require.ErrorIs(err, ErrMissingResource)
	_, err = table.BorrowMut(common.Address{0x01}, btcCoinKey())
	require.ErrorIs(err, ErrMissingResource)
}

func TestTable_Borrow_SharedBorrowsCoexist(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}
	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))

	first, err := table.Borrow(owner, btcCoinKey())
	require.NoError(err)
	second, err := table.Borrow(owner, btcCoinKey())
	require.NoError(err)
	first.Release()
	second.Release()
}

func TestTable_BorrowMut_IsExclusive(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}
	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))

	ref, err := table.BorrowMut(owner, btcCoinKey())
	require.NoError(err)

	_, err = table.BorrowMut(owner, btcCoinKey())
	require.ErrorIs(err, ErrCellBorrowed)
	_, err = table.Borrow(owner, btcCoinKey())
	require.ErrorIs(err, ErrCellBorrowed)

	ref.Release()
	shared, err := table.Borrow(owner, btcCoinKey())
	require.NoError(err)
	shared.Release()
}

func TestTable_BorrowMut_BlockedBySharedBorrow(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}
	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))

	shared, err := table.Borrow(owner, btcCoinKey())
	require.NoError(err)

	_, err = table.BorrowMut(owner, btcCoinKey())
	require.ErrorIs(err, ErrCellBorrowed)

	shared.Release()
	ref, err := table.BorrowMut(owner, btcCoinKey())
	require.NoError(err)
	ref.Release()
}

func TestTable_MoveFrom_BlockedByOutstandingBorrow(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}
	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))

	ref, err := table.Borrow(owner, btcCoinKey())
	require.NoError(err)

	_, err = table.MoveFrom(owner, btcCoinKey())
	require.ErrorIs(err, ErrCellBorrowed)
	require.True(table.Exists(owner, btcCoinKey()))

	ref.Release()
	_, err = table.MoveFrom(owner, btcCoinKey())
	require.NoError(err)
}

func TestRef_Value_NilAfterRelease(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}
	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))

	ref, err := table.Borrow(owner, btcCoinKey())
	require.NoError(err)
	require.NotNil(ref.Value())
	ref.Release()
	require.Nil(ref.Value())

	mut, err := table.BorrowMut(owner, btcCoinKey())
	require.NoError(err)
	require.NotNil(mut.Value())
	mut.Release()
	require.Nil(mut.Value())
}

func TestRef_Release_IsIdempotent(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}
	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 10)))

	ref, err := table.Borrow(owner, btcCoinKey())
	require.NoError(err)
	ref.Release()
	ref.Release()

	// The slot is free again once, not twice.
	mut, err := table.BorrowMut(owner, btcCoinKey())
	require.NoError(err)
	mut.Release()
}

func TestTable_Resources_ListsOccupiedSlotsDeterministically(t *testing.T) {
	require := require.New(t)
	table := NewTable()
	owner := common.Address{0x01}
	other := common.Address{0x02}

	require.NoError(table.MoveTo(owner, btcCoinKey(), newCoinValue(btcCoinKey(), 1)))
	require.NoError(table.MoveTo(owner, usdCoinKey(), newCoinValue(usdCoinKey(), 2)))
	require.NoError(table.MoveTo(other, btcCoinKey(), newCoinValue(btcCoinKey(), 3)))

	listed := table.Resources(owner)
	require.Len(listed, 2)
	require.Equal(listed, table.Resources(owner))

	found := map[string]bool{}
	for _, key := range listed {
		found[key.ID()] = true
	}
	require.True(found[btcCoinKey().ID()])
	require.True(found[usdCoinKey().ID()])

	require.Empty(table.Resources(common.Address{0x03}))
}
