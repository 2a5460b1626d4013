// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package account

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linearvm/storage/common/amount"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

func btc() types.TypeKey {
	return types.NewTypeKey("Coins", "BTC")
}

func usd() types.TypeKey {
	return types.NewTypeKey("Coins", "USD")
}

func TestBalanceKey_EmbedsToken(t *testing.T) {
	require := require.New(t)
	key := BalanceKey(btc())
	require.Equal(BalanceConstructor(), key.Constructor())
	require.Equal("Account::Balance<Coins::BTC>", key.String())
	require.False(key.Equal(BalanceKey(usd())))
}

func TestCoinKey_EmbedsToken(t *testing.T) {
	require := require.New(t)
	key := CoinKey(btc())
	require.Equal(CoinConstructor(), key.Constructor())
	require.Equal("Dfinance::T<Coins::BTC>", key.String())
	require.False(key.Equal(CoinKey(usd())))
}

func TestCoinToken_ExtractsToken(t *testing.T) {
	coin := NewCoin(btc(), amount.NewFromUint64(5))
	token, err := CoinToken(coin)
	require.NoError(t, err)
	require.True(t, token.Equal(btc()))
}

func TestCoinToken_RejectsNonCoinResources(t *testing.T) {
	tests := map[string]*values.Resource{
		"balance":           NewBalance(btc(), amount.NewFromUint64(5)),
		"wrong constructor": values.NewResource(types.NewTypeKey("Dfinance", "Info", btc())),
		"non-generic":       values.NewResource(types.NewTypeKey("Dfinance", "T")),
	}
	for name, resource := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := CoinToken(resource)
			require.ErrorContains(t, err, "is not a coin")
		})
	}
}

func TestCoinValue_ReturnsHeldAmount(t *testing.T) {
	require := require.New(t)
	value, err := CoinValue(NewCoin(btc(), amount.NewFromUint64(123)))
	require.NoError(err)
	require.True(value.Equal(amount.NewFromUint64(123)))

	_, err = CoinValue(NewBalance(btc(), amount.NewFromUint64(123)))
	require.ErrorContains(err, "is not a coin")
}

func TestNewBalance_WrapsCoinOfSameToken(t *testing.T) {
	require := require.New(t)
	balance := NewBalance(btc(), amount.NewFromUint64(7))
	require.True(balance.Type().Equal(BalanceKey(btc())))

	coin, err := balance.ResourceField("coin")
	require.NoError(err)
	token, err := CoinToken(coin)
	require.NoError(err)
	require.True(token.Equal(btc()))
	value, err := CoinValue(coin)
	require.NoError(err)
	require.True(value.Equal(amount.NewFromUint64(7)))
}

func TestDeclarations_CoverBalanceAndCoin(t *testing.T) {
	table := types.DeclarationTable(Declarations())
	for _, ctor := range []types.Constructor{BalanceConstructor(), CoinConstructor()} {
		arity, err := table.Arity(ctor)
		require.NoError(t, err)
		require.Equal(t, 1, arity)
	}
}
