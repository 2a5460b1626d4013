// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package account composes the storage primitives into the balance protocol:
// publishing balances, withdrawing coins, and depositing them. A balance of
// a token is a Account::Balance<token> resource wrapping a Dfinance::T<token>
// coin, whose value field holds the amount.
package account

import (
	"errors"
	"fmt"

	"github.com/linearvm/storage/common/amount"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

var (
	// ErrInsufficientBalance is returned by a withdrawal exceeding the
	// stored amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidDepositAmount is returned by a deposit of a zero amount.
	ErrInvalidDepositAmount = errors.New("invalid deposit amount")
)

const (
	accountModule = "Account"
	balanceStruct = "Balance"

	coinModule = "Dfinance"
	coinStruct = "T"

	coinField  = "coin"
	valueField = "value"

	depositEventStruct  = "DepositEvent"
	withdrawEventStruct = "WithdrawEvent"
)

// BalanceConstructor returns the generic constructor of balance resources,
// the constructor an operation declares to acquire balances of any token.
func BalanceConstructor() types.Constructor {
	return types.Constructor{Module: accountModule, Name: balanceStruct}
}

// CoinConstructor returns the generic constructor of coin resources.
func CoinConstructor() types.Constructor {
	return types.Constructor{Module: coinModule, Name: coinStruct}
}

// BalanceKey returns the type identity of the balance of the given token.
func BalanceKey(token types.TypeKey) types.TypeKey {
	return types.NewTypeKey(accountModule, balanceStruct, token)
}

// CoinKey returns the type identity of a coin of the given token.
func CoinKey(token types.TypeKey) types.TypeKey {
	return types.NewTypeKey(coinModule, coinStruct, token)
}

// NewCoin creates a standalone coin resource of the given token and amount.
func NewCoin(token types.TypeKey, value amount.Amount) *values.Resource {
	return values.NewResource(CoinKey(token),
		values.Field{Name: valueField, Value: values.AmountValue(value)})
}

// NewBalance creates a balance resource of the given token holding the
// given initial amount.
func NewBalance(token types.TypeKey, value amount.Amount) *values.Resource {
	return values.NewResource(BalanceKey(token),
		values.Field{Name: coinField, Value: NewCoin(token, value)})
}

// CoinToken returns the token type of a coin resource, rejecting values that
// are not coins.
func CoinToken(coin *values.Resource) (types.TypeKey, error) {
	key := coin.Type()
	args := key.Args()
	if key.Constructor() != CoinConstructor() || len(args) != 1 {
		return types.TypeKey{}, fmt.Errorf("value of type %s is not a coin", key)
	}
	return args[0], nil
}

// CoinValue returns the amount held by a coin resource.
func CoinValue(coin *values.Resource) (amount.Amount, error) {
	if _, err := CoinToken(coin); err != nil {
		return amount.Amount{}, err
	}
	return coin.AmountField(valueField)
}

func depositEventPayload(token types.TypeKey, value amount.Amount) *values.Resource {
	return values.NewResource(
		types.NewTypeKey(accountModule, depositEventStruct, token),
		values.Field{Name: valueField, Value: values.AmountValue(value)})
}

func withdrawEventPayload(token types.TypeKey, value amount.Amount) *values.Resource {
	return values.NewResource(
		types.NewTypeKey(accountModule, withdrawEventStruct, token),
		values.Field{Name: valueField, Value: values.AmountValue(value)})
}

// Declarations returns the arity table of the types this package works
// with, for registration with a type-declaration source.
func Declarations() map[types.Constructor]int {
	return map[types.Constructor]int{
		BalanceConstructor(): 1,
		CoinConstructor():    1,
	}
}
