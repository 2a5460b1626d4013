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
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/common/amount"
	"github.com/linearvm/storage/event"
	"github.com/linearvm/storage/store"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

// Bank executes the balance protocol against a storage engine. Its guarded
// operations run with an access declaration acquiring the generic balance
// constructor, covering balances of every token.
type Bank struct {
	store  *store.Store
	events *event.Writer
	log    zerolog.Logger
}

// Option configures a Bank during construction.
type Option func(*Bank)

// WithEventWriter makes the bank emit deposit and withdrawal events through
// the given writer.
func WithEventWriter(events *event.Writer) Option {
	return func(b *Bank) {
		b.events = events
	}
}

// WithLogger attaches a logger to the bank.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Bank) {
		b.log = log
	}
}

// NewBank creates a Bank operating on the given storage engine.
func NewBank(store *store.Store, opts ...Option) *Bank {
	bank := &Bank{
		store: store,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(bank)
	}
	return bank
}

func balanceAccess() store.AccessDeclaration {
	return store.NewAccessDeclaration(BalanceConstructor())
}

// Store publishes a balance of the given token and initial amount under the
// owner's address. Publishing a second balance of the same token fails with
// ErrResourceAlreadyExists.
func (b *Bank) Store(owner common.Address, token types.TypeKey, value amount.Amount) error {
	session := b.store.NewSession(store.NewAccessDeclaration())
	return session.MoveTo(owner, BalanceKey(token), NewBalance(token, value))
}

// StoreBalance is Store addressed by signer: it publishes the balance under
// the sender's own address.
func (b *Bank) StoreBalance(signer common.Signer, token types.TypeKey, value amount.Amount) error {
	return b.Store(signer.Address(), token, value)
}

// Withdraw splits the requested amount off the balance stored at the
// owner's address and returns it as a standalone coin. The stored balance
// remains published with the reduced amount; on any failure it is left
// untouched.
func (b *Bank) Withdraw(owner common.Address, token types.TypeKey, value amount.Amount) (*values.Resource, error) {
	session := b.store.NewSession(balanceAccess())
	ref, err := session.BorrowMut(owner, BalanceKey(token))
	if err != nil {
		return nil, err
	}
	defer ref.Release()

	coin, err := ref.Value().ResourceField(coinField)
	if err != nil {
		return nil, err
	}
	stored, err := coin.AmountField(valueField)
	if err != nil {
		return nil, err
	}
	if stored.Less(value) {
		return nil, fmt.Errorf("%w: requested %s, stored %s", ErrInsufficientBalance, value, stored)
	}
	rest, err := amount.Sub(stored, value)
	if err != nil {
		return nil, err
	}

	// Deliver the event before touching the stored value; a rejected event
	// aborts the withdrawal with the balance unchanged. Past this point no
	// step can fail.
	if err := b.emit(owner, withdrawEventPayload(token, value)); err != nil {
		return nil, err
	}
	if err := coin.SetField(valueField, values.AmountValue(rest)); err != nil {
		return nil, err
	}

	b.log.Debug().
		Stringer("owner", owner).
		Stringer("token", token).
		Stringer("amount", value).
		Msg("withdrawn")
	return NewCoin(token, value), nil
}

// WithdrawFromSender is Withdraw addressed by signer.
func (b *Bank) WithdrawFromSender(signer common.Signer, token types.TypeKey, value amount.Amount) (*values.Resource, error) {
	return b.Withdraw(signer.Address(), token, value)
}

// Deposit consumes the incoming coin and adds its value to the balance
// stored at the owner's address. A zero-valued coin is rejected, and on any
// failure the incoming coin remains usable and the stored balance untouched.
func (b *Bank) Deposit(owner common.Address, incoming *values.Resource) error {
	token, err := CoinToken(incoming)
	if err != nil {
		return err
	}
	value, err := incoming.AmountField(valueField)
	if err != nil {
		return err
	}
	if value.IsZero() {
		return fmt.Errorf("%w: deposited coin must hold a positive amount", ErrInvalidDepositAmount)
	}

	session := b.store.NewSession(balanceAccess())
	ref, err := session.BorrowMut(owner, BalanceKey(token))
	if err != nil {
		return err
	}
	defer ref.Release()

	coin, err := ref.Value().ResourceField(coinField)
	if err != nil {
		return err
	}
	stored, err := coin.AmountField(valueField)
	if err != nil {
		return err
	}
	sum, err := amount.Add(stored, value)
	if err != nil {
		return err
	}

	// Deliver the event before consuming the coin or touching the stored
	// value; a rejected event aborts the deposit with the coin still usable
	// and the balance unchanged. Past this point no step can fail.
	if err := b.emit(owner, depositEventPayload(token, value)); err != nil {
		return err
	}
	if _, err := incoming.Destructure(); err != nil {
		return err
	}
	if err := coin.SetField(valueField, values.AmountValue(sum)); err != nil {
		return err
	}

	b.log.Debug().
		Stringer("owner", owner).
		Stringer("token", token).
		Stringer("amount", value).
		Msg("deposited")
	return nil
}

// DepositToSender is Deposit addressed by signer.
func (b *Bank) DepositToSender(signer common.Signer, incoming *values.Resource) error {
	return b.Deposit(signer.Address(), incoming)
}

// Transfer withdraws the given amount from the sender's balance and
// deposits it into the balance stored at the receiving address. If the
// deposit leg fails, the withdrawn coin is deposited back into the sender's
// balance, so a failed transfer never destroys value; the refund emits a
// regular deposit event to the sender.
func (b *Bank) Transfer(from common.Signer, to common.Address, token types.TypeKey, value amount.Amount) error {
	coin, err := b.Withdraw(from.Address(), token, value)
	if err != nil {
		return err
	}
	if err := b.Deposit(to, coin); err != nil {
		// A failed deposit leaves the coin usable, and the sender's
		// balance is known to exist since the withdrawal succeeded.
		if refundErr := b.Deposit(from.Address(), coin); refundErr != nil {
			return errors.Join(err, refundErr)
		}
		return err
	}
	return nil
}

// BalanceOf returns the amount stored in the balance of the given token at
// the given address.
func (b *Bank) BalanceOf(owner common.Address, token types.TypeKey) (amount.Amount, error) {
	session := b.store.NewSession(balanceAccess())
	ref, err := session.Borrow(owner, BalanceKey(token))
	if err != nil {
		return amount.Amount{}, err
	}
	defer ref.Release()

	coin, err := ref.Value().ResourceField(coinField)
	if err != nil {
		return amount.Amount{}, err
	}
	return coin.AmountField(valueField)
}

func (b *Bank) emit(owner common.Address, payload *values.Resource) error {
	if b.events == nil {
		return nil
	}
	return b.events.Write(owner, payload)
}
