// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/linearvm/storage/account"
	"github.com/linearvm/storage/backend/sqlite"
	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/common/amount"
	"github.com/linearvm/storage/store"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

func TestStoretool_List_ReadsSnapshot(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	engine := store.NewStore()
	bank := account.NewBank(engine)
	token := types.NewTypeKey("Coins", "BTC")
	require.NoError(bank.Store(common.Address{1}, token, amount.NewFromUint64(1000)))

	db, err := sqlite.Open(filepath.Join(dir, "slots.db"))
	require.NoError(err)
	require.NoError(engine.Flush(db))
	require.NoError(db.Close())

	app := cli.App{Commands: []*cli.Command{&List}}
	require.NoError(app.Run([]string{
		"storetool", "list",
		"--db", filepath.Join(dir, "slots.db"),
		"--backend", "sqlite",
	}))
}

func TestStoretool_List_RejectsUnknownBackend(t *testing.T) {
	app := cli.App{Commands: []*cli.Command{&List}}
	err := app.Run([]string{
		"storetool", "list",
		"--db", t.TempDir(),
		"--backend", "rocksdb",
	})
	require.ErrorContains(t, err, "unknown backend format")
}

func TestStoretool_List_RejectsInvalidAddressFilter(t *testing.T) {
	app := cli.App{Commands: []*cli.Command{&List}}
	err := app.Run([]string{
		"storetool", "list",
		"--db", filepath.Join(t.TempDir(), "slots.db"),
		"--backend", "sqlite",
		"--address", "not-hex",
	})
	require.ErrorContains(t, err, "invalid address filter")
}

func TestDescribeBalance_RendersBalanceAmounts(t *testing.T) {
	require := require.New(t)
	token := types.NewTypeKey("Coins", "BTC")
	require.Equal("  amount=500",
		describeBalance(account.NewBalance(token, amount.NewFromUint64(500))))
	require.Equal("", describeBalance(account.NewCoin(token, amount.NewFromUint64(500))))
	require.Equal("", describeBalance(values.NewResource(types.NewTypeKey("Store", "Lock1"))))
}
