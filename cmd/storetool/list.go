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
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/linearvm/storage/account"
	"github.com/linearvm/storage/backend"
	"github.com/linearvm/storage/backend/ldb"
	"github.com/linearvm/storage/backend/sqlite"
	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/common/diagnostics"
	"github.com/linearvm/storage/values"
)

var (
	dbFlag = cli.StringFlag{
		Name:     "db",
		Usage:    "path of the snapshot database",
		Required: true,
	}
	backendFlag = cli.StringFlag{
		Name:  "backend",
		Usage: "snapshot database format, leveldb or sqlite",
		Value: "leveldb",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "restrict the listing to one owner address (hex)",
	}
)

// List prints the resources held by a persisted storage snapshot.
var List = cli.Command{
	Name:   "list",
	Usage:  "lists the resources of a storage snapshot",
	Flags:  []cli.Flag{&dbFlag, &backendFlag, &addressFlag},
	Action: diagnostics.WrapAction(list),
}

func openBackend(context *cli.Context) (backend.Store, error) {
	path := context.String(dbFlag.Name)
	switch format := context.String(backendFlag.Name); format {
	case "leveldb":
		return ldb.Open(path)
	case "sqlite":
		return sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unknown backend format %q", format)
	}
}

func list(context *cli.Context) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	db, err := openBackend(context)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close backend")
		}
	}()

	prefix := backend.ResourcePrefix()
	if filter := context.String(addressFlag.Name); filter != "" {
		raw, err := hex.DecodeString(strings.TrimPrefix(filter, "0x"))
		if err != nil {
			return fmt.Errorf("invalid address filter: %w", err)
		}
		owner, err := common.AddressFromBytes(raw)
		if err != nil {
			return err
		}
		prefix = backend.OwnerPrefix(owner)
	}

	count := 0
	err = db.Iterate(prefix, func(key, blob []byte) error {
		owner, _, err := backend.ParseResourceKey(key)
		if err != nil {
			return err
		}
		value, err := values.Decode(blob)
		if err != nil {
			return err
		}
		count++
		fmt.Printf("%s  %s%s\n", owner, value.Type(), describeBalance(value))
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Int("resources", count).Msg("listing complete")
	return nil
}

// describeBalance renders the stored amount of balance resources; other
// resource types are listed by type only.
func describeBalance(value *values.Resource) string {
	if value.Type().Constructor() != account.BalanceConstructor() {
		return ""
	}
	coin, err := value.ResourceField("coin")
	if err != nil {
		return ""
	}
	stored, err := account.CoinValue(coin)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("  amount=%s", stored)
}
