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

	"github.com/rs/zerolog"

	"github.com/linearvm/storage/backend"
	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/common/async"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

// Store is one instance of the global storage engine: the authoritative,
// in-memory table of all published resources, scoped to a single engine or
// simulated chain. Independent Store instances are fully isolated.
//
// All mutations go through sessions; a session carries the access
// declaration of the operation it executes. The Store itself only exposes
// side-effect-free inspection and snapshotting.
type Store struct {
	table *Table
	log   zerolog.Logger
}

// Option configures a Store during construction.
type Option func(*Store)

// WithLogger attaches a logger to the store. Without it the store is silent.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates an empty storage engine instance.
func NewStore(opts ...Option) *Store {
	store := &Store{
		table: NewTable(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// NewStoreFromBackend creates a storage engine holding the resources of the
// snapshot persisted in the given backend.
func NewStoreFromBackend(db backend.Store, opts ...Option) (*Store, error) {
	store := NewStore(opts...)
	count := 0
	err := db.Iterate(backend.ResourcePrefix(), func(key, blob []byte) error {
		owner, _, err := backend.ParseResourceKey(key)
		if err != nil {
			return err
		}
		value, err := values.Decode(blob)
		if err != nil {
			return fmt.Errorf("failed to decode resource of %s: %w", owner, err)
		}
		count++
		return store.table.MoveTo(owner, value.Type(), value)
	})
	if err != nil {
		return nil, err
	}
	store.log.Debug().Int("resources", count).Msg("restored storage snapshot")
	return store, nil
}

// NewSession opens a session executing one operation with the given access
// declaration.
func (s *Store) NewSession(access AccessDeclaration) *Session {
	return &Session{
		store:  s,
		access: access,
		log:    s.log,
	}
}

// Exists reports whether a resource is published at (owner, key). Existence
// checks are not guarded by access declarations.
func (s *Store) Exists(owner common.Address, key types.TypeKey) bool {
	return s.table.Exists(owner, key)
}

// Resources lists the type identities of all resources published at the
// given address, in a deterministic order.
func (s *Store) Resources(owner common.Address) []types.TypeKey {
	return s.table.Resources(owner)
}

// snapshotEntry is one encoded slot of a snapshot.
type snapshotEntry struct {
	key  backend.ResourceKey
	blob []byte
}

// snapshot encodes all occupied slots in deterministic order. Encoding
// happens synchronously so the result is a consistent view of the table.
func (s *Store) snapshot() ([]snapshotEntry, error) {
	var entries []snapshotEntry
	err := s.table.forEach(func(owner common.Address, key types.TypeKey, value *values.Resource) error {
		blob, err := values.Encode(value)
		if err != nil {
			return err
		}
		entries = append(entries, snapshotEntry{
			key:  backend.NewResourceKey(owner, key.Hash()),
			blob: blob,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// writeSnapshot replaces the resource table space of the backend with the
// given entries and returns the number of entries written.
func writeSnapshot(db backend.Store, entries []snapshotEntry) (int, error) {
	current := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		current[string(e.key.Bytes())] = struct{}{}
	}

	var stale [][]byte
	err := db.Iterate(backend.ResourcePrefix(), func(key, _ []byte) error {
		if _, live := current[string(key)]; !live {
			stale = append(stale, key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, key := range stale {
		if err := db.Delete(key); err != nil {
			return 0, err
		}
	}

	for _, e := range entries {
		if err := db.Put(e.key.Bytes(), e.blob); err != nil {
			return 0, err
		}
	}
	return len(entries), db.Flush()
}

// Flush writes a full snapshot of the table into the given backend,
// replacing any previous snapshot it holds.
func (s *Store) Flush(db backend.Store) error {
	entries, err := s.snapshot()
	if err != nil {
		return err
	}
	count, err := writeSnapshot(db, entries)
	if err != nil {
		return err
	}
	s.log.Debug().Int("resources", count).Msg("flushed storage snapshot")
	return nil
}

// FlushAsync captures a consistent snapshot synchronously and writes it to
// the backend in the background. The returned future resolves to the number
// of resources written.
func (s *Store) FlushAsync(db backend.Store) async.Future[int] {
	entries, err := s.snapshot()
	if err != nil {
		return async.Failed[int](err)
	}
	promise, future := async.Create[int]()
	go func() {
		promise.Fulfill(writeSnapshot(db, entries))
	}()
	return future
}
