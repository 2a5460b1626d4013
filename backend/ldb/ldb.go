// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ldb

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pbnjay/memory"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/linearvm/storage/backend"
)

// The fraction of total system memory granted to the LevelDB block cache.
const cacheMemoryFraction = 100

// maxCacheSize caps the block cache at 2 GiB regardless of system size.
const maxCacheSize = 2 << 30

var _ backend.Store = (*Store)(nil)

// Store is a backend.Store persisting snapshot blobs in a LevelDB instance.
type Store struct {
	db *leveldb.DB
}

// Open opens (or creates) a LevelDB-backed store in the given directory.
func Open(path string) (*Store, error) {
	cacheSize := memory.TotalMemory() / cacheMemoryFraction
	if cacheSize > maxCacheSize {
		cacheSize = maxCacheSize
	}
	options := &opt.Options{
		BlockCacheCapacity: int(cacheSize),
	}
	db, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, backend.ErrNotFound
	}
	return value, err
}

func (s *Store) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *Store) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

func (s *Store) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		key := bytes.Clone(iter.Key())
		value := bytes.Clone(iter.Value())
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *Store) Flush() error {
	// LevelDB writes are not buffered on this side of the API.
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
