// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package memory

import (
	"bytes"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/linearvm/storage/backend"
)

var _ backend.Store = (*Store)(nil)

// Store is an in-memory backend.Store implementation, intended for tests and
// for embedders that do not need snapshots to survive the process.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: map[string][]byte{}}
}

func (s *Store) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, exists := s.data[string(key)]
	if !exists {
		return nil, backend.ErrNotFound
	}
	return bytes.Clone(value), nil
}

func (s *Store) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(key)] = bytes.Clone(value)
	return nil
}

func (s *Store) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, string(key))
	return nil
}

func (s *Store) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	s.mu.Lock()
	keys := maps.Keys(s.data)
	s.mu.Unlock()
	slices.Sort(keys)

	for _, key := range keys {
		if !strings.HasPrefix(key, string(prefix)) {
			continue
		}
		s.mu.Lock()
		value, exists := s.data[key]
		s.mu.Unlock()
		if !exists {
			continue
		}
		if err := fn([]byte(key), bytes.Clone(value)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Flush() error {
	return nil
}

func (s *Store) Close() error {
	return nil
}
