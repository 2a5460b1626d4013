// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package event delivers storage-level events, such as balance changes, to
// an embedder-provided handler. The engine only serializes and sequences
// events; routing and persistence are the handler's business.
package event

import (
	"fmt"

	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

// Handler consumes events emitted during execution.
type Handler interface {
	// HandleEvent receives the emitting address, the per-address sequence
	// number, the type identity of the payload, and the encoded payload.
	HandleEvent(owner common.Address, seq uint64, key types.TypeKey, payload []byte) error
}

// Writer serializes event payloads and assigns per-address sequence numbers
// before handing events to the handler.
type Writer struct {
	handler Handler
	seq     map[common.Address]uint64
}

// NewWriter creates a Writer delivering to the given handler.
func NewWriter(handler Handler) *Writer {
	return &Writer{
		handler: handler,
		seq:     map[common.Address]uint64{},
	}
}

// Write encodes the payload and delivers it as the next event of the given
// address. The sequence number is only advanced on successful delivery.
func (w *Writer) Write(owner common.Address, payload *values.Resource) error {
	blob, err := values.Encode(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event payload: %w", err)
	}
	seq := w.seq[owner]
	if err := w.handler.HandleEvent(owner, seq, payload.Type(), blob); err != nil {
		return err
	}
	w.seq[owner] = seq + 1
	return nil
}
