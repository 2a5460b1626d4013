// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package event

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/linearvm/storage/common"
	"github.com/linearvm/storage/common/amount"
	"github.com/linearvm/storage/types"
	"github.com/linearvm/storage/values"
)

func sentEventKey() types.TypeKey {
	return types.NewTypeKey("Account", "SentPaymentEvent")
}

func sentEventPayload(value uint64) *values.Resource {
	return values.NewResource(sentEventKey(), values.Field{
		Name:  "amount",
		Value: values.AmountValue(amount.NewFromUint64(value)),
	})
}

func TestWriter_Write_DeliversEncodedPayload(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	handler := NewMockHandler(ctrl)

	owner := common.Address{1}
	var delivered []byte
	handler.EXPECT().
		HandleEvent(owner, uint64(0), sentEventKey(), gomock.Any()).
		DoAndReturn(func(_ common.Address, _ uint64, _ types.TypeKey, payload []byte) error {
			delivered = payload
			return nil
		})

	writer := NewWriter(handler)
	require.NoError(writer.Write(owner, sentEventPayload(42)))

	decoded, err := values.Decode(delivered)
	require.NoError(err)
	require.True(decoded.Type().Equal(sentEventKey()))
	got, err := decoded.AmountField("amount")
	require.NoError(err)
	require.True(got.Equal(amount.NewFromUint64(42)))
}

func TestWriter_Write_SequencesPerAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewMockHandler(ctrl)

	alice := common.Address{1}
	bob := common.Address{2}
	gomock.InOrder(
		handler.EXPECT().HandleEvent(alice, uint64(0), gomock.Any(), gomock.Any()),
		handler.EXPECT().HandleEvent(alice, uint64(1), gomock.Any(), gomock.Any()),
		handler.EXPECT().HandleEvent(bob, uint64(0), gomock.Any(), gomock.Any()),
		handler.EXPECT().HandleEvent(alice, uint64(2), gomock.Any(), gomock.Any()),
	)

	writer := NewWriter(handler)
	require.NoError(t, writer.Write(alice, sentEventPayload(1)))
	require.NoError(t, writer.Write(alice, sentEventPayload(2)))
	require.NoError(t, writer.Write(bob, sentEventPayload(3)))
	require.NoError(t, writer.Write(alice, sentEventPayload(4)))
}

func TestWriter_Write_FailedDeliveryDoesNotAdvanceSequence(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	handler := NewMockHandler(ctrl)

	owner := common.Address{1}
	injected := fmt.Errorf("injected error")
	gomock.InOrder(
		handler.EXPECT().HandleEvent(owner, uint64(0), gomock.Any(), gomock.Any()).Return(injected),
		handler.EXPECT().HandleEvent(owner, uint64(0), gomock.Any(), gomock.Any()).Return(nil),
	)

	writer := NewWriter(handler)
	require.ErrorIs(writer.Write(owner, sentEventPayload(1)), injected)
	require.NoError(writer.Write(owner, sentEventPayload(1)))
}

func TestWriter_Write_RejectsConsumedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewMockHandler(ctrl)

	payload := sentEventPayload(1)
	_, err := payload.Destructure()
	require.NoError(t, err)

	writer := NewWriter(handler)
	require.ErrorIs(t, writer.Write(common.Address{1}, payload), values.ErrResourceConsumed)
}