package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockUpdateMessage(t *testing.T) {
	msg := NewStockUpdateMessage(7, "Widget", 10, 13)

	require.NotNil(t, msg.Data)
	assert.Equal(t, MessageStockUpdate, msg.Type)
	assert.Equal(t, uint(7), msg.Data.ProductID)
	assert.Equal(t, "Widget", msg.Data.ProductName)
	assert.Equal(t, 10, msg.Data.OldQuantity)
	assert.Equal(t, 13, msg.Data.NewQuantity)
	assert.Equal(t, 3, msg.Data.Change)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestStockUpdateChangeCanBeNegative(t *testing.T) {
	msg := NewStockUpdateMessage(1, "Widget", 5, 2)

	require.NotNil(t, msg.Data)
	assert.Equal(t, -3, msg.Data.Change)
}

func TestEncodeProducesOneNewlineTerminatedFrame(t *testing.T) {
	frame, err := NewPongMessage().Encode()
	require.NoError(t, err)

	require.NotEmpty(t, frame)
	assert.Equal(t, byte('\n'), frame[len(frame)-1])

	var decoded Message
	require.NoError(t, json.Unmarshal(frame[:len(frame)-1], &decoded))
	assert.Equal(t, MessagePong, decoded.Type)
}

func TestDataIsOmittedForNonStockMessages(t *testing.T) {
	for _, msg := range []Message{NewConnectedMessage("id"), NewPongMessage(), NewMaintenanceMessage()} {
		frame, err := msg.Encode()
		require.NoError(t, err)
		assert.NotContains(t, string(frame), `"data"`)
	}
}

func TestConnectedMessageCarriesConnectionID(t *testing.T) {
	msg := NewConnectedMessage("127.0.0.1:9999#abcd1234")

	assert.Equal(t, MessageConnected, msg.Type)
	assert.Contains(t, msg.Message, "127.0.0.1:9999#abcd1234")
	assert.Nil(t, msg.Data)
}
