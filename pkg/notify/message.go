package notify

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	MessageConnected   = "Connected"
	MessageStockUpdate = "StockUpdate"
	MessagePong        = "Pong"
	MessageMaintenance = "Maintenance"
)

// StockUpdateData carries the structured payload of a StockUpdate message.
type StockUpdateData struct {
	ProductID   uint   `json:"productId"`
	ProductName string `json:"productName"`
	OldQuantity int    `json:"oldQuantity"`
	NewQuantity int    `json:"newQuantity"`
	Change      int    `json:"change"`
}

// Message is the unit sent to subscribed clients. Data is only set for
// StockUpdate messages.
type Message struct {
	Type      string           `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Data      *StockUpdateData `json:"data,omitempty"`
}

func NewConnectedMessage(connectionID string) Message {
	return Message{
		Type:      MessageConnected,
		Message:   fmt.Sprintf("Connected to stock notification server as %s", connectionID),
		Timestamp: time.Now().UTC(),
	}
}

func NewStockUpdateMessage(productID uint, productName string, oldQuantity, newQuantity int) Message {
	return Message{
		Type:      MessageStockUpdate,
		Message:   fmt.Sprintf("Stock of %s changed from %d to %d", productName, oldQuantity, newQuantity),
		Timestamp: time.Now().UTC(),
		Data: &StockUpdateData{
			ProductID:   productID,
			ProductName: productName,
			OldQuantity: oldQuantity,
			NewQuantity: newQuantity,
			Change:      newQuantity - oldQuantity,
		},
	}
}

func NewPongMessage() Message {
	return Message{
		Type:      MessagePong,
		Message:   "pong",
		Timestamp: time.Now().UTC(),
	}
}

func NewMaintenanceMessage() Message {
	return Message{
		Type:      MessageMaintenance,
		Message:   "Daily maintenance completed",
		Timestamp: time.Now().UTC(),
	}
}

// Encode serializes the message into its wire form, one JSON document
// terminated by a single newline.
func (m Message) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
