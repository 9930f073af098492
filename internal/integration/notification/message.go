// Package notification delivers budget threshold events to external transports.
package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// MessageType identifies the payload on the wire.
const MessageType = "budget.threshold_crossed"

// BudgetThresholdMessage is the JSON body published for a threshold event.
type BudgetThresholdMessage struct {
	Type             string    `json:"type"`
	UserID           string    `json:"user_id"`
	BudgetID         string    `json:"budget_id"`
	CategoryID       string    `json:"category_id"`
	Amount           string    `json:"amount"`
	ActualSpent      string    `json:"actual_spent"`
	UtilizationRate  string    `json:"utilization_rate"`
	ThresholdPercent int       `json:"threshold_percent"`
	OverBudget       bool      `json:"over_budget"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// NewBudgetThresholdMessage builds the wire form of event.
func NewBudgetThresholdMessage(event entity.BudgetThresholdEvent) BudgetThresholdMessage {
	return BudgetThresholdMessage{
		Type:             MessageType,
		UserID:           event.UserID.String(),
		BudgetID:         event.BudgetID.String(),
		CategoryID:       event.CategoryID.String(),
		Amount:           event.Amount.StringFixed(2),
		ActualSpent:      event.ActualSpent.StringFixed(2),
		UtilizationRate:  event.UtilizationRate.String(),
		ThresholdPercent: event.ThresholdPercent,
		OverBudget:       event.OverBudget,
		OccurredAt:       event.OccurredAt.UTC(),
	}
}

// ToJSON encodes the message.
func (m BudgetThresholdMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetThresholdMessageFromJSON decodes a message published by this package.
func BudgetThresholdMessageFromJSON(data []byte) (*BudgetThresholdMessage, error) {
	var msg BudgetThresholdMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal budget threshold message: %w", err)
	}
	if msg.Type != MessageType {
		return nil, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	return &msg, nil
}
