package models

import "time"

// OrderFulfilledEvent is published after a checkout session has been
// committed to an order.
type OrderFulfilledEvent struct {
	Type      string    `json:"type"` // "order_fulfilled"
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	Amount    int64     `json:"amount"` // smallest currency unit
	LineCount int       `json:"line_count"`
	Timestamp time.Time `json:"timestamp"` // UTC event time
}
