package domain

import (
	"errors"
	"time"
)

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

// DateLayout is the key format for a stats day.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// OrderEvent mirrors the message shop-svc writes to the orders topic.
type OrderEvent struct {
	Type      string           `json:"type"`
	OrderID   int              `json:"order_id"`
	Status    string           `json:"status"`
	Total     float64          `json:"total"`
	Items     []OrderEventItem `json:"items,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type ItemCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type DailyStats struct {
	Date     string           `json:"date"`
	Orders   int64            `json:"orders"`
	Revenue  float64          `json:"revenue"`
	Statuses map[string]int64 `json:"statuses"`
	TopItems []ItemCount      `json:"topItems"`
}
