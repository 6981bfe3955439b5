package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the server-driven order state. The client only reflects status
// values it receives; it never computes a transition locally.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Item is one line of an order, snapshotted at checkout time.
type Item struct {
	ProductID string
	Name      string
	Image     string
	ColorCode string
	Quantity  int
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// Order is an immutable checkout snapshot. Nothing in this layer mutates an
// Order after the mapping layer produced it.
type Order struct {
	ID        string
	UserID    string
	Status    Status
	Items     []Item
	Subtotal  decimal.Decimal
	Shipping  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Address   string
	CreatedAt time.Time
}
