package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the customer-visible delivery status. Admin fulfillment
// advances pending to processing; completing an order archives it instead of
// writing a further status.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Valid reports whether s is one of the defined statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// Order is a checked-out cart. Total is fixed at creation time from the
// snapshotted line prices and is never re-derived from the live catalog.
type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	UserID    uuid.UUID   `json:"user_id" db:"user_id"`
	Status    OrderStatus `json:"status" db:"status"`
	Total     float64     `json:"total" db:"total"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// OrderItem is one line of an order. Price is the unit price at order time.
// Packed is the fulfillment checklist flag toggled from the admin board.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Price       float64   `json:"price" db:"price"`
	Packed      bool      `json:"packed" db:"packed"`
}

// CompletedOrder is the durable archive row written when an order leaves the
// active fulfillment board.
type CompletedOrder struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	ItemSummary string    `json:"item_summary" db:"item_summary"`
	Total       float64   `json:"total" db:"total"`
	OrderedAt   time.Time `json:"ordered_at" db:"ordered_at"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}
