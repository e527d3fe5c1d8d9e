package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeProductDepleted    = "PRODUCT_DEPLETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent is published once per order created at checkout.
type OrderPlacedEvent struct {
	BaseEvent
	OrderID    string  `json:"order_id"`
	UserID     string  `json:"user_id"`
	ConsumerID string  `json:"consumer_id"`
	ProductID  string  `json:"product_id"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

// OrderStatusChangedEvent is published when an order's status is
// overwritten by a consumer or admin.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ActorRole string `json:"actor_role"`
}

// ProductDepletedEvent is published when a checkout drains a product's
// stock to zero.
type ProductDepletedEvent struct {
	BaseEvent
	ProductID  string `json:"product_id"`
	ConsumerID string `json:"consumer_id"`
	Name       string `json:"name"`
}
