package models

import (
	"time"

	"github.com/google/uuid"
)

// Delivery statuses. Processing, In-transit and Delivered advance forward
// only; Cancelled and Refunded are terminal.
const (
	StatusProcessing = "Processing"
	StatusInTransit  = "In-transit"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
	StatusRefunded   = "Refunded"
)

// CanTransition reports whether an order may move from one delivery status
// to another. Delivered → Refunded is reachable only through an approved
// return, which bypasses this check; see the returns service.
func CanTransition(from, to string) bool {
	switch from {
	case StatusProcessing:
		return to == StatusInTransit || to == StatusCancelled
	case StatusInTransit:
		return to == StatusDelivered || to == StatusCancelled
	default:
		return false
	}
}

// Order is an immutable snapshot of a cart at placement time. Only the
// delivery status (and, indirectly, stock on cancellation/refund) changes
// after creation.
type Order struct {
	BaseModel
	UserID            uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User              *User       `json:"user,omitempty"`
	OrderNumber       string      `gorm:"uniqueIndex" json:"order_number"`
	DeliveryID        string      `json:"delivery_id"`
	Status            string      `gorm:"index" json:"status"`
	PlacedAt          time.Time   `json:"placed_at"`
	TotalPrice        float64     `json:"total_price"`
	DeliveryAddressID *uuid.UUID  `gorm:"type:uuid" json:"delivery_address_id"`
	AddressLine       string      `json:"address_line"`
	City              string      `json:"city"`
	PostalCode        string      `json:"postal_code"`
	EstimatedArrival  time.Time   `json:"estimated_arrival"`
	Items             []OrderItem `json:"items,omitempty"`
}

// OrderItem records the purchase price captured at order time; it is the
// price of record regardless of later catalog changes.
type OrderItem struct {
	BaseModel
	OrderID       uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	LineTotal     float64   `json:"line_total"`
}

// Return request states.
const (
	ReturnPending  = "pending"
	ReturnApproved = "approved"
	ReturnDeclined = "declined"
)

// ReturnRequest is a customer-initiated return for one order line, routed
// to a sales manager for approval. Unique per (order, product, customer).
type ReturnRequest struct {
	BaseModel
	OrderID      uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:idx_return_order_product_user" json:"order_id"`
	ProductID    uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_return_order_product_user" json:"product_id"`
	UserID       uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:idx_return_order_product_user" json:"user_id"`
	Quantity     int        `json:"quantity"`
	Reason       string     `json:"reason"`
	Status       string     `gorm:"index;default:pending" json:"status"`
	AssignedTo   *uuid.UUID `gorm:"type:uuid" json:"assigned_to"`
	ReviewedBy   *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	DecisionNote string     `json:"decision_note"`
	RefundAmount float64    `json:"refund_amount"`
}
