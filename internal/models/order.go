package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery types.
const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

// Branches (physical storefronts, used as a partition key).
const (
	BranchNorte = "Norte"
	BranchSur   = "Sur"
)

// Payment methods.
const (
	PaymentMethodCash = "efectivo"
	PaymentMethodCard = "tarjeta"
)

// Order statuses.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment statuses kept alongside the order status; unrecognized gateway
// values are stored lowercased as-is.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusDeclined = "declined"
	PaymentStatusVoided   = "voided"
	PaymentStatusError    = "error"
)

// OrderItem represents a single menu entry within an order. Price is in
// whole COP units.
type OrderItem struct {
	MenuItemID primitive.ObjectID `bson:"menuItemId,omitempty" json:"menuItemId,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Price      int64              `bson:"price" json:"price"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}

// Order defines the persisted order document. TotalAmount is computed once
// at checkout (items plus delivery fee) and never recomputed downstream.
type Order struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerName       string              `bson:"customerName" json:"customerName"`
	Contact            string              `bson:"contact" json:"contact"`
	Address            string              `bson:"address,omitempty" json:"address,omitempty"`
	DeliveryType       string              `bson:"deliveryType" json:"deliveryType"`
	Branch             string              `bson:"branch,omitempty" json:"branch,omitempty"`
	Items              []OrderItem         `bson:"items" json:"items"`
	TotalAmount        int64               `bson:"totalAmount" json:"totalAmount"`
	PaymentMethod      string              `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus      string              `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	TransactionID      string              `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	WompiReference     string              `bson:"wompiReference,omitempty" json:"wompiReference,omitempty"`
	Status             string              `bson:"status" json:"status"`
	CustomerID         *primitive.ObjectID `bson:"customerId,omitempty" json:"customerId,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
	WebhookProcessedAt *time.Time          `bson:"webhookProcessedAt,omitempty" json:"webhookProcessedAt,omitempty"`
}

var statusTransitions = map[string][]string{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the kitchen console may move an order from
// one status to another. Delivered and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidBranch accepts the two storefronts or an empty value (orders taken
// before branches existed have none).
func ValidBranch(b string) bool {
	return b == "" || b == BranchNorte || b == BranchSur
}
