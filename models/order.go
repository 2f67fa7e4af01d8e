package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods accepted at checkout.
const (
	PaymentCashOnDelivery = "Cash On Delivery"
	PaymentGCash          = "GCash"
)

// OrderItem is a (product, quantity) pair materialized as its own
// document and referenced from the order.
type OrderItem struct {
	ID       primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Quantity int                `json:"quantity" bson:"quantity"`
}

type Order struct {
	ID         primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	User       primitive.ObjectID   `json:"user" bson:"user"`
	OrderItems []primitive.ObjectID `json:"orderItems" bson:"orderItems"`

	// Shipping address snapshot.
	Fullname   string `json:"fullname" bson:"fullname"`
	Phone      string `json:"phone" bson:"phone"`
	Region     string `json:"region" bson:"region"`
	Province   string `json:"province" bson:"province"`
	City       string `json:"city" bson:"city"`
	Barangay   string `json:"barangay" bson:"barangay"`
	PostalCode string `json:"postalcode" bson:"postalcode"`
	Address    string `json:"address" bson:"address"`

	OrderStatus   []StatusEntry       `json:"orderStatus" bson:"orderStatus"`
	TotalPrice    float64             `json:"totalPrice" bson:"totalPrice"`
	EmployeeUser  *primitive.ObjectID `json:"employeeUser,omitempty" bson:"employeeUser,omitempty"`
	DateOrdered   time.Time           `json:"dateOrdered" bson:"dateOrdered"`
	DateReceived  *time.Time          `json:"dateReceived,omitempty" bson:"dateReceived,omitempty"`
	PaymentMethod string              `json:"paymentMethod" bson:"paymentMethod"`
	IsPaid        bool                `json:"isPaid" bson:"isPaid"`
}

// CurrentStatus returns the label of the last history entry, or "" for
// an empty history.
func (o *Order) CurrentStatus() string {
	if len(o.OrderStatus) == 0 {
		return ""
	}
	return o.OrderStatus[len(o.OrderStatus)-1].Status
}

// PaymentToken is a one-time token minted for a GCash order. It expires
// two minutes after issuance.
type PaymentToken struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	OrderID   primitive.ObjectID `json:"orderId" bson:"orderId"`
	Token     string             `json:"token" bson:"token"`
	ExpiresAt time.Time          `json:"verificationTokenExpire" bson:"verificationTokenExpire"`
}

// PaymentTokenTTL bounds how long a minted checkout token stays valid.
const PaymentTokenTTL = 2 * time.Minute
