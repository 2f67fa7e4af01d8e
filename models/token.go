package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VerificationToken is a one-time email verification token. It expires
// two minutes after issuance; login reissues an expired one.
type VerificationToken struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"verifyUser" bson:"verifyUser"`
	Token     string             `json:"token" bson:"token"`
	ExpiresAt time.Time          `json:"verificationTokenExpire" bson:"verificationTokenExpire"`
}

// VerificationTokenTTL bounds how long an emailed verification link works.
const VerificationTokenTTL = 2 * time.Minute

// ResetTokenTTL bounds how long a password reset link works.
const ResetTokenTTL = 30 * time.Minute

// Notification is an in-app message pushed on selected order
// transitions.
type Notification struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// SupplierLogProduct is a delivered line snapshot inside a supplier log.
type SupplierLogProduct struct {
	ProductName string  `json:"productName" bson:"productName"`
	BrandName   string  `json:"brandName" bson:"brandName"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Price       float64 `json:"price" bson:"price"`
}

// SupplierLog records one supplier delivery that restocked products.
type SupplierLog struct {
	ID            primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Supplier      primitive.ObjectID   `json:"supplier" bson:"supplier"`
	Products      []SupplierLogProduct `json:"products" bson:"products"`
	InvoiceID     string               `json:"invoiceId" bson:"invoiceId"`
	Notes         string               `json:"notes" bson:"notes"`
	DateDelivered time.Time            `json:"dateDelivered" bson:"dateDelivered"`
	TotalPrice    float64              `json:"totalPrice" bson:"totalPrice"`
}
