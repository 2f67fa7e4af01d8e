package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is a repair/maintenance service offered for booking.
type Service struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description" bson:"description"`
	Images      []Image            `json:"images" bson:"images"`
	Type        int                `json:"type" bson:"type"`
	IsAvailable bool               `json:"isAvailable" bson:"isAvailable"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

type Brand struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Images      []Image            `json:"images" bson:"images"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

type Category struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Images    []Image            `json:"images" bson:"images"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
