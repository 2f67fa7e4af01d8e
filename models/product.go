package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockLog is one append-only stock movement entry embedded in a product.
// Quantity is the signed delta; Status labels the movement kind
// (Initial, Sold, Restocked, Additional).
type StockLog struct {
	Name      string    `json:"name" bson:"name"`
	Brand     string    `json:"brand" bson:"brand"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Status    string    `json:"status" bson:"status"`
	By        string    `json:"by" bson:"by"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Review is one customer review embedded in a product. A user has at
// most one review per product; resubmitting replaces it.
type Review struct {
	ID      primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User    primitive.ObjectID `json:"user" bson:"user"`
	Name    string             `json:"name" bson:"name"`
	Rating  float64            `json:"rating" bson:"rating"`
	Comment string             `json:"comment" bson:"comment"`
	Date    time.Time          `json:"date" bson:"date"`
}

type Product struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description" bson:"description"`
	Price        float64            `json:"price" bson:"price"`
	Type         string             `json:"type" bson:"type"`
	Brand        primitive.ObjectID `json:"brand" bson:"brand"`
	Category     primitive.ObjectID `json:"category" bson:"category"`
	Stock        int                `json:"stock" bson:"stock"`
	Images       []Image            `json:"images" bson:"images"`
	Ratings      float64            `json:"ratings" bson:"ratings"`
	NumOfReviews int                `json:"numOfReviews" bson:"numOfReviews"`
	Reviews      []Review           `json:"reviews" bson:"reviews"`
	StockLogs    []StockLog         `json:"stockLogs" bson:"stockLogs"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// RecomputeRatings rederives Ratings and NumOfReviews from the current
// review list. It is the only way those two fields change.
func (p *Product) RecomputeRatings() {
	p.NumOfReviews = len(p.Reviews)
	if len(p.Reviews) == 0 {
		p.Ratings = 0
		return
	}
	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Ratings = sum / float64(len(p.Reviews))
}

// Price history status labels, derived at write time from the price
// direction.
const (
	PriceIncreased = "Increased"
	PriceDecreased = "Decreased"
	PriceInitial   = "Initial"
)

// PriceHistory is one append-only record per product price change.
type PriceHistory struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Product   primitive.ObjectID `json:"product" bson:"product"`
	Price     float64            `json:"price" bson:"price"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// PriceChangeStatus compares the new price against the prior one.
func PriceChangeStatus(oldPrice, newPrice float64) string {
	switch {
	case newPrice < oldPrice:
		return PriceDecreased
	case newPrice > oldPrice:
		return PriceIncreased
	default:
		return PriceInitial
	}
}
