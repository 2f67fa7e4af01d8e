package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/XdebronneX/backend-TeamPOOR/models"
)

func TestRecomputeRatings_EmptyResetsToZero(t *testing.T) {
	product := &models.Product{Ratings: 4.5, NumOfReviews: 3}

	product.RecomputeRatings()

	assert.Equal(t, 0.0, product.Ratings)
	assert.Equal(t, 0, product.NumOfReviews)
}

func TestRecomputeRatings_Mean(t *testing.T) {
	product := &models.Product{
		Reviews: []models.Review{
			{ID: primitive.NewObjectID(), Rating: 5},
			{ID: primitive.NewObjectID(), Rating: 4},
			{ID: primitive.NewObjectID(), Rating: 3},
		},
	}

	product.RecomputeRatings()

	assert.Equal(t, 4.0, product.Ratings)
	assert.Equal(t, 3, product.NumOfReviews)
}

func TestPriceChangeStatus(t *testing.T) {
	assert.Equal(t, models.PriceIncreased, models.PriceChangeStatus(100, 120))
	assert.Equal(t, models.PriceDecreased, models.PriceChangeStatus(120, 100))
	assert.Equal(t, models.PriceInitial, models.PriceChangeStatus(100, 100))
}
