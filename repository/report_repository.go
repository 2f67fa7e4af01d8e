package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MonthlySalesRow is revenue grouped by order year+month.
type MonthlySalesRow struct {
	Year       int     `bson:"year" json:"year"`
	Month      int     `bson:"month" json:"month"`
	TotalPrice float64 `bson:"totalPrice" json:"totalPrice"`
}

// ProductSalesRow is total quantity sold per product.
type ProductSalesRow struct {
	ProductID     primitive.ObjectID `bson:"_id" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Brand         string             `bson:"brand" json:"brand"`
	TotalQuantity int                `bson:"totalQuantity" json:"totalQuantity"`
}

// CustomerSpendRow is total spend per customer.
type CustomerSpendRow struct {
	UserID         primitive.ObjectID `bson:"_id" json:"_id"`
	Firstname      string             `bson:"firstname" json:"firstname"`
	Lastname       string             `bson:"lastname" json:"lastname"`
	TotalPurchased float64            `bson:"totalPurchased" json:"totalPurchased"`
}

// BrandSalesRow is total quantity sold per brand.
type BrandSalesRow struct {
	Brand         string `bson:"_id" json:"_id"`
	TotalQuantity int    `bson:"totalQuantity" json:"totalQuantity"`
}

// MechanicRatingRow is the average feedback rating per mechanic.
type MechanicRatingRow struct {
	MechanicID    primitive.ObjectID `bson:"_id" json:"_id"`
	Firstname     string             `bson:"firstname" json:"firstname"`
	Lastname      string             `bson:"lastname" json:"lastname"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	TotalReviews  int                `bson:"totalReviews" json:"totalReviews"`
}

// ReportRepository runs the read-only aggregation queries behind the
// reporting endpoints.
type ReportRepository interface {
	MonthlySales(ctx context.Context) ([]MonthlySalesRow, error)
	MostPurchasedProducts(ctx context.Context) ([]ProductSalesRow, error)
	MostLoyalCustomers(ctx context.Context) ([]CustomerSpendRow, error)
	MostPurchasedBrands(ctx context.Context) ([]BrandSalesRow, error)
	TopRatedMechanics(ctx context.Context) ([]MechanicRatingRow, error)
}

type MongoReportRepository struct {
	orders     *mongo.Collection
	orderItems *mongo.Collection
	feedbacks  *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *MongoReportRepository {
	return &MongoReportRepository{
		orders:     db.Collection("orders"),
		orderItems: db.Collection("orderitems"),
		feedbacks:  db.Collection("feedbacks"),
	}
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)
	var rows []T
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlySales joins orders through their items to products and sums
// quantity x price per (year, month) of dateOrdered.
func (r *MongoReportRepository) MonthlySales(ctx context.Context) ([]MonthlySalesRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$orderItems"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "orderitems",
			"localField":   "orderItems",
			"foreignField": "_id",
			"as":           "orderItem",
		}}},
		{{Key: "$unwind", Value: "$orderItem"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "orderItem.product",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$dateOrdered"},
				"month": bson.M{"$month": "$dateOrdered"},
			},
			"totalPrice": bson.M{"$sum": bson.M{"$multiply": bson.A{"$orderItem.quantity", "$product.price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
		{{Key: "$project", Value: bson.M{
			"_id":        0,
			"year":       "$_id.year",
			"month":      "$_id.month",
			"totalPrice": 1,
		}}},
	}
	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeAll[MonthlySalesRow](ctx, cursor)
}

// MostPurchasedProducts groups order items by product, sums quantity
// and sorts descending.
func (r *MongoReportRepository) MostPurchasedProducts(ctx context.Context) ([]ProductSalesRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           "$product",
			"totalQuantity": bson.M{"$sum": "$quantity"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "brands",
			"localField":   "product.brand",
			"foreignField": "_id",
			"as":           "brand",
		}}},
		{{Key: "$unwind", Value: "$brand"}},
		{{Key: "$sort", Value: bson.D{{Key: "totalQuantity", Value: -1}}}},
		{{Key: "$project", Value: bson.M{
			"_id":           "$product._id",
			"name":          "$product.name",
			"brand":         "$brand.name",
			"totalQuantity": 1,
		}}},
	}
	cursor, err := r.orderItems.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeAll[ProductSalesRow](ctx, cursor)
}

// MostLoyalCustomers groups orders by user and sums totalPrice.
func (r *MongoReportRepository) MostLoyalCustomers(ctx context.Context) ([]CustomerSpendRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":            "$user",
			"totalPurchased": bson.M{"$sum": "$totalPrice"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$sort", Value: bson.D{{Key: "totalPurchased", Value: -1}}}},
		{{Key: "$project", Value: bson.M{
			"_id":            1,
			"firstname":      "$user.firstname",
			"lastname":       "$user.lastname",
			"totalPurchased": 1,
		}}},
	}
	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeAll[CustomerSpendRow](ctx, cursor)
}

// MostPurchasedBrands joins order items through products to brands and
// sums quantity per brand name.
func (r *MongoReportRepository) MostPurchasedBrands(ctx context.Context) ([]BrandSalesRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "product",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "brands",
			"localField":   "product.brand",
			"foreignField": "_id",
			"as":           "product.brand",
		}}},
		{{Key: "$unwind", Value: "$product.brand"}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$product.brand.name",
			"totalQuantity": bson.M{"$sum": "$quantity"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalQuantity", Value: -1}}}},
	}
	cursor, err := r.orderItems.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeAll[BrandSalesRow](ctx, cursor)
}

// TopRatedMechanics groups feedback by mechanic and averages ratings.
func (r *MongoReportRepository) TopRatedMechanics(ctx context.Context) ([]MechanicRatingRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           "$mechanic",
			"averageRating": bson.M{"$avg": "$rating"},
			"totalReviews":  bson.M{"$sum": 1},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "mechanic",
		}}},
		{{Key: "$unwind", Value: "$mechanic"}},
		{{Key: "$sort", Value: bson.D{{Key: "averageRating", Value: -1}}}},
		{{Key: "$project", Value: bson.M{
			"_id":           1,
			"firstname":     "$mechanic.firstname",
			"lastname":      "$mechanic.lastname",
			"averageRating": 1,
			"totalReviews":  1,
		}}},
	}
	cursor, err := r.feedbacks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeAll[MechanicRatingRow](ctx, cursor)
}
