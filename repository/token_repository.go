package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/XdebronneX/backend-TeamPOOR/models"
)

// VerificationTokenRepository stores email verification tokens, one per
// user (upsert semantics).
type VerificationTokenRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.VerificationToken, error)
	Upsert(ctx context.Context, userID primitive.ObjectID, token string, expiresAt time.Time) (*models.VerificationToken, error)
}

// PaymentTokenRepository stores one-time checkout tokens, one per order.
type PaymentTokenRepository interface {
	FindByOrder(ctx context.Context, orderID primitive.ObjectID) (*models.PaymentToken, error)
	Upsert(ctx context.Context, orderID primitive.ObjectID, token string, expiresAt time.Time) (*models.PaymentToken, error)
}

type MongoVerificationTokenRepository struct {
	collection *mongo.Collection
}

func NewVerificationTokenRepository(db *mongo.Database) *MongoVerificationTokenRepository {
	return &MongoVerificationTokenRepository{collection: db.Collection("tokens")}
}

func (r *MongoVerificationTokenRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.VerificationToken, error) {
	var token models.VerificationToken
	err := r.collection.FindOne(ctx, bson.M{"verifyUser": userID}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *MongoVerificationTokenRepository) Upsert(ctx context.Context, userID primitive.ObjectID, token string, expiresAt time.Time) (*models.VerificationToken, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var result models.VerificationToken
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"verifyUser": userID},
		bson.M{"$set": bson.M{"token": token, "verificationTokenExpire": expiresAt}},
		opts,
	).Decode(&result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type MongoPaymentTokenRepository struct {
	collection *mongo.Collection
}

func NewPaymentTokenRepository(db *mongo.Database) *MongoPaymentTokenRepository {
	return &MongoPaymentTokenRepository{collection: db.Collection("paymenttokens")}
}

func (r *MongoPaymentTokenRepository) FindByOrder(ctx context.Context, orderID primitive.ObjectID) (*models.PaymentToken, error) {
	var token models.PaymentToken
	err := r.collection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *MongoPaymentTokenRepository) Upsert(ctx context.Context, orderID primitive.ObjectID, token string, expiresAt time.Time) (*models.PaymentToken, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var result models.PaymentToken
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"token": token, "verificationTokenExpire": expiresAt}},
		opts,
	).Decode(&result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
