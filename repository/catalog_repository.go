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

// ServiceRepository defines the interface for bookable-service data access.
type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Service, error)
	FindAll(ctx context.Context) ([]models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BrandRepository defines the interface for brand data access.
type BrandRepository interface {
	Create(ctx context.Context, brand *models.Brand) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error)
	FindByName(ctx context.Context, name string) (*models.Brand, error)
	FindAll(ctx context.Context) ([]models.Brand, error)
	Update(ctx context.Context, brand *models.Brand) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PriceHistoryRepository stores product price change records.
type PriceHistoryRepository interface {
	Create(ctx context.Context, entry *models.PriceHistory) error
	FindAllSorted(ctx context.Context) ([]models.PriceHistory, error)
}

type MongoServiceRepository struct {
	collection *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *MongoServiceRepository {
	return &MongoServiceRepository{collection: db.Collection("services")}
}

func (r *MongoServiceRepository) Create(ctx context.Context, service *models.Service) error {
	if service.ID.IsZero() {
		service.ID = primitive.NewObjectID()
	}
	if service.CreatedAt.IsZero() {
		service.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, service)
	return err
}

func (r *MongoServiceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	var service models.Service
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&service)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *MongoServiceRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Service, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *MongoServiceRepository) FindAll(ctx context.Context) ([]models.Service, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *MongoServiceRepository) Update(ctx context.Context, service *models.Service) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": service.ID}, service)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoServiceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoBrandRepository struct {
	collection *mongo.Collection
}

func NewBrandRepository(db *mongo.Database) *MongoBrandRepository {
	return &MongoBrandRepository{collection: db.Collection("brands")}
}

func (r *MongoBrandRepository) Create(ctx context.Context, brand *models.Brand) error {
	if brand.ID.IsZero() {
		brand.ID = primitive.NewObjectID()
	}
	if brand.CreatedAt.IsZero() {
		brand.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, brand)
	return err
}

func (r *MongoBrandRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	var brand models.Brand
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&brand)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *MongoBrandRepository) FindByName(ctx context.Context, name string) (*models.Brand, error) {
	var brand models.Brand
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&brand)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *MongoBrandRepository) FindAll(ctx context.Context) ([]models.Brand, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var brands []models.Brand
	if err := cursor.All(ctx, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *MongoBrandRepository) Update(ctx context.Context, brand *models.Brand) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": brand.ID}, brand)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBrandRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoCategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{collection: db.Collection("categories")}
}

func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, category)
	return err
}

func (r *MongoCategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *MongoCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *MongoCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoPriceHistoryRepository struct {
	collection *mongo.Collection
}

func NewPriceHistoryRepository(db *mongo.Database) *MongoPriceHistoryRepository {
	return &MongoPriceHistoryRepository{collection: db.Collection("pricehistories")}
}

func (r *MongoPriceHistoryRepository) Create(ctx context.Context, entry *models.PriceHistory) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *MongoPriceHistoryRepository) FindAllSorted(ctx context.Context) ([]models.PriceHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.PriceHistory
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
