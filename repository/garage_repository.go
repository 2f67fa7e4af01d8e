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

// AddressRepository defines the interface for address book data access.
type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Address, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	UnsetDefaultForUser(ctx context.Context, userID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MotorcycleRepository defines the interface for motorcycle registry
// data access.
type MotorcycleRepository interface {
	Create(ctx context.Context, motorcycle *models.Motorcycle) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Motorcycle, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Motorcycle, error)
	FindByPlate(ctx context.Context, plateNumber string) (*models.Motorcycle, error)
	FindByEngine(ctx context.Context, engineNumber string) (*models.Motorcycle, error)
	FindAll(ctx context.Context) ([]models.Motorcycle, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, motorcycle *models.Motorcycle) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// FuelRepository defines the interface for fuel log data access.
type FuelRepository interface {
	Create(ctx context.Context, fuel *models.Fuel) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Fuel, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Fuel, error)
	FindByMotorcycle(ctx context.Context, motorcycleID primitive.ObjectID) ([]models.Fuel, error)
	Update(ctx context.Context, fuel *models.Fuel) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoAddressRepository struct {
	collection *mongo.Collection
}

func NewAddressRepository(db *mongo.Database) *MongoAddressRepository {
	return &MongoAddressRepository{collection: db.Collection("addresses")}
}

func (r *MongoAddressRepository) Create(ctx context.Context, address *models.Address) error {
	if address.ID.IsZero() {
		address.ID = primitive.NewObjectID()
	}
	if address.CreatedAt.IsZero() {
		address.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, address)
	return err
}

func (r *MongoAddressRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Address, error) {
	var address models.Address
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&address)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *MongoAddressRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *MongoAddressRepository) Update(ctx context.Context, address *models.Address) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": address.ID}, address)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAddressRepository) UnsetDefaultForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"user": userID}, bson.M{"$set": bson.M{"isDefault": false}})
	return err
}

func (r *MongoAddressRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoMotorcycleRepository struct {
	collection *mongo.Collection
}

func NewMotorcycleRepository(db *mongo.Database) *MongoMotorcycleRepository {
	return &MongoMotorcycleRepository{collection: db.Collection("motorcycles")}
}

// EnsureIndexes creates the unique plate and engine number indexes.
func (r *MongoMotorcycleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "plateNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "engineNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (r *MongoMotorcycleRepository) Create(ctx context.Context, motorcycle *models.Motorcycle) error {
	if motorcycle.ID.IsZero() {
		motorcycle.ID = primitive.NewObjectID()
	}
	if motorcycle.CreatedAt.IsZero() {
		motorcycle.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, motorcycle)
	return err
}

func (r *MongoMotorcycleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Motorcycle, error) {
	var motorcycle models.Motorcycle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&motorcycle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &motorcycle, nil
}

func (r *MongoMotorcycleRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Motorcycle, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var motorcycles []models.Motorcycle
	if err := cursor.All(ctx, &motorcycles); err != nil {
		return nil, err
	}
	return motorcycles, nil
}

func (r *MongoMotorcycleRepository) FindByPlate(ctx context.Context, plateNumber string) (*models.Motorcycle, error) {
	var motorcycle models.Motorcycle
	err := r.collection.FindOne(ctx, bson.M{"plateNumber": plateNumber}).Decode(&motorcycle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &motorcycle, nil
}

func (r *MongoMotorcycleRepository) FindByEngine(ctx context.Context, engineNumber string) (*models.Motorcycle, error) {
	var motorcycle models.Motorcycle
	err := r.collection.FindOne(ctx, bson.M{"engineNumber": engineNumber}).Decode(&motorcycle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &motorcycle, nil
}

func (r *MongoMotorcycleRepository) FindAll(ctx context.Context) ([]models.Motorcycle, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var motorcycles []models.Motorcycle
	if err := cursor.All(ctx, &motorcycles); err != nil {
		return nil, err
	}
	return motorcycles, nil
}

func (r *MongoMotorcycleRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *MongoMotorcycleRepository) Update(ctx context.Context, motorcycle *models.Motorcycle) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": motorcycle.ID}, motorcycle)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoMotorcycleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoFuelRepository struct {
	collection *mongo.Collection
}

func NewFuelRepository(db *mongo.Database) *MongoFuelRepository {
	return &MongoFuelRepository{collection: db.Collection("fuels")}
}

func (r *MongoFuelRepository) Create(ctx context.Context, fuel *models.Fuel) error {
	if fuel.ID.IsZero() {
		fuel.ID = primitive.NewObjectID()
	}
	if fuel.Date.IsZero() {
		fuel.Date = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, fuel)
	return err
}

func (r *MongoFuelRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Fuel, error) {
	var fuel models.Fuel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&fuel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fuel, nil
}

func (r *MongoFuelRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Fuel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fuels []models.Fuel
	if err := cursor.All(ctx, &fuels); err != nil {
		return nil, err
	}
	return fuels, nil
}

func (r *MongoFuelRepository) FindByMotorcycle(ctx context.Context, motorcycleID primitive.ObjectID) ([]models.Fuel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"motorcycle": motorcycleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fuels []models.Fuel
	if err := cursor.All(ctx, &fuels); err != nil {
		return nil, err
	}
	return fuels, nil
}

func (r *MongoFuelRepository) Update(ctx context.Context, fuel *models.Fuel) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": fuel.ID}, fuel)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoFuelRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
