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

// AppointmentRepository defines the interface for booking data access.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Appointment, error)
	FindByMechanic(ctx context.Context, mechanicID primitive.ObjectID) ([]models.Appointment, error)
	FindAll(ctx context.Context) ([]models.Appointment, error)
	Update(ctx context.Context, appointment *models.Appointment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AppointmentServiceRepository stores the materialized service lines.
type AppointmentServiceRepository interface {
	Create(ctx context.Context, line *models.AppointmentService) error
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.AppointmentService, error)
}

type MongoAppointmentRepository struct {
	collection *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *MongoAppointmentRepository {
	return &MongoAppointmentRepository{collection: db.Collection("appointments")}
}

func (r *MongoAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	if appointment.CreatedAt.IsZero() {
		appointment.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, appointment)
	return err
}

func (r *MongoAppointmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *MongoAppointmentRepository) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *MongoAppointmentRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *MongoAppointmentRepository) FindByMechanic(ctx context.Context, mechanicID primitive.ObjectID) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{"mechanic": mechanicID})
}

func (r *MongoAppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoAppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": appointment.ID}, appointment)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAppointmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoAppointmentServiceRepository struct {
	collection *mongo.Collection
}

func NewAppointmentServiceRepository(db *mongo.Database) *MongoAppointmentServiceRepository {
	return &MongoAppointmentServiceRepository{collection: db.Collection("appointmentservices")}
}

func (r *MongoAppointmentServiceRepository) Create(ctx context.Context, line *models.AppointmentService) error {
	if line.ID.IsZero() {
		line.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, line)
	return err
}

func (r *MongoAppointmentServiceRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.AppointmentService, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lines []models.AppointmentService
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
