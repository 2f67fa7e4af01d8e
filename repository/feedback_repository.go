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

// FeedbackRepository stores mechanic reviews, one per appointment.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.Feedback, error)
	FindAll(ctx context.Context) ([]models.Feedback, error)
	Update(ctx context.Context, feedback *models.Feedback) error
}

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	FindUnreadByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAllReadForUser(ctx context.Context, userID primitive.ObjectID) error
}

// SupplierLogRepository stores supplier delivery records.
type SupplierLogRepository interface {
	Create(ctx context.Context, log *models.SupplierLog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SupplierLog, error)
	FindAllSorted(ctx context.Context) ([]models.SupplierLog, error)
}

type MongoFeedbackRepository struct {
	collection *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *MongoFeedbackRepository {
	return &MongoFeedbackRepository{collection: db.Collection("feedbacks")}
}

func (r *MongoFeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID.IsZero() {
		feedback.ID = primitive.NewObjectID()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, feedback)
	return err
}

func (r *MongoFeedbackRepository) FindByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.collection.FindOne(ctx, bson.M{"appointment": appointmentID}).Decode(&feedback)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *MongoFeedbackRepository) FindAll(ctx context.Context) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feedbacks []models.Feedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *MongoFeedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": feedback.ID}, feedback)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

func (r *MongoNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

func (r *MongoNotificationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *MongoNotificationRepository) findByUser(ctx context.Context, filter bson.M) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *MongoNotificationRepository) FindUnreadByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return r.findByUser(ctx, bson.M{"user": userID, "isRead": false})
}

func (r *MongoNotificationRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return r.findByUser(ctx, bson.M{"user": userID})
}

func (r *MongoNotificationRepository) MarkAllReadForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"user": userID}, bson.M{"$set": bson.M{"isRead": true}})
	return err
}

type MongoSupplierLogRepository struct {
	collection *mongo.Collection
}

func NewSupplierLogRepository(db *mongo.Database) *MongoSupplierLogRepository {
	return &MongoSupplierLogRepository{collection: db.Collection("supplierlogs")}
}

func (r *MongoSupplierLogRepository) Create(ctx context.Context, log *models.SupplierLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, log)
	return err
}

func (r *MongoSupplierLogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SupplierLog, error) {
	var log models.SupplierLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *MongoSupplierLogRepository) FindAllSorted(ctx context.Context) ([]models.SupplierLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateDelivered", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.SupplierLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
