package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicure/hospital-api/internal/models"
)

// AppointmentStore handles persistence for appointments.
type AppointmentStore struct {
	collection *mongo.Collection
}

func NewAppointmentStore(database *mongo.Database) *AppointmentStore {
	return &AppointmentStore{collection: database.Collection("appointments")}
}

func (s *AppointmentStore) Create(ctx context.Context, apt models.Appointment) (models.Appointment, error) {
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	if _, err := s.collection.InsertOne(ctx, apt); err != nil {
		return models.Appointment{}, err
	}
	return apt, nil
}

// FindAll returns every appointment, newest appointment date first.
func (s *AppointmentStore) FindAll(ctx context.Context) ([]models.Appointment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "appointment_date", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = make([]models.Appointment, 0)
	}
	return appointments, nil
}

func (s *AppointmentStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AppointmentStatus, hasVisited *bool) (models.Appointment, error) {
	set := bson.M{"status": status}
	if hasVisited != nil {
		set["hasVisited"] = *hasVisited
	}

	var apt models.Appointment
	after := options.After
	err := s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Appointment{}, ErrNotFound
		}
		return models.Appointment{}, err
	}
	return apt, nil
}

func (s *AppointmentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
