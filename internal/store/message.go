package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medicure/hospital-api/internal/models"
)

// MessageStore handles persistence for contact messages.
type MessageStore struct {
	collection *mongo.Collection
}

func NewMessageStore(database *mongo.Database) *MessageStore {
	return &MessageStore{collection: database.Collection("messages")}
}

func (s *MessageStore) Create(ctx context.Context, msg models.Message) (models.Message, error) {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	if _, err := s.collection.InsertOne(ctx, msg); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

func (s *MessageStore) FindAll(ctx context.Context) ([]models.Message, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = make([]models.Message, 0)
	}
	return messages, nil
}
