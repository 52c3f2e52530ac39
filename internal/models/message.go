package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Message is a contact-form entry from the public site.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Message   string             `bson:"message" json:"message"`
}
