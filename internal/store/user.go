package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medicure/hospital-api/internal/models"
)

// UserStore handles persistence for users.
type UserStore struct {
	collection *mongo.Collection
}

func NewUserStore(database *mongo.Database) *UserStore {
	return &UserStore{collection: database.Collection("users")}
}

// Create inserts a new user. A unique-index violation on email surfaces as
// ErrDuplicateEmail.
func (s *UserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

// FindByEmail returns the user record including the password hash; it is the
// login path's lookup and must never be used to shape a response directly.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// FindDoctors returns every user with role Doctor, optionally narrowed to a
// department.
func (s *UserStore) FindDoctors(ctx context.Context, department string) ([]models.User, error) {
	filter := bson.M{"role": models.RoleDoctor}
	if department != "" {
		filter["doctorDepartment"] = department
	}
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var doctors []models.User
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	if doctors == nil {
		doctors = make([]models.User, 0)
	}
	return doctors, nil
}

// FindDoctorByName resolves the doctor an appointment names. It returns all
// matches so the caller can distinguish "not found" from an ambiguous name.
func (s *UserStore) FindDoctorByName(ctx context.Context, firstName, lastName, department string) ([]models.User, error) {
	cursor, err := s.collection.Find(ctx, bson.M{
		"firstName":        firstName,
		"lastName":         lastName,
		"role":             models.RoleDoctor,
		"doctorDepartment": department,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var doctors []models.User
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// UpdateProfile changes name fields only. The password hash is deliberately
// unreachable from this path so a profile save can never re-hash it.
func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, firstName, lastName string) error {
	set := bson.M{}
	if firstName != "" {
		set["firstName"] = firstName
	}
	if lastName != "" {
		set["lastName"] = lastName
	}
	if len(set) == 0 {
		return nil
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
