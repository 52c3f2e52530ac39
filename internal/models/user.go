package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role is the closed set of account types. It drives which cookie channel a
// session uses and which routes a user may reach.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
)

// ParseRole maps a request string onto the closed Role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RolePatient, RoleDoctor:
		return Role(s), true
	}
	return "", false
}

// Avatar is the public handle of an uploaded doctor picture on the asset host.
type Avatar struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Aadhaar   string             `bson:"aadhaar" json:"aadhaar"`
	DOB       string             `bson:"dob" json:"dob"`
	Gender    string             `bson:"gender" json:"gender"` // "Male", "Female", "Others"
	Password  string             `bson:"password" json:"-"`    // Hide the hash from every JSON response
	Role      Role               `bson:"role" json:"role"`

	// Doctor-only fields.
	DoctorDepartment string  `bson:"doctorDepartment,omitempty" json:"doctorDepartment,omitempty"`
	DocAvatar        *Avatar `bson:"docAvatar,omitempty" json:"docAvatar,omitempty"`
}
