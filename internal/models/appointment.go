package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AppointmentStatus tracks where an appointment sits in the admin workflow.
type AppointmentStatus string

const (
	StatusPending  AppointmentStatus = "Pending"
	StatusAccepted AppointmentStatus = "Accepted"
	StatusRejected AppointmentStatus = "Rejected"
)

// ParseAppointmentStatus maps a request string onto the closed status set.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusAccepted, StatusRejected:
		return AppointmentStatus(s), true
	}
	return "", false
}

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName       string             `bson:"firstName" json:"firstName"`
	LastName        string             `bson:"lastName" json:"lastName"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	Aadhaar         string             `bson:"aadhaar" json:"aadhaar"`
	DOB             string             `bson:"dob" json:"dob"`
	Gender          string             `bson:"gender" json:"gender"`
	AppointmentDate string             `bson:"appointment_date" json:"appointment_date"`
	Department      string             `bson:"department" json:"department"`
	DoctorFirstName string             `bson:"doctor_firstName" json:"doctor_firstName"`
	DoctorLastName  string             `bson:"doctor_lastName" json:"doctor_lastName"`
	HasVisited      bool               `bson:"hasVisited" json:"hasVisited"`
	Address         string             `bson:"address" json:"address"`
	DoctorID        primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	PatientID       primitive.ObjectID `bson:"patientId" json:"patientId"`
	Status          AppointmentStatus  `bson:"status" json:"status"`
}
