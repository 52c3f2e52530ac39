package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medicure/hospital-api/internal/apperr"
	"github.com/medicure/hospital-api/internal/middleware"
	"github.com/medicure/hospital-api/internal/models"
	"github.com/medicure/hospital-api/internal/store"
)

type PostAppointmentRequest struct {
	FirstName       string `json:"firstName" binding:"required,min=3"`
	LastName        string `json:"lastName" binding:"required,min=3"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required,len=10,numeric"`
	Aadhaar         string `json:"aadhaar" binding:"required,len=12,numeric"`
	DOB             string `json:"dob" binding:"required"`
	Gender          string `json:"gender" binding:"required,oneof=Male Female Others"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	Department      string `json:"department" binding:"required"`
	DoctorFirstName string `json:"doctor_firstName" binding:"required"`
	DoctorLastName  string `json:"doctor_lastName" binding:"required"`
	HasVisited      bool   `json:"hasVisited"`
	Address         string `json:"address" binding:"required"`
}

// PostAppointment books an appointment for the authenticated patient with a
// named doctor. The doctor must resolve to exactly one account.
func (h *Handler) PostAppointment(c *gin.Context) {
	var req PostAppointmentRequest
	if !bindOrFail(c, &req, "Please Fill Full Form!") {
		return
	}

	patient, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperr.Unauthorized("User is not authenticated!"))
		return
	}

	ctx := c.Request.Context()
	doctors, err := h.Users.FindDoctorByName(ctx, req.DoctorFirstName, req.DoctorLastName, req.Department)
	if err != nil {
		fail(c, apperr.Internal("Failed to look up doctor", err))
		return
	}
	if len(doctors) == 0 {
		fail(c, apperr.NotFound("Doctor not found"))
		return
	}
	if len(doctors) > 1 {
		fail(c, apperr.NotFound("Doctors Conflict! Please Contact Through Email Or Phone!"))
		return
	}

	apt, err := h.Appointments.Create(ctx, models.Appointment{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Aadhaar:         req.Aadhaar,
		DOB:             req.DOB,
		Gender:          req.Gender,
		AppointmentDate: req.AppointmentDate,
		Department:      req.Department,
		DoctorFirstName: req.DoctorFirstName,
		DoctorLastName:  req.DoctorLastName,
		HasVisited:      req.HasVisited,
		Address:         req.Address,
		DoctorID:        doctors[0].ID,
		PatientID:       patient.ID,
		Status:          models.StatusPending,
	})
	if err != nil {
		fail(c, apperr.Internal("Failed to create appointment", err))
		return
	}

	h.Notifier.SendAppointmentReceivedSMS(&apt)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"appointment": apt,
		"message":     "Appointment Sent Successfully!",
	})
}

// GetAllAppointments lists every appointment for the dashboard.
func (h *Handler) GetAllAppointments(c *gin.Context) {
	appointments, err := h.Appointments.FindAll(c.Request.Context())
	if err != nil {
		fail(c, apperr.Internal("Failed to retrieve appointments", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}

type UpdateAppointmentRequest struct {
	Status     string `json:"status" binding:"required"`
	HasVisited *bool  `json:"hasVisited"`
}

// UpdateAppointmentStatus moves an appointment through the admin workflow.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("Invalid Appointment Id!"))
		return
	}

	var req UpdateAppointmentRequest
	if !bindOrFail(c, &req, "Please Provide Appointment Status!") {
		return
	}

	status, ok := models.ParseAppointmentStatus(req.Status)
	if !ok {
		fail(c, apperr.Validation("Please Provide A Valid Status!"))
		return
	}

	apt, err := h.Appointments.UpdateStatus(c.Request.Context(), id, status, req.HasVisited)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, apperr.NotFound("Appointment Not Found!"))
			return
		}
		fail(c, apperr.Internal("Failed to update appointment", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Appointment Status Updated!",
		"appointment": apt,
	})
}

// DeleteAppointment removes an appointment from the dashboard.
func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("Invalid Appointment Id!"))
		return
	}

	if err := h.Appointments.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, apperr.NotFound("Appointment Not Found!"))
			return
		}
		fail(c, apperr.Internal("Failed to delete appointment", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment Deleted!"})
}
