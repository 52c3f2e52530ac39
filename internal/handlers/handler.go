package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medicure/hospital-api/internal/apperr"
	"github.com/medicure/hospital-api/internal/middleware"
	"github.com/medicure/hospital-api/internal/models"
	"github.com/medicure/hospital-api/internal/utils"
)

// The stores are consumed as interfaces so handler tests can swap in
// in-memory fakes; the mongo implementations live in internal/store.

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindDoctors(ctx context.Context, department string) ([]models.User, error)
	FindDoctorByName(ctx context.Context, firstName, lastName, department string) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, firstName, lastName string) error
}

type AppointmentStore interface {
	Create(ctx context.Context, apt models.Appointment) (models.Appointment, error)
	FindAll(ctx context.Context) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AppointmentStatus, hasVisited *bool) (models.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MessageStore interface {
	Create(ctx context.Context, msg models.Message) (models.Message, error)
	FindAll(ctx context.Context) ([]models.Message, error)
}

// AvatarStorage is the asset host for doctor avatars.
type AvatarStorage interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (models.Avatar, error)
}

// Notifier sends best-effort acknowledgments; it must never fail a request.
type Notifier interface {
	SendAppointmentReceivedSMS(apt *models.Appointment)
}

// Handler bundles every dependency the endpoints need.
type Handler struct {
	Users        UserStore
	Appointments AppointmentStore
	Messages     MessageStore
	Avatars      AvatarStorage
	Notifier     Notifier
	Tokens       *utils.TokenManager
	CookieLife   time.Duration
}

func NewHandler(users UserStore, appointments AppointmentStore, messages MessageStore, avatars AvatarStorage, notifier Notifier, tokens *utils.TokenManager, cookieLife time.Duration) *Handler {
	return &Handler{
		Users:        users,
		Appointments: appointments,
		Messages:     messages,
		Avatars:      avatars,
		Notifier:     notifier,
		Tokens:       tokens,
		CookieLife:   cookieLife,
	}
}

// fail routes an error into the centralized normalizer and stops the chain.
func fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// bindOrFail binds and validates the request body. Any missing required
// field collapses to the endpoint's fill-the-form message; malformed fields
// keep their per-field wording via the normalizer.
func bindOrFail(c *gin.Context, dst interface{}, missingMsg string) bool {
	if err := c.ShouldBind(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if fe.Tag() == "required" {
					fail(c, apperr.Validation(missingMsg))
					return false
				}
			}
			fail(c, err)
			return false
		}
		fail(c, apperr.Validation(missingMsg))
		return false
	}
	return true
}

// sendToken issues a bearer token on the cookie channel matching the user's
// role: admins get adminToken, everyone else patientToken.
func (h *Handler) sendToken(c *gin.Context, user models.User, message string) {
	token, err := h.Tokens.Generate(user.ID.Hex())
	if err != nil {
		fail(c, apperr.Internal("Could not generate token", err))
		return
	}

	cookieName := middleware.CookiePatient
	if user.Role == models.RoleAdmin {
		cookieName = middleware.CookieAdmin
	}
	c.SetCookie(cookieName, token, int(h.CookieLife.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"user":    user,
		"token":   token,
	})
}
