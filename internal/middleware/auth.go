package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medicure/hospital-api/internal/apperr"
	"github.com/medicure/hospital-api/internal/models"
	"github.com/medicure/hospital-api/internal/utils"
)

// Two independent cookie channels so one browser can hold an admin and a
// patient session at the same time.
const (
	CookieAdmin   = "adminToken"
	CookiePatient = "patientToken"
)

const contextUserKey = "currentUser"

// UserFinder resolves a verified token subject to a stored user record.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// RequireAdmin gates the dashboard route family on the adminToken cookie.
func RequireAdmin(users UserFinder, tokens *utils.TokenManager) gin.HandlerFunc {
	return requireRole(users, tokens, CookieAdmin, models.RoleAdmin, "Dashboard User is not authenticated!")
}

// RequirePatient gates the patient route family on the patientToken cookie.
func RequirePatient(users UserFinder, tokens *utils.TokenManager) gin.HandlerFunc {
	return requireRole(users, tokens, CookiePatient, models.RolePatient, "User is not authenticated!")
}

func requireRole(users UserFinder, tokens *utils.TokenManager, cookieName string, required models.Role, missingMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(cookieName)
		if err != nil || tokenStr == "" {
			abortWith(c, apperr.Unauthorized(missingMsg))
			return
		}

		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			// The error normalizer maps expired vs invalid to the right message.
			c.Error(err)
			c.Abort()
			return
		}

		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			abortWith(c, apperr.Unauthorized("Json Web Token is Invalid. Try Again!"))
			return
		}

		user, err := users.FindByID(c.Request.Context(), oid)
		if err != nil {
			abortWith(c, apperr.Unauthorized(missingMsg))
			return
		}

		// A valid signature is not enough: the stored role must match the
		// route family. A patient token never satisfies an admin route.
		if user.Role != required {
			abortWith(c, apperr.Forbidden(fmt.Sprintf("%s not authorized for this resource!", user.Role)))
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser attaches the acting user to the request context. The role
// gate calls it after verification; handler tests use it to stand in for the
// gate.
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(contextUserKey, user)
}

func abortWith(c *gin.Context, err *apperr.Error) {
	c.Error(err)
	c.Abort()
}

// CurrentUser returns the user the role gate attached to the request.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
