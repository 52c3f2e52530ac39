package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medicure/hospital-api/internal/apperr"
	"github.com/medicure/hospital-api/internal/store"
	"github.com/medicure/hospital-api/internal/utils"
)

// ErrorHandler is the single normalizer every failure funnels through.
// Handlers attach errors with c.Error and abort; this middleware maps known
// shapes to the uniform {success:false, message} body and falls back to a
// generic 500 for anything unclassified.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		status, message := normalize(c.Errors.Last().Err)
		c.JSON(status, gin.H{"success": false, "message": message})
	}
}

func normalize(err error) (int, string) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			log.Printf("request failed (%d %s): %v", appErr.Status, appErr.Message, appErr.Err)
		}
		return appErr.Status, appErr.Message
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, fieldMessage(fieldErrs[0])
	}

	switch {
	case errors.Is(err, store.ErrDuplicateEmail), mongo.IsDuplicateKeyError(err):
		return http.StatusBadRequest, "Duplicate email Entered"
	case errors.Is(err, utils.ErrTokenExpired):
		return http.StatusBadRequest, "Json Web Token is Expired. Try Again!"
	case errors.Is(err, utils.ErrTokenInvalid):
		return http.StatusBadRequest, "Json Web Token is Invalid. Try Again!"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Resource Not Found"
	}

	log.Printf("unclassified error: %v", err)
	return http.StatusInternalServerError, "Internal Server Error"
}

// fieldMessage translates the first failed binding rule into the wording the
// frontend forms expect.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "FirstName":
		return "First Name Must Contain At Least 3 Characters!"
	case "LastName":
		return "Last Name Must Contain At Least 3 Characters!"
	case "Email":
		return "Please Provide A Valid Email!"
	case "Phone":
		return "Phone Number Must Contain Exact 10 Digits!"
	case "Aadhaar":
		return "Aadhaar Number Must Contain Exact 12 Digits!"
	case "Password":
		return "Password Must Contain At Least 8 Characters!"
	case "Gender":
		return "Please Provide A Valid Gender!"
	case "Message":
		return "Message Must Contain At Least 10 Characters!"
	case "Role":
		return "Please Provide A Valid Role!"
	}
	return fmt.Sprintf("Invalid %s!", fe.Field())
}
