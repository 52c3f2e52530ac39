package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/medicure/hospital-api/internal/apperr"
	"github.com/medicure/hospital-api/internal/store"
	"github.com/medicure/hospital-api/internal/utils"
)

func respondWith(err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		c.Error(err)
		c.Abort()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestNormalizeAppError(t *testing.T) {
	w, body := respondWith(apperr.Validation("Please fill full form!"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Please fill full form!", body["message"])
}

func TestNormalizeDuplicateEmail(t *testing.T) {
	w, body := respondWith(store.ErrDuplicateEmail)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Duplicate email Entered", body["message"])
}

func TestNormalizeTokenErrors(t *testing.T) {
	w, body := respondWith(utils.ErrTokenExpired)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Json Web Token is Expired. Try Again!", body["message"])

	w, body = respondWith(utils.ErrTokenInvalid)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Json Web Token is Invalid. Try Again!", body["message"])
}

func TestNormalizeNotFound(t *testing.T) {
	w, body := respondWith(store.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Resource Not Found", body["message"])
}

func TestNormalizeUnclassifiedFallsThroughTo500(t *testing.T) {
	w, body := respondWith(errors.New("cursor decode failed"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", body["message"])
	// No internals leak into the client-facing message.
	assert.NotContains(t, body["message"], "cursor")
}
