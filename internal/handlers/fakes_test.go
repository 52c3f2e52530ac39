package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medicure/hospital-api/internal/apperr"
	"github.com/medicure/hospital-api/internal/middleware"
	"github.com/medicure/hospital-api/internal/models"
	"github.com/medicure/hospital-api/internal/store"
	"github.com/medicure/hospital-api/internal/utils"
)

// In-memory stands-ins for the mongo stores, matching their sentinel-error
// contracts so handlers behave exactly as against the real stores.

type fakeUserStore struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]models.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.User{}, f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return models.User{}, store.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindDoctors(_ context.Context, department string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doctors := make([]models.User, 0)
	for _, user := range f.users {
		if user.Role != models.RoleDoctor {
			continue
		}
		if department != "" && user.DoctorDepartment != department {
			continue
		}
		doctors = append(doctors, user)
	}
	return doctors, nil
}

func (f *fakeUserStore) FindDoctorByName(_ context.Context, firstName, lastName, department string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var doctors []models.User
	for _, user := range f.users {
		if user.Role == models.RoleDoctor &&
			user.FirstName == firstName &&
			user.LastName == lastName &&
			user.DoctorDepartment == department {
			doctors = append(doctors, user)
		}
	}
	return doctors, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, firstName, lastName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	f.users[id] = user
	return nil
}

type fakeAppointmentStore struct {
	mu           sync.Mutex
	appointments map[primitive.ObjectID]models.Appointment
	failWith     error
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{appointments: map[primitive.ObjectID]models.Appointment{}}
}

func (f *fakeAppointmentStore) Create(_ context.Context, apt models.Appointment) (models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	f.appointments[apt.ID] = apt
	return apt, nil
}

func (f *fakeAppointmentStore) FindAll(_ context.Context) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointments := make([]models.Appointment, 0, len(f.appointments))
	for _, apt := range f.appointments {
		appointments = append(appointments, apt)
	}
	return appointments, nil
}

func (f *fakeAppointmentStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.AppointmentStatus, hasVisited *bool) (models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return models.Appointment{}, f.failWith
	}
	apt, ok := f.appointments[id]
	if !ok {
		return models.Appointment{}, store.ErrNotFound
	}
	apt.Status = status
	if hasVisited != nil {
		apt.HasVisited = *hasVisited
	}
	f.appointments[id] = apt
	return apt, nil
}

func (f *fakeAppointmentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.appointments[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.appointments, id)
	return nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []models.Message
}

func (f *fakeMessageStore) Create(_ context.Context, msg models.Message) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeMessageStore) FindAll(_ context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Message{}, f.messages...), nil
}

type fakeAvatarStorage struct {
	mu      sync.Mutex
	uploads int
	fail    bool
}

func (f *fakeAvatarStorage) Upload(_ context.Context, _ io.Reader, _ int64, contentType string) (models.Avatar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.Avatar{}, apperr.Upstream("asset host unavailable", nil)
	}
	f.uploads++
	return models.Avatar{PublicID: "avatars/test-object", URL: "http://localhost:9000/doctor-avatars/test-object"}, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Appointment
}

func (f *fakeNotifier) SendAppointmentReceivedSMS(apt *models.Appointment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *apt)
}

// testEnv bundles the handler with its fakes for assertions.
type testEnv struct {
	handler      *Handler
	users        *fakeUserStore
	appointments *fakeAppointmentStore
	messages     *fakeMessageStore
	avatars      *fakeAvatarStorage
	notifier     *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := utils.NewTokenManager("test-secret-123", time.Hour)
	assert.NoError(t, err)

	env := &testEnv{
		users:        newFakeUserStore(),
		appointments: newFakeAppointmentStore(),
		messages:     &fakeMessageStore{},
		avatars:      &fakeAvatarStorage{},
		notifier:     &fakeNotifier{},
	}
	env.handler = NewHandler(env.users, env.appointments, env.messages, env.avatars, env.notifier, tokens, time.Hour)
	return env
}

// router builds a minimal route table with the error normalizer installed.
// actingUser, when non-nil, stands in for the role gate.
func (env *testEnv) router(actingUser *models.User) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	if actingUser != nil {
		r.Use(func(c *gin.Context) {
			middleware.SetCurrentUser(c, *actingUser)
			c.Next()
		})
	}

	h := env.handler
	r.POST("/api/v1/user/patient/register", h.RegisterPatient)
	r.POST("/api/v1/user/login", h.Login)
	r.POST("/api/v1/user/admin/addnew", h.AddNewAdmin)
	r.POST("/api/v1/user/doctor/addnew", h.AddNewDoctor)
	r.GET("/api/v1/user/doctors", h.GetAllDoctors)
	r.GET("/api/v1/user/me", h.GetUserDetails)
	r.PUT("/api/v1/user/me/update", h.UpdateProfile)
	r.GET("/api/v1/user/admin/logout", h.LogoutAdmin)
	r.GET("/api/v1/user/patient/logout", h.LogoutPatient)
	r.POST("/api/v1/appointment/post", h.PostAppointment)
	r.GET("/api/v1/appointment/getall", h.GetAllAppointments)
	r.PUT("/api/v1/appointment/update/:id", h.UpdateAppointmentStatus)
	r.DELETE("/api/v1/appointment/delete/:id", h.DeleteAppointment)
	r.POST("/api/v1/message/send", h.SendMessage)
	r.GET("/api/v1/message/getall", h.GetAllMessages)
	return r
}

func doJSON(r *gin.Engine, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reqBody io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		reqBody = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

// doctorForm builds a multipart doctor-creation request. An empty avatarType
// omits the file entirely.
func doctorForm(t *testing.T, fields map[string]string, avatarType string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	if avatarType != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="docAvatar"; filename="avatar.png"`)
		header.Set("Content-Type", avatarType)
		part, err := writer.CreatePart(header)
		assert.NoError(t, err)
		part.Write([]byte("fake image bytes"))
	}

	for key, value := range fields {
		writer.WriteField(key, value)
	}
	assert.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// seedUser inserts a user with a real bcrypt hash of the given password.
func (env *testEnv) seedUser(t *testing.T, role models.Role, email, password string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	assert.NoError(t, err)
	user, err := env.users.Create(context.Background(), models.User{
		FirstName: "Seeded",
		LastName:  "Account",
		Email:     email,
		Phone:     "9876543210",
		Aadhaar:   "123456789012",
		DOB:       "1990-04-12",
		Gender:    "Female",
		Password:  hash,
		Role:      role,
	})
	assert.NoError(t, err)
	return user
}

func (env *testEnv) seedDoctor(t *testing.T, firstName, lastName, department, email string) models.User {
	t.Helper()
	user, err := env.users.Create(context.Background(), models.User{
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		Phone:            "9876543210",
		Aadhaar:          "123456789012",
		DOB:              "1980-01-20",
		Gender:           "Male",
		Password:         "irrelevant-hash",
		Role:             models.RoleDoctor,
		DoctorDepartment: department,
	})
	assert.NoError(t, err)
	return user
}

func validRegisterPayload() map[string]interface{} {
	return map[string]interface{}{
		"firstName": "Asha",
		"lastName":  "Verma",
		"email":     "asha@example.com",
		"phone":     "9876543210",
		"aadhaar":   "123456789012",
		"dob":       "1994-08-21",
		"gender":    "Female",
		"password":  "secret12",
		"role":      "Patient",
	}
}
