package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicure/hospital-api/internal/apperr"
	"github.com/medicure/hospital-api/internal/middleware"
	"github.com/medicure/hospital-api/internal/models"
	"github.com/medicure/hospital-api/internal/store"
	"github.com/medicure/hospital-api/internal/utils"
)

type RegisterPatientRequest struct {
	FirstName string `json:"firstName" binding:"required,min=3"`
	LastName  string `json:"lastName" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,len=10,numeric"`
	Aadhaar   string `json:"aadhaar" binding:"required,len=12,numeric"`
	DOB       string `json:"dob" binding:"required"`
	Gender    string `json:"gender" binding:"required,oneof=Male Female Others"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required"`
}

// RegisterPatient creates a self-registered account. The role field is
// required for form parity but the server always stores Patient.
func (h *Handler) RegisterPatient(c *gin.Context) {
	var req RegisterPatientRequest
	if !bindOrFail(c, &req, "Please fill full form!") {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
		fail(c, apperr.Duplicate("User already exists!"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		fail(c, apperr.Internal("Failed to check existing user", err))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		fail(c, apperr.Internal("Failed to hash password", err))
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Aadhaar:   req.Aadhaar,
		DOB:       req.DOB,
		Gender:    req.Gender,
		Password:  hashed,
		Role:      models.RolePatient,
	})
	if err != nil {
		// Lost the check-then-create race: the unique index caught it.
		if errors.Is(err, store.ErrDuplicateEmail) {
			fail(c, apperr.Duplicate("User already exists!"))
			return
		}
		fail(c, apperr.Internal("Failed to create user", err))
		return
	}

	h.sendToken(c, user, "User Registered!")
}

type LoginRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Role            string `json:"role" binding:"required"`
}

// Login verifies credentials and issues a token on the channel matching the
// stored role. Credential failures stay deliberately generic.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindOrFail(c, &req, "Please Provide All Details!") {
		return
	}

	if req.Password != req.ConfirmPassword {
		fail(c, apperr.Auth("Password and Confirm Password Do Not Match!"))
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, apperr.Auth("Invalid Password or Email!"))
			return
		}
		fail(c, apperr.Internal("Failed to look up user", err))
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		fail(c, apperr.Auth("Invalid Password or Email!"))
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok || user.Role != role {
		fail(c, apperr.Auth("User with this Role Not Found"))
		return
	}

	h.sendToken(c, user, "User Logged in successfully!")
}

type AddAdminRequest struct {
	FirstName string `json:"firstName" binding:"required,min=3"`
	LastName  string `json:"lastName" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,len=10,numeric"`
	Aadhaar   string `json:"aadhaar" binding:"required,len=12,numeric"`
	DOB       string `json:"dob" binding:"required"`
	Gender    string `json:"gender" binding:"required,oneof=Male Female Others"`
	Password  string `json:"password" binding:"required,min=8"`
}

// AddNewAdmin creates an admin account. Only reachable behind the admin
// gate; the new admin is not logged in by this call.
func (h *Handler) AddNewAdmin(c *gin.Context) {
	var req AddAdminRequest
	if !bindOrFail(c, &req, "Please fill full form!") {
		return
	}

	ctx := c.Request.Context()
	if existing, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
		fail(c, apperr.Duplicate(fmt.Sprintf("%s with this Email Already Exists!", existing.Role)))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		fail(c, apperr.Internal("Failed to check existing user", err))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		fail(c, apperr.Internal("Failed to hash password", err))
		return
	}

	if _, err := h.Users.Create(ctx, models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Aadhaar:   req.Aadhaar,
		DOB:       req.DOB,
		Gender:    req.Gender,
		Password:  hashed,
		Role:      models.RoleAdmin,
	}); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "New Admin Registered Successfully!",
	})
}

type AddDoctorRequest struct {
	FirstName        string `form:"firstName" binding:"required,min=3"`
	LastName         string `form:"lastName" binding:"required,min=3"`
	Email            string `form:"email" binding:"required,email"`
	Phone            string `form:"phone" binding:"required,len=10,numeric"`
	Aadhaar          string `form:"aadhaar" binding:"required,len=12,numeric"`
	DOB              string `form:"dob" binding:"required"`
	Gender           string `form:"gender" binding:"required,oneof=Male Female Others"`
	Password         string `form:"password" binding:"required,min=8"`
	DoctorDepartment string `form:"doctorDepartment" binding:"required"`
}

var allowedAvatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// AddNewDoctor creates a doctor account with an avatar uploaded to the asset
// host. The avatar is validated and uploaded before any store write so a
// rejected or failed upload leaves no partial user record.
func (h *Handler) AddNewDoctor(c *gin.Context) {
	fileHeader, err := c.FormFile("docAvatar")
	if err != nil {
		fail(c, apperr.Validation("Doctor Avatar Required!"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedAvatarTypes[contentType] {
		fail(c, apperr.Validation("File Format Not Supported!"))
		return
	}

	var req AddDoctorRequest
	if !bindOrFail(c, &req, "Please Provide All Details!") {
		return
	}

	ctx := c.Request.Context()
	if existing, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
		fail(c, apperr.Duplicate(fmt.Sprintf("%s is already registered with this Email!", existing.Role)))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		fail(c, apperr.Internal("Failed to check existing user", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, apperr.Internal("Failed to read avatar file", err))
		return
	}
	defer file.Close()

	avatar, err := h.Avatars.Upload(ctx, file, fileHeader.Size, contentType)
	if err != nil {
		fail(c, apperr.Upstream("Failed To Upload Doctor Avatar!", err))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		fail(c, apperr.Internal("Failed to hash password", err))
		return
	}

	doctor, err := h.Users.Create(ctx, models.User{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Aadhaar:          req.Aadhaar,
		DOB:              req.DOB,
		Gender:           req.Gender,
		Password:         hashed,
		Role:             models.RoleDoctor,
		DoctorDepartment: req.DoctorDepartment,
		DocAvatar:        &avatar,
	})
	if err != nil {
		fail(c, err)
		return
	}

	// The password hash stays hidden here too, via the model's json tag.
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "New Doctor Registered!",
		"doctor":  doctor,
	})
}

// GetAllDoctors is a public listing, optionally filtered by department.
func (h *Handler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.Users.FindDoctors(c.Request.Context(), c.Query("department"))
	if err != nil {
		fail(c, apperr.Internal("Failed to retrieve doctors", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "doctors": doctors})
}

// GetUserDetails returns the user the role gate attached to the request.
func (h *Handler) GetUserDetails(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperr.Unauthorized("User is not authenticated!"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"omitempty,min=3"`
	LastName  string `json:"lastName" binding:"omitempty,min=3"`
}

// UpdateProfile changes name fields on the authenticated account. It never
// touches the credential, so a profile save cannot re-hash the password.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperr.Unauthorized("User is not authenticated!"))
		return
	}

	var req UpdateProfileRequest
	if !bindOrFail(c, &req, "No update fields provided!") {
		return
	}
	if req.FirstName == "" && req.LastName == "" {
		fail(c, apperr.Validation("No update fields provided!"))
		return
	}

	if err := h.Users.UpdateProfile(c.Request.Context(), user.ID, req.FirstName, req.LastName); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile Updated Successfully!"})
}

// LogoutAdmin clears the admin channel only; a patient session in the same
// browser stays authenticated.
func (h *Handler) LogoutAdmin(c *gin.Context) {
	c.SetCookie(middleware.CookieAdmin, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin Logged Out Successfully!"})
}

// LogoutPatient clears the patient channel only.
func (h *Handler) LogoutPatient(c *gin.Context) {
	c.SetCookie(middleware.CookiePatient, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Patient Logged Out Successfully!"})
}
