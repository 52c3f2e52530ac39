package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicure/hospital-api/internal/apperr"
	"github.com/medicure/hospital-api/internal/models"
)

type SendMessageRequest struct {
	FirstName string `json:"firstName" binding:"required,min=3"`
	LastName  string `json:"lastName" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,len=10,numeric"`
	Message   string `json:"message" binding:"required,min=10"`
}

// SendMessage stores a contact-form entry from the public site.
func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !bindOrFail(c, &req, "Please Fill Full Form!") {
		return
	}

	if _, err := h.Messages.Create(c.Request.Context(), models.Message{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
	}); err != nil {
		fail(c, apperr.Internal("Failed to store message", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message Sent Successfully!"})
}

// GetAllMessages lists contact messages for the dashboard.
func (h *Handler) GetAllMessages(c *gin.Context) {
	messages, err := h.Messages.FindAll(c.Request.Context())
	if err != nil {
		fail(c, apperr.Internal("Failed to retrieve messages", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}
