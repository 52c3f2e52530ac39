package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/medicure/hospital-api/internal/models"
)

// NotificationService sends best-effort SMS acknowledgments through the
// Textbelt API. Failures are logged, never surfaced to the request.
type NotificationService struct {
	apiKey string
}

func NewNotificationService(apiKey string) *NotificationService {
	return &NotificationService{apiKey: apiKey}
}

// SendAppointmentReceivedSMS tells the patient their request was recorded.
// Runs in a goroutine so it doesn't block the API response.
func (s *NotificationService) SendAppointmentReceivedSMS(apt *models.Appointment) {
	if apt.Phone == "" {
		log.Println("SMS not sent: appointment has no phone number.")
		return
	}

	smsBody := fmt.Sprintf(
		"Appointment request received: %s department with Dr. %s %s on %s. We will confirm shortly.",
		apt.Department,
		apt.DoctorFirstName,
		apt.DoctorLastName,
		apt.AppointmentDate,
	)

	go s.sendSMS(apt.Phone, smsBody)
}

func (s *NotificationService) sendSMS(phone, message string) {
	if s.apiKey == "" {
		log.Println("SMS not sent: TEXTBELT_API_KEY is not configured.")
		return
	}

	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})

	resp, err := http.Post("https://textbelt.com/text", "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		log.Printf("Failed to send Textbelt request for number %s: %v", phone, err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)

	success, _ := result["success"].(bool)
	if !success {
		errorMsg, _ := result["error"].(string)
		log.Printf("Failed to send SMS via Textbelt to %s. Reason: %s", phone, errorMsg)
	} else {
		log.Printf("Successfully sent SMS via Textbelt to %s", phone)
	}
}
