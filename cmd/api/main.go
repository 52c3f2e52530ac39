package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/medicure/hospital-api/internal/config"
	"github.com/medicure/hospital-api/internal/db"
	"github.com/medicure/hospital-api/internal/handlers"
	"github.com/medicure/hospital-api/internal/middleware"
	"github.com/medicure/hospital-api/internal/services"
	"github.com/medicure/hospital-api/internal/storage"
	"github.com/medicure/hospital-api/internal/store"
	"github.com/medicure/hospital-api/internal/utils"
)

func main() {
	cfg := config.Load()

	// --- Database Connection ---
	ctx := context.Background()
	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	database := client.Database(cfg.MongoDatabase)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Println("Successfully connected to MongoDB!")

	// --- Asset Host ---
	avatars, err := storage.NewAvatarStore(ctx, cfg.Minio)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}
	log.Println("Successfully connected to MinIO!")

	// --- Services ---
	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpires)
	if err != nil {
		log.Fatalf("Token manager: %v", err)
	}
	notifier := services.NewNotificationService(cfg.TextbeltKey)

	users := store.NewUserStore(database)
	appointments := store.NewAppointmentStore(database)
	messages := store.NewMessageStore(database)

	h := handlers.NewHandler(users, appointments, messages, avatars, notifier, tokens, cfg.CookieLife)

	// --- Gin Router ---
	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAdmin := middleware.RequireAdmin(users, tokens)
	requirePatient := middleware.RequirePatient(users, tokens)

	// --- Routes ---
	api := r.Group("/api/v1")

	user := api.Group("/user")
	{
		user.POST("/patient/register", h.RegisterPatient)
		user.POST("/login", h.Login)
		user.GET("/doctors", h.GetAllDoctors)

		user.POST("/admin/addnew", requireAdmin, h.AddNewAdmin)
		user.POST("/doctor/addnew", requireAdmin, h.AddNewDoctor)
		user.GET("/admin/me", requireAdmin, h.GetUserDetails)
		user.PUT("/admin/me/update", requireAdmin, h.UpdateProfile)
		user.GET("/admin/logout", requireAdmin, h.LogoutAdmin)

		user.GET("/patient/me", requirePatient, h.GetUserDetails)
		user.PUT("/patient/me/update", requirePatient, h.UpdateProfile)
		user.GET("/patient/logout", requirePatient, h.LogoutPatient)
	}

	appointment := api.Group("/appointment")
	{
		appointment.POST("/post", requirePatient, h.PostAppointment)
		appointment.GET("/getall", requireAdmin, h.GetAllAppointments)
		appointment.PUT("/update/:id", requireAdmin, h.UpdateAppointmentStatus)
		appointment.DELETE("/delete/:id", requireAdmin, h.DeleteAppointment)
	}

	message := api.Group("/message")
	{
		message.POST("/send", h.SendMessage)
		message.GET("/getall", requireAdmin, h.GetAllMessages)
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
