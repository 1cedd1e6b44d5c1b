package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthkonnect/healthkonnect-api/internal/config"
	"github.com/healthkonnect/healthkonnect-api/internal/handlers"
	"github.com/healthkonnect/healthkonnect-api/internal/middleware"
	"github.com/healthkonnect/healthkonnect-api/internal/models"
	"github.com/healthkonnect/healthkonnect-api/internal/services"
	"github.com/healthkonnect/healthkonnect-api/internal/utils"
	"github.com/healthkonnect/healthkonnect-api/internal/ws"
	"github.com/healthkonnect/healthkonnect-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// --- Logging ---
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)
	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	if err := seedAdmin(ctx, db, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	// --- Services ---
	hub := ws.NewHub()
	notificationSvc := services.NewNotificationService(db, hub)
	h := handlers.NewHandler(db, notificationSvc, hub, cache.New(time.Minute, 5*time.Minute))
	wsHandler := ws.NewHandler(hub)
	m := metrics.New("healthkonnect")

	// --- Gin Router ---
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics(m))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", wsHandler.Serve)

	api := r.Group("/api")
	{
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)

		api.GET("/doctors", h.ListDoctors)
		api.GET("/doctors/city/:city", h.DoctorsByCity)
		api.GET("/doctors/:doctorId/appointments/:date", h.DoctorDaySlots)

		api.POST("/ai/symptom-analysis", h.AnalyzeSymptoms)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/auth/me", h.Me)

		authed.POST("/appointments", middleware.RequireRole(models.RolePatient), h.CreateAppointment)
		authed.GET("/appointments", h.ListAppointments)
		authed.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)

		authed.POST("/messages", h.SendMessage)
		authed.GET("/messages", h.ListMessages)

		authed.GET("/users/profile", h.GetProfile)
		authed.PUT("/users/profile", h.UpdateProfile)

		authed.POST("/prescriptions", middleware.RequireRole(models.RoleDoctor), h.CreatePrescription)
		authed.GET("/prescriptions/patient", h.ListPrescriptionsForPatient)
		authed.GET("/prescriptions/doctor", h.ListPrescriptionsForDoctor)
		authed.GET("/prescriptions/:id", h.GetPrescription)

		authed.POST("/uploads/medical-document", h.CreateDocument)
		authed.GET("/uploads/medical-documents", h.ListDocuments)
		authed.DELETE("/uploads/medical-document/:id", h.DeleteDocument)

		authed.GET("/notifications", h.ListNotifications)
		authed.PATCH("/notifications/:id/read", h.MarkNotificationRead)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/doctors", h.AdminCreateDoctor)
		admin.GET("/doctors", h.AdminListDoctors)
		admin.PUT("/doctors/:id", h.AdminUpdateDoctor)
		admin.DELETE("/doctors/:id", h.AdminDeleteDoctor)
	}

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// ensureIndexes creates the indexes the application relies on: unique
// email, one profile per user, the partial unique slot key that makes
// booking atomic, and the common lookup paths.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("profiles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("appointments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Only documents that still block a slot carry slotKey, so
			// cancelled appointments free the slot for rebooking.
			Keys: bson.D{{Key: "slotKey", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"slotKey": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "date", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("messages").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// seedAdmin provisions the configured admin account when absent. This
// replaces any notion of a hardcoded demo credential: without the env
// pair there is simply no admin.
func seedAdmin(ctx context.Context, db *mongo.Database, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	users := db.Collection("users")
	err := users.FindOne(ctx, bson.M{"email": cfg.AdminEmail}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = users.InsertOne(ctx, models.User{
		ID:        primitive.NewObjectID(),
		Name:      "Administrator",
		Email:     cfg.AdminEmail,
		Password:  hashed,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("seeded admin user")
	return nil
}
