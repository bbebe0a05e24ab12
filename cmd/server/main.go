package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/chekline/backend/docs"
	"github.com/chekline/backend/internal/database"
	"github.com/chekline/backend/internal/handlers"
	mW "github.com/chekline/backend/internal/middleware"
	"github.com/chekline/backend/internal/services"
)

// @title Receipt Service API
// @version 1.0
// @description API for creating and sharing purchase receipts
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "SECRET_KEY")
	viper.BindEnv("jwt.expiry_minutes", "ACCESS_TOKEN_EXPIRE_MINUTES")
	viper.BindEnv("argon2.time", "ARGON2_TIME")
	viper.BindEnv("argon2.memory", "ARGON2_MEMORY")
	viper.BindEnv("argon2.threads", "ARGON2_THREADS")
	viper.BindEnv("argon2.key_length", "ARGON2_KEY_LENGTH")
	viper.BindEnv("argon2.salt_length", "ARGON2_SALT_LENGTH")
	viper.BindEnv("server.public_url", "SERVER_PUBLIC_URL")
	viper.BindEnv("receipt.merchant", "RECEIPT_MERCHANT")

	viper.SetDefault("jwt.secret_key", "test-secret-key")
	viper.SetDefault("jwt.expiry_minutes", 30)
	viper.SetDefault("server.public_url", "http://localhost:8080")
	viper.SetDefault("receipt.merchant", "ФОП Джонсонюк Борис")

	if err := viper.ReadInConfig(); err != nil {
		logrus.Warnf("Config file not found, using defaults: %v", err)
	}

	docs.SwaggerInfo.Title = "Receipt Service API"
	docs.SwaggerInfo.Description = "API for creating and sharing purchase receipts"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize services
	db := database.InitDatabase()
	defer db.Close()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	tokenService := services.NewTokenService(
		viper.GetString("jwt.secret_key"),
		time.Duration(viper.GetInt("jwt.expiry_minutes"))*time.Minute,
	)
	hasher := services.NewPasswordHasher()
	authService := services.NewAuthService(db, hasher, tokenService)

	checkRepo := services.NewCheckRepository(db)
	formatter := services.NewReceiptFormatter(viper.GetString("receipt.merchant"))
	checkService := services.NewCheckService(checkRepo, redisClient, formatter)
	qrService := services.NewQRService(checkRepo, viper.GetString("server.public_url"))
	qrHandler := handlers.NewQRHandler(qrService)

	authMiddleware := mW.NewAuthMiddleware(tokenService, db)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(mW.Metrics)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Post("/auth/register", authService.Register)
		r.Post("/auth/login", authService.Login)
		r.Get("/checks/public/{token}", checkService.PublicCheckView)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)

			r.Post("/checks/", checkService.CreateCheck)
			r.Get("/checks/", checkService.ListChecks)
			r.Get("/checks/{id}", checkService.GetCheck)
			r.Get("/checks/{id}/qr", qrHandler.GetCheckQR)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logrus.Infof("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server stopped")
}
