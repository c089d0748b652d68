package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"admission-portal-backend/internal/admission"
	httpapi "admission-portal-backend/internal/api/http"
	"admission-portal-backend/internal/config"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository/postgres"
	"admission-portal-backend/internal/security"
	"admission-portal-backend/internal/service"
	"admission-portal-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Admission Portal Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "provider", cfg.Email.Provider, "from", cfg.Email.From)

	// Ops gRPC server: health and reflection only
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpcServer := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	// Register reflection service for grpcurl
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	go func() {
		logger.Info("gRPC ops server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Storage Service
	fileStore, err := storage.New(storage.Config{Type: cfg.Storage.Type, UploadDir: cfg.Storage.UploadDir})
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("Using local document storage", "upload_dir", cfg.Storage.UploadDir)

	// Initialize Email and Push
	emailSvc := service.NewEmailService(newMailSender(cfg.Email))
	pushSvc := newPushService(cfg.Push)

	// Initialize Services
	noteSvc := service.NewNotificationService(store.NotificationRepository, emailSvc, pushSvc)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	twoFactorSvc := service.NewTwoFactorService(
		store.UserRepository,
		tokenManager,
		emailSvc,
		time.Duration(cfg.Admission.TwoFactorCodeTTLMin)*time.Minute,
	)
	profileSvc := service.NewProfileService(store.UserRepository)
	appSvc := service.NewApplicationService(
		store.ApplicationRepository,
		store.DocumentRepository,
		store.RequiredDocumentRepository,
		store.ApplicationStepRepository,
		store.UserRepository,
		fileStore,
		noteSvc,
		service.ApplicationOptions{
			DefaultSteps: cfg.Admission.DefaultSteps,
			MaxFileSize:  cfg.MaxFileSizeBytes(),
			AllowedTypes: cfg.Storage.AllowedTypes,
		},
	)
	adminSvc := service.NewAdminService(
		store.UserRepository,
		store.ApplicationRepository,
		store.DocumentRepository,
		store.RequiredDocumentRepository,
		store.ApplicationStepRepository,
		noteSvc,
	)

	// Initialize HTTP API
	gate := admission.NewGate(profileSvc)
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:          httpapi.NewAuthHandler(authSvc, twoFactorSvc),
		Student:       httpapi.NewStudentHandler(profileSvc, appSvc, cfg.MaxFileSizeBytes()),
		Admin:         httpapi.NewAdminHandler(adminSvc),
		Notifications: httpapi.NewNotificationHandler(noteSvc),
	}, httpapi.NewAuthMiddleware(tokenManager, store.UserRepository, gate))

	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down servers...")
	healthServer.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Servers stopped. Goodbye!")
}

func newMailSender(cfg config.EmailConfig) service.MailSender {
	if strings.ToLower(cfg.Provider) == "sendgrid" {
		logger.Info("Using SendGrid for outbound email", "from", cfg.From)
		return service.NewSendGridSender(cfg.APIKey, cfg.From, cfg.FromName)
	}
	logger.Warn("Email provider is 'log'; messages are written to the log only")
	return service.NewLogSender()
}

func newPushService(cfg config.PushConfig) service.PushService {
	if !cfg.Enabled {
		return service.NewNoopPushService()
	}
	pushSvc, err := service.NewFirebasePushService(context.Background(), cfg.CredentialsFile, cfg.ProjectID)
	if err != nil {
		logger.Error("Failed to initialize Firebase messaging, push disabled", "error", err)
		return service.NewNoopPushService()
	}
	logger.Info("Firebase push notifications enabled", "project_id", cfg.ProjectID)
	return pushSvc
}
