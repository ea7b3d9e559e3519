package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DIPRO2000/TicketFlow/config"
	_ "github.com/DIPRO2000/TicketFlow/docs"
	"github.com/DIPRO2000/TicketFlow/internal/adapters/auth"
	"github.com/DIPRO2000/TicketFlow/internal/adapters/email"
	"github.com/DIPRO2000/TicketFlow/internal/adapters/token"
	"github.com/DIPRO2000/TicketFlow/internal/adapters/upload"
	deliveryhttp "github.com/DIPRO2000/TicketFlow/internal/delivery/http"
	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/controllers"
	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/middleware"
	"github.com/DIPRO2000/TicketFlow/internal/repository/postgres"
	"github.com/DIPRO2000/TicketFlow/internal/services"

	_ "github.com/lib/pq"
)

// @title TicketFlow API
// @version 1.0
// @description Event ticketing backend: organizer accounts, events with ticket tiers, link-based guest purchases, and door check-in.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		cancel()
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}
	cancel()

	organizerRepo := postgres.NewOrganizerRepository(db)
	otpRepo := postgres.NewOTPRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)

	issuer, verifier := auth.NewJWTManager(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(0)
	tokens := token.NewGenerator()
	mailer := email.NewMailer(cfg.Mailer, logger)
	renderer := email.NewTemplateRenderer()
	uploader := upload.NewNoopUploader()
	if cfg.Cloudinary.CloudName != "" {
		uploader = upload.NewCloudinaryUploader(nil, cfg.Cloudinary)
	}

	emailService := services.NewEmailService(mailer, renderer)
	organizerService := services.NewOrganizerService(organizerRepo, otpRepo, hasher, issuer, cfg.TokenExpiry, emailService, logger)
	eventService := services.NewEventService(eventRepo, tokens)
	participantService := services.NewParticipantService(eventRepo, participantRepo, tokens, uploader, emailService, logger)

	authController := controllers.NewAuthController(logger, organizerService)
	eventController := controllers.NewEventController(logger, eventService)
	participantController := controllers.NewParticipantController(logger, participantService)

	mux := deliveryhttp.NewRouter(authController, eventController, participantController, verifier, logger)
	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
		close(shutdownDone)
	}()

	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
	<-shutdownDone
}
