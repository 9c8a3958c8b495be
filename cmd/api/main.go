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

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"eventmingle/config"
	"eventmingle/internal/adapters/auth"
	"eventmingle/internal/adapters/email"
	"eventmingle/internal/adapters/payment"
	httpdelivery "eventmingle/internal/delivery/http"
	"eventmingle/internal/delivery/http/controllers"
	"eventmingle/internal/delivery/http/middleware"
	"eventmingle/internal/notify"
	"eventmingle/internal/repository/postgres"
	"eventmingle/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title EventMingle API
// @version 1.0
// @description Event participation backend: events, join requests, organizer moderation, and payment.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	participationRepo := postgres.NewParticipationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	hub := notify.NewHub()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailSvc := services.NewParticipationEmailService(mailer, userRepo, logger, serviceTimeout)
	unsubscribe := hub.Subscribe(emailSvc.HandleParticipationChange)
	defer unsubscribe()

	collaborator := payment.NewHTTPCollaborator(
		&http.Client{Timeout: cfg.HTTPClientTimeout},
		cfg.PaymentBaseURL,
		cfg.PaymentAPIKey,
	)

	jwtCodec := auth.NewJWTCodec(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	eventSvc := services.NewEventService(eventRepo, participationRepo, serviceTimeout)
	participationSvc := services.NewParticipationService(eventRepo, participationRepo, hub, serviceTimeout)
	moderationSvc := services.NewModerationService(eventRepo, participationRepo, hub, serviceTimeout)
	paymentSvc := services.NewPaymentService(eventRepo, participationRepo, collaborator, hub, serviceTimeout)
	authSvc := services.NewAuthService(userRepo, hasher, jwtCodec, cfg.JWTExpiry)

	mux := httpdelivery.NewRouter(
		jwtCodec,
		controllers.NewAuthController(logger, authSvc),
		controllers.NewEventController(logger, eventSvc, participationSvc),
		controllers.NewParticipationController(logger, participationSvc, eventSvc),
		controllers.NewModerationController(logger, moderationSvc),
		controllers.NewPaymentController(logger, paymentSvc),
	)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}
