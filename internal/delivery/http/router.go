package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventmingle/internal/delivery/http/controllers"
	"eventmingle/internal/delivery/http/middleware"
	"eventmingle/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	participationController *controllers.ParticipationController,
	moderationController *controllers.ModerationController,
	paymentController *controllers.PaymentController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", auth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)

	// Participation
	mux.HandleFunc("POST /events/{eventID}/participants", auth(participationController.Join))
	mux.HandleFunc("GET /events/{eventID}/participants", auth(eventController.ListParticipants))
	mux.HandleFunc("GET /events/{eventID}/participants/me/actions", auth(participationController.GetMyActions))
	mux.HandleFunc("POST /events/{eventID}/participants/{participationID}/cancel", auth(participationController.Cancel))
	mux.HandleFunc("POST /events/{eventID}/participants/{participationID}/retry-payment", auth(participationController.RetryPayment))

	// Moderation
	mux.HandleFunc("PATCH /events/{eventID}/participants/{participationID}/status", auth(moderationController.UpdateStatus))

	// Payment
	mux.HandleFunc("POST /events/{eventID}/participants/{participationID}/payment", auth(paymentController.SubmitPayment))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
