package http

import (
	"log/slog"
	"net/http"

	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/controllers"
	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/middleware"
	"github.com/DIPRO2000/TicketFlow/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	participantController *controllers.ParticipantController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/signup/verify", authController.VerifySignup)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/forgot-password", authController.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", authController.ResetPassword)

	// Organizer event management
	mux.HandleFunc("POST /events", requireAuth(eventController.Create))
	mux.HandleFunc("GET /events", requireAuth(eventController.List))
	mux.HandleFunc("GET /events/{eventID}", requireAuth(eventController.Get))
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.Delete))
	mux.HandleFunc("GET /events/{eventID}/participants", requireAuth(participantController.ListByEvent))

	// Guest purchase flow: the public link is the only credential.
	mux.HandleFunc("GET /events/link/{eventLinkID}", eventController.GetByLink)
	mux.HandleFunc("POST /participants", participantController.Purchase)

	// Door staff
	mux.HandleFunc("POST /participants/verify", requireAuth(participantController.Verify))
	mux.HandleFunc("POST /participants/checkin", requireAuth(participantController.CheckIn))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
