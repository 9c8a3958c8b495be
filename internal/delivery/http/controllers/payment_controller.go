package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventmingle/internal/delivery/http/helpers"
	"eventmingle/internal/delivery/http/middleware"
	"eventmingle/internal/domain"
)

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitPaymentRequest is the request body for POST /events/{eventID}/participants/{participationID}/payment.
type SubmitPaymentRequest struct {
	CardNumber     string `json:"card_number"`
	CardHolderName string `json:"card_holder_name"`
	ExpireMonth    string `json:"expire_month"`
	ExpireYear     string `json:"expire_year"`
	CVC            string `json:"cvc"`
	Address        string `json:"address"`
}

// SubmitPayment godoc
// @Summary Submit payment for a participation
// @Description Runs one payment attempt. Card fields are validated locally before any provider call; the charged amount equals the event's price. On success the participation is COMPLETED; on decline it moves to PAYMENT_FAILED and can be retried.
// @Tags payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param participationID path string true "Participation ID (UUID)"
// @Param body body controllers.SubmitPaymentRequest true "Card and billing details"
// @Success 200 {object} controllers.ParticipationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed card fields)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_declined"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: precondition_failed (wrong status or attempt in flight)"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable (provider unreachable; state unchanged)"
// @Router /events/{eventID}/participants/{participationID}/payment [post]
func (c *PaymentController) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	participationID, ok := participationIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req SubmitPaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	card := domain.CardDetails{
		CardNumber:     req.CardNumber,
		CardHolderName: req.CardHolderName,
		ExpireMonth:    req.ExpireMonth,
		ExpireYear:     req.ExpireYear,
		CVC:            req.CVC,
		Address:        req.Address,
	}
	p, err := c.Service.CollectPayment(r.Context(), eventID, participationID, userID, card)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrForbidden) &&
			!errors.Is(err, domain.ErrPreconditionFailed) && !errors.Is(err, domain.ErrInvalidInput) &&
			!errors.Is(err, domain.ErrPaymentDeclined) && !errors.Is(err, domain.ErrPaymentInFlight) {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}
