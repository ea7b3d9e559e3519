package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/helpers"
	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/middleware"
	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

// maxProofBytes caps the uploaded payment proof image at 10 MiB.
const maxProofBytes = 10 << 20

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.ParticipantService
}

func NewParticipantController(logger *slog.Logger, svc domain.ParticipantService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// PurchaseRequestBody is the JSON request body for POST /participants. The
// endpoint also accepts multipart/form-data with the same field names plus a
// payment_proof file part.
type PurchaseRequestBody struct {
	EventLinkID string  `json:"event_link_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	TicketType  string  `json:"ticket_type"`
	Quantity    int     `json:"quantity"`
	PricePaid   float64 `json:"price_paid"`
}

// Validate implements helpers.Validator.
func (r *PurchaseRequestBody) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.EventLinkID) == "" {
		errs = append(errs, "event_link_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.TicketType) == "" {
		errs = append(errs, "ticket_type is required")
	}
	if r.Quantity < 0 {
		errs = append(errs, "quantity must not be negative")
	}
	if r.PricePaid < 0 {
		errs = append(errs, "price_paid must not be negative")
	}
	return errs
}

// PurchaseSuccessResponse is the success response envelope for POST /participants (201).
type PurchaseSuccessResponse struct {
	Data  *domain.Participant `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// Purchase godoc
// @Summary Buy tickets for an event
// @Description Sells the requested quantity of one ticket tier to a guest, identified only by the public event link. The claimed total price must exactly equal price times quantity. On success the check-in token is returned and emailed to the buyer. Send an Idempotency-Key header to make retries safe: a repeated key returns the original purchase instead of selling again.
// @Tags participants
// @Accept json
// @Accept mpfd
// @Produce json
// @Param Idempotency-Key header string false "Client-chosen key making the purchase retry-safe"
// @Param body body controllers.PurchaseRequestBody true "Purchase details"
// @Success 201 {object} controllers.PurchaseSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown tier or price mismatch)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no event behind the link)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (tier sold out)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants [post]
func (c *ParticipantController) Purchase(w http.ResponseWriter, r *http.Request) {
	req := &domain.PurchaseRequest{
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if !c.decodeMultipartPurchase(w, r, req) {
			return
		}
	} else {
		var body PurchaseRequestBody
		if !helpers.DecodeAndValidate(w, r, &body) {
			return
		}
		req.EventLinkID = body.EventLinkID
		req.Name = body.Name
		req.Email = body.Email
		req.Phone = body.Phone
		req.TicketType = body.TicketType
		req.Quantity = body.Quantity
		req.PricePaid = body.PricePaid
	}

	participant, err := c.Service.Purchase(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrUnknownTicketType):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown ticket type")
		case errors.Is(err, domain.ErrPriceMismatch):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "price does not match the selected tickets")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid purchase details")
		case errors.Is(err, domain.ErrInsufficientInventory):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "not enough tickets left in this tier")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, participant)
}

// decodeMultipartPurchase fills req from a multipart form, including the
// optional payment_proof file part. Writes a 400 and returns false on failure.
func (c *ParticipantController) decodeMultipartPurchase(w http.ResponseWriter, r *http.Request, req *domain.PurchaseRequest) bool {
	if err := r.ParseMultipartForm(maxProofBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return false
	}
	req.EventLinkID = r.FormValue("event_link_id")
	req.Name = r.FormValue("name")
	req.Email = r.FormValue("email")
	req.Phone = r.FormValue("phone")
	req.TicketType = r.FormValue("ticket_type")
	if s := r.FormValue("quantity"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid quantity")
			return false
		}
		req.Quantity = v
	}
	if s := r.FormValue("price_paid"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid price_paid")
			return false
		}
		req.PricePaid = v
	}
	if key := r.FormValue("idempotency_key"); key != "" {
		req.IdempotencyKey = key
	}

	file, _, err := r.FormFile("payment_proof")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxProofBytes))
		if readErr != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "could not read payment proof")
			return false
		}
		req.PaymentProof = data
	} else if !errors.Is(err, http.ErrMissingFile) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid payment proof")
		return false
	}
	return true
}

// VerifyRequest is the request body for POST /participants/verify.
type VerifyRequest struct {
	EventID string `json:"event_id"`
	Token   string `json:"token"`
}

// Validate implements helpers.Validator.
func (r *VerifyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	if strings.TrimSpace(r.Token) == "" {
		errs = append(errs, "token is required")
	}
	return errs
}

// CheckInSuccessResponse is the success response envelope for the verify and
// check-in endpoints (200).
type CheckInSuccessResponse struct {
	Data  *domain.CheckInResult `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// Verify godoc
// @Summary Look up a ticket by its check-in token
// @Description Returns the door-staff view of the ticket holding the token: holder, tier, and how many entries remain. Consumes nothing; safe to call any number of times.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.VerifyRequest true "Event ID and check-in token"
// @Success 200 {object} controllers.CheckInSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no such token for this event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/verify [post]
func (c *ParticipantController) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Service.Verify(r.Context(), req.EventID, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "ticket not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event_id and token are required")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// CheckInRequest is the request body for POST /participants/checkin.
type CheckInRequest struct {
	ParticipantID string `json:"participant_id"`
	EventID       string `json:"event_id"`
	Count         int    `json:"count"`
}

// Validate implements helpers.Validator.
func (r *CheckInRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.ParticipantID) == "" {
		errs = append(errs, "participant_id is required")
	}
	if strings.TrimSpace(r.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	if r.Count < 1 {
		errs = append(errs, "count must be at least 1")
	}
	return errs
}

// CheckIn godoc
// @Summary Admit people on a ticket
// @Description Consumes count entries from the ticket. Each call consumes: scanning the same ticket twice admits twice, up to the purchased quantity. A request for more entries than remain is rejected whole, reporting how many are left.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CheckInRequest true "Participant, event, and how many people are at the door"
// @Success 200 {object} controllers.CheckInSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (ticket belongs to another event)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already fully used, or fewer entries remain than requested)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/checkin [post]
func (c *ParticipantController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Service.CheckIn(r.Context(), req.ParticipantID, req.EventID, req.Count)
	if err != nil {
		var remErr *domain.InsufficientRemainingError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "ticket not found")
		case errors.Is(err, domain.ErrEventMismatch):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "ticket belongs to a different event")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid check-in request")
		case errors.Is(err, domain.ErrAlreadyFullyUsed):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "ticket already fully used")
		case errors.As(err, &remErr):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, remErr.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// ListParticipantsData is the data object for GET /events/{eventID}/participants.
type ListParticipantsData struct {
	Participants []*domain.Participant  `json:"participants"`
	Pagination   helpers.PaginationMeta `json:"pagination"`
}

// ListParticipantsSuccessResponse is the success response envelope for GET /events/{eventID}/participants (200).
type ListParticipantsSuccessResponse struct {
	Data  *ListParticipantsData `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListByEvent godoc
// @Summary List the participants of one of my events
// @Description Returns the event's participants, newest purchase first, with pagination. Only the owning organizer may access the list.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListParticipantsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [get]
func (c *ParticipantController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	params := helpers.ParsePagination(r)
	participants, total, err := c.Service.ListByEvent(r.Context(), eventID, organizerID, params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}

	if participants == nil {
		participants = []*domain.Participant{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &ListParticipantsData{
		Participants: participants,
		Pagination:   helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
