package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/helpers"
	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/middleware"
	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// eventLinkRegex matches the public event link slug: 10 lowercase
// alphanumeric characters.
var eventLinkRegex = regexp.MustCompile(`^[a-z0-9]{10}$`)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// TicketInput is one ticket tier in a create or update request.
type TicketInput struct {
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Venue       domain.Venue  `json:"venue"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	Status      string        `json:"status"`
	CoverImage  string        `json:"cover_image"`
	Tickets     []TicketInput `json:"tickets"`
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if len(r.Tickets) == 0 {
		errs = append(errs, "at least one ticket tier is required")
	}
	for _, t := range r.Tickets {
		if strings.TrimSpace(t.Type) == "" {
			errs = append(errs, "ticket type must not be empty")
			break
		}
	}
	if !r.EndDate.IsZero() && !r.StartDate.IsZero() && r.EndDate.Before(r.StartDate) {
		errs = append(errs, "end_date must not be before start_date")
	}
	return errs
}

// EventSuccessResponse is the success response envelope for endpoints that
// return a single event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Create godoc
// @Summary Create an event
// @Description Creates an event with its ticket tiers for the authenticated organizer. A unique public purchase link is generated for the event. Sold counts always start at zero.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event details"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	tickets := make([]*domain.Ticket, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		tickets = append(tickets, &domain.Ticket{Type: t.Type, Price: t.Price, Quantity: t.Quantity})
	}
	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		OrganizerID: organizerID,
		Venue:       req.Venue,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		CoverImage:  req.CoverImage,
		Tickets:     tickets,
	}

	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event details")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// List godoc
// @Summary List my events
// @Description Returns all events owned by the authenticated organizer, including live sales totals.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	events, err := c.Service.ListMyEvents(r.Context(), organizerID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Get godoc
// @Summary Get one of my events
// @Description Returns the event with the given ID, including live sales totals. Only the owning organizer may access it.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
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

	event, err := c.Service.GetByID(r.Context(), eventID, organizerID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// Absent fields leave the event unchanged. When tickets is present it
// replaces the tier list; sold counts carry over by tier type.
type UpdateEventRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Category    *string       `json:"category"`
	Venue       *domain.Venue `json:"venue"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`
	Status      *string       `json:"status"`
	CoverImage  *string       `json:"cover_image"`
	Tickets     []TicketInput `json:"tickets"`
}

// Update godoc
// @Summary Update one of my events
// @Description Applies a partial update to the event. Replacing the tier list preserves each tier's sold count by type; a tier cannot shrink below what it has already sold.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	update := &domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Venue:       req.Venue,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		CoverImage:  req.CoverImage,
	}
	if req.Tickets != nil {
		update.Tickets = make([]*domain.Ticket, 0, len(req.Tickets))
		for _, t := range req.Tickets {
			update.Tickets = append(update.Tickets, &domain.Ticket{Type: t.Type, Price: t.Price, Quantity: t.Quantity})
		}
	}

	event, err := c.Service.UpdateEvent(r.Context(), eventID, organizerID, update)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete one of my events
// @Description Deletes the event together with its tiers and participants.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := c.Service.DeleteEvent(r.Context(), eventID, organizerID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublicTicket is one tier on the public purchase page.
type PublicTicket struct {
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	Available int     `json:"available"`
}

// PublicEvent is the guest-facing view of an event, reached through its
// public link. It omits organizer-only data like income totals.
type PublicEvent struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Venue       domain.Venue   `json:"venue"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	CoverImage  string         `json:"cover_image,omitempty"`
	Status      string         `json:"status"`
	EventLinkID string         `json:"event_link_id"`
	Tickets     []PublicTicket `json:"tickets"`
}

// PublicEventSuccessResponse is the success response envelope for GET /events/link/{eventLinkID} (200).
type PublicEventSuccessResponse struct {
	Data  *PublicEvent      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetByLink godoc
// @Summary Get the public purchase page data for an event
// @Description Resolves an event by its public link. No authentication: anyone holding the link can view the tiers and their availability.
// @Tags events
// @Produce json
// @Param eventLinkID path string true "Public event link (10 lowercase alphanumeric characters)"
// @Success 200 {object} controllers.PublicEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/link/{eventLinkID} [get]
func (c *EventController) GetByLink(w http.ResponseWriter, r *http.Request) {
	eventLinkID := r.PathValue("eventLinkID")
	if !eventLinkRegex.MatchString(eventLinkID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event link")
		return
	}

	event, err := c.Service.GetByLinkID(r.Context(), eventLinkID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	tickets := make([]PublicTicket, 0, len(event.Tickets))
	for _, t := range event.Tickets {
		tickets = append(tickets, PublicTicket{Type: t.Type, Price: t.Price, Available: t.Remaining()})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &PublicEvent{
		Title:       event.Title,
		Description: event.Description,
		Category:    event.Category,
		Venue:       event.Venue,
		StartDate:   event.StartDate,
		EndDate:     event.EndDate,
		CoverImage:  event.CoverImage,
		Status:      event.Status,
		EventLinkID: event.EventLinkID,
		Tickets:     tickets,
	})
}

// writeEventError maps service errors shared by the owner-scoped event
// endpoints onto the response envelope.
func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event details")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
