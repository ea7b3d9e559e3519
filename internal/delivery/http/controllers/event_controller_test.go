package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/middleware"
	"github.com/DIPRO2000/TicketFlow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventService implements domain.EventService with function fields.
type fakeEventService struct {
	createFn    func(ctx context.Context, event *domain.Event) error
	getByIDFn   func(ctx context.Context, eventID, organizerID string) (*domain.Event, error)
	getByLinkFn func(ctx context.Context, eventLinkID string) (*domain.Event, error)
	listFn      func(ctx context.Context, organizerID string) ([]*domain.Event, error)
	updateFn    func(ctx context.Context, eventID, organizerID string, update *domain.EventUpdate) (*domain.Event, error)
	deleteFn    func(ctx context.Context, eventID, organizerID string) error
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	return f.createFn(ctx, event)
}

func (f *fakeEventService) GetByID(ctx context.Context, eventID, organizerID string) (*domain.Event, error) {
	return f.getByIDFn(ctx, eventID, organizerID)
}

func (f *fakeEventService) GetByLinkID(ctx context.Context, eventLinkID string) (*domain.Event, error) {
	return f.getByLinkFn(ctx, eventLinkID)
}

func (f *fakeEventService) ListMyEvents(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	return f.listFn(ctx, organizerID)
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, eventID, organizerID string, update *domain.EventUpdate) (*domain.Event, error) {
	return f.updateFn(ctx, eventID, organizerID, update)
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID, organizerID string) error {
	return f.deleteFn(ctx, eventID, organizerID)
}

func authedPostJSON(t *testing.T, handler http.HandlerFunc, target, organizerID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.SetOrganizerID(req.Context(), organizerID))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestCreateEventEndpoint(t *testing.T) {
	var captured *domain.Event
	svc := &fakeEventService{
		createFn: func(ctx context.Context, event *domain.Event) error {
			event.ID = "2f1d7a90-9c1b-4e5f-8d3a-6b7c8d9e0f10"
			event.EventLinkID = "k3x9w2m1qz"
			captured = event
			return nil
		},
	}
	c := NewEventController(testLogger, svc)

	rr := authedPostJSON(t, c.Create, "http://test/events", "org-1", map[string]any{
		"title":    "GopherConf",
		"category": "tech",
		"tickets": []map[string]any{
			{"type": "VIP", "price": 500, "quantity": 10},
			{"type": "General", "price": 100, "quantity": 200},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "org-1", captured.OrganizerID)
	require.Len(t, captured.Tickets, 2)
	assert.Equal(t, "VIP", captured.Tickets[0].Type)

	data, apiErr := decodeEnvelope(t, rr)
	require.Nil(t, apiErr)
	var event domain.Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "k3x9w2m1qz", event.EventLinkID)
}

func TestCreateEventEndpoint_Validation(t *testing.T) {
	c := NewEventController(testLogger, &fakeEventService{})

	// No tickets at all.
	rr := authedPostJSON(t, c.Create, "http://test/events", "org-1", map[string]any{
		"title": "GopherConf",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown field in the body.
	rr = authedPostJSON(t, c.Create, "http://test/events", "org-1", map[string]any{
		"title":   "GopherConf",
		"tickets": []map[string]any{{"type": "VIP", "price": 500, "quantity": 10}},
		"sold":    99,
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetEventEndpoint(t *testing.T) {
	const eventID = "2f1d7a90-9c1b-4e5f-8d3a-6b7c8d9e0f10"
	svc := &fakeEventService{
		getByIDFn: func(ctx context.Context, id, organizerID string) (*domain.Event, error) {
			if organizerID != "org-1" {
				return nil, domain.ErrForbidden
			}
			return &domain.Event{ID: id, Title: "GopherConf", OrganizerID: organizerID}, nil
		},
	}
	c := NewEventController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "http://test/events/"+eventID, nil)
	req.SetPathValue("eventID", eventID)
	req = req.WithContext(middleware.SetOrganizerID(req.Context(), "org-1"))
	rr := httptest.NewRecorder()
	c.Get(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "http://test/events/"+eventID, nil)
	req.SetPathValue("eventID", eventID)
	req = req.WithContext(middleware.SetOrganizerID(req.Context(), "org-2"))
	rr = httptest.NewRecorder()
	c.Get(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	// Malformed ID never reaches the service.
	req = httptest.NewRequest(http.MethodGet, "http://test/events/not-a-uuid", nil)
	req.SetPathValue("eventID", "not-a-uuid")
	req = req.WithContext(middleware.SetOrganizerID(req.Context(), "org-1"))
	rr = httptest.NewRecorder()
	c.Get(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetByLinkEndpoint_PublicView(t *testing.T) {
	svc := &fakeEventService{
		getByLinkFn: func(ctx context.Context, link string) (*domain.Event, error) {
			if link != "k3x9w2m1qz" {
				return nil, domain.ErrNotFound
			}
			return &domain.Event{
				ID:          "2f1d7a90-9c1b-4e5f-8d3a-6b7c8d9e0f10",
				Title:       "GopherConf",
				OrganizerID: "org-1",
				EventLinkID: link,
				Status:      domain.StatusPublished,
				Tickets: []*domain.Ticket{
					{Type: "VIP", Price: 500, Quantity: 10, Sold: 4},
				},
				TotalIncome: 2000,
			}, nil
		},
	}
	c := NewEventController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "http://test/events/link/k3x9w2m1qz", nil)
	req.SetPathValue("eventLinkID", "k3x9w2m1qz")
	rr := httptest.NewRecorder()
	c.GetByLink(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	data, _ := decodeEnvelope(t, rr)
	var public PublicEvent
	require.NoError(t, json.Unmarshal(data, &public))
	require.Len(t, public.Tickets, 1)
	assert.Equal(t, 6, public.Tickets[0].Available)

	// Income and organizer never leak to guests.
	assert.NotContains(t, string(data), "total_income")
	assert.NotContains(t, string(data), "organizer_id")

	req = httptest.NewRequest(http.MethodGet, "http://test/events/link/zzzzzzzzzz", nil)
	req.SetPathValue("eventLinkID", "zzzzzzzzzz")
	rr = httptest.NewRecorder()
	c.GetByLink(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteEventEndpoint(t *testing.T) {
	const eventID = "2f1d7a90-9c1b-4e5f-8d3a-6b7c8d9e0f10"
	svc := &fakeEventService{
		deleteFn: func(ctx context.Context, id, organizerID string) error {
			if id != eventID {
				return domain.ErrNotFound
			}
			return nil
		},
	}
	c := NewEventController(testLogger, svc)

	req := httptest.NewRequest(http.MethodDelete, "http://test/events/"+eventID, nil)
	req.SetPathValue("eventID", eventID)
	req = req.WithContext(middleware.SetOrganizerID(req.Context(), "org-1"))
	rr := httptest.NewRecorder()
	c.Delete(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
}
