package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

// linkRetries bounds how many fresh slugs event creation tries when the
// database reports a link collision.
const linkRetries = 5

type eventService struct {
	eventRepo domain.EventRepository
	tokens    domain.TokenGenerator
}

// NewEventService creates an EventService with the given repository and
// link generator.
func NewEventService(eventRepo domain.EventRepository, tokens domain.TokenGenerator) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		tokens:    tokens,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if event.OrganizerID == "" {
		return fmt.Errorf("event organizer is required")
	}
	if strings.TrimSpace(event.Title) == "" {
		return domain.ErrInvalidInput
	}
	if err := validateTickets(event.Tickets); err != nil {
		return err
	}
	for _, t := range event.Tickets {
		t.Sold = 0
	}
	if event.Status == "" {
		event.Status = domain.StatusDraft
	}
	event.RecomputeTotals()
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	// The link is generated here if the caller didn't bring one; the unique
	// index on events.event_link_id is the real uniqueness guarantee.
	presetLink := event.EventLinkID != ""
	for attempt := 0; attempt < linkRetries; attempt++ {
		if !presetLink {
			link, err := s.tokens.NewEventLink()
			if err != nil {
				return fmt.Errorf("generate event link: %w", err)
			}
			event.EventLinkID = link
		}
		err := s.eventRepo.Create(ctx, event)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrLinkConflict) && !presetLink {
			continue
		}
		return fmt.Errorf("create event: %w", err)
	}
	return fmt.Errorf("could not allocate a unique event link after %d attempts", linkRetries)
}

func (s *eventService) GetByID(ctx context.Context, eventID, organizerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// GetByLinkID resolves an event by its public link for the guest purchase
// page. No ownership check: the link is the capability.
func (s *eventService) GetByLinkID(ctx context.Context, eventLinkID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByLinkID(ctx, eventLinkID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by link: %w", err)
	}
	return event, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// UpdateEvent applies an administrative edit. When the tier list is
// replaced, sold counts carry over by tier type so an edit can never erase
// sales history, and a tier cannot shrink below what it has already sold.
func (s *eventService) UpdateEvent(ctx context.Context, eventID, organizerID string, update *domain.EventUpdate) (*domain.Event, error) {
	event, err := s.GetByID(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, domain.ErrInvalidInput
		}
		event.Title = *update.Title
	}
	if update.Description != nil {
		event.Description = *update.Description
	}
	if update.Category != nil {
		event.Category = *update.Category
	}
	if update.Venue != nil {
		event.Venue = *update.Venue
	}
	if update.StartDate != nil {
		event.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		event.EndDate = *update.EndDate
	}
	if update.Status != nil {
		switch *update.Status {
		case domain.StatusDraft, domain.StatusPublished, domain.StatusCancelled, domain.StatusCompleted:
			event.Status = *update.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	if update.CoverImage != nil {
		event.CoverImage = *update.CoverImage
	}
	if update.Tickets != nil {
		if err := validateTickets(update.Tickets); err != nil {
			return nil, err
		}
		soldByType := make(map[string]int, len(event.Tickets))
		for _, t := range event.Tickets {
			soldByType[t.Type] = t.Sold
		}
		for _, t := range update.Tickets {
			t.Sold = soldByType[t.Type]
			if t.Quantity < t.Sold {
				return nil, domain.ErrInvalidInput
			}
		}
		event.Tickets = update.Tickets
	}

	event.RecomputeTotals()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, organizerID string) error {
	if _, err := s.GetByID(ctx, eventID, organizerID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// validateTickets checks a tier list: non-empty unique types, non-negative
// prices, positive capacities.
func validateTickets(tickets []*domain.Ticket) error {
	types := make(map[string]struct{}, len(tickets))
	for _, t := range tickets {
		if strings.TrimSpace(t.Type) == "" {
			return domain.ErrInvalidInput
		}
		if t.Price < 0 || t.Quantity < 1 {
			return domain.ErrInvalidInput
		}
		if _, dup := types[t.Type]; dup {
			return domain.ErrInvalidInput
		}
		types[t.Type] = struct{}{}
	}
	return nil
}
