package domain

import (
	"context"
	"time"
)

// Event statuses. Status is organizer-set; no transition rules are enforced.
const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"
)

// Ticket is one ticket tier of an event: a named category with its own price
// and capacity. Sold never exceeds Quantity.
// swagger:model Ticket
type Ticket struct {
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Sold     int     `json:"sold"`
}

// Remaining returns how many tickets of this tier are still available.
func (t *Ticket) Remaining() int {
	return t.Quantity - t.Sold
}

// Venue is the place an event is held at.
// swagger:model Venue
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
}

// Event represents an organizer's event with its ticket tiers and running
// sales totals. EventLinkID is the public, URL-safe slug guests use to reach
// the purchase page. TotalTicketsSold and TotalIncome are always recomputed
// from the tiers; they are never trusted independently.
// swagger:model Event
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	OrganizerID      string    `json:"organizer_id"`
	Venue            Venue     `json:"venue"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Tickets          []*Ticket `json:"tickets"`
	CoverImage       string    `json:"cover_image,omitempty"`
	Status           string    `json:"status"`
	EventLinkID      string    `json:"event_link_id"`
	TotalTicketsSold int       `json:"total_tickets_sold"`
	TotalIncome      float64   `json:"total_income"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TicketByType returns the tier with the given type, or nil. Type match is
// exact and case-sensitive.
func (e *Event) TicketByType(ticketType string) *Ticket {
	for _, t := range e.Tickets {
		if t.Type == ticketType {
			return t
		}
	}
	return nil
}

// ValidatePurchase checks a purchase request against the event's live tier
// state without mutating anything. It returns the matched tier on success.
// Rejections: ErrUnknownTicketType if no tier matches ticketType,
// ErrInsufficientInventory if the tier cannot cover qty more tickets, and
// ErrPriceMismatch if claimedTotal differs from price*qty (exact equality on
// the total, so both under- and overpayment are rejected).
func (e *Event) ValidatePurchase(ticketType string, qty int, claimedTotal float64) (*Ticket, error) {
	ticket := e.TicketByType(ticketType)
	if ticket == nil {
		return nil, ErrUnknownTicketType
	}
	if ticket.Sold+qty > ticket.Quantity {
		return nil, ErrInsufficientInventory
	}
	if claimedTotal != ticket.Price*float64(qty) {
		return nil, ErrPriceMismatch
	}
	return ticket, nil
}

// RecomputeTotals recalculates TotalTicketsSold and TotalIncome from the
// tiers. Called after any mutation of tier sold counts.
func (e *Event) RecomputeTotals() {
	sold := 0
	income := 0.0
	for _, t := range e.Tickets {
		sold += t.Sold
		income += float64(t.Sold) * t.Price
	}
	e.TotalTicketsSold = sold
	e.TotalIncome = income
}

// EventUpdate holds the optional fields of an administrative event update.
// Nil pointers leave the corresponding field unchanged. Tickets, when set,
// replaces the tier list (sold counts are preserved by type).
type EventUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Venue       *Venue
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *string
	CoverImage  *string
	Tickets     []*Ticket
}

// EventRepository defines storage operations for events and their tiers.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByLinkID(ctx context.Context, eventLinkID string) (*Event, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines organizer-facing event operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, eventID, organizerID string) (*Event, error)
	GetByLinkID(ctx context.Context, eventLinkID string) (*Event, error)
	ListMyEvents(ctx context.Context, organizerID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, organizerID string, update *EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, organizerID string) error
}
