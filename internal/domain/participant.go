package domain

import (
	"context"
	"time"
)

// Participant is one purchase transaction: a bundle of Quantity tickets of a
// single tier, bought in one go. The same record tracks how many of those
// entries have been consumed at the door, so a group ticket can be checked in
// across several scans. Token is the short code the purchaser shows at entry;
// it is distinct from the event's public link.
// swagger:model Participant
type Participant struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	TicketType     string    `json:"ticket_type"`
	Quantity       int       `json:"quantity"`
	PricePaid      float64   `json:"price_paid"`
	Token          string    `json:"token"`
	PaymentProof   string    `json:"payment_proof,omitempty"`
	IdempotencyKey string    `json:"-"`
	CheckedInCount int       `json:"checked_in_count"`
	IsFullyUsed    bool      `json:"is_fully_used"`
	PurchasedAt    time.Time `json:"purchased_at"`
}

// RemainingEntries returns how many admissions are left on this ticket.
func (p *Participant) RemainingEntries() int {
	return p.Quantity - p.CheckedInCount
}

// PurchaseRequest is the input to ParticipantService.Purchase. PricePaid is
// the claimed total for the whole bundle, compared exactly against
// price*quantity. Quantity values below 1 are treated as 1. PaymentProof is
// the optional raw image the guest uploaded as proof of payment.
type PurchaseRequest struct {
	EventLinkID    string
	Name           string
	Email          string
	Phone          string
	TicketType     string
	Quantity       int
	PricePaid      float64
	PaymentProof   []byte
	IdempotencyKey string
}

// CheckInResult is the door staff's view of a participant after a check-in
// or verification.
// swagger:model CheckInResult
type CheckInResult struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Token            string `json:"token"`
	TicketType       string `json:"ticket_type"`
	Quantity         int    `json:"quantity"`
	CheckedInCount   int    `json:"checked_in_count"`
	RemainingEntries int    `json:"remaining_entries"`
	IsFullyUsed      bool   `json:"is_fully_used"`
}

// NewCheckInResult builds the door-staff view from a participant.
func NewCheckInResult(p *Participant) *CheckInResult {
	return &CheckInResult{
		ID:               p.ID,
		Name:             p.Name,
		Token:            p.Token,
		TicketType:       p.TicketType,
		Quantity:         p.Quantity,
		CheckedInCount:   p.CheckedInCount,
		RemainingEntries: p.RemainingEntries(),
		IsFullyUsed:      p.IsFullyUsed,
	}
}

// ParticipantRepository defines storage operations for participants.
type ParticipantRepository interface {
	// CreatePurchase commits a purchase as a single transaction: it
	// conditionally increments the tier's sold count (only if the capacity
	// still covers the quantity), recomputes the event's aggregate totals,
	// and inserts the participant row. Returns ErrUnknownTicketType or
	// ErrInsufficientInventory when the tier increment cannot be applied;
	// in that case nothing is persisted.
	CreatePurchase(ctx context.Context, p *Participant) error
	GetByID(ctx context.Context, id string) (*Participant, error)
	GetByToken(ctx context.Context, eventID, token string) (*Participant, error)
	GetByIdempotencyKey(ctx context.Context, eventID, key string) (*Participant, error)
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Participant, int, error)
	// CheckIn atomically adds count entries to the participant, but only if
	// the row exists, is not fully used, and has at least count entries
	// remaining. It returns the updated row, or ErrNotFound when the
	// conditional update matched nothing (missing row or lost race); the
	// caller re-reads to produce a precise rejection.
	CheckIn(ctx context.Context, id string, count int) (*Participant, error)
}

// ParticipantService defines purchase and door-side operations.
type ParticipantService interface {
	Purchase(ctx context.Context, req *PurchaseRequest) (*Participant, error)
	Verify(ctx context.Context, eventID, token string) (*CheckInResult, error)
	CheckIn(ctx context.Context, participantID, eventID string, count int) (*CheckInResult, error)
	ListByEvent(ctx context.Context, eventID, organizerID string, params PaginationParams) ([]*Participant, int, error)
}

// TokenGenerator produces collision-resistant identifiers: the public event
// link slug and the participant check-in token. Generators are pure; global
// uniqueness is enforced by the storage layer's unique indexes, and callers
// retry on a collision.
type TokenGenerator interface {
	NewEventLink() (string, error)
	NewParticipantToken() (string, error)
}

// ProofUploader stores a payment-proof asset and returns its public URL.
type ProofUploader interface {
	Upload(ctx context.Context, folder string, data []byte) (url string, err error)
}
