package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

// tokenRetries bounds how many fresh tokens a purchase tries when the
// database reports a token collision.
const tokenRetries = 5

type participantService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	tokens          domain.TokenGenerator
	uploader        domain.ProofUploader
	emailService    domain.EmailService
	logger          *slog.Logger
}

// NewParticipantService creates a ParticipantService with the given
// repositories and collaborator ports.
func NewParticipantService(
	eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	tokens domain.TokenGenerator,
	uploader domain.ProofUploader,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.ParticipantService {
	return &participantService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		tokens:          tokens,
		uploader:        uploader,
		emailService:    emailService,
		logger:          logger,
	}
}

// Purchase sells req.Quantity tickets of one tier to a guest. The speculative
// validation against the loaded event gives precise rejections without any
// mutation; the authoritative capacity check is the conditional increment
// inside CreatePurchase, so a concurrent purchase of the same last ticket
// loses cleanly with ErrInsufficientInventory. Proof upload and the token
// email are best-effort: their failure never unwinds a committed purchase.
func (s *participantService) Purchase(ctx context.Context, req *domain.PurchaseRequest) (*domain.Participant, error) {
	if req == nil || strings.TrimSpace(req.EventLinkID) == "" ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.TicketType) == "" {
		return nil, domain.ErrInvalidInput
	}
	qty := req.Quantity
	if qty < 1 {
		// Missing or nonsensical quantity means a single ticket, not an error.
		qty = 1
	}

	event, err := s.eventRepo.GetByLinkID(ctx, req.EventLinkID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by link: %w", err)
	}

	if req.IdempotencyKey != "" {
		existing, err := s.participantRepo.GetByIdempotencyKey(ctx, event.ID, req.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get purchase by idempotency key: %w", err)
		}
	}

	if _, err := event.ValidatePurchase(req.TicketType, qty, req.PricePaid); err != nil {
		return nil, err
	}

	proofURL := ""
	if len(req.PaymentProof) > 0 {
		folder := fmt.Sprintf("events/%s/participants", event.EventLinkID)
		proofURL, err = s.uploader.Upload(ctx, folder, req.PaymentProof)
		if err != nil {
			s.logger.WarnContext(ctx, "payment proof upload failed, issuing ticket anyway",
				"event_id", event.ID, "err", err)
			proofURL = ""
		}
	}

	var participant *domain.Participant
	for attempt := 0; attempt < tokenRetries; attempt++ {
		token, err := s.tokens.NewParticipantToken()
		if err != nil {
			return nil, fmt.Errorf("generate participant token: %w", err)
		}
		p := &domain.Participant{
			EventID:        event.ID,
			Name:           strings.TrimSpace(req.Name),
			Email:          strings.TrimSpace(strings.ToLower(req.Email)),
			Phone:          strings.TrimSpace(req.Phone),
			TicketType:     req.TicketType,
			Quantity:       qty,
			PricePaid:      req.PricePaid,
			Token:          token,
			PaymentProof:   proofURL,
			IdempotencyKey: req.IdempotencyKey,
			CheckedInCount: 0,
			IsFullyUsed:    false,
			PurchasedAt:    time.Now(),
		}
		err = s.participantRepo.CreatePurchase(ctx, p)
		if err == nil {
			participant = p
			break
		}
		if errors.Is(err, domain.ErrTokenConflict) {
			continue
		}
		if errors.Is(err, domain.ErrIdempotencyConflict) {
			// Lost the race against a duplicate submission; return its outcome.
			existing, getErr := s.participantRepo.GetByIdempotencyKey(ctx, event.ID, req.IdempotencyKey)
			if getErr != nil {
				return nil, fmt.Errorf("get purchase after idempotency conflict: %w", getErr)
			}
			return existing, nil
		}
		if errors.Is(err, domain.ErrUnknownTicketType) || errors.Is(err, domain.ErrInsufficientInventory) {
			return nil, err
		}
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	if participant == nil {
		return nil, fmt.Errorf("could not allocate a unique participant token after %d attempts", tokenRetries)
	}

	data := &domain.TicketTokenEmailData{
		Email:      participant.Email,
		Name:       participant.Name,
		EventTitle: event.Title,
		Token:      participant.Token,
		Quantity:   participant.Quantity,
	}
	if err := s.emailService.SendTicketToken(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "failed to send ticket token email",
			"participant_id", participant.ID, "err", err)
	}
	return participant, nil
}

// Verify looks up a participant by door token for the given event and
// returns the door-staff snapshot without consuming any entries.
func (s *participantService) Verify(ctx context.Context, eventID, token string) (*domain.CheckInResult, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if eventID == "" || token == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := s.participantRepo.GetByToken(ctx, eventID, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participant by token: %w", err)
	}
	return domain.NewCheckInResult(p), nil
}

// CheckIn consumes count entries from a participant's ticket. The pre-checks
// give precise rejections; the conditional update in the repository is the
// authoritative guard, so two concurrent scans of the same ticket cannot
// both consume the last entries. Not idempotent: the same call twice
// consumes entries twice.
func (s *participantService) CheckIn(ctx context.Context, participantID, eventID string, count int) (*domain.CheckInResult, error) {
	if participantID == "" || eventID == "" || count <= 0 {
		return nil, domain.ErrInvalidInput
	}

	p, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	if p.EventID != eventID {
		return nil, domain.ErrEventMismatch
	}
	if p.IsFullyUsed {
		return nil, domain.ErrAlreadyFullyUsed
	}
	if remaining := p.RemainingEntries(); count > remaining {
		return nil, &domain.InsufficientRemainingError{Remaining: remaining}
	}

	updated, err := s.participantRepo.CheckIn(ctx, participantID, count)
	if err == nil {
		return domain.NewCheckInResult(updated), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check in participant: %w", err)
	}

	// The conditional update matched nothing even though the row existed a
	// moment ago: a concurrent scan got there first. Re-read for the precise
	// rejection.
	p, rereadErr := s.participantRepo.GetByID(ctx, participantID)
	if rereadErr != nil {
		if errors.Is(rereadErr, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participant after lost check-in race: %w", rereadErr)
	}
	if p.IsFullyUsed {
		return nil, domain.ErrAlreadyFullyUsed
	}
	return nil, &domain.InsufficientRemainingError{Remaining: p.RemainingEntries()}
}

// ListByEvent returns the participants of an event for its organizer's
// dashboard, newest purchase first.
func (s *participantService) ListByEvent(ctx context.Context, eventID, organizerID string, params domain.PaginationParams) ([]*domain.Participant, int, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return nil, 0, domain.ErrForbidden
	}
	participants, total, err := s.participantRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list participants: %w", err)
	}
	return participants, total, nil
}
