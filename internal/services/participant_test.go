package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/DIPRO2000/TicketFlow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// mockEventRepository serves events from an in-memory map. Reads hand out
// deep copies, like the real repository loading fresh rows per call; the
// stored events are only mutated under mu, which mockParticipantRepository
// shares for its purchase writes.
type mockEventRepository struct {
	mu     sync.Mutex
	events map[string]*domain.Event // by ID
	byLink map[string]*domain.Event
	err    error
}

func cloneEvent(e *domain.Event) *domain.Event {
	clone := *e
	clone.Tickets = make([]*domain.Ticket, len(e.Tickets))
	for i, t := range e.Tickets {
		tc := *t
		clone.Tickets[i] = &tc
	}
	return &clone
}

func newMockEventRepository(events ...*domain.Event) *mockEventRepository {
	r := &mockEventRepository{
		events: make(map[string]*domain.Event),
		byLink: make(map[string]*domain.Event),
	}
	for _, e := range events {
		r.events[e.ID] = e
		r.byLink[e.EventLinkID] = e
	}
	return r
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, exists := m.byLink[event.EventLinkID]; exists {
		return domain.ErrLinkConflict
	}
	if event.ID == "" {
		event.ID = fmt.Sprintf("ev-%d", len(m.events)+1)
	}
	m.events[event.ID] = event
	m.byLink[event.EventLinkID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (m *mockEventRepository) GetByLinkID(ctx context.Context, link string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.byLink[link]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (m *mockEventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Event
	for _, e := range m.events {
		if e.OrganizerID == organizerID {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; !ok {
		return domain.ErrNotFound
	}
	m.events[event.ID] = event
	m.byLink[event.EventLinkID] = event
	return nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byLink, e.EventLinkID)
	delete(m.events, id)
	return nil
}

// mockParticipantRepository mimics the real repository's atomicity: the
// conditional tier increment and the conditional check-in both run under the
// event repository's lock, so concurrent callers see the same win-or-lose
// behavior as with the database's conditional updates.
type mockParticipantRepository struct {
	events    *mockEventRepository
	byID      map[string]*domain.Participant
	nextID    int
	createErr error
}

func newMockParticipantRepository(events *mockEventRepository) *mockParticipantRepository {
	return &mockParticipantRepository{
		events: events,
		byID:   make(map[string]*domain.Participant),
	}
}

func (m *mockParticipantRepository) CreatePurchase(ctx context.Context, p *domain.Participant) error {
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	event := m.events.events[p.EventID]
	if event == nil {
		return domain.ErrNotFound
	}
	ticket := event.TicketByType(p.TicketType)
	if ticket == nil {
		return domain.ErrUnknownTicketType
	}
	if ticket.Sold+p.Quantity > ticket.Quantity {
		return domain.ErrInsufficientInventory
	}
	for _, existing := range m.byID {
		if existing.Token == p.Token {
			return domain.ErrTokenConflict
		}
		if p.IdempotencyKey != "" && existing.EventID == p.EventID && existing.IdempotencyKey == p.IdempotencyKey {
			return domain.ErrIdempotencyConflict
		}
	}
	ticket.Sold += p.Quantity
	event.RecomputeTotals()
	m.nextID++
	p.ID = fmt.Sprintf("p-%d", m.nextID)
	clone := *p
	m.byID[p.ID] = &clone
	return nil
}

func (m *mockParticipantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockParticipantRepository) GetByToken(ctx context.Context, eventID, token string) (*domain.Participant, error) {
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	for _, p := range m.byID {
		if p.EventID == eventID && p.Token == token {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockParticipantRepository) GetByIdempotencyKey(ctx context.Context, eventID, key string) (*domain.Participant, error) {
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	for _, p := range m.byID {
		if p.EventID == eventID && p.IdempotencyKey == key {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockParticipantRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Participant, int, error) {
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	var out []*domain.Participant
	for _, p := range m.byID {
		if p.EventID == eventID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (m *mockParticipantRepository) CheckIn(ctx context.Context, id string, count int) (*domain.Participant, error) {
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	p, ok := m.byID[id]
	if !ok || p.IsFullyUsed || p.CheckedInCount+count > p.Quantity {
		// Mirrors the conditional UPDATE matching no row.
		return nil, domain.ErrNotFound
	}
	p.CheckedInCount += count
	p.IsFullyUsed = p.CheckedInCount == p.Quantity
	clone := *p
	return &clone, nil
}

type fakeTokenGenerator struct {
	mu      sync.Mutex
	counter int
}

func (f *fakeTokenGenerator) NewEventLink() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return fmt.Sprintf("link%06d", f.counter), nil
}

func (f *fakeTokenGenerator) NewParticipantToken() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return fmt.Sprintf("TOK%03d", f.counter), nil
}

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(ctx context.Context, folder string, data []byte) (string, error) {
	f.calls++
	return f.url, f.err
}

type fakeEmailService struct {
	ticketErr   error
	ticketSent  int
	lastTicket  *domain.TicketTokenEmailData
	signupSent  int
	resetSent   int
	welcomeSent int
	signupErr   error
	welcomeErr  error
}

func (f *fakeEmailService) SendTicketToken(ctx context.Context, data *domain.TicketTokenEmailData) error {
	f.ticketSent++
	f.lastTicket = data
	return f.ticketErr
}

func (f *fakeEmailService) SendSignupOTP(ctx context.Context, data *domain.OTPEmailData) error {
	f.signupSent++
	return f.signupErr
}

func (f *fakeEmailService) SendPasswordResetOTP(ctx context.Context, data *domain.OTPEmailData) error {
	f.resetSent++
	return nil
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	f.welcomeSent++
	return f.welcomeErr
}

func testEvent() *domain.Event {
	return &domain.Event{
		ID:          "ev-1",
		Title:       "GopherConf",
		OrganizerID: "org-1",
		EventLinkID: "k3x9w2m1qz",
		Status:      domain.StatusPublished,
		Tickets: []*domain.Ticket{
			{Type: "VIP", Price: 500, Quantity: 2, Sold: 0},
			{Type: "General", Price: 100, Quantity: 50, Sold: 10},
		},
	}
}

func newTestParticipantService(event *domain.Event) (domain.ParticipantService, *mockEventRepository, *mockParticipantRepository, *fakeEmailService, *fakeUploader) {
	eventRepo := newMockEventRepository(event)
	participantRepo := newMockParticipantRepository(eventRepo)
	emails := &fakeEmailService{}
	uploader := &fakeUploader{}
	svc := NewParticipantService(eventRepo, participantRepo, &fakeTokenGenerator{}, uploader, emails, testLogger)
	return svc, eventRepo, participantRepo, emails, uploader
}

func TestPurchase_Success(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, _, emails, _ := newTestParticipantService(event)

	p, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Ada",
		Email:       "Ada@Example.com",
		TicketType:  "VIP",
		Quantity:    2,
		PricePaid:   1000,
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.NotEmpty(t, p.Token)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, 0, p.CheckedInCount)
	assert.False(t, p.IsFullyUsed)

	// Tier and aggregates reflect the sale.
	vip := event.TicketByType("VIP")
	assert.Equal(t, 2, vip.Sold)
	assert.Equal(t, 12, event.TotalTicketsSold)
	assert.Equal(t, 2000.0, event.TotalIncome)

	// Purchaser got the token email.
	require.Equal(t, 1, emails.ticketSent)
	assert.Equal(t, p.Token, emails.lastTicket.Token)

	// The tier is now exhausted; one more is rejected with no further mutation.
	_, err = svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Bob",
		Email:       "bob@example.com",
		TicketType:  "VIP",
		Quantity:    1,
		PricePaid:   500,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.Equal(t, 2, vip.Sold)
}

func TestPurchase_PriceMismatch(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, repo, emails, _ := newTestParticipantService(event)

	for _, pricePaid := range []float64{250, 350} { // under- and overpayment for 3x100
		_, err := svc.Purchase(ctx, &domain.PurchaseRequest{
			EventLinkID: "k3x9w2m1qz",
			Name:        "Ada",
			Email:       "ada@example.com",
			TicketType:  "General",
			Quantity:    3,
			PricePaid:   pricePaid,
		})
		require.ErrorIs(t, err, domain.ErrPriceMismatch)
	}
	assert.Equal(t, 10, event.TicketByType("General").Sold)
	assert.Empty(t, repo.byID)
	assert.Zero(t, emails.ticketSent)
}

func TestPurchase_UnknownTicketType(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, repo, _, _ := newTestParticipantService(event)

	_, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Ada",
		Email:       "ada@example.com",
		TicketType:  "Platinum",
		Quantity:    1,
		PricePaid:   0,
	})
	require.ErrorIs(t, err, domain.ErrUnknownTicketType)
	assert.Equal(t, 10, event.TicketByType("General").Sold)
	assert.Empty(t, repo.byID)
}

func TestPurchase_EventNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newTestParticipantService(testEvent())

	_, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "nosuchlink",
		Name:        "Ada",
		Email:       "ada@example.com",
		TicketType:  "VIP",
		Quantity:    1,
		PricePaid:   500,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchase_QuantityDefaultsToOne(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, _, _, _ := newTestParticipantService(event)

	p, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Ada",
		Email:       "ada@example.com",
		TicketType:  "General",
		Quantity:    0, // absent in the request body
		PricePaid:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Quantity)
	assert.Equal(t, 11, event.TicketByType("General").Sold)
}

func TestPurchase_EmailFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, _, emails, _ := newTestParticipantService(event)
	emails.ticketErr = errors.New("smtp down")

	p, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Ada",
		Email:       "ada@example.com",
		TicketType:  "VIP",
		Quantity:    1,
		PricePaid:   500,
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.Token)
	assert.Equal(t, 1, event.TicketByType("VIP").Sold)
}

func TestPurchase_ProofUploadFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, _, _, uploader := newTestParticipantService(event)
	uploader.err = errors.New("cloudinary unreachable")

	p, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID:  "k3x9w2m1qz",
		Name:         "Ada",
		Email:        "ada@example.com",
		TicketType:   "VIP",
		Quantity:     1,
		PricePaid:    500,
		PaymentProof: []byte("img"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, uploader.calls)
	assert.Empty(t, p.PaymentProof)
}

func TestPurchase_IdempotencyKeyReplaysStoredOutcome(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, _, emails, _ := newTestParticipantService(event)

	req := &domain.PurchaseRequest{
		EventLinkID:    "k3x9w2m1qz",
		Name:           "Ada",
		Email:          "ada@example.com",
		TicketType:     "VIP",
		Quantity:       1,
		PricePaid:      500,
		IdempotencyKey: "retry-1",
	}
	first, err := svc.Purchase(ctx, req)
	require.NoError(t, err)

	second, err := svc.Purchase(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Token, second.Token)
	// Only one sale happened, only one email went out.
	assert.Equal(t, 1, event.TicketByType("VIP").Sold)
	assert.Equal(t, 1, emails.ticketSent)
}

func TestPurchase_ConcurrentLastTicket(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	event.Tickets = []*domain.Ticket{{Type: "VIP", Price: 500, Quantity: 1, Sold: 0}}
	svc, _, _, _, _ := newTestParticipantService(event)

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Purchase(ctx, &domain.PurchaseRequest{
				EventLinkID: "k3x9w2m1qz",
				Name:        fmt.Sprintf("guest-%d", i),
				Email:       fmt.Sprintf("guest%d@example.com", i),
				TicketType:  "VIP",
				Quantity:    1,
				PricePaid:   500,
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded, soldOut := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientInventory):
			soldOut++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, soldOut)
	assert.Equal(t, 1, event.TicketByType("VIP").Sold)
}

// Events handed out by the repository are snapshots. A caller mutating one
// must not touch the stored tier counts, otherwise the pre-validation read
// would alias state that a concurrent purchase increments.
func TestEventReadsAreSnapshots(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	eventRepo := newMockEventRepository(event)

	fromLink, err := eventRepo.GetByLinkID(ctx, "k3x9w2m1qz")
	require.NoError(t, err)
	fromLink.TicketByType("VIP").Sold = 99
	fromLink.TotalTicketsSold = 99

	fresh, err := eventRepo.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.TicketByType("VIP").Sold)
	assert.Equal(t, 0, event.TicketByType("VIP").Sold)
	assert.NotSame(t, event.TicketByType("VIP"), fresh.TicketByType("VIP"))
}

func TestCheckIn_FullGroupThenRejected(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, _, _, _ := newTestParticipantService(event)

	p, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Ada",
		Email:       "ada@example.com",
		TicketType:  "General",
		Quantity:    4,
		PricePaid:   400,
	})
	require.NoError(t, err)

	view, err := svc.CheckIn(ctx, p.ID, "ev-1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.CheckedInCount)
	assert.Equal(t, 0, view.RemainingEntries)
	assert.True(t, view.IsFullyUsed)

	_, err = svc.CheckIn(ctx, p.ID, "ev-1", 1)
	require.ErrorIs(t, err, domain.ErrAlreadyFullyUsed)
}

func TestCheckIn_PartialThenExactRemainder(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, repo, _, _ := newTestParticipantService(event)

	p, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Ada",
		Email:       "ada@example.com",
		TicketType:  "General",
		Quantity:    5,
		PricePaid:   500,
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, p.ID, "ev-1", 3)
	require.NoError(t, err)

	// Asking for more than the 2 remaining reports the exact remainder.
	_, err = svc.CheckIn(ctx, p.ID, "ev-1", 3)
	var remErr *domain.InsufficientRemainingError
	require.ErrorAs(t, err, &remErr)
	assert.Equal(t, 2, remErr.Remaining)

	// Rejection changed nothing.
	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CheckedInCount)

	view, err := svc.CheckIn(ctx, p.ID, "ev-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, view.CheckedInCount)
	assert.True(t, view.IsFullyUsed)
}

func TestCheckIn_EventMismatch(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, _, _, _ := newTestParticipantService(event)

	p, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Ada",
		Email:       "ada@example.com",
		TicketType:  "General",
		Quantity:    1,
		PricePaid:   100,
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, p.ID, "ev-other", 1)
	require.ErrorIs(t, err, domain.ErrEventMismatch)
}

func TestCheckIn_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newTestParticipantService(testEvent())

	for _, tc := range []struct {
		name          string
		participantID string
		eventID       string
		count         int
	}{
		{"missing participant id", "", "ev-1", 1},
		{"missing event id", "p-1", "", 1},
		{"zero count", "p-1", "ev-1", 0},
		{"negative count", "p-1", "ev-1", -2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CheckIn(ctx, tc.participantID, tc.eventID, tc.count)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCheckIn_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newTestParticipantService(testEvent())

	_, err := svc.CheckIn(ctx, "p-missing", "ev-1", 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckIn_ConcurrentScansNeverOverConsume(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, repo, _, _ := newTestParticipantService(event)

	p, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Ada",
		Email:       "ada@example.com",
		TicketType:  "General",
		Quantity:    3,
		PricePaid:   300,
	})
	require.NoError(t, err)

	const scans = 20
	var wg sync.WaitGroup
	errs := make(chan error, scans)
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(ctx, p.ID, "ev-1", 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 3, succeeded)

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CheckedInCount)
	assert.True(t, stored.IsFullyUsed)
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, _, _, _ := newTestParticipantService(event)

	p, err := svc.Purchase(ctx, &domain.PurchaseRequest{
		EventLinkID: "k3x9w2m1qz",
		Name:        "Ada",
		Email:       "ada@example.com",
		TicketType:  "General",
		Quantity:    2,
		PricePaid:   200,
	})
	require.NoError(t, err)

	view, err := svc.Verify(ctx, "ev-1", p.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, view.ID)
	assert.Equal(t, 2, view.RemainingEntries)
	assert.False(t, view.IsFullyUsed)

	// Verification consumes nothing.
	view2, err := svc.Verify(ctx, "ev-1", p.Token)
	require.NoError(t, err)
	assert.Equal(t, 0, view2.CheckedInCount)

	_, err = svc.Verify(ctx, "ev-1", "ZZZZZZ")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByEvent_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	svc, _, _, _, _ := newTestParticipantService(event)

	_, _, err := svc.ListByEvent(ctx, "ev-1", "someone-else", domain.PaginationParams{Page: 1, PageSize: 20})
	require.ErrorIs(t, err, domain.ErrForbidden)

	participants, total, err := svc.ListByEvent(ctx, "ev-1", "org-1", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, participants)
}
