package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

// NewParticipantRepository returns a domain.ParticipantRepository implemented with Postgres.
func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{DB: db}
}

const participantColumns = `
	id, event_id, name, email, phone, ticket_type, quantity, price_paid,
	token, payment_proof, idempotency_key, checked_in_count, is_fully_used, purchased_at
`

// CreatePurchase commits the whole purchase in one transaction. The tier
// increment is a single conditional update, so two concurrent purchases of
// the last ticket can never both pass: the predicate sold + qty <= quantity
// is evaluated under the row lock the UPDATE takes.
func (r *participantRepository) CreatePurchase(ctx context.Context, p *domain.Participant) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		// Lock the events row before touching event_tickets. Event updates
		// write events first too, so the two transactions always acquire
		// row locks in the same order.
		var lockedID string
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM events WHERE id = $1 FOR UPDATE
		`, p.EventID).Scan(&lockedID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE event_tickets
			SET sold = sold + $3
			WHERE event_id = $1 AND type = $2 AND sold + $3 <= quantity
		`, p.EventID, p.TicketType, p.Quantity)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			// Distinguish a sold-out tier from a tier that does not exist.
			var one int
			err := tx.QueryRowContext(ctx, `
				SELECT 1 FROM event_tickets WHERE event_id = $1 AND type = $2
			`, p.EventID, p.TicketType).Scan(&one)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrUnknownTicketType
			}
			if err != nil {
				return err
			}
			return domain.ErrInsufficientInventory
		}

		if err := recomputeEventTotals(ctx, tx, p.EventID); err != nil {
			return err
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO participants (
				event_id, name, email, phone, ticket_type, quantity, price_paid,
				token, payment_proof, idempotency_key, checked_in_count, is_fully_used, purchased_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id
		`, p.EventID, p.Name, p.Email, nullString(p.Phone), p.TicketType, p.Quantity, p.PricePaid,
			p.Token, nullString(p.PaymentProof), nullString(p.IdempotencyKey),
			p.CheckedInCount, p.IsFullyUsed, p.PurchasedAt,
		).Scan(&p.ID)
		if err != nil {
			if IsUniqueViolation(err, "participants_token_key") {
				return domain.ErrTokenConflict
			}
			if IsUniqueViolation(err, "participants_event_id_idempotency_key_key") {
				return domain.ErrIdempotencyConflict
			}
			return err
		}
		return nil
	})
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *participantRepository) GetByToken(ctx context.Context, eventID, token string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 AND token = $2`
	return r.getOne(ctx, query, eventID, token)
}

func (r *participantRepository) GetByIdempotencyKey(ctx context.Context, eventID, key string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 AND idempotency_key = $2`
	return r.getOne(ctx, query, eventID, key)
}

func (r *participantRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Participant, error) {
	p := &domain.Participant{}
	var phoneNull, proofNull, keyNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.EventID, &p.Name, &p.Email, &phoneNull, &p.TicketType, &p.Quantity, &p.PricePaid,
		&p.Token, &proofNull, &keyNull, &p.CheckedInCount, &p.IsFullyUsed, &p.PurchasedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Phone = phoneNull.String
	p.PaymentProof = proofNull.String
	p.IdempotencyKey = keyNull.String
	return p, nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Participant, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participants WHERE event_id = $1
	`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + participantColumns + `
		FROM participants
		WHERE event_id = $1
		ORDER BY purchased_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, eventID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p := &domain.Participant{}
		var phoneNull, proofNull, keyNull sql.NullString
		if err := rows.Scan(
			&p.ID, &p.EventID, &p.Name, &p.Email, &phoneNull, &p.TicketType, &p.Quantity, &p.PricePaid,
			&p.Token, &proofNull, &keyNull, &p.CheckedInCount, &p.IsFullyUsed, &p.PurchasedAt,
		); err != nil {
			return nil, 0, err
		}
		p.Phone = phoneNull.String
		p.PaymentProof = proofNull.String
		p.IdempotencyKey = keyNull.String
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return participants, total, nil
}

// CheckIn consumes count entries with one conditional update: the row must
// exist, not be fully used, and still have count entries remaining. The
// is_fully_used flag is derived in the same statement, so the invariant
// is_fully_used == (checked_in_count == quantity) holds after every write.
func (r *participantRepository) CheckIn(ctx context.Context, id string, count int) (*domain.Participant, error) {
	p := &domain.Participant{}
	var phoneNull, proofNull, keyNull sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		UPDATE participants
		SET checked_in_count = checked_in_count + $2,
		    is_fully_used = (checked_in_count + $2 = quantity)
		WHERE id = $1
		  AND is_fully_used = FALSE
		  AND checked_in_count + $2 <= quantity
		RETURNING `+participantColumns+`
	`, id, count).Scan(
		&p.ID, &p.EventID, &p.Name, &p.Email, &phoneNull, &p.TicketType, &p.Quantity, &p.PricePaid,
		&p.Token, &proofNull, &keyNull, &p.CheckedInCount, &p.IsFullyUsed, &p.PurchasedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Phone = phoneNull.String
	p.PaymentProof = proofNull.String
	p.IdempotencyKey = keyNull.String
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
