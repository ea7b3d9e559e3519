package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `
	id, title, description, category, organizer_id,
	venue_name, venue_address, venue_city, venue_state, venue_country, venue_pincode,
	start_date, end_date, cover_image, status, event_link_id,
	total_tickets_sold, total_income, created_at, updated_at
`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
			INSERT INTO events (
				title, description, category, organizer_id,
				venue_name, venue_address, venue_city, venue_state, venue_country, venue_pincode,
				start_date, end_date, cover_image, status, event_link_id, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query,
			e.Title, e.Description, e.Category, e.OrganizerID,
			e.Venue.Name, e.Venue.Address, e.Venue.City, e.Venue.State, e.Venue.Country, e.Venue.Pincode,
			e.StartDate, e.EndDate, e.CoverImage, e.Status, e.EventLinkID, e.CreatedAt, e.UpdatedAt,
		).Scan(&e.ID)
		if err != nil {
			if IsUniqueViolation(err, "events_event_link_id_key") {
				return domain.ErrLinkConflict
			}
			return err
		}
		for _, t := range e.Tickets {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO event_tickets (event_id, type, price, quantity, sold)
				VALUES ($1, $2, $3, $4, $5)
			`, e.ID, t.Type, t.Price, t.Quantity, t.Sold)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *eventRepository) GetByLinkID(ctx context.Context, eventLinkID string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_link_id = $1`
	return r.getOne(ctx, query, eventLinkID)
}

func (r *eventRepository) getOne(ctx context.Context, query string, arg any) (*domain.Event, error) {
	e := &domain.Event{}
	var coverNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&e.ID, &e.Title, &e.Description, &e.Category, &e.OrganizerID,
		&e.Venue.Name, &e.Venue.Address, &e.Venue.City, &e.Venue.State, &e.Venue.Country, &e.Venue.Pincode,
		&e.StartDate, &e.EndDate, &coverNull, &e.Status, &e.EventLinkID,
		&e.TotalTicketsSold, &e.TotalIncome, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if coverNull.Valid {
		e.CoverImage = coverNull.String
	}
	tickets, err := r.listTickets(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Tickets = tickets
	return e, nil
}

func (r *eventRepository) listTickets(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT type, price, quantity, sold
		FROM event_tickets
		WHERE event_id = $1
		ORDER BY id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		t := &domain.Ticket{}
		if err := rows.Scan(&t.Type, &t.Price, &t.Quantity, &t.Sold); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *eventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var coverNull sql.NullString
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Category, &e.OrganizerID,
			&e.Venue.Name, &e.Venue.Address, &e.Venue.City, &e.Venue.State, &e.Venue.Country, &e.Venue.Pincode,
			&e.StartDate, &e.EndDate, &coverNull, &e.Status, &e.EventLinkID,
			&e.TotalTicketsSold, &e.TotalIncome, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if coverNull.Valid {
			e.CoverImage = coverNull.String
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range events {
		tickets, err := r.listTickets(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Tickets = tickets
	}
	return events, nil
}

// Update rewrites the event's editable fields and replaces its tier list,
// then recomputes the aggregate totals from the tiers in the same
// transaction so they can never drift from the tier data.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE events SET
				title = $2, description = $3, category = $4,
				venue_name = $5, venue_address = $6, venue_city = $7,
				venue_state = $8, venue_country = $9, venue_pincode = $10,
				start_date = $11, end_date = $12, cover_image = $13, status = $14,
				updated_at = NOW()
			WHERE id = $1
		`, e.ID,
			e.Title, e.Description, e.Category,
			e.Venue.Name, e.Venue.Address, e.Venue.City,
			e.Venue.State, e.Venue.Country, e.Venue.Pincode,
			e.StartDate, e.EndDate, e.CoverImage, e.Status,
		)
		if err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_tickets WHERE event_id = $1`, e.ID); err != nil {
			return err
		}
		for _, t := range e.Tickets {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO event_tickets (event_id, type, price, quantity, sold)
				VALUES ($1, $2, $3, $4, $5)
			`, e.ID, t.Type, t.Price, t.Quantity, t.Sold)
			if err != nil {
				return err
			}
		}
		return recomputeEventTotals(ctx, tx, e.ID)
	})
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// recomputeEventTotals refreshes total_tickets_sold and total_income from the
// event_tickets rows. Runs inside the caller's transaction.
func recomputeEventTotals(ctx context.Context, tx *sql.Tx, eventID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE events SET
			total_tickets_sold = totals.sold_sum,
			total_income = totals.income_sum,
			updated_at = NOW()
		FROM (
			SELECT COALESCE(SUM(sold), 0) AS sold_sum,
			       COALESCE(SUM(sold * price), 0) AS income_sum
			FROM event_tickets
			WHERE event_id = $1
		) AS totals
		WHERE id = $1
	`, eventID)
	return err
}
