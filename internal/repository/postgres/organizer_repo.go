package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

type organizerRepository struct {
	DB *sql.DB
}

// NewOrganizerRepository returns a domain.OrganizerRepository implemented with Postgres.
func NewOrganizerRepository(db *sql.DB) domain.OrganizerRepository {
	return &organizerRepository{DB: db}
}

func (r *organizerRepository) Create(ctx context.Context, o *domain.Organizer) error {
	query := `
		INSERT INTO organizers (name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, o.Name, o.Email, o.PasswordHash, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		if IsUniqueViolation(err, "organizers_email_key") {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *organizerRepository) GetByEmail(ctx context.Context, email string) (*domain.Organizer, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM organizers
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *organizerRepository) GetByID(ctx context.Context, id string) (*domain.Organizer, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM organizers
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *organizerRepository) getOne(ctx context.Context, query string, arg any) (*domain.Organizer, error) {
	o := &domain.Organizer{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&o.ID, &o.Name, &o.Email, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *organizerRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE organizers SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
