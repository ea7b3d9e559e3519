package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

type otpRepository struct {
	DB *sql.DB
}

// NewOTPRepository returns a domain.OTPRepository implemented with Postgres.
// Pending signups and password-reset codes live in their own tables with an
// expiry column, so codes survive process restarts and expire by predicate
// rather than by an in-memory timer.
func NewOTPRepository(db *sql.DB) domain.OTPRepository {
	return &otpRepository{DB: db}
}

func (r *otpRepository) CreateSignup(ctx context.Context, email, name, passwordHash, otpHash string, expiresAt time.Time) error {
	// One pending signup per email; a new request replaces the old code.
	query := `
		INSERT INTO pending_signups (email, name, password_hash, otp_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			otp_hash = EXCLUDED.otp_hash,
			expires_at = EXCLUDED.expires_at
	`
	_, err := r.DB.ExecContext(ctx, query, email, name, passwordHash, otpHash, expiresAt)
	return err
}

func (r *otpRepository) ConsumeSignup(ctx context.Context, email, otpHash string) (string, string, bool, error) {
	var name, passwordHash string
	query := `
		DELETE FROM pending_signups
		WHERE email = $1 AND otp_hash = $2 AND expires_at > NOW()
		RETURNING name, password_hash
	`
	err := r.DB.QueryRowContext(ctx, query, email, otpHash).Scan(&name, &passwordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", false, nil
		}
		return "", "", false, err
	}
	return name, passwordHash, true, nil
}

func (r *otpRepository) CreatePasswordReset(ctx context.Context, email, otpHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_resets (email, otp_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, email, otpHash, expiresAt)
	return err
}

func (r *otpRepository) ConsumePasswordReset(ctx context.Context, email, otpHash string) (bool, error) {
	var id string
	query := `
		SELECT id FROM password_resets
		WHERE email = $1 AND otp_hash = $2 AND expires_at > NOW()
		LIMIT 1
	`
	err := r.DB.QueryRowContext(ctx, query, email, otpHash).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM password_resets WHERE id = $1`, id); err != nil {
		return false, err
	}
	return true, nil
}
