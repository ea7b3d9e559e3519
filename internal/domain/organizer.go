package domain

import (
	"context"
	"time"
)

// Organizer represents an account that creates and manages events.
// swagger:model Organizer
type Organizer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PasswordHasher hashes and verifies organizer passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues session tokens (e.g. JWT) for an authenticated organizer.
type TokenIssuer interface {
	Issue(organizerID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a session token and returns the organizer ID.
type TokenVerifier interface {
	Verify(token string) (organizerID string, err error)
}

// OrganizerRepository defines storage operations for organizer accounts.
type OrganizerRepository interface {
	Create(ctx context.Context, o *Organizer) error
	GetByEmail(ctx context.Context, email string) (*Organizer, error)
	GetByID(ctx context.Context, id string) (*Organizer, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// OTPRepository is a time-bounded keyed store for one-time codes: pending
// signups and password resets. Codes are stored hashed and consumed exactly
// once; expired rows are ignored. Backing this with the database rather than
// process memory keeps codes valid across restarts.
type OTPRepository interface {
	// CreateSignup stores a pending signup keyed by email, replacing any
	// previous pending signup for that email.
	CreateSignup(ctx context.Context, email, name, passwordHash, otpHash string, expiresAt time.Time) error
	// ConsumeSignup atomically consumes a live signup OTP and returns the
	// pending name and password hash. consumed is false when no live row
	// matches.
	ConsumeSignup(ctx context.Context, email, otpHash string) (name, passwordHash string, consumed bool, err error)
	CreatePasswordReset(ctx context.Context, email, otpHash string, expiresAt time.Time) error
	ConsumePasswordReset(ctx context.Context, email, otpHash string) (consumed bool, err error)
}

// OrganizerService defines signup, login, and password-reset flows.
type OrganizerService interface {
	// RequestSignup validates the registration data, stores it pending, and
	// emails an OTP. The account is not created until VerifySignup.
	RequestSignup(ctx context.Context, name, email, password string) error
	// VerifySignup consumes the OTP, creates the organizer, and returns a
	// session token together with the new account.
	VerifySignup(ctx context.Context, email, otp string) (token string, organizer *Organizer, err error)
	Login(ctx context.Context, email, password string) (token string, organizer *Organizer, err error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}
