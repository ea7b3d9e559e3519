package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

const (
	otpDigits      = 6
	otpExpiryMins  = 15
	minPasswordLen = 8
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type organizerService struct {
	organizerRepo domain.OrganizerRepository
	otpRepo       domain.OTPRepository
	hasher        domain.PasswordHasher
	tokenIssuer   domain.TokenIssuer
	tokenExpiry   time.Duration
	emailService  domain.EmailService
	logger        *slog.Logger
}

// NewOrganizerService creates an OrganizerService with the given
// repositories and auth ports.
func NewOrganizerService(
	organizerRepo domain.OrganizerRepository,
	otpRepo domain.OTPRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.OrganizerService {
	return &organizerService{
		organizerRepo: organizerRepo,
		otpRepo:       otpRepo,
		hasher:        hasher,
		tokenIssuer:   tokenIssuer,
		tokenExpiry:   tokenExpiry,
		emailService:  emailService,
		logger:        logger,
	}
}

// RequestSignup stores the registration pending an email OTP. The account
// itself is only created by VerifySignup, so an unverified email never
// becomes an organizer.
func (s *organizerService) RequestSignup(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) || strings.TrimSpace(name) == "" || len(password) < minPasswordLen {
		return domain.ErrInvalidInput
	}
	if _, err := s.organizerRepo.GetByEmail(ctx, email); err == nil {
		return domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get organizer: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	otp, err := generateOTP(otpDigits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	expiresAt := time.Now().Add(otpExpiryMins * time.Minute)
	if err := s.otpRepo.CreateSignup(ctx, email, strings.TrimSpace(name), passwordHash, hashOTP(otp), expiresAt); err != nil {
		return fmt.Errorf("store pending signup: %w", err)
	}

	data := &domain.OTPEmailData{Email: email, Code: otp, ExpiresInMinutes: otpExpiryMins}
	if err := s.emailService.SendSignupOTP(ctx, data); err != nil {
		return fmt.Errorf("send signup code: %w", err)
	}
	return nil
}

// VerifySignup consumes the OTP, creates the organizer account, and signs
// them in. The welcome email is best-effort.
func (s *organizerService) VerifySignup(ctx context.Context, email, otp string) (string, *domain.Organizer, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	otp = strings.TrimSpace(otp)
	if !emailRegexp.MatchString(email) || otp == "" {
		return "", nil, domain.ErrInvalidInput
	}
	name, passwordHash, consumed, err := s.otpRepo.ConsumeSignup(ctx, email, hashOTP(otp))
	if err != nil {
		return "", nil, fmt.Errorf("consume signup code: %w", err)
	}
	if !consumed {
		return "", nil, domain.ErrInvalidOTP
	}

	now := time.Now()
	organizer := &domain.Organizer{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.organizerRepo.Create(ctx, organizer); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return "", nil, domain.ErrDuplicateEmail
		}
		return "", nil, fmt.Errorf("create organizer: %w", err)
	}

	welcome := &domain.WelcomeEmailData{Email: organizer.Email, Name: organizer.Name}
	if err := s.emailService.SendWelcome(ctx, welcome); err != nil {
		s.logger.WarnContext(ctx, "failed to send welcome email", "organizer_id", organizer.ID, "err", err)
	}

	token, err := s.tokenIssuer.Issue(organizer.ID, organizer.Email, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, organizer, nil
}

func (s *organizerService) Login(ctx context.Context, email, password string) (string, *domain.Organizer, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}
	organizer, err := s.organizerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get organizer: %w", err)
	}
	if err := s.hasher.Compare(organizer.PasswordHash, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(organizer.ID, organizer.Email, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, organizer, nil
}

// RequestPasswordReset emails a reset OTP. An unknown email is not reported
// to the caller, so the endpoint cannot be used to probe for accounts.
func (s *organizerService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return domain.ErrInvalidInput
	}
	if _, err := s.organizerRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("get organizer: %w", err)
	}

	otp, err := generateOTP(otpDigits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	expiresAt := time.Now().Add(otpExpiryMins * time.Minute)
	if err := s.otpRepo.CreatePasswordReset(ctx, email, hashOTP(otp), expiresAt); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	data := &domain.OTPEmailData{Email: email, Code: otp, ExpiresInMinutes: otpExpiryMins}
	if err := s.emailService.SendPasswordResetOTP(ctx, data); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

func (s *organizerService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	otp = strings.TrimSpace(otp)
	if !emailRegexp.MatchString(email) || otp == "" || len(newPassword) < minPasswordLen {
		return domain.ErrInvalidInput
	}
	consumed, err := s.otpRepo.ConsumePasswordReset(ctx, email, hashOTP(otp))
	if err != nil {
		return fmt.Errorf("consume reset code: %w", err)
	}
	if !consumed {
		return domain.ErrInvalidOTP
	}
	organizer, err := s.organizerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get organizer: %w", err)
	}
	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.organizerRepo.UpdatePassword(ctx, organizer.ID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func generateOTP(digits int) (string, error) {
	max := big.NewInt(10)
	b := make([]byte, digits)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = byte('0' + n.Int64())
	}
	return string(b), nil
}

// hashOTP hashes a code for at-rest storage; codes are compared by hash.
func hashOTP(otp string) string {
	sum := sha256.Sum256([]byte(otp))
	return hex.EncodeToString(sum[:])
}
