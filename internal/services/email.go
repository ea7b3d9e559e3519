package services

import (
	"context"
	"fmt"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendTicketToken sends the check-in token to a purchaser using the
// "ticket_token" template.
func (s *emailService) SendTicketToken(ctx context.Context, data *domain.TicketTokenEmailData) error {
	if data == nil {
		return fmt.Errorf("ticket token data is nil")
	}
	return s.send("ticket_token", data.Email, data)
}

// SendSignupOTP sends the signup verification code using the "signup_otp" template.
func (s *emailService) SendSignupOTP(ctx context.Context, data *domain.OTPEmailData) error {
	if data == nil {
		return fmt.Errorf("signup otp data is nil")
	}
	return s.send("signup_otp", data.Email, data)
}

// SendPasswordResetOTP sends the password reset code using the "reset_otp" template.
func (s *emailService) SendPasswordResetOTP(ctx context.Context, data *domain.OTPEmailData) error {
	if data == nil {
		return fmt.Errorf("reset otp data is nil")
	}
	return s.send("reset_otp", data.Email, data)
}

// SendWelcome sends the organizer welcome email using the "welcome" template.
func (s *emailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome data is nil")
	}
	return s.send("welcome", data.Email, data)
}

func (s *emailService) send(templateName, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", templateName, err)
	}
	return nil
}
