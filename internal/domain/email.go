package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// TicketTokenEmailData holds data for the ticket-token email sent after a purchase.
type TicketTokenEmailData struct {
	Email      string
	Name       string
	EventTitle string
	Token      string
	Quantity   int
}

// OTPEmailData holds data for signup and password-reset OTP emails.
type OTPEmailData struct {
	Email            string
	Code             string
	ExpiresInMinutes int
}

// WelcomeEmailData holds data for the organizer welcome email.
type WelcomeEmailData struct {
	Email string
	Name  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendTicketToken(ctx context.Context, data *TicketTokenEmailData) error
	SendSignupOTP(ctx context.Context, data *OTPEmailData) error
	SendPasswordResetOTP(ctx context.Context, data *OTPEmailData) error
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
}
