package services

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"spendwise/internal/config"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
)

// mailService sends outbound mail over SMTP.
type mailService struct {
	cfg *config.Config
}

// NewMailService creates a new MailServicer.
func NewMailService(cfg *config.Config) MailServicer {
	return &mailService{cfg: cfg}
}

// SendWelcome sends a registration mail to a new user. Empty subject or
// body fall back to a default welcome message.
func (s *mailService) SendWelcome(to, username, subject, text string) error {
	if to == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "recipient email is required")
	}

	if subject == "" {
		subject = "Welcome to Spendwise"
	}
	if text == "" {
		text = fmt.Sprintf("Dear %s,\n\nYour Spendwise account has been created.\n\nBest regards,\nSpendwise", username)
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(text)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		logger.Get().Errorw("failed to send mail",
			"to", to,
			"subject", subject,
			"error", err.Error(),
		)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("mail sent", "to", to, "subject", subject)
	return nil
}
