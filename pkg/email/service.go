package email

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Config holds outbound email settings. SendGrid takes precedence; when no
// API key is set, messages are logged instead of sent.
type Config struct {
	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	FromAddress    string
	FromName       string
}

// Service sends transactional email.
type Service struct {
	cfg    Config
	client *sendgrid.Client
}

// NewService creates an email service. With no SendGrid key configured the
// service runs in log-only mode.
func NewService(cfg Config) *Service {
	s := &Service{cfg: cfg}

	if cfg.SendGridAPIKey != "" {
		s.client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
		log.Println("✅ SendGrid email configured")
	} else if cfg.SMTPHost != "" {
		log.Printf("⚠️ SMTP configured (%s:%d) but no SendGrid key; email runs in log-only mode", cfg.SMTPHost, cfg.SMTPPort)
	} else {
		log.Println("⚠️ No email provider configured; email runs in log-only mode")
	}

	return s
}

// SendWelcomeEmail greets a newly registered user.
func (s *Service) SendWelcomeEmail(ctx context.Context, to, name string) error {
	subject := "Welcome to LawCaseAI"
	plain := fmt.Sprintf(
		"Hi %s,\n\nYour account is ready. Create your first case and upload your documents to get started.\n\nThe LawCaseAI Team",
		name,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your account is ready. Create your first case and upload your documents to get started.</p><p>The LawCaseAI Team</p>",
		name,
	)
	return s.send(ctx, to, name, subject, plain, html)
}

// SendPlanChangedEmail confirms a subscription change.
func (s *Service) SendPlanChangedEmail(ctx context.Context, to, name, plan string, limit int) error {
	subject := "Your LawCaseAI plan has changed"
	plain := fmt.Sprintf(
		"Hi %s,\n\nYour subscription is now on the %s plan. You can manage up to %d cases.\n\nThe LawCaseAI Team",
		name, plan, limit,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your subscription is now on the <strong>%s</strong> plan. You can manage up to %d cases.</p><p>The LawCaseAI Team</p>",
		name, plan, limit,
	)
	return s.send(ctx, to, name, subject, plain, html)
}

func (s *Service) send(ctx context.Context, to, toName, subject, plain, html string) error {
	if s.client == nil {
		log.Printf("📧 [log-only] to=%s subject=%q", to, subject)
		return nil
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail(toName, to), plain, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed sending email to %s: %w", to, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("email provider rejected message to %s: status %d", to, resp.StatusCode)
	}
	return nil
}
