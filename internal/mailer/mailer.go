package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/solofarma/alerts/internal/models"
	"github.com/wneessen/go-mail"
)

// Mailer delivers price-drop alerts over SMTP. Delivery failures are logged
// and reported as false, never as an error: the evaluation job branches on a
// boolean and retries by re-running.
type Mailer struct {
	log    *slog.Logger
	client *mail.Client
	from   string
}

// New creates a Mailer with an SMTP client bound by the given send timeout.
func New(log *slog.Logger, host string, port int, username, password, from string, timeout time.Duration) (*Mailer, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &Mailer{log: log, client: client, from: from}, nil
}

// SendPriceAlert renders and delivers one notification. It returns true only
// on confirmed acceptance by the SMTP server.
func (m *Mailer) SendPriceAlert(ctx context.Context, payload models.NotificationPayload) bool {
	const opn = "mailer.SendPriceAlert"
	log := m.log.With("op", opn, "recipient", payload.Recipient)

	body, err := renderBody(payload)
	if err != nil {
		log.ErrorContext(ctx, "Failed to render alert email", "error", err)
		return false
	}

	msg := mail.NewMsg()
	if err = msg.From(m.from); err != nil {
		log.ErrorContext(ctx, "Invalid sender address", "from", m.from, "error", err)
		return false
	}
	if err = msg.To(payload.Recipient); err != nil {
		log.ErrorContext(ctx, "Invalid recipient address", "error", err)
		return false
	}
	msg.Subject(fmt.Sprintf("📉 ¡%s bajó de precio!", payload.Product.Name))
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err = m.client.DialAndSendWithContext(ctx, msg); err != nil {
		log.ErrorContext(ctx, "Failed to deliver alert email", "error", err)
		return false
	}

	log.InfoContext(ctx, "Alert email delivered", "product", payload.Product.Name)
	return true
}
