package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

// SMTPMailer notifies listing owners about moderation outcomes.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

func (m *SMTPMailer) SendModerationOutcome(toEmail, listingTitle string, status domain.Status, labels []domain.ModerationLabel) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subjectFor(status))
	msg.SetBody("text/plain", bodyFor(listingTitle, status, labels))

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}

func subjectFor(status domain.Status) string {
	if status == domain.StatusApproved {
		return "Your artwork listing was approved"
	}
	return "Your artwork listing was flagged"
}

func bodyFor(listingTitle string, status domain.Status, labels []domain.ModerationLabel) string {
	var b strings.Builder
	if status == domain.StatusApproved {
		fmt.Fprintf(&b, "Your listing '%s' was approved and is now visible in the gallery.\n", listingTitle)
		return b.String()
	}
	fmt.Fprintf(&b, "Your listing '%s' was flagged by content moderation and is not publicly visible.\n", listingTitle)
	if len(labels) > 0 {
		b.WriteString("\nModeration findings:\n")
		for _, l := range labels {
			fmt.Fprintf(&b, "  - %s (%.0f%%)\n", l.Label, l.Confidence)
		}
	}
	return b.String()
}
