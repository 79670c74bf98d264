// Package notify delivers reminder digests by email.
package notify

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"dividas/internal/core"
	"dividas/internal/format"
)

// Mailer sends reminder digests over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewMailer(host string, port int, username, password, from, to string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		to:     to,
	}
}

// SendReminderDigest mails the current reminder set as one HTML digest.
func (m *Mailer) SendReminderDigest(ctx context.Context, reminders []core.Reminder, today time.Time) error {
	if len(reminders) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", digestSubject(reminders))
	msg.SetBody("text/html", renderDigest(reminders, today))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send reminder digest: %w", err)
	}

	slog.InfoContext(ctx, "Reminder digest sent", "to", m.to, "reminders", len(reminders))
	return nil
}

func digestSubject(reminders []core.Reminder) string {
	overdue := 0
	for _, r := range reminders {
		if r.DaysRemaining < 0 {
			overdue++
		}
	}
	if overdue > 0 {
		return fmt.Sprintf("Dívidas: %d parcela(s) atrasada(s)", overdue)
	}
	return fmt.Sprintf("Dívidas: %d parcela(s) vencendo", len(reminders))
}

// dueLabel phrases the time left until (or since) the due date.
func dueLabel(daysRemaining int) string {
	switch {
	case daysRemaining < 0:
		return fmt.Sprintf("Venceu há %d dia(s)", -daysRemaining)
	case daysRemaining == 0:
		return "Vence hoje!"
	case daysRemaining == 1:
		return "Vence amanhã"
	default:
		return fmt.Sprintf("Vence em %d dias", daysRemaining)
	}
}

// renderDigest builds the HTML body. Pure so tests can assert on it.
func renderDigest(reminders []core.Reminder, today time.Time) string {
	var b strings.Builder

	b.WriteString("<h2>Lembretes de vencimento</h2>\n")
	fmt.Fprintf(&b, "<p>Resumo de %s</p>\n", format.Date(core.Date{Time: today}))
	b.WriteString("<ul>\n")
	for _, r := range reminders {
		fmt.Fprintf(&b, "<li><strong>%s</strong>: parcela de %s, %s (vencimento %s)</li>\n",
			template.HTMLEscapeString(r.Description),
			format.BRL(r.Amount),
			dueLabel(r.DaysRemaining),
			format.Date(r.DueDate))
	}
	b.WriteString("</ul>\n")

	return b.String()
}
