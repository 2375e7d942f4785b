package jobs

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// SMTPMailer sends plain-text mail through a relay such as Mailpit in
// development or the office relay in production. No auth: the relay is
// reachable only from inside the network.
type SMTPMailer struct {
	Addr string
	From string
}

// Send delivers one message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := smtp.SendMail(m.Addr, nil, m.From, []string{to}, buildMessage(m.From, to, subject, body)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// buildMessage assembles the wire form of one message. The subject is
// RFC 2047 encoded so Japanese text survives 7-bit relays; mime leaves
// plain ASCII untouched.
func buildMessage(from, to, subject, body string) []byte {
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("UTF-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")
	return []byte(msg)
}
