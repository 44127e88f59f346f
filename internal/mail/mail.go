// Package mail sends receipt emails. Delivery is fire-and-forget: a failed
// send is logged and never rolls back the checkout that produced it.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// FromAddress is the sender for all outgoing mail.
const FromAddress = "GarageBuddy <noreply@garagebuddy.io>"

// Mailer delivers a plain-text message to one or more recipients.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	addr string // host:port
	auth smtp.Auth
}

// NewSMTP constructs a mailer for the given relay. Auth may be nil for open
// relays on trusted networks.
func NewSMTP(addr string, auth smtp.Auth) *SMTPMailer {
	return &SMTPMailer{addr: addr, auth: auth}
}

// Send delivers the message synchronously.
func (m *SMTPMailer) Send(_ context.Context, to []string, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		FromAddress, strings.Join(to, ", "), subject, body)
	return smtp.SendMail(m.addr, m.auth, "noreply@garagebuddy.io", to, []byte(msg))
}

// LogMailer writes mail to the log instead of delivering it; used in
// development and tests.
type LogMailer struct{ Logger *zap.Logger }

// Send logs the message and always succeeds.
func (m *LogMailer) Send(_ context.Context, to []string, subject, body string) error {
	m.Logger.Info("mail (not delivered)",
		zap.Strings("to", to),
		zap.String("subject", subject),
		zap.Int("bodyBytes", len(body)),
	)
	return nil
}
