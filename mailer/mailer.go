// Package mailer sends transactional email. Delivery failures are logged
// and never propagated: signup and reset flows must succeed even when the
// mail relay is down.
package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	SendVerification(email, token string)
	SendPasswordReset(email, token string)
}

type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func New(host string, port int, user, password, from, baseURL string) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(host, port, user, password),
		from:    from,
		baseURL: baseURL,
	}
}

func (m *Mailer) SendVerification(email, token string) {
	link := fmt.Sprintf("%s/auth/verify-email?token=%s", m.baseURL, token)
	body := fmt.Sprintf(
		"Welcome! Please confirm your email address by opening this link:\r\n\r\n%s\r\n\r\nThe link expires in 24 hours.",
		link,
	)
	m.send(email, "Confirm your email address", body)
}

func (m *Mailer) SendPasswordReset(email, token string) {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token)
	body := fmt.Sprintf(
		"A password reset was requested for your account. Open this link to choose a new password:\r\n\r\n%s\r\n\r\nThe link expires in 2 hours. If you did not request this, ignore this email.",
		link,
	)
	m.send(email, "Reset your password", body)
}

func (m *Mailer) send(to, subject, body string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		zap.S().Errorw("email send failed", "to", to, "subject", subject, "error", err)
	}
}
