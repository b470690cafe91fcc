package notify

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/config"
)

// Mailer envia um e-mail já renderizado.
type Mailer interface {
	Send(to, subject, textBody, htmlBody string) error
}

// SMTPMailer entrega via SMTP com STARTTLS (porta 587 nos provedores
// usados pela associação).
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer cria o mailer SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send monta mensagem multipart/alternative (texto + HTML) e envia.
func (m *SMTPMailer) Send(to, subject, textBody, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	msg := buildMessage(m.cfg.From, to, subject, textBody, htmlBody)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("enviar e-mail para %s: %w", to, err)
	}
	return nil
}

const mimeBoundary = "alt-portal-boundary"

func buildMessage(from, to, subject, textBody, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + mimeBoundary + "\r\n")
	b.WriteString("\r\n")

	part := func(contentType, body string) {
		b.WriteString("--" + mimeBoundary + "\r\n")
		b.WriteString("Content-Type: " + contentType + "; charset=utf-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(body)
		b.WriteString("\r\n")
	}

	part("text/plain", textBody)
	if htmlBody != "" {
		part("text/html", htmlBody)
	}
	b.WriteString("--" + mimeBoundary + "--\r\n")
	return []byte(b.String())
}

// NoopMailer descarta e-mails registrando no log. Usado quando as
// credenciais SMTP não estão configuradas (ambiente local).
type NoopMailer struct {
	logger zerolog.Logger
}

// NewNoopMailer cria o mailer nulo.
func NewNoopMailer(logger zerolog.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// Send registra o descarte e devolve sucesso.
func (m *NoopMailer) Send(to, subject, _, _ string) error {
	m.logger.Info().Str("para", to).Str("assunto", subject).Msg("e-mail descartado (SMTP desligado)")
	return nil
}
