package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPDispatcher delivers over plain SMTP with AUTH PLAIN (STARTTLS is
// negotiated by net/smtp when the server offers it). Constructed once by the
// composition root; configuration is validated before the first send.
type SMTPDispatcher struct {
	addr string // host:port
	host string
	from string
	auth smtp.Auth
}

func NewSMTPDispatcher(host string, port int, user, password, from string) (*SMTPDispatcher, error) {
	if host == "" || from == "" {
		return nil, fmt.Errorf("smtp host and from address are required")
	}
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPDispatcher{
		addr: fmt.Sprintf("%s:%d", host, port),
		host: host,
		from: from,
		auth: auth,
	}, nil
}

func (d *SMTPDispatcher) Send(ctx context.Context, to, subject, bodyHTML string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	msg.WriteString("From: " + d.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(bodyHTML)

	return smtp.SendMail(d.addr, d.auth, d.from, []string{to}, []byte(msg.String()))
}
