package notifier

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"regexp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// EmailNotifier sends messages via SMTP.
type EmailNotifier struct {
	cfg    EmailConfig
	logger *logrus.Logger
	send   func(e *email.Email, addr string, a smtp.Auth) error
}

// NewEmailNotifier creates a new email notifier.
func NewEmailNotifier(cfg EmailConfig, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
		send:   (*email.Email).Send,
	}
}

func (n *EmailNotifier) Name() string { return "email" }

var htmlTag = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

func (n *EmailNotifier) build(msg Message) *email.Email {
	e := email.NewEmail()
	e.From = n.cfg.From
	e.To = n.cfg.To
	e.Subject = msg.Subject
	e.Text = []byte(html.UnescapeString(htmlTag.ReplaceAllString(msg.Body, "")))
	e.HTML = []byte("<html><body>" + strings.ReplaceAll(msg.Body, "\n", "<br>\n") + "</body></html>")
	return e
}

// Notify sends the message to every configured recipient. SMTP has no context support;
// a cancelled context only prevents the attempt from starting.
func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := n.build(msg)
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	if err := n.send(e, addr, auth); err != nil {
		n.logger.WithError(err).WithField("to", n.cfg.To).Error("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.logger.WithFields(logrus.Fields{"to": n.cfg.To, "subject": e.Subject}).Info("email sent")
	return nil
}
