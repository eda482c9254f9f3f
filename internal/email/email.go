package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/wneessen/go-mail"
)

var ErrNoRecipients = errors.New("message has no recipients")

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	// One of "mandatory", "opportunistic", "none" or "ssl".
	TLS string `mapstructure:"tls"`
}

// Message represents an email message
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string // optional, will be auto-generated from HTML if empty
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Client sends messages over SMTP.
type Client struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewClient creates a new email client
func NewClient(cfg SMTPConfig) *Client {
	return &Client{
		cfg:    cfg,
		logger: slog.With("component", "email", "host", cfg.Host),
	}
}

func (c *Client) clientOptions() []mail.Option {
	opts := []mail.Option{mail.WithTimeout(30 * time.Second)}
	if c.cfg.Port > 0 {
		opts = append(opts, mail.WithPort(c.cfg.Port))
	}
	switch strings.ToLower(c.cfg.TLS) {
	case "mandatory":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	case "ssl":
		opts = append(opts, mail.WithSSL())
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if c.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.cfg.Username),
			mail.WithPassword(c.cfg.Password),
		)
	}
	return opts
}

// Build assembles a multipart/alternative message with a text and an HTML part.
func (c *Client) Build(msg *Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipients
	}
	if msg.Text == "" {
		text, err := htmlToText(msg.HTML)
		if err != nil {
			return nil, fmt.Errorf("failed to convert HTML to text: %w", err)
		}
		msg.Text = text
	}

	m := mail.NewMsg()
	if err := m.From(c.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

// Send sends an email message
func (c *Client) Send(ctx context.Context, msg *Message) error {
	m, err := c.Build(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(c.cfg.Host, c.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to deliver mail: %w", err)
	}
	c.logger.Debug("Mail delivered", "to", msg.To, "subject", msg.Subject)
	return nil
}

// htmlToText converts HTML to plain text
func htmlToText(htmlContent string) (string, error) {
	text, err := html2text.FromString(htmlContent, html2text.Options{
		PrettyTables: true,
		OmitLinks:    false,
	})
	if err != nil {
		slog.Error("failed to convert HTML to text", "error", err)
		return "", err
	}
	return text, nil
}
