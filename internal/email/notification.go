package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"equipment-logbook/internal/lending"
)

// Notifier is told about every successfully stored request batch.
type Notifier interface {
	NotifyRequest(ctx context.Context, entries []lending.LogEntry) error
}

// RequestParams are the values rendered into a request notification.
type RequestParams struct {
	RequestorName string
	Purpose       string
	ItemsList     string
	BorrowDate    string
	ReturnDate    string
}

// ParamsFor summarizes a batch. Entries of one batch share requestor, purpose
// and dates, so the first entry provides them.
func ParamsFor(entries []lending.LogEntry) RequestParams {
	if len(entries) == 0 {
		return RequestParams{}
	}
	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = e.Item
	}
	first := entries[0]
	return RequestParams{
		RequestorName: first.Requestor,
		Purpose:       first.Purpose,
		ItemsList:     strings.Join(items, "\n - "),
		BorrowDate:    lending.FormatDate(first.BorrowDate),
		ReturnDate:    lending.FormatDate(first.ReturnDate),
	}
}

var requestTemplate = template.Must(template.New("request").Parse(`<html><body>
<p>A new equipment request was submitted.</p>
<table>
<tr><th>Requestor</th><td>{{.RequestorName}}</td></tr>
<tr><th>Purpose</th><td>{{.Purpose}}</td></tr>
<tr><th>Borrow date</th><td>{{.BorrowDate}}</td></tr>
<tr><th>Return date</th><td>{{.ReturnDate}}</td></tr>
</table>
<p>Items:</p>
<pre> - {{.ItemsList}}</pre>
</body></html>`))

// RenderRequest builds the message for one request batch.
func RenderRequest(recipients []string, entries []lending.LogEntry) (*Message, error) {
	p := ParamsFor(entries)
	var buf bytes.Buffer
	if err := requestTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("failed to render request notification: %w", err)
	}
	return &Message{
		To:      recipients,
		Subject: fmt.Sprintf("Equipment request from %s", p.RequestorName),
		HTML:    buf.String(),
	}, nil
}

// MailNotifier sends request notifications to a fixed recipient list.
type MailNotifier struct {
	sender     Sender
	recipients []string
}

func NewMailNotifier(sender Sender, recipients []string) *MailNotifier {
	return &MailNotifier{sender: sender, recipients: recipients}
}

func (n *MailNotifier) NotifyRequest(ctx context.Context, entries []lending.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	msg, err := RenderRequest(n.recipients, entries)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, msg)
}

// NopNotifier drops notifications. Used when no recipients are configured.
type NopNotifier struct{}

func (NopNotifier) NotifyRequest(context.Context, []lending.LogEntry) error { return nil }

// NewNotifier returns a MailNotifier, or a NopNotifier when no valid
// recipient is configured. Invalid addresses are dropped with a warning.
func NewNotifier(cfg SMTPConfig, recipients []string) Notifier {
	valid := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if err := ValidAddress(r); err != nil {
			slog.Warn("Ignoring notification recipient", "recipient", r, "error", err)
			continue
		}
		valid = append(valid, strings.TrimSpace(r))
	}
	if len(valid) == 0 {
		return NopNotifier{}
	}
	return NewMailNotifier(NewClient(cfg), valid)
}
