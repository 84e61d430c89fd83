// Package sender defines the delivery channel capabilities the campaign
// executor is wired with, plus the HTTP gateway clients and mock
// implementations that satisfy them.
package sender

import "context"

// Message is the payload for a single voice call or SMS.
type Message struct {
	To   string `json:"to"`
	From string `json:"from"`
	Text string `json:"text"`
}

// ProviderResult is the provider's acknowledgement of a call/SMS submission.
type ProviderResult struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
	Provider  string `json:"provider,omitempty"`
}

// CallSender places outbound voice calls
type CallSender interface {
	Send(ctx context.Context, msg Message) (*ProviderResult, error)
}

// SmsSender sends SMS messages
type SmsSender interface {
	Send(ctx context.Context, msg Message) (*ProviderResult, error)
}

// Recipient is one addressee of an email, with optional per-recipient
// substitution data applied by the provider.
type Recipient struct {
	Email            string         `json:"email"`
	Name             string         `json:"name,omitempty"`
	SubstitutionData map[string]any `json:"substitution_data,omitempty"`
}

// Identity is the from-address of an email.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Email is a transactional email envelope, possibly multi-recipient.
type Email struct {
	To               []Recipient    `json:"to"`
	From             Identity       `json:"from"`
	Subject          string         `json:"subject"`
	HTML             string         `json:"html,omitempty"`
	Text             string         `json:"text,omitempty"`
	SubstitutionData map[string]any `json:"substitution_data,omitempty"`
}

// RecipientResult is the per-recipient outcome of an email submission.
type RecipientResult struct {
	Success   bool   `json:"success"`
	Recipient string `json:"recipient"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EmailResult is the provider's aggregate response to an email submission.
type EmailResult struct {
	TotalAccepted int               `json:"total_accepted_recipients"`
	TotalRejected int               `json:"total_rejected_recipients"`
	Results       []RecipientResult `json:"results"`
}

// EmailSender sends transactional email
type EmailSender interface {
	Send(ctx context.Context, email *Email) (*EmailResult, error)
}
