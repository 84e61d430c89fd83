package models

import (
	"fmt"
	"time"
)

// Delivery channel constants
const (
	ChannelCall  = "call"
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Contact represents one recipient of a campaign. At least one of Phone/Email
// is expected depending on the requested channels; a missing field is recorded
// as a per-channel failure, never a fatal one.
type Contact struct {
	Phone            string         `json:"phone,omitempty"`
	Email            string         `json:"email,omitempty"`
	Name             string         `json:"name,omitempty"`
	SubstitutionData map[string]any `json:"substitutionData,omitempty"`
}

// ExecuteRequest represents one campaign: a batch of contacts to message
// across one or more channels.
type ExecuteRequest struct {
	Contacts              []Contact      `json:"contacts"`
	Channels              []string       `json:"channels"`
	CallMessage           string         `json:"callMessage,omitempty"`
	SmsMessage            string         `json:"smsMessage,omitempty"`
	EmailSubject          string         `json:"emailSubject,omitempty"`
	EmailHTML             string         `json:"emailHtml,omitempty"`
	EmailText             string         `json:"emailText,omitempty"`
	EmailSubstitutionData map[string]any `json:"emailSubstitutionData,omitempty"`

	// DelayBetweenContacts is the pacing interval in milliseconds. Nil means
	// "use the environment default"; the handler/worker injects it before the
	// executor runs.
	DelayBetweenContacts *int `json:"delayBetweenContacts,omitempty"`

	// Sender identities, injected from config when absent.
	FromPhone string `json:"fromPhone,omitempty"`
	FromEmail string `json:"fromEmail,omitempty"`
	FromName  string `json:"fromName,omitempty"`
}

// Validate performs shape validation on the request. It runs once at entry,
// before any channel I/O.
func (r *ExecuteRequest) Validate() error {
	if len(r.Contacts) == 0 {
		return ErrInvalidRequest("missing or empty contacts")
	}
	if len(r.Channels) == 0 {
		return ErrInvalidRequest("missing or empty channels")
	}
	for _, ch := range r.Channels {
		if !IsValidChannel(ch) {
			return ErrInvalidRequest(fmt.Sprintf("invalid channel: %s", ch))
		}
	}
	return nil
}

// HasChannel reports whether the request asks for the given channel.
func (r *ExecuteRequest) HasChannel(channel string) bool {
	for _, ch := range r.Channels {
		if ch == channel {
			return true
		}
	}
	return false
}

// ChannelCount returns the number of distinct valid channels requested.
func (r *ExecuteRequest) ChannelCount() int {
	seen := make(map[string]bool, len(r.Channels))
	for _, ch := range r.Channels {
		seen[ch] = true
	}
	return len(seen)
}

// ApplyDefaults fills in environment-derived values the caller left out.
// Defaults live in config, never inside the executor.
func (r *ExecuteRequest) ApplyDefaults(fromPhone, fromEmail, fromName string, delayMs int) {
	if r.FromPhone == "" {
		r.FromPhone = fromPhone
	}
	if r.FromEmail == "" {
		r.FromEmail = fromEmail
	}
	if r.FromName == "" {
		r.FromName = fromName
	}
	if r.DelayBetweenContacts == nil {
		d := delayMs
		r.DelayBetweenContacts = &d
	}
}

// IsValidChannel checks if the channel is valid
func IsValidChannel(channel string) bool {
	switch channel {
	case ChannelCall, ChannelSMS, ChannelEmail:
		return true
	default:
		return false
	}
}

// ChannelOutcome is the success/failure record for one channel attempt on one
// contact. Exactly one of Result/Error is populated.
type ChannelOutcome struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessOutcome builds a successful outcome carrying the provider payload.
func SuccessOutcome(result any) ChannelOutcome {
	return ChannelOutcome{Success: true, Result: result}
}

// FailureOutcome builds a failed outcome carrying the error message.
func FailureOutcome(message string) ChannelOutcome {
	return ChannelOutcome{Success: false, Error: message}
}

// ContactResult holds the per-channel outcomes for a single contact. Results
// contains only the keys for channels that were requested.
type ContactResult struct {
	Contact   Contact                   `json:"contact"`
	Timestamp string                    `json:"timestamp"`
	Results   map[string]ChannelOutcome `json:"results"`
}

// NewContactResult initializes an empty result for a contact, stamped now.
func NewContactResult(contact Contact) ContactResult {
	return ContactResult{
		Contact:   contact,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   make(map[string]ChannelOutcome),
	}
}

// ExecuteResponse is the aggregate result of a campaign execution. On a fatal
// (non-per-contact) failure Success is false and PartialResults preserves the
// progress made before the abort.
type ExecuteResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message,omitempty"`
	Error          string          `json:"error,omitempty"`
	Results        []ContactResult `json:"results,omitempty"`
	PartialResults []ContactResult `json:"partialResults,omitempty"`
}
