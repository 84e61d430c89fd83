package service

import (
	"fmt"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
	"github.com/okothkongo/campaign-dispatch-backend/internal/template"
)

// validateTemplates rejects templates whose placeholders the request data
// cannot resolve. Ad-hoc sends render before dispatch, so an uncovered key
// would reach the recipient as literal {{key}} text.
func validateTemplates(data map[string]any, templates ...string) error {
	for _, tmpl := range templates {
		for _, key := range template.Placeholders(tmpl) {
			if _, ok := data[key]; !ok {
				return models.ErrInvalidRequest(fmt.Sprintf("unresolved placeholder: {{%s}}", key))
			}
		}
	}
	return nil
}

// SendSMSRequest represents a single ad-hoc SMS send
type SendSMSRequest struct {
	To               string         `json:"to"`
	From             string         `json:"from,omitempty"`
	Text             string         `json:"text"`
	SubstitutionData map[string]any `json:"substitutionData,omitempty"`
}

// Validate performs validation on the SMS request
func (r *SendSMSRequest) Validate() error {
	if r.To == "" {
		return models.ErrInvalidRequest("to is required")
	}
	if r.Text == "" {
		return models.ErrInvalidRequest("text is required")
	}
	return validateTemplates(r.SubstitutionData, r.Text)
}

// SendCallRequest represents a single ad-hoc voice call
type SendCallRequest struct {
	To               string         `json:"to"`
	From             string         `json:"from,omitempty"`
	Message          string         `json:"message"`
	SubstitutionData map[string]any `json:"substitutionData,omitempty"`
}

// Validate performs validation on the call request
func (r *SendCallRequest) Validate() error {
	if r.To == "" {
		return models.ErrInvalidRequest("to is required")
	}
	if r.Message == "" {
		return models.ErrInvalidRequest("message is required")
	}
	return validateTemplates(r.SubstitutionData, r.Message)
}

// SendEmailRequest represents a single ad-hoc email send
type SendEmailRequest struct {
	To               string         `json:"to"`
	Name             string         `json:"name,omitempty"`
	Subject          string         `json:"subject"`
	HTML             string         `json:"html,omitempty"`
	Text             string         `json:"text,omitempty"`
	SubstitutionData map[string]any `json:"substitutionData,omitempty"`
}

// Validate performs validation on the email request
func (r *SendEmailRequest) Validate() error {
	if r.To == "" {
		return models.ErrInvalidRequest("to is required")
	}
	if r.Subject == "" {
		return models.ErrInvalidRequest("subject is required")
	}
	if r.HTML == "" && r.Text == "" {
		return models.ErrInvalidRequest("html or text body is required")
	}
	return validateTemplates(r.SubstitutionData, r.Subject, r.HTML, r.Text)
}

// BulkEmailRequest represents one email envelope sent to many recipients,
// with optional campaign-wide and per-recipient substitution data.
type BulkEmailRequest struct {
	Recipients       []models.Contact `json:"recipients"`
	Subject          string           `json:"subject"`
	HTML             string           `json:"html,omitempty"`
	Text             string           `json:"text,omitempty"`
	SubstitutionData map[string]any   `json:"substitutionData,omitempty"`
}

// Validate performs validation on the bulk email request
func (r *BulkEmailRequest) Validate() error {
	if len(r.Recipients) == 0 {
		return models.ErrInvalidRequest("recipients is required and cannot be empty")
	}
	for _, rec := range r.Recipients {
		if rec.Email == "" {
			return models.ErrInvalidRequest("recipient missing email address")
		}
	}
	if r.Subject == "" {
		return models.ErrInvalidRequest("subject is required")
	}
	if r.HTML == "" && r.Text == "" {
		return models.ErrInvalidRequest("html or text body is required")
	}
	// Substitution happens provider-side per recipient, so placeholder
	// coverage cannot be checked against the envelope data alone.
	return nil
}

// QueueRunResult is returned when a campaign run is accepted for async execution
type QueueRunResult struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}
