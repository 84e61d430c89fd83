package sender

import (
	"context"
	"log/slog"
)

// EmailClient submits transmissions to the transactional email provider.
type EmailClient struct {
	gatewayClient
	logger *slog.Logger
}

// NewEmailClient creates a new email provider client
func NewEmailClient(cfg ProviderConfig, logger *slog.Logger) *EmailClient {
	return &EmailClient{
		gatewayClient: newGatewayClient(cfg),
		logger:        logger,
	}
}

// transmission is the wire envelope the provider expects.
type transmission struct {
	Recipients       []transmissionRecipient `json:"recipients"`
	Content          transmissionContent     `json:"content"`
	SubstitutionData map[string]any          `json:"substitution_data,omitempty"`
}

type transmissionRecipient struct {
	Address          Identity       `json:"address"`
	SubstitutionData map[string]any `json:"substitution_data,omitempty"`
}

type transmissionContent struct {
	From    Identity `json:"from"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Send submits one email envelope, possibly to many recipients
func (c *EmailClient) Send(ctx context.Context, email *Email) (*EmailResult, error) {
	payload := transmission{
		Recipients: make([]transmissionRecipient, 0, len(email.To)),
		Content: transmissionContent{
			From:    email.From,
			Subject: email.Subject,
			HTML:    email.HTML,
			Text:    email.Text,
		},
		SubstitutionData: email.SubstitutionData,
	}
	for _, to := range email.To {
		payload.Recipients = append(payload.Recipients, transmissionRecipient{
			Address:          Identity{Email: to.Email, Name: to.Name},
			SubstitutionData: to.SubstitutionData,
		})
	}

	var result EmailResult
	if err := c.postJSON(ctx, "/transmissions", payload, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("email submitted",
		slog.Int("recipients", len(email.To)),
		slog.Int("accepted", result.TotalAccepted),
		slog.Int("rejected", result.TotalRejected),
	)

	return &result, nil
}

// WithCredentials returns a derived client using a different API key, sharing
// the underlying HTTP client and rate limiter. Used to resolve a per-caller
// sending identity once, before a campaign loop begins.
func (c *EmailClient) WithCredentials(apiKey string) *EmailClient {
	derived := *c
	derived.apiKey = apiKey
	return &derived
}
