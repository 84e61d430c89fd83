package sender

import (
	"context"
	"log/slog"
)

// SmsClient submits SMS messages to the messaging gateway.
type SmsClient struct {
	gatewayClient
	logger *slog.Logger
}

// NewSmsClient creates a new SMS gateway client
func NewSmsClient(cfg ProviderConfig, logger *slog.Logger) *SmsClient {
	return &SmsClient{
		gatewayClient: newGatewayClient(cfg),
		logger:        logger,
	}
}

// Send submits one SMS
func (c *SmsClient) Send(ctx context.Context, msg Message) (*ProviderResult, error) {
	var result ProviderResult
	if err := c.postJSON(ctx, "/messages", msg, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("sms submitted",
		slog.String("to", msg.To),
		slog.String("message_id", result.MessageID),
	)

	return &result, nil
}
