package sender

import (
	"context"
	"log/slog"
)

// VoiceClient submits text-to-speech calls to the voice gateway.
type VoiceClient struct {
	gatewayClient
	logger *slog.Logger
}

// NewVoiceClient creates a new voice gateway client
func NewVoiceClient(cfg ProviderConfig, logger *slog.Logger) *VoiceClient {
	return &VoiceClient{
		gatewayClient: newGatewayClient(cfg),
		logger:        logger,
	}
}

// Send places one outbound call
func (c *VoiceClient) Send(ctx context.Context, msg Message) (*ProviderResult, error) {
	var result ProviderResult
	if err := c.postJSON(ctx, "/calls", msg, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("call submitted",
		slog.String("to", msg.To),
		slog.String("message_id", result.MessageID),
	)

	return &result, nil
}
