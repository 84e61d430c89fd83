package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
)

// ProviderConfig holds the connection settings for one gateway.
type ProviderConfig struct {
	BaseURL       string
	APIKey        string
	RatePerSecond float64
}

// gatewayClient is the shared HTTP plumbing behind the voice, SMS and email
// clients: JSON POST with bearer auth, gated by a per-provider rate limiter
// so bursts respect the gateway's limits independently of campaign pacing.
type gatewayClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

func newGatewayClient(cfg ProviderConfig) gatewayClient {
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 5
	}

	return gatewayClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// postJSON submits the payload and decodes the response into out. Non-2xx
// responses are returned as a PROVIDER_ERROR carrying the response body.
func (c *gatewayClient) postJSON(ctx context.Context, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.ErrProviderFailure("provider request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ErrProviderFailure("failed to read provider response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.ErrProviderFailure(
			fmt.Sprintf("provider returned %d: %s", resp.StatusCode, string(data)),
			nil,
		)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return models.ErrProviderFailure("failed to decode provider response", err)
		}
	}

	return nil
}
