package sender

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// MockSender simulates a call/SMS gateway with configurable success rate and
// network latency. It satisfies both CallSender and SmsSender.
type MockSender struct {
	successRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
}

// NewMockSender creates a new mock gateway sender
// successRate: probability of success (0.0 to 1.0), default 0.92 (92%)
func NewMockSender(successRate float64) *MockSender {
	if successRate <= 0 || successRate > 1.0 {
		successRate = 0.92
	}

	return &MockSender{
		successRate: successRate,
		minDelay:    50 * time.Millisecond, // Simulate network latency
		maxDelay:    200 * time.Millisecond,
	}
}

// Send simulates submitting a call or SMS
func (s *MockSender) Send(ctx context.Context, msg Message) (*ProviderResult, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	if rand.Float64() > s.successRate {
		return nil, fmt.Errorf("mock sender failed: simulated network error")
	}

	return &ProviderResult{
		MessageID: uuid.NewString(),
		Status:    "queued",
		Provider:  "mock",
	}, nil
}

func (s *MockSender) sleep(ctx context.Context) error {
	delay := s.minDelay + time.Duration(rand.Int63n(int64(s.maxDelay-s.minDelay)))

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MockEmailSender simulates the transactional email provider.
type MockEmailSender struct {
	inner *MockSender
}

// NewMockEmailSender creates a new mock email sender with the given success rate
func NewMockEmailSender(successRate float64) *MockEmailSender {
	return &MockEmailSender{inner: NewMockSender(successRate)}
}

// Send simulates submitting an email envelope, accepting or rejecting each
// recipient independently
func (s *MockEmailSender) Send(ctx context.Context, email *Email) (*EmailResult, error) {
	if err := s.inner.sleep(ctx); err != nil {
		return nil, err
	}

	result := &EmailResult{Results: make([]RecipientResult, 0, len(email.To))}
	for _, to := range email.To {
		if rand.Float64() > s.inner.successRate {
			result.TotalRejected++
			result.Results = append(result.Results, RecipientResult{
				Success:   false,
				Recipient: to.Email,
				Error:     "simulated rejection",
			})
			continue
		}

		result.TotalAccepted++
		result.Results = append(result.Results, RecipientResult{
			Success:   true,
			Recipient: to.Email,
			MessageID: uuid.NewString(),
		})
	}

	return result, nil
}
