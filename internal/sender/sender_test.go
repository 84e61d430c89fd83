package sender

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSmsClient_Send(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(ProviderResult{MessageID: "sms-1", Status: "queued"})
	}))
	defer srv.Close()

	client := NewSmsClient(ProviderConfig{
		BaseURL:       srv.URL,
		APIKey:        "test-key",
		RatePerSecond: 100,
	}, testLogger())

	result, err := client.Send(context.Background(), Message{To: "+254712", From: "+1000", Text: "hello"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotPath != "/messages" {
		t.Errorf("path = %q, want /messages", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q, want bearer token", gotAuth)
	}
	if gotBody.To != "+254712" || gotBody.Text != "hello" {
		t.Errorf("unexpected body: %+v", gotBody)
	}
	if result.MessageID != "sms-1" || result.Status != "queued" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestVoiceClient_Send_ProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"invalid destination"}`))
	}))
	defer srv.Close()

	client := NewVoiceClient(ProviderConfig{BaseURL: srv.URL, RatePerSecond: 100}, testLogger())

	_, err := client.Send(context.Background(), Message{To: "bad", From: "+1000", Text: "hi"})
	if err == nil {
		t.Fatal("Send() error = nil, want provider error")
	}
	if !strings.Contains(err.Error(), "422") {
		t.Errorf("error %q should name the provider status", err.Error())
	}
}

func TestEmailClient_Send(t *testing.T) {
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transmissions" {
			t.Errorf("path = %q, want /transmissions", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(EmailResult{
			TotalAccepted: 1,
			Results: []RecipientResult{
				{Success: true, Recipient: "a@x.com", MessageID: "email-1"},
			},
		})
	}))
	defer srv.Close()

	client := NewEmailClient(ProviderConfig{BaseURL: srv.URL, RatePerSecond: 100}, testLogger())

	result, err := client.Send(context.Background(), &Email{
		To:      []Recipient{{Email: "a@x.com", Name: "A"}},
		From:    Identity{Email: "noreply@x.com"},
		Subject: "Hi A",
		HTML:    "<p>Hi</p>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if result.TotalAccepted != 1 || len(result.Results) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	recipients, ok := gotPayload["recipients"].([]any)
	if !ok || len(recipients) != 1 {
		t.Fatalf("payload recipients = %v, want one entry", gotPayload["recipients"])
	}
	content, ok := gotPayload["content"].(map[string]any)
	if !ok || content["subject"] != "Hi A" {
		t.Errorf("payload content = %v", gotPayload["content"])
	}
}

func TestEmailClient_WithCredentials(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(EmailResult{})
	}))
	defer srv.Close()

	base := NewEmailClient(ProviderConfig{BaseURL: srv.URL, APIKey: "shared-key", RatePerSecond: 100}, testLogger())
	derived := base.WithCredentials("caller-key")

	_, err := derived.Send(context.Background(), &Email{
		To:      []Recipient{{Email: "a@x.com"}},
		From:    Identity{Email: "me@x.com"},
		Subject: "hi",
		Text:    "hi",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotAuth != "Bearer caller-key" {
		t.Errorf("auth = %q, want derived credentials", gotAuth)
	}
	if base.apiKey != "shared-key" {
		t.Errorf("base client credentials changed: %q", base.apiKey)
	}
}

func TestMockSender_SuccessRate(t *testing.T) {
	always := NewMockSender(1.0)
	result, err := always.Send(context.Background(), Message{To: "1", Text: "hi"})
	if err != nil {
		t.Fatalf("Send() error = %v with success rate 1.0", err)
	}
	if result.MessageID == "" || result.Status != "queued" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestMockSender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMockSender(1.0)
	if _, err := s.Send(ctx, Message{To: "1", Text: "hi"}); err == nil {
		t.Error("Send() should fail on cancelled context")
	}
}

func TestMockEmailSender_PerRecipientResults(t *testing.T) {
	s := NewMockEmailSender(1.0)
	result, err := s.Send(context.Background(), &Email{
		To:      []Recipient{{Email: "a@x.com"}, {Email: "b@x.com"}},
		From:    Identity{Email: "me@x.com"},
		Subject: "hi",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if result.TotalAccepted != 2 || result.TotalRejected != 0 {
		t.Errorf("accepted/rejected = %d/%d, want 2/0", result.TotalAccepted, result.TotalRejected)
	}
	if len(result.Results) != 2 {
		t.Fatalf("got %d recipient results, want 2", len(result.Results))
	}
	for i, r := range result.Results {
		if !r.Success || r.MessageID == "" {
			t.Errorf("results[%d] = %+v, want success with message id", i, r)
		}
	}
}
