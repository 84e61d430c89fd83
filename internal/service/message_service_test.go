package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
)

func newTestMessageService(call *fakeGatewaySender, sms *fakeGatewaySender, email *fakeEmailSender) MessageService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMessageService(call, sms, email, SenderDefaults{
		FromPhone: "+1000",
		FromEmail: "noreply@x.com",
		FromName:  "Dispatch",
	}, logger)
}

func TestMessageService_SendSMS(t *testing.T) {
	sms := &fakeGatewaySender{}
	svc := newTestMessageService(&fakeGatewaySender{}, sms, &fakeEmailSender{})

	result, err := svc.SendSMS(context.Background(), &SendSMSRequest{
		To:               "+254712",
		Text:             "Hi {{first_name}}",
		SubstitutionData: map[string]any{"first_name": "Alice"},
	})
	if err != nil {
		t.Fatalf("SendSMS() error = %v", err)
	}
	if result.MessageID == "" {
		t.Errorf("missing message id")
	}

	if sms.sent[0].Text != "Hi Alice" {
		t.Errorf("rendered text = %q, want %q", sms.sent[0].Text, "Hi Alice")
	}
	// Default from-number injected when the request leaves it out.
	if sms.sent[0].From != "+1000" {
		t.Errorf("from = %q, want default", sms.sent[0].From)
	}
}

func TestMessageService_SendSMS_Validation(t *testing.T) {
	svc := newTestMessageService(&fakeGatewaySender{}, &fakeGatewaySender{}, &fakeEmailSender{})

	_, err := svc.SendSMS(context.Background(), &SendSMSRequest{Text: "hi"})
	if err == nil {
		t.Fatal("SendSMS() should reject a request without destination")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "INVALID_REQUEST" {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestMessageService_UnresolvedPlaceholderRejected(t *testing.T) {
	sms := &fakeGatewaySender{}
	email := &fakeEmailSender{}
	svc := newTestMessageService(&fakeGatewaySender{}, sms, email)

	_, err := svc.SendSMS(context.Background(), &SendSMSRequest{
		To:   "+254712",
		Text: "Hi {{first_name}}",
	})
	if err == nil {
		t.Fatal("SendSMS() should reject a placeholder with no substitution data")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "INVALID_REQUEST" {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
	if len(sms.sent) != 0 {
		t.Errorf("rejected request still reached the gateway")
	}

	_, err = svc.SendEmail(context.Background(), &SendEmailRequest{
		To:               "a@x.com",
		Subject:          "Hi {{first_name}}",
		Text:             "Your code is {{code}}",
		SubstitutionData: map[string]any{"first_name": "A"},
	})
	if err == nil {
		t.Fatal("SendEmail() should reject an uncovered body placeholder")
	}
	if len(email.sent) != 0 {
		t.Errorf("rejected request still reached the gateway")
	}
}

func TestMessageService_SendCall_ExplicitFromWins(t *testing.T) {
	call := &fakeGatewaySender{}
	svc := newTestMessageService(call, &fakeGatewaySender{}, &fakeEmailSender{})

	_, err := svc.SendCall(context.Background(), &SendCallRequest{
		To:      "+254712",
		From:    "+2000",
		Message: "hello",
	})
	if err != nil {
		t.Fatalf("SendCall() error = %v", err)
	}
	if call.sent[0].From != "+2000" {
		t.Errorf("from = %q, explicit from should win over default", call.sent[0].From)
	}
}

func TestMessageService_SendEmail(t *testing.T) {
	email := &fakeEmailSender{}
	svc := newTestMessageService(&fakeGatewaySender{}, &fakeGatewaySender{}, email)

	result, err := svc.SendEmail(context.Background(), &SendEmailRequest{
		To:               "a@x.com",
		Subject:          "Hi {{first_name}}",
		Text:             "Hello",
		SubstitutionData: map[string]any{"first_name": "A"},
	})
	if err != nil {
		t.Fatalf("SendEmail() error = %v", err)
	}
	if result.TotalAccepted != 1 {
		t.Errorf("accepted = %d, want 1", result.TotalAccepted)
	}

	sent := email.sent[0]
	if sent.Subject != "Hi A" {
		t.Errorf("subject = %q, want %q", sent.Subject, "Hi A")
	}
	if sent.From.Email != "noreply@x.com" || sent.From.Name != "Dispatch" {
		t.Errorf("from = %+v, want default identity", sent.From)
	}
}

func TestMessageService_SendBulkEmail(t *testing.T) {
	email := &fakeEmailSender{}
	svc := newTestMessageService(&fakeGatewaySender{}, &fakeGatewaySender{}, email)

	_, err := svc.SendBulkEmail(context.Background(), &BulkEmailRequest{
		Recipients: []models.Contact{
			{Email: "a@x.com", SubstitutionData: map[string]any{"first_name": "A"}},
			{Email: "b@x.com"},
		},
		Subject:          "Hi {{first_name}}",
		Text:             "Hello {{first_name}}",
		SubstitutionData: map[string]any{"first_name": "Customer"},
	})
	if err != nil {
		t.Fatalf("SendBulkEmail() error = %v", err)
	}

	sent := email.sent[0]
	if len(sent.To) != 2 {
		t.Fatalf("got %d recipients, want 2", len(sent.To))
	}
	// Bulk sends delegate substitution to the provider: templates and both
	// substitution levels travel in the envelope un-rendered.
	if sent.Subject != "Hi {{first_name}}" {
		t.Errorf("subject = %q, should not be pre-rendered", sent.Subject)
	}
	if sent.SubstitutionData["first_name"] != "Customer" {
		t.Errorf("envelope substitution data missing")
	}
	if sent.To[0].SubstitutionData["first_name"] != "A" {
		t.Errorf("per-recipient substitution data missing")
	}

	_, err = svc.SendBulkEmail(context.Background(), &BulkEmailRequest{
		Recipients: []models.Contact{{Name: "no address"}},
		Subject:    "hi",
		Text:       "hi",
	})
	if err == nil {
		t.Error("SendBulkEmail() should reject a recipient without email")
	}
}
