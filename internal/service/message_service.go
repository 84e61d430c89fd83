package service

import (
	"context"
	"log/slog"

	"github.com/okothkongo/campaign-dispatch-backend/internal/sender"
	"github.com/okothkongo/campaign-dispatch-backend/internal/template"
)

// SenderDefaults are the environment-derived from-identities injected into
// outbound messages when the request leaves them out.
type SenderDefaults struct {
	FromPhone string
	FromEmail string
	FromName  string
}

// MessageService handles single-channel ad-hoc sends outside of a campaign
type MessageService interface {
	SendSMS(ctx context.Context, req *SendSMSRequest) (*sender.ProviderResult, error)
	SendCall(ctx context.Context, req *SendCallRequest) (*sender.ProviderResult, error)
	SendEmail(ctx context.Context, req *SendEmailRequest) (*sender.EmailResult, error)
	SendBulkEmail(ctx context.Context, req *BulkEmailRequest) (*sender.EmailResult, error)
}

type messageService struct {
	callSender  sender.CallSender
	smsSender   sender.SmsSender
	emailSender sender.EmailSender
	defaults    SenderDefaults
	logger      *slog.Logger
}

// NewMessageService creates a new message service
func NewMessageService(
	callSender sender.CallSender,
	smsSender sender.SmsSender,
	emailSender sender.EmailSender,
	defaults SenderDefaults,
	logger *slog.Logger,
) MessageService {
	return &messageService{
		callSender:  callSender,
		smsSender:   smsSender,
		emailSender: emailSender,
		defaults:    defaults,
		logger:      logger,
	}
}

// SendSMS renders and sends one SMS
func (s *messageService) SendSMS(ctx context.Context, req *SendSMSRequest) (*sender.ProviderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from := req.From
	if from == "" {
		from = s.defaults.FromPhone
	}

	result, err := s.smsSender.Send(ctx, sender.Message{
		To:   req.To,
		From: from,
		Text: template.Render(req.Text, req.SubstitutionData),
	})
	if err != nil {
		s.logger.Warn("sms send failed",
			slog.String("to", req.To),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("sms sent",
		slog.String("to", req.To),
		slog.String("message_id", result.MessageID),
	)

	return result, nil
}

// SendCall renders and places one voice call
func (s *messageService) SendCall(ctx context.Context, req *SendCallRequest) (*sender.ProviderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from := req.From
	if from == "" {
		from = s.defaults.FromPhone
	}

	result, err := s.callSender.Send(ctx, sender.Message{
		To:   req.To,
		From: from,
		Text: template.Render(req.Message, req.SubstitutionData),
	})
	if err != nil {
		s.logger.Warn("call failed",
			slog.String("to", req.To),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("call placed",
		slog.String("to", req.To),
		slog.String("message_id", result.MessageID),
	)

	return result, nil
}

// SendEmail renders and sends one email
func (s *messageService) SendEmail(ctx context.Context, req *SendEmailRequest) (*sender.EmailResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := s.emailSender.Send(ctx, &sender.Email{
		To: []sender.Recipient{{
			Email:            req.To,
			Name:             req.Name,
			SubstitutionData: req.SubstitutionData,
		}},
		From:    sender.Identity{Email: s.defaults.FromEmail, Name: s.defaults.FromName},
		Subject: template.Render(req.Subject, req.SubstitutionData),
		HTML:    template.Render(req.HTML, req.SubstitutionData),
		Text:    template.Render(req.Text, req.SubstitutionData),
	})
	if err != nil {
		s.logger.Warn("email send failed",
			slog.String("to", req.To),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("email sent",
		slog.String("to", req.To),
		slog.Int("accepted", result.TotalAccepted),
	)

	return result, nil
}

// SendBulkEmail sends one envelope to many recipients. The campaign-wide
// substitution data travels with the envelope; per-recipient data rides on
// each recipient and wins on collision at the provider.
func (s *messageService) SendBulkEmail(ctx context.Context, req *BulkEmailRequest) (*sender.EmailResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipients := make([]sender.Recipient, 0, len(req.Recipients))
	for _, rec := range req.Recipients {
		recipients = append(recipients, sender.Recipient{
			Email:            rec.Email,
			Name:             rec.Name,
			SubstitutionData: rec.SubstitutionData,
		})
	}

	result, err := s.emailSender.Send(ctx, &sender.Email{
		To:               recipients,
		From:             sender.Identity{Email: s.defaults.FromEmail, Name: s.defaults.FromName},
		Subject:          req.Subject,
		HTML:             req.HTML,
		Text:             req.Text,
		SubstitutionData: req.SubstitutionData,
	})
	if err != nil {
		s.logger.Warn("bulk email send failed",
			slog.Int("recipients", len(recipients)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("bulk email sent",
		slog.Int("recipients", len(recipients)),
		slog.Int("accepted", result.TotalAccepted),
		slog.Int("rejected", result.TotalRejected),
	)

	return result, nil
}
