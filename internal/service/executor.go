package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
	"github.com/okothkongo/campaign-dispatch-backend/internal/sender"
	"github.com/okothkongo/campaign-dispatch-backend/internal/template"
)

// Message used for calls when the request carries no callMessage.
const defaultCallMessage = "Hello, this is an automated message."

// Executor drives delivery of one campaign request end-to-end: sequential
// per-contact dispatch across the requested channels, with inter-contact
// pacing and per-channel failure isolation.
type Executor interface {
	// Execute runs the campaign. A non-nil error means the request failed
	// validation and no channel I/O was attempted. Fatal mid-run failures are
	// reported in the response (Success=false) with partial results preserved.
	Execute(ctx context.Context, req *models.ExecuteRequest) (*models.ExecuteResponse, error)
}

type executor struct {
	callSender  sender.CallSender
	smsSender   sender.SmsSender
	emailSender sender.EmailSender
	logger      *slog.Logger

	// pause suspends between contacts; injectable for tests.
	pause func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates a new campaign executor
func NewExecutor(
	callSender sender.CallSender,
	smsSender sender.SmsSender,
	emailSender sender.EmailSender,
	logger *slog.Logger,
) Executor {
	return &executor{
		callSender:  callSender,
		smsSender:   smsSender,
		emailSender: emailSender,
		logger:      logger,
		pause:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Execute processes contacts strictly in order. Contacts are never handled
// concurrently: the pacing delay exists to respect downstream provider rate
// limits, and parallelism would defeat it.
func (e *executor) Execute(ctx context.Context, req *models.ExecuteRequest) (*models.ExecuteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var delay time.Duration
	if req.DelayBetweenContacts != nil {
		delay = time.Duration(*req.DelayBetweenContacts) * time.Millisecond
	}

	e.logger.Info("campaign execution started",
		slog.Int("contacts", len(req.Contacts)),
		slog.Any("channels", req.Channels),
		slog.Duration("pacing", delay),
	)

	results := make([]models.ContactResult, 0, len(req.Contacts))

	for i := range req.Contacts {
		contactResult, err := e.dispatchContact(ctx, req, req.Contacts[i])
		if err != nil {
			e.logger.Error("campaign aborted",
				slog.Int("contact_index", i),
				slog.Int("completed", len(results)),
				slog.String("error", err.Error()),
			)
			return &models.ExecuteResponse{
				Success:        false,
				Error:          err.Error(),
				PartialResults: results,
			}, nil
		}

		results = append(results, contactResult)

		// Pace between contacts, never after the last one.
		if i < len(req.Contacts)-1 {
			if err := e.pause(ctx, delay); err != nil {
				e.logger.Error("campaign aborted during pacing",
					slog.Int("completed", len(results)),
					slog.String("error", err.Error()),
				)
				return &models.ExecuteResponse{
					Success:        false,
					Error:          err.Error(),
					PartialResults: results,
				}, nil
			}
		}
	}

	e.logger.Info("campaign execution completed",
		slog.Int("contacts", len(results)),
	)

	return &models.ExecuteResponse{
		Success: true,
		Message: fmt.Sprintf("Campaign executed for %d contact(s) across %d channel(s)",
			len(results), req.ChannelCount()),
		Results: results,
	}, nil
}

// dispatchContact runs every requested channel for one contact. Channel
// failures are converted to outcomes and never escape; anything else that
// does escape (including a panic) is fatal to the campaign.
func (e *executor) dispatchContact(ctx context.Context, req *models.ExecuteRequest, contact models.Contact) (result models.ContactResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error dispatching contact: %v", r)
		}
	}()

	result = models.NewContactResult(contact)

	if req.HasChannel(models.ChannelEmail) {
		result.Results[models.ChannelEmail] = e.sendEmail(ctx, req, contact)
	}
	if req.HasChannel(models.ChannelCall) {
		result.Results[models.ChannelCall] = e.sendCall(ctx, req, contact)
	}
	if req.HasChannel(models.ChannelSMS) {
		result.Results[models.ChannelSMS] = e.sendSMS(ctx, req, contact)
	}

	return result, nil
}

// sendEmail renders and sends the email channel for one contact. Campaign-wide
// emailSubstitutionData merges with the contact's own data, contact wins.
func (e *executor) sendEmail(ctx context.Context, req *models.ExecuteRequest, contact models.Contact) models.ChannelOutcome {
	if contact.Email == "" {
		return models.FailureOutcome("No email provided for contact")
	}

	data := template.Merge(req.EmailSubstitutionData, contact.SubstitutionData)

	email := &sender.Email{
		To: []sender.Recipient{{
			Email:            contact.Email,
			Name:             contact.Name,
			SubstitutionData: contact.SubstitutionData,
		}},
		From:             sender.Identity{Email: req.FromEmail, Name: req.FromName},
		Subject:          template.Render(req.EmailSubject, data),
		HTML:             template.Render(req.EmailHTML, data),
		Text:             template.Render(req.EmailText, data),
		SubstitutionData: req.EmailSubstitutionData,
	}

	result, err := e.emailSender.Send(ctx, email)
	if err != nil {
		e.logger.Warn("email send failed",
			slog.String("to", contact.Email),
			slog.String("error", err.Error()),
		)
		return models.FailureOutcome(err.Error())
	}

	return models.SuccessOutcome(result)
}

// sendCall renders and places the voice call for one contact. Call text uses
// only the contact's own substitution data; there is no campaign-wide call
// substitution field.
func (e *executor) sendCall(ctx context.Context, req *models.ExecuteRequest, contact models.Contact) models.ChannelOutcome {
	if contact.Phone == "" {
		return models.FailureOutcome("No phone provided for contact")
	}

	message := req.CallMessage
	if message == "" {
		message = defaultCallMessage
	}

	result, err := e.callSender.Send(ctx, sender.Message{
		To:   contact.Phone,
		From: req.FromPhone,
		Text: template.Render(message, contact.SubstitutionData),
	})
	if err != nil {
		e.logger.Warn("call send failed",
			slog.String("to", contact.Phone),
			slog.String("error", err.Error()),
		)
		return models.FailureOutcome(err.Error())
	}

	return models.SuccessOutcome(result)
}

// sendSMS renders and sends the SMS channel for one contact.
func (e *executor) sendSMS(ctx context.Context, req *models.ExecuteRequest, contact models.Contact) models.ChannelOutcome {
	if contact.Phone == "" {
		return models.FailureOutcome("No phone provided for contact")
	}

	result, err := e.smsSender.Send(ctx, sender.Message{
		To:   contact.Phone,
		From: req.FromPhone,
		Text: template.Render(req.SmsMessage, contact.SubstitutionData),
	})
	if err != nil {
		e.logger.Warn("sms send failed",
			slog.String("to", contact.Phone),
			slog.String("error", err.Error()),
		)
		return models.FailureOutcome(err.Error())
	}

	return models.SuccessOutcome(result)
}
