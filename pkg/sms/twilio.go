package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/richxcame/restaurant-backoffice/pkg/config"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"github.com/richxcame/restaurant-backoffice/pkg/resilience"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Sender sends text messages
type Sender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// messageCreator is the slice of the Twilio API used here
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender sends SMS through Twilio behind a circuit breaker
type TwilioSender struct {
	api     messageCreator
	from    string
	breaker *resilience.CircuitBreaker
}

// NewTwilioSender creates a Twilio-backed sender
func NewTwilioSender(cfg config.SMSConfig) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil, errors.New("twilio account sid, auth token and from number are required")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return newTwilioSender(client.Api, cfg.FromNumber), nil
}

func newTwilioSender(api messageCreator, from string) *TwilioSender {
	return &TwilioSender{
		api:  api,
		from: from,
		breaker: resilience.NewCircuitBreaker(resilience.SMSSettings(), resilience.Degraded("twilio")),
	}
}

// SendSMS sends body to the given number and returns the message SID
func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) (string, error) {
	result, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(s.from)
		params.SetBody(body)

		resp, err := s.api.CreateMessage(params)
		if err != nil {
			return nil, fmt.Errorf("twilio create message: %w", err)
		}
		if resp.Sid == nil {
			return "", nil
		}
		return *resp.Sid, nil
	})
	if err != nil {
		logger.WithContext(ctx).Warn("failed to send SMS", zap.Error(err))
		return "", err
	}

	sid, _ := result.(string)
	logger.WithContext(ctx).Info("SMS sent", zap.String("sid", sid))
	return sid, nil
}
