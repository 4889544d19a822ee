// Package notify consumes terminal-outcome events and fans them out to
// the delivery channels using a per-brand message strategy.
package notify

import (
	"context"
	"log"
)

// EmailSender delivers an email notification.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers an SMS notification.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// PushSender delivers a push notification to the customer's device.
type PushSender interface {
	SendPush(ctx context.Context, target, title, body string) error
}

// Senders groups the three delivery channels.
type Senders struct {
	Email EmailSender
	SMS   SMSSender
	Push  PushSender
}

// LogSenders returns log-backed senders for all channels. These are the
// reference implementations; real gateways plug in behind the same
// interfaces.
func LogSenders() Senders {
	return Senders{
		Email: logEmailSender{},
		SMS:   logSMSSender{},
		Push:  logPushSender{},
	}
}

type logEmailSender struct{}

func (logEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	log.Printf("[email] to=%s subject=%q body=%q", to, subject, body)
	return nil
}

type logSMSSender struct{}

func (logSMSSender) SendSMS(ctx context.Context, to, message string) error {
	log.Printf("[sms] to=%s message=%q", to, message)
	return nil
}

type logPushSender struct{}

func (logPushSender) SendPush(ctx context.Context, target, title, body string) error {
	log.Printf("[push] target=%s title=%q body=%q", target, title, body)
	return nil
}
