package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/brbanco/go-account-opening/internal/classify"
	"github.com/brbanco/go-account-opening/internal/correlation"
	"github.com/brbanco/go-account-opening/internal/events"
	"github.com/brbanco/go-account-opening/internal/requests"
)

// Dispatcher resolves a brand strategy and fans a terminal event out to
// email, SMS and push. Channel failures are isolated: every channel is
// attempted, and the failures are joined into the returned error.
type Dispatcher struct {
	strategies map[requests.Brand]Strategy
	senders    Senders
}

// NewDispatcher builds a dispatcher over the given strategies.
func NewDispatcher(senders Senders, strategies ...Strategy) *Dispatcher {
	m := make(map[requests.Brand]Strategy, len(strategies))
	for _, s := range strategies {
		m[s.Brand()] = s
	}
	return &Dispatcher{strategies: m, senders: senders}
}

// strategyFor resolves a strategy by brand name, case-insensitively.
// An unknown brand is a configuration error, never a silent no-op.
func (d *Dispatcher) strategyFor(brand string) (Strategy, error) {
	s, ok := d.strategies[requests.Brand(strings.ToUpper(strings.TrimSpace(brand)))]
	if !ok {
		return nil, fmt.Errorf("brand %q has no notification strategy configured", brand)
	}
	return s, nil
}

// DispatchOpened sends the account-opened notifications for the event's
// brand across all three channels.
func (d *Dispatcher) DispatchOpened(ctx context.Context, ev events.AccountOpened) error {
	corrID := correlation.FromContext(ctx)
	strategy, err := d.strategyFor(ev.Brand)
	if err != nil {
		return err
	}
	log.Printf("[notify] account opened: request=%d brand=%s corr=%s", ev.RequestID, ev.Brand, corrID)

	var errs []error

	subject, body := strategy.OpenedEmail(ev)
	if err := d.senders.Email.SendEmail(ctx, ev.Email, subject, body); err != nil {
		errs = append(errs, fmt.Errorf("email: %w", err))
	}
	if err := d.senders.SMS.SendSMS(ctx, ev.Phone, strategy.OpenedSMS(ev)); err != nil {
		errs = append(errs, fmt.Errorf("sms: %w", err))
	}
	title, pushBody := strategy.OpenedPush(ev)
	// Push is addressed by the customer identifier; the push gateway
	// resolves it to the registered devices.
	if err := d.senders.Push.SendPush(ctx, ev.CPF, title, pushBody); err != nil {
		errs = append(errs, fmt.Errorf("push: %w", err))
	}

	return errors.Join(errs...)
}

// DispatchRejected sends the rejection notifications. The rejection
// category is re-derived here: the explicit event field wins when it
// parses, otherwise the free-text reason is classified, so both sides
// of the bus agree even when the field is dropped in transit.
func (d *Dispatcher) DispatchRejected(ctx context.Context, ev events.Rejected) error {
	corrID := correlation.FromContext(ctx)
	strategy, err := d.strategyFor(ev.Brand)
	if err != nil {
		return err
	}

	category := classify.ResolveEvent(ev.RejectionCategory, ev.RejectionReason)
	log.Printf("[notify] request rejected: request=%d brand=%s category=%s corr=%s", ev.RequestID, ev.Brand, category, corrID)

	var errs []error

	subject, body := strategy.RejectedEmail(ev, category)
	if err := d.senders.Email.SendEmail(ctx, ev.Email, subject, body); err != nil {
		errs = append(errs, fmt.Errorf("email: %w", err))
	}
	if err := d.senders.SMS.SendSMS(ctx, ev.Phone, strategy.RejectedSMS(ev, category)); err != nil {
		errs = append(errs, fmt.Errorf("sms: %w", err))
	}
	title, pushBody := strategy.RejectedPush(ev, category)
	if err := d.senders.Push.SendPush(ctx, ev.CPF, title, pushBody); err != nil {
		errs = append(errs, fmt.Errorf("push: %w", err))
	}

	return errors.Join(errs...)
}
