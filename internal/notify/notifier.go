package notify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"lensfolio/internal/util"
	"lensfolio/pkg/domain"
)

// EmailSender is the email channel capability.
type EmailSender interface {
	SendContactEmail(ctx context.Context, msg domain.ContactMessage) error
}

// SMSSender is the SMS channel capability.
type SMSSender interface {
	SendSMS(ctx context.Context, body string) error
}

// Outcome reports what each channel did for one submission.
type Outcome struct {
	Email bool
	SMS   bool
}

// Notifier fans a contact submission out to the configured channels.
// Presence of each channel is decided once at construction; a nil
// channel stays nil for the life of the process.
type Notifier struct {
	email EmailSender
	sms   SMSSender
}

// NewNotifier wires the available channels. Either may be nil.
func NewNotifier(email EmailSender, sms SMSSender) *Notifier {
	return &Notifier{email: email, sms: sms}
}

// DispatchContact attempts both channels concurrently. A channel failure
// is logged and reported as a false outcome; it never becomes an error.
// An unconfigured email channel counts as a successful no-op, an
// unconfigured SMS channel reports false, matching the public contract.
func (n *Notifier) DispatchContact(ctx context.Context, msg domain.ContactMessage) Outcome {
	logger := util.LoggerFromContext(ctx)
	outcome := Outcome{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if n.email == nil {
			logger.Info("email channel not configured, skipping")
			outcome.Email = true
			return nil
		}
		if err := n.email.SendContactEmail(gctx, msg); err != nil {
			logger.Error("contact email failed", "err", err)
			return nil
		}
		outcome.Email = true
		return nil
	})
	g.Go(func() error {
		if n.sms == nil {
			logger.Info("sms channel not configured, skipping")
			return nil
		}
		body := fmt.Sprintf("New Contact Form Message from %s\nEmail: %s\nMessage: %s", msg.Name, msg.Email, msg.Message)
		if err := n.sms.SendSMS(gctx, body); err != nil {
			logger.Error("contact sms failed", "err", err)
			return nil
		}
		outcome.SMS = true
		return nil
	})
	_ = g.Wait()
	return outcome
}
