// Package notifier delivers reports and alerts over Telegram and email.
package notifier

import (
	"context"
	"errors"
	"fmt"
)

// Message is one outbound notification. Body uses Telegram's HTML subset (<b>, <i>).
type Message struct {
	Subject string
	Body    string
}

// Notifier delivers messages to one channel.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
	Name() string
}

// Multi fans a message out to every channel. It fails only when every channel failed.
type Multi []Notifier

func (m Multi) Name() string { return "multi" }

func (m Multi) Notify(ctx context.Context, msg Message) error {
	if len(m) == 0 {
		return errors.New("no notifier configured")
	}
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	if len(errs) == len(m) {
		return errors.Join(errs...)
	}
	return nil
}
