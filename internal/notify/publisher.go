// Package notify delivers battle state changes to subscribers. Delivery is
// best effort: callers publish after the battle state is committed and a
// failed delivery never rolls anything back.
package notify

import (
	"context"
	"errors"
)

// Kind is the battle event being published.
type Kind string

const (
	KindStart         Kind = "start"
	KindRoundResolved Kind = "round-resolved"
	KindFinished      Kind = "finished"
)

// Publisher sends one event for a battle.
type Publisher interface {
	Publish(ctx context.Context, battleID string, kind Kind, payload any) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, Kind, any) error { return nil }

// Multi fans an event out to several publishers. Every publisher is tried;
// the errors are joined.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, battleID string, kind Kind, payload any) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, battleID, kind, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
