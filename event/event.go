// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
)

var _ Subscription[struct{}] = SubscriptionFunc[struct{}](nil)

// Subscription consumes committed token events. A failing subscription never
// undoes the change that produced the event.
type Subscription[T any] interface {
	Accept(ctx context.Context, t T) error
	Close() error
}

// SubscriptionFunc adapts a function into a Subscription with nothing to
// close.
type SubscriptionFunc[T any] func(ctx context.Context, t T) error

func (f SubscriptionFunc[T]) Accept(ctx context.Context, t T) error {
	return f(ctx, t)
}

func (SubscriptionFunc[_]) Close() error {
	return nil
}

// NotifyAll delivers [e] to every subscription in order and joins their
// errors.
func NotifyAll[T any](ctx context.Context, e T, subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Accept(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseAll closes every subscription, even after one fails.
func CloseAll[T any](subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		errs = append(errs, sub.Close())
	}
	return errors.Join(errs...)
}
