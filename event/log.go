// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
)

// NewLogSubscription writes every event to [log] as a NEP-297 line.
func NewLogSubscription(log logging.Logger) Subscription[Event] {
	return SubscriptionFunc[Event](func(_ context.Context, e Event) error {
		line, err := e.JSON()
		if err != nil {
			return err
		}
		log.Info("token event",
			zap.Stringer("kind", e.Kind),
			zap.String("log", line),
		)
		return nil
	})
}
