package memory

import (
	"context"

	zlog "github.com/rs/zerolog/log"
)

// NoopPublisher logs domain events instead of sending them.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishEvent(ctx context.Context, routingKey string, payload any) error {
	zlog.Debug().Str("routing_key", routingKey).Msg("noop publish")
	return nil
}
