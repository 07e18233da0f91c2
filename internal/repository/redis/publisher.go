package redis

import (
	"context"
	"encoding/json"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rsharma/socialnet/internal/domain"
)

// publisher fans change events out over redis pub/sub. Delivery is
// fire-and-forget: no durability, no retry. Callers log failures and move on.
type publisher struct {
	client            *goredis.Client
	backgroundChannel string
	analyticsChannel  string
}

func NewPublisher(client *goredis.Client, backgroundChannel, analyticsChannel string) *publisher {
	return &publisher{
		client:            client,
		backgroundChannel: backgroundChannel,
		analyticsChannel:  analyticsChannel,
	}
}

func (p *publisher) PublishBackground(ctx context.Context, msg domain.BackgroundMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.backgroundChannel, payload).Err()
}

func (p *publisher) PublishAnalytics(ctx context.Context, event domain.AnalyticsEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.analyticsChannel, payload).Err()
}
