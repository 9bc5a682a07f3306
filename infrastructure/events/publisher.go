// Package events delivers article lifecycle events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"newsroom/domain/model"
	"newsroom/infrastructure/configuration"
	"newsroom/infrastructure/logger"
)

const TypeArticlePublished = "article.published"

type Publisher interface {
	PublishArticlePublished(ctx context.Context, event model.ArticlePublishedEvent) error
	Close() error
}

// NewPublisher returns the sink named in configuration. An unknown or empty
// sink yields the no-op publisher.
func NewPublisher(ctx context.Context, cfg configuration.Events) (Publisher, error) {
	switch cfg.Sink {
	case "pubsub":
		client, err := NewPubSubClient(ctx, cfg.ProjectID)
		if err != nil {
			return nil, err
		}
		return NewPubSubPublisher(client, cfg.Topic), nil
	case "servicebus":
		client, err := NewServiceBusClient(cfg.Namespace)
		if err != nil {
			return nil, err
		}
		return NewServiceBusPublisher(client, cfg.Queue), nil
	case "", "none":
		return NoopPublisher{}, nil
	default:
		logger.GetLogger().WithField("sink", cfg.Sink).Warn("Unknown event sink, events are disabled")
		return NoopPublisher{}, nil
	}
}

func encode(event model.ArticlePublishedEvent) ([]byte, error) {
	if event.Type == "" {
		event.Type = TypeArticlePublished
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	return payload, nil
}

type NoopPublisher struct{}

func (NoopPublisher) PublishArticlePublished(ctx context.Context, event model.ArticlePublishedEvent) error {
	logger.GetLogger().WithField("article_id", event.ArticleID).Debug("Event sink disabled, skipping publish")
	return nil
}

func (NoopPublisher) Close() error { return nil }
