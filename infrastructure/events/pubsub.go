package events

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"

	"newsroom/domain/model"
	"newsroom/infrastructure/logger"
)

func NewPubSubClient(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project id is empty")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return client, nil
}

type PubSubPublisher struct {
	client    *pubsub.Client
	topicName string
}

var _ Publisher = (*PubSubPublisher)(nil)

func NewPubSubPublisher(client *pubsub.Client, topicName string) *PubSubPublisher {
	return &PubSubPublisher{client: client, topicName: topicName}
}

func (p *PubSubPublisher) PublishArticlePublished(ctx context.Context, event model.ArticlePublishedEvent) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}

	topic := p.client.Topic(p.topicName)
	defer topic.Stop()

	// Create the topic if it doesn't exist.
	exists, err := topic.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check topic %s: %w", p.topicName, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		if _, err := p.client.CreateTopic(ctx, p.topicName); err != nil {
			return fmt.Errorf("create topic %s: %w", p.topicName, err)
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"type":       TypeArticlePublished,
			"article_id": event.ArticleID,
			"category":   event.Category,
		},
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.topicName, err)
	}

	logger.GetLogger().WithField("server_id", serverID).WithField("article_id", event.ArticleID).Info("Message published")
	return nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}
