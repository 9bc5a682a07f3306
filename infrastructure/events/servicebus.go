package events

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"newsroom/domain/model"
	"newsroom/infrastructure/logger"
)

// NewServiceBusClient connects to a namespace such as
// "my-namespace.servicebus.windows.net" with the default Azure credential chain.
func NewServiceBusClient(namespace string) (*azservicebus.Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("service bus namespace is empty")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	client, err := azservicebus.NewClient(namespace, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create service bus client: %w", err)
	}
	return client, nil
}

type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

type ServiceBusPublisher struct {
	queue     string
	newSender func(queue string) (messageSender, error)
	close     func(ctx context.Context) error
}

var _ Publisher = (*ServiceBusPublisher)(nil)

func NewServiceBusPublisher(client *azservicebus.Client, queue string) *ServiceBusPublisher {
	return &ServiceBusPublisher{
		queue: queue,
		newSender: func(queue string) (messageSender, error) {
			return client.NewSender(queue, nil)
		},
		close: client.Close,
	}
}

func (p *ServiceBusPublisher) PublishArticlePublished(ctx context.Context, event model.ArticlePublishedEvent) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}

	sender, err := p.newSender(p.queue)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while making new sender service bus.")
		return fmt.Errorf("new sender for %s: %w", p.queue, err)
	}
	defer func() {
		if err := sender.Close(context.WithoutCancel(ctx)); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing sender.")
		}
	}()

	contentType := "application/json"
	subject := TypeArticlePublished
	messageID := event.ArticleID + ":" + event.PublishedAt.UTC().Format("20060102T150405.000")
	err = sender.SendMessage(ctx, &azservicebus.Message{
		Body:        payload,
		ContentType: &contentType,
		Subject:     &subject,
		MessageID:   &messageID,
	}, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return fmt.Errorf("send to %s: %w", p.queue, err)
	}
	return nil
}

func (p *ServiceBusPublisher) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close(context.Background())
}
