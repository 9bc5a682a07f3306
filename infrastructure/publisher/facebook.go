package publisher

import (
	"context"
	"net/http"

	"newsroom/domain/apperror"
)

type feedForm struct {
	Message     string `url:"message"`
	Link        string `url:"link,omitempty"`
	AccessToken string `url:"access_token"`
}

// FacebookPublisher posts to a page feed.
type FacebookPublisher struct {
	client  *http.Client
	creds   *credentials
	baseURL string
}

func NewFacebookPublisher(client *http.Client, creds *credentials, baseURL string) *FacebookPublisher {
	return &FacebookPublisher{client: client, creds: creds, baseURL: baseURL}
}

func (p *FacebookPublisher) Publish(ctx context.Context, d Delivery) (string, error) {
	cred, err := p.creds.resolve(ctx)
	if err != nil {
		return "", err
	}
	if cred.AccountID == "" {
		return "", apperror.Validation("facebook page id is not configured")
	}
	return graphPost(ctx, p.client, p.baseURL, cred.AccountID, "feed", feedForm{
		Message:     d.Post.Content,
		Link:        d.Link,
		AccessToken: cred.AccessToken,
	})
}
