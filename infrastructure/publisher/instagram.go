package publisher

import (
	"context"
	"net/http"

	"newsroom/domain/apperror"
)

type mediaForm struct {
	ImageURL    string `url:"image_url"`
	Caption     string `url:"caption"`
	AccessToken string `url:"access_token"`
}

type mediaPublishForm struct {
	CreationID  string `url:"creation_id"`
	AccessToken string `url:"access_token"`
}

// InstagramPublisher creates an image container and publishes it. Instagram
// does not accept text-only posts, so the article needs a main image.
type InstagramPublisher struct {
	client  *http.Client
	creds   *credentials
	baseURL string
}

func NewInstagramPublisher(client *http.Client, creds *credentials, baseURL string) *InstagramPublisher {
	return &InstagramPublisher{client: client, creds: creds, baseURL: baseURL}
}

func (p *InstagramPublisher) Publish(ctx context.Context, d Delivery) (string, error) {
	if d.Article == nil || d.Article.MainImage == nil || *d.Article.MainImage == "" {
		return "", apperror.Validation("instagram requires an article main image")
	}
	cred, err := p.creds.resolve(ctx)
	if err != nil {
		return "", err
	}
	if cred.AccountID == "" {
		return "", apperror.Validation("instagram business account id is not configured")
	}

	containerID, err := graphPost(ctx, p.client, p.baseURL, cred.AccountID, "media", mediaForm{
		ImageURL:    *d.Article.MainImage,
		Caption:     d.Post.Content,
		AccessToken: cred.AccessToken,
	})
	if err != nil {
		return "", err
	}
	return graphPost(ctx, p.client, p.baseURL, cred.AccountID, "media_publish", mediaPublishForm{
		CreationID:  containerID,
		AccessToken: cred.AccessToken,
	})
}
