package publisher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/domain/repository"
	"newsroom/infrastructure/configuration"
	"newsroom/infrastructure/utils"
)

// Delivery is one social post headed for its platform.
type Delivery struct {
	Post    *model.SocialPost
	Article *model.Article
	Link    string
}

// Publisher pushes a post to a platform and returns the platform's post id.
type Publisher interface {
	Publish(ctx context.Context, d Delivery) (string, error)
}

// Registry routes a delivery to the publisher of the post's platform.
type Registry struct {
	publishers map[model.Platform]Publisher
}

var _ Publisher = (*Registry)(nil)

func NewRegistry(client *http.Client, tokens repository.IPlatformToken, cfg configuration.Social) *Registry {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Registry{publishers: map[model.Platform]Publisher{
		model.PlatformFacebook:  NewFacebookPublisher(client, newCredentials(tokens, model.PlatformFacebook, cfg.Facebook), cfg.Facebook.BaseURL),
		model.PlatformInstagram: NewInstagramPublisher(client, newCredentials(tokens, model.PlatformInstagram, cfg.Instagram), cfg.Instagram.BaseURL),
		model.PlatformX:         NewXPublisher(client, newCredentials(tokens, model.PlatformX, cfg.X), cfg.X.BaseURL),
	}}
}

func (r *Registry) Publish(ctx context.Context, d Delivery) (string, error) {
	if d.Post == nil {
		return "", apperror.Validation("post is required")
	}
	p, ok := r.publishers[d.Post.Platform]
	if !ok {
		return "", apperror.Validation(fmt.Sprintf("no publisher for platform %q", d.Post.Platform))
	}
	return p.Publish(ctx, d)
}

type credential struct {
	AccessToken string
	AccountID   string
}

// credentials prefers the stored platform token and falls back to the
// configured one when nothing usable is stored.
type credentials struct {
	repo     repository.IPlatformToken
	platform model.Platform
	fallback configuration.PlatformAPI
}

func newCredentials(repo repository.IPlatformToken, platform model.Platform, fallback configuration.PlatformAPI) *credentials {
	return &credentials{repo: repo, platform: platform, fallback: fallback}
}

func (c *credentials) resolve(ctx context.Context) (credential, error) {
	if c.repo != nil {
		tok, err := c.repo.GetToken(ctx, c.platform)
		switch {
		case err == nil && tok.AccessToken != "" && (tok.ExpiresAt == nil || tok.ExpiresAt.After(utils.GetCurrentTime())):
			return credential{AccessToken: tok.AccessToken, AccountID: tok.AccountID}, nil
		case err != nil && !apperror.Is(err, apperror.KindNotFound):
			return credential{}, err
		}
	}
	if c.fallback.AccessToken == "" {
		return credential{}, apperror.Validation(fmt.Sprintf("no credential configured for %s", c.platform))
	}
	return credential{AccessToken: c.fallback.AccessToken, AccountID: c.fallback.AccountID}, nil
}
