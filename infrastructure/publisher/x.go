package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"newsroom/domain/apperror"
)

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// XPublisher creates a post through the X API v2 with a bearer user token.
type XPublisher struct {
	client  *http.Client
	creds   *credentials
	baseURL string
}

func NewXPublisher(client *http.Client, creds *credentials, baseURL string) *XPublisher {
	return &XPublisher{client: client, creds: creds, baseURL: baseURL}
}

func (p *XPublisher) Publish(ctx context.Context, d Delivery) (string, error) {
	cred, err := p.creds.resolve(ctx)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(tweetRequest{Text: d.Post.Content})
	if err != nil {
		return "", apperror.Internal("encode tweet", err)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(p.baseURL, "/")+"/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", apperror.Internal("build tweet request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", apperror.Upstream("x request failed", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out tweetResponse
	_ = json.Unmarshal(body, &out)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("x returned status %d", resp.StatusCode)
		if out.Detail != "" {
			msg = fmt.Sprintf("%s: %s", msg, out.Detail)
		}
		return "", apperror.Upstream(msg, nil)
	}
	if out.Data.ID == "" {
		return "", apperror.Upstream("x response has no post id", nil)
	}
	return out.Data.ID, nil
}
