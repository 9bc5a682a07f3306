package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"newsroom/domain/apperror"
)

type graphResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// graphPost sends a form-encoded POST to a Graph API edge and returns the created object id.
func graphPost(ctx context.Context, client *http.Client, baseURL, nodeID, edge string, form interface{}) (string, error) {
	values, err := query.Values(form)
	if err != nil {
		return "", apperror.Internal("encode graph form", err)
	}
	endpoint := fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), url.PathEscape(nodeID), edge)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return "", apperror.Internal("build graph request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", apperror.Upstream("graph request failed", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out graphResponse
	_ = json.Unmarshal(body, &out)
	if resp.StatusCode != http.StatusOK || out.Error != nil {
		msg := fmt.Sprintf("graph %s returned status %d", edge, resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = fmt.Sprintf("%s: %s", msg, out.Error.Message)
		}
		return "", apperror.Upstream(msg, nil)
	}
	if out.ID == "" {
		return "", apperror.Upstream(fmt.Sprintf("graph %s response has no id", edge), nil)
	}
	return out.ID, nil
}
