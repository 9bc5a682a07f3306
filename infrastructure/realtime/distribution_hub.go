package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"newsroom/domain/model"
	"newsroom/infrastructure/logger"
)

const keepAliveInterval = 15 * time.Second

// PostStatusEvent is the SSE payload for a social post status change.
type PostStatusEvent struct {
	Type        string                 `json:"type"`
	ArticleID   string                 `json:"article_id"`
	PostID      string                 `json:"post_id"`
	Platform    model.Platform         `json:"platform"`
	Status      model.SocialPostStatus `json:"status"`
	ExternalRef *string                `json:"external_ref,omitempty"`
	Error       *string                `json:"error,omitempty"`
}

// Hub fans social post status changes out to SSE subscribers of an article.
type Hub struct {
	mu       sync.RWMutex
	articles map[string]map[chan PostStatusEvent]struct{}
}

func NewDistributionHub() *Hub {
	return &Hub{articles: make(map[string]map[chan PostStatusEvent]struct{})}
}

// Serve streams status events for the article in the :id path parameter.
func (h *Hub) Serve(c *gin.Context) {
	articleID := c.Param("id")
	if articleID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "article id is required"})
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan PostStatusEvent, 8)
	h.addSubscriber(articleID, ch)
	defer h.removeSubscriber(articleID, ch)
	logger.GetLogger().WithField("article_id", articleID).WithField("subscribers", h.subscribers(articleID)).Debug("SSE subscriber connected")

	c.Status(http.StatusOK)
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			_, _ = c.Writer.Write([]byte(":ping\n\n"))
			c.Writer.Flush()
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: post_status\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

func (h *Hub) addSubscriber(articleID string, ch chan PostStatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.articles[articleID] == nil {
		h.articles[articleID] = make(map[chan PostStatusEvent]struct{})
	}
	h.articles[articleID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(articleID string, ch chan PostStatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.articles[articleID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.articles, articleID)
		}
	}
}

func (h *Hub) subscribers(articleID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.articles[articleID])
}

// BroadcastPostStatus never blocks; slow subscribers miss events.
func (h *Hub) BroadcastPostStatus(post *model.SocialPost) {
	if post == nil {
		return
	}
	evt := PostStatusEvent{
		Type:        "post_status",
		ArticleID:   post.ArticleID,
		PostID:      post.ID,
		Platform:    post.Platform,
		Status:      post.Status,
		ExternalRef: post.ExternalRef,
		Error:       post.ErrorMessage,
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.articles[post.ArticleID] {
		select {
		case ch <- evt:
		default:
		}
	}
}
