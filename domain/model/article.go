package model

import "time"

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusReview    ArticleStatus = "review"
	ArticleStatusPublished ArticleStatus = "published"
)

var articleStatusRank = map[ArticleStatus]int{
	ArticleStatusDraft:     0,
	ArticleStatusReview:    1,
	ArticleStatusPublished: 2,
}

func (s ArticleStatus) Valid() bool {
	_, ok := articleStatusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next keeps the status
// monotonic (draft -> review -> published). Staying put is allowed.
func (s ArticleStatus) CanTransitionTo(next ArticleStatus) bool {
	from, ok := articleStatusRank[s]
	if !ok {
		return false
	}
	to, ok := articleStatusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// Article is the persisted editorial record.
type Article struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	Body        string        `json:"body"`
	Category    string        `json:"category"`
	Status      ArticleStatus `json:"status"`
	MainImage   *string       `json:"main_image,omitempty"`
	SourceURL   *string       `json:"source_url,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ArticlePatch holds the fields of a partial update; nil means unchanged.
type ArticlePatch struct {
	Title       *string
	Excerpt     *string
	Body        *string
	Category    *string
	Status      *ArticleStatus
	MainImage   *string
	PublishedAt *time.Time
}

func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Excerpt == nil && p.Body == nil && p.Category == nil &&
		p.Status == nil && p.MainImage == nil && p.PublishedAt == nil
}

type ArticleFilter struct {
	Status   ArticleStatus
	Category string
	Limit    int
	Offset   int
}

// ArticlePublishedEvent is emitted to downstream consumers once an article goes live.
type ArticlePublishedEvent struct {
	Type        string    `json:"type"`
	ArticleID   string    `json:"article_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"published_at"`
}
