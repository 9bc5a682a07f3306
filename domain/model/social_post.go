package model

import (
	"strings"
	"time"
)

type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformX         Platform = "x"
)

var knownPlatforms = map[Platform]struct{}{
	PlatformFacebook:  {},
	PlatformInstagram: {},
	PlatformX:         {},
}

// ParsePlatform normalises user input; "twitter" is accepted as an alias for x.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p == "twitter" {
		p = PlatformX
	}
	_, ok := knownPlatforms[p]
	return p, ok
}

type SocialPostStatus string

const (
	SocialPostPending SocialPostStatus = "pending"
	SocialPostPosted  SocialPostStatus = "posted"
	SocialPostFailed  SocialPostStatus = "failed"
)

// SocialPost is the promotional text generated for one platform of a published article.
type SocialPost struct {
	ID           string           `json:"id"`
	ArticleID    string           `json:"article_id"`
	Platform     Platform         `json:"platform"`
	Content      string           `json:"content"`
	Status       SocialPostStatus `json:"status"` // pending | posted | failed
	PostedAt     *time.Time       `json:"posted_at,omitempty"`
	ExternalRef  *string          `json:"external_ref,omitempty"`
	ErrorMessage *string          `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// PlatformToken stores the publishing credential for one platform.
type PlatformToken struct {
	ID          int64      `json:"id"`
	Platform    Platform   `json:"platform"`
	AccessToken string     `json:"-"`
	AccountID   string     `json:"account_id"` // facebook page id or instagram business user id
	AccountName *string    `json:"account_name,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
