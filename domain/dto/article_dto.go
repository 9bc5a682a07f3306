package dto

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"newsroom/domain/model"
)

var (
	httpURLRegex  = regexp.MustCompile(`^https?://`)
	slugRegex     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	validStatuses = []interface{}{
		string(model.ArticleStatusDraft),
		string(model.ArticleStatusReview),
		string(model.ArticleStatusPublished),
	}
)

type GenerateURLRequest struct {
	URL string `json:"url"`
}

func (r GenerateURLRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL,
			validation.Required.Error("url is required"),
			is.RequestURL.Error("url must be an absolute URL"),
			validation.Match(httpURLRegex).Error("url must use http or https"),
		),
	)
}

// ScrapeRequest has the same shape as GenerateURLRequest.
type ScrapeRequest = GenerateURLRequest

type GenerateTopicRequest struct {
	Prompt        string `json:"prompt"`
	PublishStatus string `json:"publishStatus"`
	PostSocial    bool   `json:"postSocial"`
}

func (r GenerateTopicRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prompt,
			validation.Required.Error("prompt is required"),
			validation.RuneLength(3, 2000).Error("prompt must be between 3 and 2000 characters"),
		),
		validation.Field(&r.PublishStatus,
			validation.In(validStatuses...).Error("publishStatus must be draft, review or published"),
		),
	)
}

type RevalidateRequest struct {
	Slug string `json:"slug"`
}

func (r RevalidateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug, validation.Match(slugRegex).Error("invalid slug format")),
	)
}

// ArticlePatchRequest is a manual edit. Omitted fields stay unchanged.
type ArticlePatchRequest struct {
	Title     *string `json:"title"`
	Excerpt   *string `json:"excerpt"`
	Body      *string `json:"body"`
	Category  *string `json:"category"`
	Status    *string `json:"status"`
	MainImage *string `json:"main_image"`
}

func (r ArticlePatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be empty"), validation.RuneLength(0, 200)),
		validation.Field(&r.Body, validation.NilOrNotEmpty.Error("body cannot be empty")),
		validation.Field(&r.Category, validation.NilOrNotEmpty.Error("category cannot be empty"), validation.Match(slugRegex).Error("invalid category")),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(validStatuses...).Error("status must be draft, review or published")),
		validation.Field(&r.MainImage, is.RequestURL.Error("main_image must be an absolute URL")),
	)
}

func (r ArticlePatchRequest) ToPatch() model.ArticlePatch {
	p := model.ArticlePatch{
		Title:     r.Title,
		Excerpt:   r.Excerpt,
		Body:      r.Body,
		Category:  r.Category,
		MainImage: r.MainImage,
	}
	if r.Status != nil {
		s := model.ArticleStatus(*r.Status)
		p.Status = &s
	}
	return p
}

type ArticleListQuery struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

func (q ArticleListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Status, validation.In(validStatuses...).Error("invalid status")),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(100)),
		validation.Field(&q.Offset, validation.Min(0)),
	)
}

func (q ArticleListQuery) ToFilter() model.ArticleFilter {
	return model.ArticleFilter{
		Status:   model.ArticleStatus(q.Status),
		Category: q.Category,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
}
