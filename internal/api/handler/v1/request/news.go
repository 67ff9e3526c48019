package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type NewsRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	Published bool   `json:"published"`
}

func (req *NewsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&req.Slug, validation.Length(0, 200)),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Excerpt, validation.Length(0, 500)),
		validation.Field(&req.Category, validation.Length(0, 50)),
	)
}

func (req *NewsRequest) ToDomain() domain.News {
	return domain.News{
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Author:    req.Author,
		Category:  req.Category,
		Published: req.Published,
	}
}

type PublishRequest struct {
	Published bool `json:"published"`
}

type NewsQuery struct {
	PageQuery
	Category string `form:"category"`
}

func (q NewsQuery) ToFilter() domain.NewsFilter {
	return domain.NewsFilter{
		Category: q.Category,
		Search:   q.Q,
		Page:     q.ToPage(),
	}
}
