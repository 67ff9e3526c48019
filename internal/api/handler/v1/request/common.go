package request

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

const DateLayout = "2006-01-02"

var (
	sessionExp = regexp.MustCompile(`^\d{4}/\d{4}$`)
	phoneExp   = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
)

type PageQuery struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Q     string `form:"q"`
}

func (q PageQuery) ToPage() domain.Page {
	return domain.NewPage(q.Page, q.Limit)
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (req *StatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required),
	)
}

// parseDate turns an optional YYYY-MM-DD string into a time.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}

func termValues() []interface{} {
	values := make([]interface{}, len(domain.Terms))
	for i, t := range domain.Terms {
		values[i] = string(t)
	}
	return values
}
