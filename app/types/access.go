package types

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

type AccessRequest struct {
	AccessCode string `json:"access_code" form:"access_code"`
	Next       string `json:"next" form:"next"`
}

func NewAccessRequestFromContext(ctx echo.Context) (*AccessRequest, error) {
	var body AccessRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

func (r *AccessRequest) GetAccessCode() string {
	if r == nil {
		return ""
	}
	return r.AccessCode
}

// GetNext returns the post-login redirect target, falling back to "/" for anything that is
// not a same-origin path or that would loop back to the access page.
func (r *AccessRequest) GetNext() string {
	if r == nil {
		return "/"
	}
	return SanitizeNextPath(r.Next)
}

func SanitizeNextPath(next string) string {
	next = strings.TrimSpace(next)
	// Browsers treat a backslash like a slash, so "/\host" would leave the site.
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsRune(next, '\\') {
		return "/"
	}
	if strings.HasPrefix(next, "/access") {
		return "/"
	}

	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return next
}
