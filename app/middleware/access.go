package middleware

import (
	"net/http"
	"strings"

	"github.com/vibast-solutions/ms-go-glucose/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	ContextKeyCanEdit = "can_edit"

	AccessTokenHeader = "X-Access-Token"
)

type AccessTokenChecker interface {
	HasValidToken(token string) bool
}

type AccessMiddleware struct {
	verifier AccessTokenChecker
}

func NewAccessMiddleware(verifier AccessTokenChecker) *AccessMiddleware {
	return &AccessMiddleware{verifier: verifier}
}

// AccessTokensFromRequest returns the non-empty tokens carried by the access cookie and the
// X-Access-Token header, cookie first.
func AccessTokensFromRequest(c echo.Context) []string {
	tokens := make([]string, 0, 2)
	if cookie, err := c.Cookie(service.AccessCookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			tokens = append(tokens, token)
		}
	}
	if token := strings.TrimSpace(c.Request().Header.Get(AccessTokenHeader)); token != "" {
		tokens = append(tokens, token)
	}
	return tokens
}

// HasValidAccess accepts the request when any of its tokens is valid, so a stale cookie does
// not shadow a good header.
func HasValidAccess(c echo.Context, verifier AccessTokenChecker) bool {
	for _, token := range AccessTokensFromRequest(c) {
		if verifier.HasValidToken(token) {
			return true
		}
	}
	return false
}

// LoadAccess records whether the caller may edit without rejecting anyone.
func (m *AccessMiddleware) LoadAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(ContextKeyCanEdit, HasValidAccess(c, m.verifier))
		return next(c)
	}
}

func (m *AccessMiddleware) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Let CORS preflight pass.
		if c.Request().Method == http.MethodOptions {
			return next(c)
		}

		if len(AccessTokensFromRequest(c)) == 0 {
			logrus.Debug("Missing access token")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "No autorizado",
			})
		}

		if !HasValidAccess(c, m.verifier) {
			logrus.Debug("Invalid access token")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "No autorizado",
			})
		}

		c.Set(ContextKeyCanEdit, true)
		return next(c)
	}
}

// CanEdit reads the flag set by LoadAccess or RequireAccess.
func CanEdit(c echo.Context) bool {
	canEdit, _ := c.Get(ContextKeyCanEdit).(bool)
	return canEdit
}
