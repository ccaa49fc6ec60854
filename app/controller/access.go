package controller

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	dto "github.com/vibast-solutions/ms-go-glucose/app/dto/http"
	"github.com/vibast-solutions/ms-go-glucose/app/middleware"
	"github.com/vibast-solutions/ms-go-glucose/app/service"
	"github.com/vibast-solutions/ms-go-glucose/app/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AccessCookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type AccessController struct {
	verifier *service.AccessVerifier
	cookie   AccessCookieConfig
}

func NewAccessController(verifier *service.AccessVerifier, cookie AccessCookieConfig) *AccessController {
	if cookie.TTL <= 0 {
		cookie.TTL = service.AccessCookieMaxAge
	}
	return &AccessController{verifier: verifier, cookie: cookie}
}

func (c *AccessController) Status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, dto.AccessStatusResponse{
		AccessConfigured: c.verifier.HasSecretConfigured(),
		Authorized:       middleware.HasValidAccess(ctx, c.verifier),
	})
}

// Login exchanges the access code for the access cookie. Browser form posts are answered
// with a 303 redirect; JSON clients get a status code.
func (c *AccessController) Login(ctx echo.Context) error {
	req, err := types.NewAccessRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind access request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Solicitud invalida"})
	}

	next := req.GetNext()
	jsonRequest := isJSONRequest(ctx)

	if !c.verifier.IsCodeValid(req.GetAccessCode()) {
		logrus.Debug("Invalid access code")
		if jsonRequest {
			return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Codigo de acceso invalido"})
		}
		return ctx.Redirect(http.StatusSeeOther, "/access?error=1&next="+url.QueryEscape(next))
	}

	token, ok := c.verifier.ExpectedToken()
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Codigo de acceso invalido"})
	}
	ctx.SetCookie(c.newCookie(token, c.cookie.TTL))

	if jsonRequest {
		return ctx.JSON(http.StatusOK, dto.AccessResponse{Authorized: true, Next: next})
	}
	return ctx.Redirect(http.StatusSeeOther, next)
}

func (c *AccessController) Logout(ctx echo.Context) error {
	ctx.SetCookie(c.newCookie("", 0))
	return ctx.JSON(http.StatusOK, dto.AccessResponse{Authorized: false})
}

// newCookie builds the access cookie; a non-positive ttl expires it.
func (c *AccessController) newCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     service.AccessCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl / time.Second)
		cookie.Expires = time.Now().Add(ttl)
	} else {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}

func isJSONRequest(ctx echo.Context) bool {
	return strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}
