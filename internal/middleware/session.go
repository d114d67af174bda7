package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/olegsm/cinema-tickets/internal/model"
	"github.com/olegsm/cinema-tickets/internal/utils"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session JWT.
const SessionCookie = "session"

// sessionUserKey is the echo context key holding the request-scoped user.
const sessionUserKey = "session_user"

// UserLoader resolves a user id from a session token to a full record.
// *service.UserService satisfies it.
type UserLoader interface {
	FindByID(ctx context.Context, id uint64) (model.User, error)
}

// Session returns a middleware that resolves the session cookie into a
// request-scoped *model.User stored in the echo context. A missing,
// invalid or expired cookie leaves the request anonymous; pages that
// tolerate guests keep working and RequireSession guards the rest.
// There is no ambient session lookup anywhere else: SessionUser(c) is
// the only way handlers see the current user.
func Session(secret string, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			uid, _, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				return next(c)
			}
			u, err := users.FindByID(c.Request().Context(), uid)
			if err != nil {
				// Stale cookie for a deleted account: treat as anonymous.
				return next(c)
			}
			c.Set(sessionUserKey, &u)
			return next(c)
		}
	}
}

// RequireSession redirects anonymous requests to the login page. It must
// run after Session.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if SessionUser(c) == nil {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// SessionUser returns the request-scoped user set by Session, or nil for
// anonymous requests.
func SessionUser(c echo.Context) *model.User {
	u, _ := c.Get(sessionUserKey).(*model.User)
	return u
}
