package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/surplusmkt/surplus/internal/server/session"
)

const (
	// CurrentUserContextKey is the key to retrieve the current_user from echo.Context.
	CurrentUserContextKey = "current_user"
	// CurrentSessionContextKey is the key to retrieve the current_session from echo.Context.
	CurrentSessionContextKey = "current_session"
)

// Session returns a session auth middleware.
// It stores current_user and current_session into echo.Context.
func Session(m session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorization := c.Request().Header.Get(echo.HeaderAuthorization)
			token := token(authorization)

			if token == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": echo.Map{
						"tag":     "invalid-auth",
						"message": "Invalid login credentials.",
					},
				})
			}

			// Find, validate and store current_session for handlers.
			sess, err := m.Validate(token)
			if err != nil {
				return err
			}
			c.Set(CurrentSessionContextKey, sess)

			// Find and store current_user for handlers.
			user, err := m.UserFromSession(sess)
			if err != nil {
				return err
			}
			c.Set(CurrentUserContextKey, user)

			return next(c)
		}
	}
}

func token(authorization string) string {
	parts := strings.Split(authorization, " ")
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
