package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/service"
)

const (
	userKey  = "auth.user"
	tokenKey = "auth.token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, plaintext string) (*models.User, *models.AccessToken, error)
}

// RequireToken admits requests carrying a live bearer token and stores its user and token on the context.
func RequireToken(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := BearerToken(c.Request())
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
			}

			user, token, err := a.Authenticate(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Server Error")
			}

			c.Set(userKey, user)
			c.Set(tokenKey, token)

			l := logging.FromContext(c.Request().Context()).With("user_id", user.ID)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			return next(c)
		}
	}
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func User(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}

func Token(c echo.Context) *models.AccessToken {
	t, _ := c.Get(tokenKey).(*models.AccessToken)
	return t
}
