package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	authmw "github.com/Skotchmaster/catalog_api/internal/middleware/auth"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	f, err := readFields(c)
	if err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body")
		return err
	}

	res, err := h.Svc.Login(ctx, transport.NewLoginRequest(f))
	if err != nil {
		return toHTTPError(l, "login", err, "")
	}

	return c.JSON(http.StatusOK, transport.TokenResponse{Token: res.Token})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Svc.Logout(ctx, authmw.Token(c)); err != nil {
		return toHTTPError(l, "logout", err, "")
	}

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged out successfully"})
}
