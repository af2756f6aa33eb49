package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/validation"
)

// toHTTPError maps service failures onto HTTP responses and logs unexpected ones.
func toHTTPError(l *slog.Logger, op string, err error, notFound string) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, verr)
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
	default:
		l.Error(op+"_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server Error")
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func readFields(c echo.Context) (validation.Fields, error) {
	f, err := validation.DecodeFields(c.Request().Body)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return f, nil
}

// collectionPath is the absolute URL of the current route without its query string.
func collectionPath(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path
}
