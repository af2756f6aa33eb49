package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/transport"
)

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	page := transport.PageFromQuery(c.QueryParam("page"))
	total, items, err := h.Svc.ListCategories(ctx, page)
	if err != nil {
		return toHTTPError(l, "list_categories", err, "")
	}

	return c.JSON(http.StatusOK, transport.NewPaginated(items, total, page, collectionPath(c), transport.NewCategoryResource))
}
