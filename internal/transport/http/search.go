package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/search"
	"github.com/Skotchmaster/catalog_api/internal/transport"
)

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	page := transport.PageFromQuery(c.QueryParam("page"))

	total, docs, err := h.Svc.SearchProducts(ctx, q, page)
	if err != nil {
		return toHTTPError(l, "search_products", err, "")
	}

	res := transport.NewPaginated(docs, total, page, collectionPath(c), func(d *search.Document) transport.ProductResource {
		return transport.ProductResource{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Price:       d.Price,
			CategoryID:  d.CategoryID,
		}
	})
	return c.JSON(http.StatusOK, res)
}
