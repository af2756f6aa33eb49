package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/transport"
)

const productNotFound = "Product not found."

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := transport.PageFromQuery(c.QueryParam("page"))
	total, items, err := h.Svc.ListProducts(ctx, page)
	if err != nil {
		return toHTTPError(l, "list_products", err, "")
	}

	return c.JSON(http.StatusOK, transport.NewPaginated(items, total, page, collectionPath(c), transport.NewProductResource))
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, ok := parseID(c.Param("id"))
	if !ok {
		l.Warn("get_product_failed", "status", 404, "reason", "malformed id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusNotFound, productNotFound)
	}

	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return toHTTPError(l, "get_product", err, productNotFound)
	}

	return c.JSON(http.StatusOK, transport.Wrap(transport.NewProductResource(p)))
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	f, err := readFields(c)
	if err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body")
		return err
	}

	p, err := h.Svc.CreateProduct(ctx, transport.NewCreateProductRequest(f))
	if err != nil {
		return toHTTPError(l, "create_product", err, "")
	}

	return c.JSON(http.StatusCreated, transport.Wrap(transport.NewProductResource(p)))
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, ok := parseID(c.Param("id"))
	if !ok {
		l.Warn("update_product_failed", "status", 404, "reason", "malformed id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusNotFound, productNotFound)
	}

	f, err := readFields(c)
	if err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body")
		return err
	}

	p, err := h.Svc.UpdateProduct(ctx, id, transport.NewPatchProductRequest(f))
	if err != nil {
		return toHTTPError(l, "update_product", err, productNotFound)
	}

	return c.JSON(http.StatusOK, transport.Wrap(transport.NewProductResource(p)))
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, ok := parseID(c.Param("id"))
	if !ok {
		l.Warn("delete_product_failed", "status", 404, "reason", "malformed id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusNotFound, productNotFound)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return toHTTPError(l, "delete_product", err, productNotFound)
	}

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully"})
}
