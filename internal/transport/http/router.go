package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/db"
	"github.com/Skotchmaster/catalog_api/internal/logging"
	authmw "github.com/Skotchmaster/catalog_api/internal/middleware/auth"
)

type Deps struct {
	DB      *gorm.DB
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health/ready", d.ready)

	requireToken := authmw.RequireToken(d.Auth.Svc)

	v1 := e.Group("/v1")

	v1.POST("/auth/login", d.Auth.Login)
	v1.POST("/auth/logout", d.Auth.Logout, requireToken)

	products := v1.Group("/products")
	if d.Catalog.Svc.SearchEnabled() {
		products.GET("/search", d.Catalog.SearchProducts)
	}
	products.GET("", d.Catalog.ListProducts)
	products.GET("/:id", d.Catalog.GetProduct)
	products.POST("", d.Catalog.CreateProduct, requireToken)
	products.PATCH("/:id", d.Catalog.UpdateProduct, requireToken)
	products.DELETE("/:id", d.Catalog.DeleteProduct, requireToken)

	v1.GET("/categories", d.Catalog.ListCategories)
}

func (d *Deps) ready(c echo.Context) error {
	if err := db.Ping(c.Request().Context(), d.DB); err != nil {
		logging.FromContext(c.Request().Context()).Error("readiness_failed", "status", 503, "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
