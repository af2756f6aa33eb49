package transport

import "github.com/Skotchmaster/catalog_api/internal/models"

type ProductResource struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  uint   `json:"category_id"`
}

func NewProductResource(p *models.Product) ProductResource {
	return ProductResource{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
	}
}

type CategoryResource struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewCategoryResource(c *models.Category) CategoryResource {
	return CategoryResource{ID: c.ID, Name: c.Name}
}

// Item wraps a single resource the same way collections carry theirs.
type Item[T any] struct {
	Data T `json:"data"`
}

func Wrap[T any](v T) Item[T] { return Item[T]{Data: v} }

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
