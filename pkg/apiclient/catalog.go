package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type Product struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  uint   `json:"category_id"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// ProductInput leaves nil fields out of the request body.
type ProductInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	CategoryID  *uint   `json:"category_id,omitempty"`
}

type item[T any] struct {
	Data T `json:"data"`
}

type message struct {
	Message string `json:"message"`
}

// Login stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.Request(ctx, http.MethodPost, "/v1/auth/login", body, &out); err != nil {
		return err
	}
	return c.SetToken(out.Token)
}

// Logout clears the stored token once the server has revoked it.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.Request(ctx, http.MethodPost, "/v1/auth/logout", nil, nil); err != nil {
		return err
	}
	return c.SetToken("")
}

func (c *Client) ListProducts(ctx context.Context, page int) (*Page[Product], error) {
	var out Page[Product]
	if err := c.Request(ctx, http.MethodGet, "/v1/products"+pageQuery(page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchProducts(ctx context.Context, q string, page int) (*Page[Product], error) {
	v := url.Values{"q": {q}}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	var out Page[Product]
	if err := c.Request(ctx, http.MethodGet, "/v1/products/search?"+v.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var out item[Product]
	if err := c.Request(ctx, http.MethodGet, productPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var out item[Product]
	if err := c.Request(ctx, http.MethodPost, "/v1/products", in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*Product, error) {
	var out item[Product]
	if err := c.Request(ctx, http.MethodPatch, productPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) (string, error) {
	var out message
	if err := c.Request(ctx, http.MethodDelete, productPath(id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ListCategories(ctx context.Context, page int) (*Page[Category], error) {
	var out Page[Category]
	if err := c.Request(ctx, http.MethodGet, "/v1/categories"+pageQuery(page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func productPath(id uint) string {
	return "/v1/products/" + strconv.FormatUint(uint64(id), 10)
}

func pageQuery(page int) string {
	if page <= 1 {
		return ""
	}
	return "?page=" + strconv.Itoa(page)
}
