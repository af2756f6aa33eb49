package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
	"github.com/Skotchmaster/catalog_api/internal/search"
	"github.com/Skotchmaster/catalog_api/internal/transport"
	"github.com/Skotchmaster/catalog_api/internal/validation"
)

// Indexer mirrors products into a full-text index.
type Indexer interface {
	Put(ctx context.Context, doc search.Document) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []search.Document, error)
}

type CatalogService struct {
	Repo      *repo.GormRepo
	Validator *validation.Validator
	Events    events.Publisher
	// Search is nil when no index is configured.
	Search Indexer
	Now    func() time.Time
}

func (s *CatalogService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *CatalogService) ListProducts(ctx context.Context, page transport.Page) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, page.Offset, page.Limit)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	bag := req.TypeErrors()
	s.Validator.Collect(&req, bag)
	if err := s.checkCategory(ctx, req.CategoryID, bag); err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return nil, err
	}
	if err := bag.Err(); err != nil {
		l.Warn("create_product_failed", "status", 422, "reason", "validation")
		return nil, err
	}

	p := &models.Product{
		Name:        *req.Name,
		Description: *req.Description,
		Price:       *req.Price,
		CategoryID:  uint(*req.CategoryID),
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, p)
	s.publish(ctx, events.Event{Type: events.ProductCreated, ProductID: p.ID, At: s.now()})
	l.Info("product_created", "product_id", p.ID)
	return p, nil
}

// UpdateProduct reports a missing product before looking at the request body.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update_product", "product_id", id)

	current, err := s.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.Warn("update_product_failed", "status", 404, "reason", "product not found")
		}
		return nil, err
	}

	bag := req.TypeErrors()
	s.Validator.Collect(&req, bag)
	if err := s.checkCategory(ctx, req.CategoryID, bag); err != nil {
		l.Error("update_product_failed", "status", 500, "error", err)
		return nil, err
	}
	if err := bag.Err(); err != nil {
		l.Warn("update_product_failed", "status", 422, "reason", "validation")
		return nil, err
	}

	if req.Empty() {
		return current, nil
	}

	updated, err := s.Repo.UpdateProduct(ctx, id, func(p *models.Product) error {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.CategoryID != nil {
			p.CategoryID = uint(*req.CategoryID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("update_product_failed", "status", 404, "reason", "product vanished")
			return nil, ErrNotFound
		}
		l.Error("update_product_failed", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, updated)
	s.publish(ctx, events.Event{Type: events.ProductUpdated, ProductID: updated.ID, At: s.now()})
	l.Info("product_updated")
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product", "product_id", id)

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_product_failed", "status", 404, "reason", "product not found")
			return ErrNotFound
		}
		l.Error("delete_product_failed", "status", 500, "error", err)
		return err
	}

	if s.Search != nil {
		if err := s.Search.Delete(ctx, id); err != nil {
			l.Warn("unindex_failed", "error", err)
		}
	}
	s.publish(ctx, events.Event{Type: events.ProductDeleted, ProductID: id, At: s.now()})
	l.Info("product_deleted")
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context, page transport.Page) (int64, []models.Category, error) {
	return s.Repo.ListCategories(ctx, page.Offset, page.Limit)
}

func (s *CatalogService) SearchEnabled() bool { return s.Search != nil }

func (s *CatalogService) SearchProducts(ctx context.Context, query string, page transport.Page) (int64, []search.Document, error) {
	if s.Search == nil {
		return 0, nil, ErrSearchDisabled
	}
	if query == "" {
		return 0, nil, validation.FieldError("q", "The q field is required.")
	}
	return s.Search.Search(ctx, query, page.Offset, page.Limit)
}

// ReindexAll pushes every stored product to the search index, one page at a time.
func (s *CatalogService) ReindexAll(ctx context.Context) (int, error) {
	if s.Search == nil {
		return 0, ErrSearchDisabled
	}
	const batch = 100
	n := 0
	for offset := 0; ; offset += batch {
		_, items, err := s.Repo.ListProducts(ctx, offset, batch)
		if err != nil {
			return n, err
		}
		for i := range items {
			if err := s.Search.Put(ctx, search.FromProduct(&items[i])); err != nil {
				return n, err
			}
			n++
		}
		if len(items) < batch {
			return n, nil
		}
	}
}

func (s *CatalogService) checkCategory(ctx context.Context, id *int64, bag *validation.Bag) error {
	if id == nil || bag.Has("category_id") {
		return nil
	}
	ok, err := s.Repo.CategoryExists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		bag.Add("category_id", "The selected category id is invalid.")
	}
	return nil
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Put(ctx, search.FromProduct(p)); err != nil {
		logging.FromContext(ctx).Warn("index_failed", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, ev events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "type", ev.Type, "error", err)
	}
}
