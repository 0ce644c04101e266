package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/kindergarten-erp-api/internal/dto"
	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
)

const (
	childListCachePrefix = "children:list:"
	// outside childListCachePrefix so pattern invalidation never resets it
	childListGenerationKey = "children:list-generation"
)

type childRepository interface {
	List(ctx context.Context, params query.Params) ([]models.Child, int, error)
	FindByID(ctx context.Context, id int64) (*models.Child, error)
	Create(ctx context.Context, child *models.Child) error
	Update(ctx context.Context, child *models.Child) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type childPage struct {
	Items []models.Child `json:"items"`
	Total int            `json:"total"`
}

// ChildService implements the children use cases.
type ChildService struct {
	repo   childRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewChildService constructs a ChildService. cache may be nil.
func NewChildService(repo childRepository, cache *CacheService, logger *zap.Logger) *ChildService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChildService{repo: repo, cache: cache, logger: logger}
}

// List returns one page of children, served from the list cache when enabled.
func (s *ChildService) List(ctx context.Context, params query.Params) ([]models.Child, int, error) {
	gen, cached := s.cache.Generation(ctx, childListGenerationKey)
	key := fmt.Sprintf("%sg%d:%s", childListCachePrefix, gen, params.Key())
	if cached {
		var page childPage
		if s.cache.Get(ctx, key, &page) {
			return page.Items, page.Total, nil
		}
	}

	children, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, internalError(err, "list children")
	}

	// A page read before a concurrent write lands under the old generation
	// and is never served.
	if cached {
		s.cache.Set(ctx, key, childPage{Items: children, Total: total}, 0)
	}
	return children, total, nil
}

// Get returns a child by id.
func (s *ChildService) Get(ctx context.Context, id int64) (*models.Child, error) {
	child, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Child not found")
		}
		return nil, internalError(err, "find child")
	}
	return child, nil
}

// Create stores a new child.
func (s *ChildService) Create(ctx context.Context, body dto.CreateChildBody) (*models.Child, error) {
	child := body.Model()
	if err := s.repo.Create(ctx, child); err != nil {
		return nil, internalError(err, "create child")
	}
	s.invalidate(ctx)
	return child, nil
}

// Update applies a partial update. A missing child is a 404.
func (s *ChildService) Update(ctx context.Context, id int64, body dto.UpdateChildBody) (*models.Child, error) {
	child, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !body.ApplyTo(child) {
		return child, nil
	}

	found, err := s.repo.Update(ctx, child)
	if err != nil {
		return nil, internalError(err, "update child")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Child not found")
	}
	s.invalidate(ctx)
	return child, nil
}

// Delete removes a child. Deleting a missing child is not an error.
func (s *ChildService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return internalError(err, "delete child")
	}
	if deleted {
		s.invalidate(ctx)
	} else {
		s.logger.Debug("delete of missing child", zap.Int64("child_id", id))
	}
	return nil
}

func (s *ChildService) invalidate(ctx context.Context) {
	if s.cache.Bump(ctx, childListGenerationKey) {
		return
	}
	s.cache.Invalidate(ctx, childListCachePrefix+"*")
}
