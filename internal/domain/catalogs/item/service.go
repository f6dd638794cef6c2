package item

import (
	"context"
	"fmt"
	"time"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/numerator"
	"integratorpro/internal/core/tx"
	"integratorpro/internal/domain"
)

// Service provides business logic for the Item catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Item]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Item service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles code generation and part number uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, it *Item) error {
	// Generate code if not provided
	if it.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("IT"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
	}

	if exists, _ := s.checkPartNumberExists(ctx, it.PartNumber, it.ID); exists {
		return apperror.NewConflict("item with this part number already exists").
			WithDetail("partNumber", it.PartNumber)
	}

	return nil
}

// prepareForUpdate handles part number uniqueness.
func (s *Service) prepareForUpdate(ctx context.Context, it *Item) error {
	if exists, _ := s.checkPartNumberExists(ctx, it.PartNumber, it.ID); exists {
		return apperror.NewConflict("item with this part number already exists").
			WithDetail("partNumber", it.PartNumber)
	}

	return nil
}

// --- Entity-specific methods ---

// FindByPartNumber retrieves an item by its exact part number.
func (s *Service) FindByPartNumber(ctx context.Context, partNumber string) (*Item, error) {
	return s.repo.FindByPartNumber(ctx, partNumber)
}

// Search performs a free-text catalog search with optional filters.
func (s *Service) Search(ctx context.Context, query string, filters SearchFilters, listFilter domain.ListFilter) (domain.ListResult[*Item], error) {
	return s.repo.Search(ctx, query, filters, listFilter)
}

// checkPartNumberExists checks if a part number is already used by another item.
func (s *Service) checkPartNumberExists(ctx context.Context, partNumber string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByPartNumber(ctx, partNumber)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
