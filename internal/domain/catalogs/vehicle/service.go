package vehicle

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

// Service provides business logic for Vehicle catalog.
type Service struct {
	*domain.CatalogService[*Vehicle]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Vehicle service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Vehicle]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "vehicle",
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

// prepareForCreate handles code generation and plate uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, v *Vehicle) error {
	if v.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("VH"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		v.Code = code
	}

	return s.checkPlate(ctx, v)
}

// prepareForUpdate handles plate uniqueness.
func (s *Service) prepareForUpdate(ctx context.Context, v *Vehicle) error {
	return s.checkPlate(ctx, v)
}

func (s *Service) checkPlate(ctx context.Context, v *Vehicle) error {
	if v.LicensePlate == nil || *v.LicensePlate == "" {
		return nil
	}
	if exists, _ := s.checkPlateExists(ctx, *v.LicensePlate, v.ID); exists {
		return apperror.NewConflict("vehicle with this license plate already exists").
			WithDetail("licensePlate", *v.LicensePlate)
	}
	return nil
}

func (s *Service) checkPlateExists(ctx context.Context, plate string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByLicensePlate(ctx, plate)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
