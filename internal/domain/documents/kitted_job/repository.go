package kitted_job

import (
	"context"
	"time"

	"integratorpro/internal/core/id"
	"integratorpro/internal/domain"
)

// Repository defines operations for kitted job documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *KittedJob) error
	GetByID(ctx context.Context, docID id.ID) (*KittedJob, error)
	GetByNumber(ctx context.Context, number string) (*KittedJob, error)
	Update(ctx context.Context, doc *KittedJob) error
	Delete(ctx context.Context, docID id.ID) error

	// Quote operations: quotes and their parts persist together
	GetQuotes(ctx context.Context, docID id.ID) ([]Quote, error)
	SaveQuotes(ctx context.Context, docID id.ID, quotes []Quote) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*KittedJob], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*KittedJob, error)
}

// ListFilter for filtering kitted jobs.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	CustomerID *id.ID
	Status     *Status
	// ActiveOnly excludes completed and cancelled jobs
	ActiveOnly bool
	DateFrom   *time.Time
	DateTo     *time.Time
}
