package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
	"integratorpro/internal/domain"
	"integratorpro/internal/domain/documents/kitted_job"
	"integratorpro/internal/infrastructure/storage/postgres"
)

const (
	kittedJobsTable      = "doc_kitted_jobs"
	kittedJobQuotesTable = "doc_kitted_job_quotes"
	kittedJobPartsTable  = "doc_kitted_job_parts"
)

// KittedJobRepo implements kitted_job.Repository.
type KittedJobRepo struct {
	*BaseDocumentRepo[*kitted_job.KittedJob]
}

// NewKittedJobRepo creates a new kitted job repository.
func NewKittedJobRepo(txManager *postgres.TxManager) *KittedJobRepo {
	return &KittedJobRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*kitted_job.KittedJob](
			txManager,
			kittedJobsTable,
			postgres.ExtractDBColumns[kitted_job.KittedJob](),
			func() *kitted_job.KittedJob { return &kitted_job.KittedJob{} },
		),
	}
}

// jobPartRow carries a part together with its quote linkage.
type jobPartRow struct {
	QuoteID    id.ID          `db:"quote_id"`
	LineNo     int            `db:"line_no"`
	PartNumber string         `db:"part_number"`
	Name       string         `db:"name"`
	Quantity   types.Quantity `db:"quantity"`
	UnitCost   types.Money    `db:"unit_cost"`
}

// GetQuotes retrieves quotes with their parts for a job.
func (r *KittedJobRepo) GetQuotes(ctx context.Context, docID id.ID) ([]kitted_job.Quote, error) {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	quotesQ := r.Builder().
		Select("quote_id", "quote_no", "name", "invoice_id").
		From(kittedJobQuotesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("quote_no")

	sql, args, err := quotesQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quotes query: %w", err)
	}

	var quotes []kitted_job.Quote
	if err := pgxscan.Select(ctx, querier, &quotes, sql, args...); err != nil {
		return nil, fmt.Errorf("get quotes: %w", err)
	}

	partsQ := r.Builder().
		Select("quote_id", "line_no", "part_number", "name", "quantity", "unit_cost").
		From(kittedJobPartsTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("quote_id", "line_no")

	sql, args, err = partsQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build parts query: %w", err)
	}

	var parts []jobPartRow
	if err := pgxscan.Select(ctx, querier, &parts, sql, args...); err != nil {
		return nil, fmt.Errorf("get parts: %w", err)
	}

	byQuote := make(map[id.ID][]kitted_job.JobPart, len(quotes))
	for _, row := range parts {
		byQuote[row.QuoteID] = append(byQuote[row.QuoteID], kitted_job.JobPart{
			PartNumber: row.PartNumber,
			Name:       row.Name,
			Quantity:   row.Quantity,
			UnitCost:   row.UnitCost,
		})
	}
	for i := range quotes {
		quotes[i].Parts = byQuote[quotes[i].QuoteID]
		if quotes[i].Parts == nil {
			quotes[i].Parts = make([]kitted_job.JobPart, 0)
		}
	}

	return quotes, nil
}

// SaveQuotes saves quotes and parts for a job (delete existing + insert new).
func (r *KittedJobRepo) SaveQuotes(ctx context.Context, docID id.ID, quotes []kitted_job.Quote) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	for _, table := range []string{kittedJobPartsTable, kittedJobQuotesTable} {
		deleteSQL := "DELETE FROM " + table + " WHERE document_id = $1"
		if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	if len(quotes) == 0 {
		return nil
	}

	quotesQ := r.Builder().
		Insert(kittedJobQuotesTable).
		Columns("quote_id", "document_id", "quote_no", "name", "invoice_id")

	partsQ := r.Builder().
		Insert(kittedJobPartsTable).
		Columns("quote_id", "document_id", "line_no", "part_number", "name", "quantity", "unit_cost")

	hasParts := false
	for _, quote := range quotes {
		quotesQ = quotesQ.Values(quote.QuoteID, docID, quote.QuoteNo, quote.Name, quote.InvoiceID)
		for i, part := range quote.Parts {
			hasParts = true
			partsQ = partsQ.Values(
				quote.QuoteID, docID, i+1,
				part.PartNumber, part.Name, part.Quantity, part.UnitCost,
			)
		}
	}

	sql, args, err := quotesQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert quotes: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert quotes: %w", err)
	}

	if !hasParts {
		return nil
	}

	sql, args, err = partsQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert parts: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert parts: %w", err)
	}

	return nil
}

// List retrieves kitted jobs with filtering.
func (r *KittedJobRepo) List(ctx context.Context, filter kitted_job.ListFilter) (domain.ListResult[*kitted_job.KittedJob], error) {
	result := domain.ListResult[*kitted_job.KittedJob]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"status": kitted_job.StatusActive})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"customer_name": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "number DESC"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}

// Ensure interface compliance.
var _ kitted_job.Repository = (*KittedJobRepo)(nil)
