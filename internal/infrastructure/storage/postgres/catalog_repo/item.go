package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/domain"
	"integratorpro/internal/domain/catalogs/item"
	"integratorpro/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*item.Item](
			txManager,
			itemTable,
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return &item.Item{} },
		),
	}
}

// FindByPartNumber retrieves an item by its exact part number.
func (r *ItemRepo) FindByPartNumber(ctx context.Context, partNumber string) (*item.Item, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"part_number": partNumber}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	it, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", partNumber)
		}
		return nil, err
	}
	return it, nil
}

// Search performs a case-insensitive substring match over part number, name,
// description, manufacturer, and tags, intersected with equality filters.
func (r *ItemRepo) Search(ctx context.Context, query string, filters item.SearchFilters, listFilter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	result := domain.ListResult[*item.Item]{
		Limit:  listFilter.Limit,
		Offset: listFilter.Offset,
	}

	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"deletion_mark": false})

	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"part_number": pattern},
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"manufacturer": pattern},
			squirrel.Expr("array_to_string(tags, ' ') ILIKE ?", pattern),
		})
	}

	if filters.Category != "" {
		q = q.Where(squirrel.Eq{"category": filters.Category})
	}
	if filters.Manufacturer != "" {
		q = q.Where(squirrel.Eq{"manufacturer": filters.Manufacturer})
	}
	if filters.VendorID != nil {
		q = q.Where(squirrel.Eq{"vendor_id": *filters.VendorID})
	}
	if len(filters.Tags) > 0 {
		q = q.Where(squirrel.Expr("tags @> ?", filters.Tags))
	}

	// Count total (before pagination)
	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("part_number ASC")
	if listFilter.Limit > 0 {
		q = q.Limit(uint64(listFilter.Limit))
	}
	if listFilter.Offset > 0 {
		q = q.Offset(uint64(listFilter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("search items: %w", err)
	}

	return result, nil
}
