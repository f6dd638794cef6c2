package invoice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/numerator"
	"integratorpro/internal/core/types"
	"integratorpro/internal/domain"
	"integratorpro/internal/domain/documents/kitted_job"
)

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs  map[id.ID]*Invoice
	lines map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*Invoice),
		lines: make(map[id.ID][]Line),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *Invoice) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *fakeRepo) Update(ctx context.Context, doc *Invoice) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("invoice", doc.ID.String())
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, docID id.ID) error {
	if _, ok := r.docs[docID]; !ok {
		return apperror.NewNotFound("invoice", docID.String())
	}
	delete(r.docs, docID)
	return nil
}

func (r *fakeRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return append([]Line(nil), r.lines[docID]...), nil
}

func (r *fakeRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	r.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	var result domain.ListResult[*Invoice]
	for _, doc := range r.docs {
		if filter.UnpaidOnly && doc.Status != StatusSent && doc.Status != StatusOverdue {
			continue
		}
		if filter.DueBefore != nil && (doc.DueDate == nil || !doc.DueDate.Before(*filter.DueBefore)) {
			continue
		}
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error) {
	return r.GetByID(ctx, docID)
}

func newService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	n := 0
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			n++
			return fmt.Sprintf("INV-%d-%03d", period.Year(), n), nil
		},
	}
	return NewService(repo, gen, &fakeTxManager{}), repo
}

func sampleSnapshot() kitted_job.InvoiceSnapshot {
	return kitted_job.InvoiceSnapshot{
		CustomerName: "Acme Corporation",
		JobNumber:    "JOB-2026-001",
		LineItems: []kitted_job.InvoiceLine{
			{PartNumber: "SPK-001", Name: "Ceiling Speaker", Quantity: 2, UnitPrice: types.MustMoney("129.99")},
			{PartNumber: "CBL-014", Name: "HDMI Cable", Quantity: 5, UnitPrice: types.MustMoney("12.00")},
		},
		TotalAmount:   types.MustMoney("319.98"),
		SourceQuoteID: id.New(),
	}
}

func TestCreateInvoice_FromQuoteSnapshot(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	snapshot := sampleSnapshot()
	invoiceID, err := svc.CreateInvoice(ctx, snapshot)
	require.NoError(t, err)
	require.False(t, id.IsNil(invoiceID))

	inv, err := svc.GetByID(ctx, invoiceID)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, inv.Status)
	assert.Equal(t, "Acme Corporation", inv.CustomerName)
	assert.Equal(t, "JOB-2026-001", inv.JobNumber)
	require.NotNil(t, inv.SourceQuoteID)
	assert.Equal(t, snapshot.SourceQuoteID, *inv.SourceQuoteID)
	assert.Contains(t, inv.Number, "INV-")

	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "Ceiling Speaker", inv.Lines[0].Name)
	assert.Equal(t, types.Quantity(2), inv.Lines[0].Quantity)
	// Total is recomputed from lines, matching the snapshot.
	assert.True(t, inv.TotalAmount.Equal(snapshot.TotalAmount),
		"expected %s, got %s", snapshot.TotalAmount, inv.TotalAmount)
}

func TestSend_StampsDueDate(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	invoiceID, err := svc.CreateInvoice(ctx, sampleSnapshot())
	require.NoError(t, err)

	require.NoError(t, svc.Send(ctx, invoiceID, nil))

	inv := repo.docs[invoiceID]
	assert.Equal(t, StatusSent, inv.Status)
	require.NotNil(t, inv.DueDate)
	assert.WithinDuration(t, time.Now().UTC().Add(DefaultPaymentTerm), *inv.DueDate, time.Minute)

	// Re-sending is not allowed.
	err = svc.Send(ctx, invoiceID, nil)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

func TestMarkPaid_OnlySentOrOverdue(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	invoiceID, err := svc.CreateInvoice(ctx, sampleSnapshot())
	require.NoError(t, err)

	// Draft invoices cannot be paid.
	err = svc.MarkPaid(ctx, invoiceID)
	require.Error(t, err)

	require.NoError(t, svc.Send(ctx, invoiceID, nil))
	require.NoError(t, svc.MarkPaid(ctx, invoiceID))

	inv := repo.docs[invoiceID]
	assert.Equal(t, StatusPaid, inv.Status)
	assert.NotNil(t, inv.PaidAt)

	// Paying twice is rejected.
	require.Error(t, svc.MarkPaid(ctx, invoiceID))
}

func TestMarkOverdue_FlipsPastDueInvoices(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	invoiceID, err := svc.CreateInvoice(ctx, sampleSnapshot())
	require.NoError(t, err)

	past := time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, svc.Send(ctx, invoiceID, &past))

	flipped, err := svc.MarkOverdue(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, flipped)
	assert.Equal(t, StatusOverdue, repo.docs[invoiceID].Status)

	// Overdue invoices can still be paid.
	require.NoError(t, svc.MarkPaid(ctx, invoiceID))
}

func TestDelete_OnlyDrafts(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	invoiceID, err := svc.CreateInvoice(ctx, sampleSnapshot())
	require.NoError(t, err)
	require.NoError(t, svc.Send(ctx, invoiceID, nil))

	err = svc.Delete(ctx, invoiceID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}
