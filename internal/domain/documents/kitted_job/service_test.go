package kitted_job

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
	"integratorpro/internal/domain/catalogs/item"
	"integratorpro/internal/domain/ledger"
)

// --- Fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs   map[id.ID]*KittedJob
	quotes map[id.ID][]Quote
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:   make(map[id.ID]*KittedJob),
		quotes: make(map[id.ID][]Quote),
	}
}

func copyQuotes(quotes []Quote) []Quote {
	out := make([]Quote, len(quotes))
	for i, q := range quotes {
		out[i] = q
		out[i].Parts = append([]JobPart(nil), q.Parts...)
	}
	return out
}

func (r *fakeRepo) Create(ctx context.Context, doc *KittedJob) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*KittedJob, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("kitted job", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*KittedJob, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("kitted job", number)
}

func (r *fakeRepo) Update(ctx context.Context, doc *KittedJob) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("kitted job", doc.ID.String())
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, docID id.ID) error {
	if _, ok := r.docs[docID]; !ok {
		return apperror.NewNotFound("kitted job", docID.String())
	}
	delete(r.docs, docID)
	return nil
}

func (r *fakeRepo) GetQuotes(ctx context.Context, docID id.ID) ([]Quote, error) {
	return copyQuotes(r.quotes[docID]), nil
}

func (r *fakeRepo) SaveQuotes(ctx context.Context, docID id.ID, quotes []Quote) error {
	r.quotes[docID] = copyQuotes(quotes)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*KittedJob], error) {
	var result domain.ListResult[*KittedJob]
	for _, doc := range r.docs {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*KittedJob, error) {
	return r.GetByID(ctx, docID)
}

// fakeStock keeps per-part warehouse and allocated counters so allocation
// failures behave like the real ledger.
type fakeStock struct {
	warehouse map[string]types.Quantity
	allocated map[string]types.Quantity
	recorders []*ledger.Recorder
}

func newFakeStock() *fakeStock {
	return &fakeStock{
		warehouse: make(map[string]types.Quantity),
		allocated: make(map[string]types.Quantity),
	}
}

func (s *fakeStock) Allocate(ctx context.Context, partNumber string, qty types.Quantity, rec *ledger.Recorder) error {
	if qty > s.warehouse[partNumber] {
		return apperror.NewInsufficientStock(partNumber, int64(qty), int64(s.warehouse[partNumber]))
	}
	s.warehouse[partNumber] -= qty
	s.allocated[partNumber] += qty
	s.recorders = append(s.recorders, rec)
	return nil
}

func (s *fakeStock) Release(ctx context.Context, partNumber string, qty types.Quantity, rec *ledger.Recorder) error {
	if qty > s.allocated[partNumber] {
		return apperror.NewInvalidState(fmt.Sprintf("cannot release %d units: only %d allocated", qty, s.allocated[partNumber]))
	}
	s.allocated[partNumber] -= qty
	s.warehouse[partNumber] += qty
	s.recorders = append(s.recorders, rec)
	return nil
}

type fakeCatalog struct {
	items map[string]*item.Item
}

func (c *fakeCatalog) FindByPartNumber(ctx context.Context, partNumber string) (*item.Item, error) {
	it, ok := c.items[partNumber]
	if !ok {
		return nil, apperror.NewNotFound("item", partNumber)
	}
	return it, nil
}

type fakeBilling struct {
	snapshots []InvoiceSnapshot
	nextID    id.ID
}

func (b *fakeBilling) CreateInvoice(ctx context.Context, snapshot InvoiceSnapshot) (id.ID, error) {
	b.snapshots = append(b.snapshots, snapshot)
	return b.nextID, nil
}

type harness struct {
	svc     *Service
	repo    *fakeRepo
	stock   *fakeStock
	billing *fakeBilling
}

func newHarness() *harness {
	repo := newFakeRepo()
	stock := newFakeStock()
	billing := &fakeBilling{nextID: id.New()}

	speaker := item.NewItem("SPK-001", "Ceiling Speaker")
	speaker.Price = types.MustMoney("129.99")
	controller := item.NewItem("CTRL-001", "Control Processor")
	controller.Price = types.MustMoney("899.00")

	catalog := &fakeCatalog{items: map[string]*item.Item{
		"SPK-001":  speaker,
		"CTRL-001": controller,
	}}

	n := 0
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			n++
			return fmt.Sprintf("JOB-%d-%03d", period.Year(), n), nil
		},
	}

	return &harness{
		svc:     NewService(repo, stock, catalog, billing, gen, &fakeTxManager{}),
		repo:    repo,
		stock:   stock,
		billing: billing,
	}
}

func (h *harness) createJob(t *testing.T, customerName string) *KittedJob {
	t.Helper()
	job := NewKittedJob(customerName)
	require.NoError(t, h.svc.Create(context.Background(), job))
	return job
}

func (h *harness) createJobWithQuote(t *testing.T) (*KittedJob, id.ID) {
	t.Helper()
	job := h.createJob(t, "Acme Corporation")
	updated, err := h.svc.AddQuote(context.Background(), job.ID, "Conference Room A")
	require.NoError(t, err)
	return updated, updated.Quotes[0].QuoteID
}

// --- Creation ---

func TestCreate_NewJobIsActive(t *testing.T) {
	h := newHarness()

	job := h.createJob(t, "Acme Corporation")

	assert.Equal(t, StatusActive, job.Status)
	assert.Contains(t, job.Number, "JOB-")
	assert.True(t, job.TotalValue.IsZero())
}

func TestCreate_RequiresCustomerName(t *testing.T) {
	h := newHarness()

	err := h.svc.Create(context.Background(), NewKittedJob(""))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

// --- Part quantities and allocation ---

func TestSetPartQuantity_AllocatesDelta(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["SPK-001"] = 10

	job, quoteID := h.createJobWithQuote(t)

	updated, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 4)
	require.NoError(t, err)

	part := updated.Quotes[0].FindPart("SPK-001")
	require.NotNil(t, part)
	assert.Equal(t, types.Quantity(4), part.Quantity)
	assert.Equal(t, "Ceiling Speaker", part.Name)
	assert.True(t, part.UnitCost.Equal(types.MustMoney("129.99")))

	assert.Equal(t, types.Quantity(6), h.stock.warehouse["SPK-001"])
	assert.Equal(t, types.Quantity(4), h.stock.allocated["SPK-001"])

	// Raising the quantity only allocates the difference.
	_, err = h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 7)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(3), h.stock.warehouse["SPK-001"])
	assert.Equal(t, types.Quantity(7), h.stock.allocated["SPK-001"])
}

func TestSetPartQuantity_LoweringReleases(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["SPK-001"] = 10

	job, quoteID := h.createJobWithQuote(t)

	_, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 7)
	require.NoError(t, err)

	updated, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 2)
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(2), updated.Quotes[0].FindPart("SPK-001").Quantity)
	assert.Equal(t, types.Quantity(8), h.stock.warehouse["SPK-001"])
	assert.Equal(t, types.Quantity(2), h.stock.allocated["SPK-001"])
}

func TestSetPartQuantity_InsufficientStockLeavesJobUnchanged(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["CTRL-001"] = 3

	job, quoteID := h.createJobWithQuote(t)

	_, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "CTRL-001", 5)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing moved and the part never landed on the quote.
	assert.Equal(t, types.Quantity(3), h.stock.warehouse["CTRL-001"])
	assert.Equal(t, types.Quantity(0), h.stock.allocated["CTRL-001"])

	reloaded, err := h.svc.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Quotes[0].FindPart("CTRL-001"))
	assert.True(t, reloaded.TotalValue.IsZero())
}

func TestSetPartQuantity_UnknownPartNumber(t *testing.T) {
	h := newHarness()

	job, quoteID := h.createJobWithQuote(t)

	_, err := h.svc.SetPartQuantity(context.Background(), job.ID, quoteID, "NOPE-999", 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSetPartQuantity_NegativeQuantity(t *testing.T) {
	h := newHarness()

	job, quoteID := h.createJobWithQuote(t)

	_, err := h.svc.SetPartQuantity(context.Background(), job.ID, quoteID, "SPK-001", -1)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSetPartQuantity_RecomputesTotals(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["SPK-001"] = 10
	h.stock.warehouse["CTRL-001"] = 5

	job, quoteID := h.createJobWithQuote(t)

	_, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 2)
	require.NoError(t, err)
	updated, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "CTRL-001", 1)
	require.NoError(t, err)

	// 2 * 129.99 + 1 * 899.00
	assert.True(t, updated.TotalValue.Equal(types.MustMoney("1158.98")),
		"expected 1158.98, got %s", updated.TotalValue)
}

// --- Removal releases allocations ---

func TestRemovePart_ReleasesAllocation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["SPK-001"] = 10

	job, quoteID := h.createJobWithQuote(t)
	_, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 6)
	require.NoError(t, err)

	updated, err := h.svc.RemovePart(ctx, job.ID, quoteID, "SPK-001")
	require.NoError(t, err)

	assert.Nil(t, updated.Quotes[0].FindPart("SPK-001"))
	assert.Equal(t, types.Quantity(10), h.stock.warehouse["SPK-001"])
	assert.Equal(t, types.Quantity(0), h.stock.allocated["SPK-001"])
	assert.True(t, updated.TotalValue.IsZero())
}

func TestRemoveQuote_ReleasesAllParts(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["SPK-001"] = 10
	h.stock.warehouse["CTRL-001"] = 5

	job, quoteID := h.createJobWithQuote(t)
	_, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 4)
	require.NoError(t, err)
	_, err = h.svc.SetPartQuantity(ctx, job.ID, quoteID, "CTRL-001", 2)
	require.NoError(t, err)

	updated, err := h.svc.RemoveQuote(ctx, job.ID, quoteID)
	require.NoError(t, err)

	assert.Empty(t, updated.Quotes)
	assert.Equal(t, types.Quantity(10), h.stock.warehouse["SPK-001"])
	assert.Equal(t, types.Quantity(5), h.stock.warehouse["CTRL-001"])
	assert.True(t, updated.TotalValue.IsZero())
}

func TestAllocation_TaggedWithJobRecorder(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["SPK-001"] = 10

	job, quoteID := h.createJobWithQuote(t)
	_, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 1)
	require.NoError(t, err)

	require.Len(t, h.stock.recorders, 1)
	require.NotNil(t, h.stock.recorders[0])
	assert.Equal(t, job.ID, h.stock.recorders[0].ID)
	assert.Equal(t, ledger.RecorderKittedJob, h.stock.recorders[0].Type)
}

// --- Billing ---

func TestSendQuoteToBilling_CompletesJob(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["SPK-001"] = 10

	job, quoteID := h.createJobWithQuote(t)
	_, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 2)
	require.NoError(t, err)

	invoiceID, err := h.svc.SendQuoteToBilling(ctx, job.ID, quoteID)
	require.NoError(t, err)
	assert.Equal(t, h.billing.nextID, invoiceID)

	require.Len(t, h.billing.snapshots, 1)
	snapshot := h.billing.snapshots[0]
	assert.Equal(t, "Acme Corporation", snapshot.CustomerName)
	assert.Equal(t, job.Number, snapshot.JobNumber)
	assert.Equal(t, quoteID, snapshot.SourceQuoteID)
	require.Len(t, snapshot.LineItems, 1)
	assert.Equal(t, "SPK-001", snapshot.LineItems[0].PartNumber)
	assert.Equal(t, "Ceiling Speaker", snapshot.LineItems[0].Name)
	assert.Equal(t, types.Quantity(2), snapshot.LineItems[0].Quantity)
	assert.True(t, snapshot.TotalAmount.Equal(types.MustMoney("259.98")))

	reloaded, err := h.svc.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, reloaded.Status)
	require.NotNil(t, reloaded.Quotes[0].InvoiceID)
	assert.Equal(t, invoiceID, *reloaded.Quotes[0].InvoiceID)

	// Sending does not release the allocation.
	assert.Equal(t, types.Quantity(2), h.stock.allocated["SPK-001"])
}

func TestSendQuoteToBilling_CompletionIsIrreversible(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["SPK-001"] = 10

	job, quoteID := h.createJobWithQuote(t)
	_, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 2)
	require.NoError(t, err)

	_, err = h.svc.SendQuoteToBilling(ctx, job.ID, quoteID)
	require.NoError(t, err)

	// Completed jobs reject further edits and re-billing.
	_, err = h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 5)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)

	_, err = h.svc.SendQuoteToBilling(ctx, job.ID, quoteID)
	require.Error(t, err)
	_, err = h.svc.AddQuote(ctx, job.ID, "Second Quote")
	require.Error(t, err)
}

// --- Cancellation and deletion ---

func TestCancel_ReleasesEverything(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.stock.warehouse["SPK-001"] = 10
	h.stock.warehouse["CTRL-001"] = 5

	job, quoteID := h.createJobWithQuote(t)
	_, err := h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 3)
	require.NoError(t, err)
	_, err = h.svc.SetPartQuantity(ctx, job.ID, quoteID, "CTRL-001", 2)
	require.NoError(t, err)

	require.NoError(t, h.svc.Cancel(ctx, job.ID))

	assert.Equal(t, types.Quantity(10), h.stock.warehouse["SPK-001"])
	assert.Equal(t, types.Quantity(5), h.stock.warehouse["CTRL-001"])
	assert.Equal(t, types.Quantity(0), h.stock.allocated["SPK-001"])

	reloaded, err := h.svc.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, reloaded.Status)

	_, err = h.svc.SetPartQuantity(ctx, job.ID, quoteID, "SPK-001", 1)
	require.Error(t, err)
}

func TestDelete_ActiveJobRejected(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	job := h.createJob(t, "Acme Corporation")

	err := h.svc.Delete(ctx, job.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)

	require.NoError(t, h.svc.Cancel(ctx, job.ID))
	require.NoError(t, h.svc.Delete(ctx, job.ID))
}
