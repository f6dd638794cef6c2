package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"integratorpro/internal/core/apperror"
	appctx "integratorpro/internal/core/context"
	"integratorpro/internal/core/entity"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
	"integratorpro/internal/domain/catalogs/item"
)

// --- Fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCatalog struct {
	items map[string]*item.Item
}

func newFakeCatalog(items ...*item.Item) *fakeCatalog {
	c := &fakeCatalog{items: make(map[string]*item.Item)}
	for _, it := range items {
		c.items[it.PartNumber] = it
	}
	return c
}

func (c *fakeCatalog) FindByPartNumber(ctx context.Context, partNumber string) (*item.Item, error) {
	it, ok := c.items[partNumber]
	if !ok {
		return nil, apperror.NewNotFound("item", partNumber)
	}
	return it, nil
}

func (c *fakeCatalog) Create(ctx context.Context, it *item.Item) error {
	c.items[it.PartNumber] = it
	return nil
}

type fakeRepo struct {
	catalog   *fakeCatalog
	records   map[string]StockRecord
	movements []entity.StockMovement
}

func newFakeRepo(catalog *fakeCatalog) *fakeRepo {
	return &fakeRepo{
		catalog: catalog,
		records: make(map[string]StockRecord),
	}
}

func (r *fakeRepo) GetRecord(ctx context.Context, partNumber string) (StockRecord, error) {
	if rec, ok := r.records[partNumber]; ok {
		return rec, nil
	}
	return StockRecord{PartNumber: partNumber}, nil
}

func (r *fakeRepo) GetRecordForUpdate(ctx context.Context, partNumber string) (StockRecord, error) {
	return r.GetRecord(ctx, partNumber)
}

func (r *fakeRepo) SaveRecord(ctx context.Context, rec StockRecord) error {
	r.records[rec.PartNumber] = rec
	return nil
}

func (r *fakeRepo) GetStock(ctx context.Context, partNumber string) (StockInfo, error) {
	it, ok := r.catalog.items[partNumber]
	if !ok {
		return StockInfo{}, apperror.NewNotFound("item", partNumber)
	}
	rec, _ := r.GetRecord(ctx, partNumber)
	return StockInfo{
		StockRecord: rec,
		Name:        it.Name,
		MinStock:    it.MinStock,
		MaxStock:    it.MaxStock,
	}, nil
}

func (r *fakeRepo) ListStock(ctx context.Context, filter StockFilter) ([]StockInfo, error) {
	var infos []StockInfo
	for pn := range r.catalog.items {
		info, err := r.GetStock(ctx, pn)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (r *fakeRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeRepo) GetMovementHistory(ctx context.Context, partNumber string, filter MovementFilter) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.PartNumber == partNumber {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeAudit struct {
	entries []Adjustment
}

func (a *fakeAudit) RecordAdjustment(ctx context.Context, itemID id.ID, adj Adjustment) error {
	a.entries = append(a.entries, adj)
	return nil
}

// --- Harness ---

type harness struct {
	svc     *Service
	repo    *fakeRepo
	catalog *fakeCatalog
	audit   *fakeAudit
}

func newHarness(items ...*item.Item) *harness {
	catalog := newFakeCatalog(items...)
	repo := newFakeRepo(catalog)
	audit := &fakeAudit{}
	return &harness{
		svc:     NewService(repo, catalog, audit, &fakeTxManager{}),
		repo:    repo,
		catalog: catalog,
		audit:   audit,
	}
}

func (h *harness) seedStock(partNumber string, warehouse, truck, allocated types.Quantity) {
	h.repo.records[partNumber] = StockRecord{
		PartNumber:   partNumber,
		WarehouseQty: warehouse,
		TruckQty:     truck,
		AllocatedQty: allocated,
	}
}

func testItem(partNumber string, minStock, maxStock types.Quantity) *item.Item {
	it := item.NewItem(partNumber, partNumber)
	it.MinStock = minStock
	it.MaxStock = maxStock
	return it
}

func adminCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:  "u-admin",
		Email:   "admin@integratorpro.com",
		Roles:   []string{"admin"},
		IsAdmin: true,
	})
}

func techCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: "u-tech",
		Email:  "tech@integratorpro.com",
		Roles:  []string{"tech"},
	})
}

// --- Status derivation ---

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name     string
		total    types.Quantity
		minStock types.Quantity
		maxStock types.Quantity
		want     Status
	}{
		{"zero is out of stock", 0, 5, 100, StatusOutOfStock},
		{"zero with zero min", 0, 0, 0, StatusOutOfStock},
		{"below min", 3, 5, 100, StatusLowStock},
		{"at min boundary", 10, 10, 100, StatusLowStock},
		{"just above min", 11, 10, 100, StatusInStock},
		{"at max boundary", 100, 5, 100, StatusOverstocked},
		{"above max", 150, 5, 100, StatusOverstocked},
		{"unbounded never overstocked", 1000000, 5, 0, StatusInStock},
		{"normal range", 50, 5, 100, StatusInStock},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DeriveStatus(c.total, c.minStock, c.maxStock))
		})
	}
}

// --- MoveStock ---

func TestMoveStock_Conservation(t *testing.T) {
	h := newHarness(testItem("SPK-001", 5, 100))
	h.seedStock("SPK-001", 45, 12, 0)
	ctx := techCtx()

	require.NoError(t, h.svc.MoveStock(ctx, "SPK-001", entity.PoolWarehouse, entity.PoolTruck, 20))

	rec, _ := h.repo.GetRecord(ctx, "SPK-001")
	assert.Equal(t, types.Quantity(25), rec.WarehouseQty)
	assert.Equal(t, types.Quantity(32), rec.TruckQty)
	assert.Equal(t, types.Quantity(57), rec.TotalStock())

	require.NoError(t, h.svc.MoveStock(ctx, "SPK-001", entity.PoolTruck, entity.PoolWarehouse, 32))

	rec, _ = h.repo.GetRecord(ctx, "SPK-001")
	assert.Equal(t, types.Quantity(57), rec.WarehouseQty)
	assert.Equal(t, types.Quantity(0), rec.TruckQty)
	assert.Equal(t, types.Quantity(57), rec.TotalStock(), "moving never creates or destroys units")
}

func TestMoveStock_InsufficientLeavesStateUnchanged(t *testing.T) {
	h := newHarness(testItem("SPK-001", 5, 100))
	h.seedStock("SPK-001", 45, 12, 0)

	err := h.svc.MoveStock(techCtx(), "SPK-001", entity.PoolWarehouse, entity.PoolTruck, 50)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	rec, _ := h.repo.GetRecord(context.Background(), "SPK-001")
	assert.Equal(t, types.Quantity(45), rec.WarehouseQty)
	assert.Equal(t, types.Quantity(12), rec.TruckQty)
	assert.Empty(t, h.repo.movements)
}

func TestMoveStock_SamePoolRejected(t *testing.T) {
	h := newHarness(testItem("SPK-001", 5, 100))
	h.seedStock("SPK-001", 45, 12, 0)

	err := h.svc.MoveStock(techCtx(), "SPK-001", entity.PoolWarehouse, entity.PoolWarehouse, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestMoveStock_UnknownPart(t *testing.T) {
	h := newHarness()

	err := h.svc.MoveStock(techCtx(), "NOPE-001", entity.PoolWarehouse, entity.PoolTruck, 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestMoveStock_NonPositiveQuantity(t *testing.T) {
	h := newHarness(testItem("SPK-001", 5, 100))

	err := h.svc.MoveStock(techCtx(), "SPK-001", entity.PoolWarehouse, entity.PoolTruck, 0)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

// --- Allocate / Release ---

func TestAllocateRelease_AreInverses(t *testing.T) {
	h := newHarness(testItem("CTRL-001", 5, 100))
	h.seedStock("CTRL-001", 30, 0, 0)
	ctx := techCtx()

	require.NoError(t, h.svc.Allocate(ctx, "CTRL-001", 10, nil))

	rec, _ := h.repo.GetRecord(ctx, "CTRL-001")
	assert.Equal(t, types.Quantity(20), rec.WarehouseQty)
	assert.Equal(t, types.Quantity(10), rec.AllocatedQty)

	require.NoError(t, h.svc.Release(ctx, "CTRL-001", 10, nil))

	rec, _ = h.repo.GetRecord(ctx, "CTRL-001")
	assert.Equal(t, types.Quantity(30), rec.WarehouseQty)
	assert.Equal(t, types.Quantity(0), rec.AllocatedQty)
}

func TestAllocate_InsufficientStock(t *testing.T) {
	h := newHarness(testItem("CTRL-001", 5, 100))
	h.seedStock("CTRL-001", 3, 0, 0)

	err := h.svc.Allocate(techCtx(), "CTRL-001", 5, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	rec, _ := h.repo.GetRecord(context.Background(), "CTRL-001")
	assert.Equal(t, types.Quantity(3), rec.WarehouseQty)
	assert.Equal(t, types.Quantity(0), rec.AllocatedQty)
}

func TestRelease_MoreThanAllocated(t *testing.T) {
	h := newHarness(testItem("CTRL-001", 5, 100))
	h.seedStock("CTRL-001", 10, 0, 4)

	err := h.svc.Release(techCtx(), "CTRL-001", 5, nil)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

func TestAllocate_RecordsRecorder(t *testing.T) {
	h := newHarness(testItem("CTRL-001", 5, 100))
	h.seedStock("CTRL-001", 30, 0, 0)

	jobID := id.New()
	require.NoError(t, h.svc.Allocate(techCtx(), "CTRL-001", 5, &Recorder{ID: jobID, Type: RecorderKittedJob}))

	require.Len(t, h.repo.movements, 1)
	m := h.repo.movements[0]
	assert.Equal(t, entity.MovementAllocation, m.Kind)
	require.NotNil(t, m.RecorderID)
	assert.Equal(t, jobID, *m.RecorderID)
	assert.Equal(t, RecorderKittedJob, m.RecorderType)
}

// --- Receive ---

func TestReceive_IncrementsWarehouse(t *testing.T) {
	h := newHarness(testItem("SPK-001", 10, 100))
	h.seedStock("SPK-001", 10, 0, 0)
	ctx := techCtx()

	// minStock=10, totalStock=10 is Low Stock; one more unit flips it.
	info, err := h.svc.GetStock(ctx, "SPK-001")
	require.NoError(t, err)
	assert.Equal(t, StatusLowStock, info.Status)

	require.NoError(t, h.svc.Receive(ctx, "SPK-001", 1, types.Zero(), nil))

	info, err = h.svc.GetStock(ctx, "SPK-001")
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(11), info.TotalStock())
	assert.Equal(t, StatusInStock, info.Status)
}

func TestReceive_AutoCreatesUnknownItem(t *testing.T) {
	h := newHarness()
	ctx := techCtx()

	cost := types.MustMoney("12.50")
	require.NoError(t, h.svc.Receive(ctx, "NEW-100", 4, cost, nil))

	it, err := h.catalog.FindByPartNumber(ctx, "NEW-100")
	require.NoError(t, err)
	assert.Equal(t, item.DefaultMinStock, it.MinStock)
	assert.Equal(t, item.DefaultMaxStock, it.MaxStock)
	assert.True(t, it.Cost.Equal(cost))

	rec, _ := h.repo.GetRecord(ctx, "NEW-100")
	assert.Equal(t, types.Quantity(4), rec.WarehouseQty)
}

// --- AdjustCount ---

func TestAdjustCount_RequiresAdmin(t *testing.T) {
	h := newHarness(testItem("SPK-001", 5, 100))
	h.seedStock("SPK-001", 45, 0, 0)

	err := h.svc.AdjustCount(techCtx(), "SPK-001", 50, "cycle count")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
	assert.Empty(t, h.audit.entries)
}

func TestAdjustCount_EmptyReason(t *testing.T) {
	h := newHarness(testItem("SPK-001", 5, 100))
	h.seedStock("SPK-001", 45, 0, 0)

	err := h.svc.AdjustCount(adminCtx(), "SPK-001", 50, "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestAdjustCount_AppendsAuditRecord(t *testing.T) {
	h := newHarness(testItem("SPK-001", 5, 100))
	h.seedStock("SPK-001", 45, 0, 0)

	require.NoError(t, h.svc.AdjustCount(adminCtx(), "SPK-001", 50, "cycle count"))

	rec, _ := h.repo.GetRecord(context.Background(), "SPK-001")
	assert.Equal(t, types.Quantity(50), rec.WarehouseQty)

	require.Len(t, h.audit.entries, 1)
	adj := h.audit.entries[0]
	assert.Equal(t, "admin@integratorpro.com", adj.Actor)
	assert.Equal(t, "SPK-001", adj.PartNumber)
	assert.Equal(t, types.Quantity(45), adj.OldCount)
	assert.Equal(t, types.Quantity(50), adj.NewCount)
	assert.Equal(t, "cycle count", adj.Reason)
	assert.False(t, adj.Timestamp.IsZero())
}

func TestAdjustCount_NegativeCount(t *testing.T) {
	h := newHarness(testItem("SPK-001", 5, 100))

	err := h.svc.AdjustCount(adminCtx(), "SPK-001", -1, "recount")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
