package purchase_order

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
	"integratorpro/internal/domain/ledger"
)

// --- Fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs  map[id.ID]*PurchaseOrder
	lines map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*PurchaseOrder),
		lines: make(map[id.ID][]Line),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *PurchaseOrder) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", number)
}

func (r *fakeRepo) Update(ctx context.Context, doc *PurchaseOrder) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("purchase order", doc.ID.String())
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, docID id.ID) error {
	if _, ok := r.docs[docID]; !ok {
		return apperror.NewNotFound("purchase order", docID.String())
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

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	var result domain.ListResult[*PurchaseOrder]
	for _, doc := range r.docs {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	return r.GetByID(ctx, docID)
}

type receiveCall struct {
	partNumber string
	qty        types.Quantity
	unitCost   types.Money
	recorder   *ledger.Recorder
}

type fakeStock struct {
	calls []receiveCall
	fail  error
}

func (s *fakeStock) Receive(ctx context.Context, partNumber string, qty types.Quantity, unitCost types.Money, rec *ledger.Recorder) error {
	if s.fail != nil {
		return s.fail
	}
	s.calls = append(s.calls, receiveCall{partNumber, qty, unitCost, rec})
	return nil
}

func sequentialNumerator() *numerator.MockGenerator {
	n := 0
	return &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			n++
			return fmt.Sprintf("PO-%03d", n), nil
		},
	}
}

type harness struct {
	svc   *Service
	repo  *fakeRepo
	stock *fakeStock
}

func newHarness() *harness {
	repo := newFakeRepo()
	stock := &fakeStock{}
	return &harness{
		svc:   NewService(repo, stock, sequentialNumerator(), &fakeTxManager{}),
		repo:  repo,
		stock: stock,
	}
}

func (h *harness) createOrder(t *testing.T, lines ...Line) *PurchaseOrder {
	t.Helper()
	po := NewPurchaseOrder(id.New())
	for _, l := range lines {
		po.AddLine(l.PartNumber, l.Description, l.QuantityOrdered, l.UnitCost)
	}
	require.NoError(t, h.svc.Create(context.Background(), po))
	return po
}

// --- Creation and numbering ---

func TestCreate_AssignsSequentialNumbers(t *testing.T) {
	h := newHarness()

	first := h.createOrder(t, Line{PartNumber: "SPK-001", QuantityOrdered: 2, UnitCost: types.MustMoney("10")})
	second := h.createOrder(t)

	assert.Equal(t, "PO-001", first.Number)
	assert.Equal(t, "PO-002", second.Number)
	assert.Equal(t, StatusDraft, first.Status)
}

func TestCreate_TotalAmountDerivedFromLines(t *testing.T) {
	h := newHarness()

	po := h.createOrder(t,
		Line{PartNumber: "SPK-001", QuantityOrdered: 2, UnitCost: types.MustMoney("100.50")},
		Line{PartNumber: "CBL-014", QuantityOrdered: 10, UnitCost: types.MustMoney("3.25")},
	)

	assert.True(t, po.TotalAmount.Equal(types.MustMoney("233.50")),
		"expected 233.50, got %s", po.TotalAmount)
}

func TestCreate_RequiresVendor(t *testing.T) {
	h := newHarness()

	po := NewPurchaseOrder(id.Nil())
	err := h.svc.Create(context.Background(), po)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

// --- Line editing ---

func TestLineEditing_OnlyInDraftOrSent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	po := h.createOrder(t, Line{PartNumber: "SPK-001", QuantityOrdered: 2, UnitCost: types.MustMoney("10")})

	// draft: allowed
	updated, err := h.svc.AddLine(ctx, po.ID, "CBL-014", "HDMI cable", 5, types.MustMoney("4"))
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 2)

	// sent: still allowed
	require.NoError(t, h.svc.Send(ctx, po.ID))
	updated, err = h.svc.UpdateLine(ctx, po.ID, updated.Lines[1].LineID, 6, types.MustMoney("4"))
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(6), updated.Lines[1].QuantityOrdered)

	// cancelled: frozen
	require.NoError(t, h.svc.Cancel(ctx, po.ID))
	_, err = h.svc.AddLine(ctx, po.ID, "AMP-300", "", 1, types.MustMoney("900"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

func TestRemoveLine_RecalculatesTotal(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	po := h.createOrder(t,
		Line{PartNumber: "SPK-001", QuantityOrdered: 2, UnitCost: types.MustMoney("100")},
		Line{PartNumber: "CBL-014", QuantityOrdered: 10, UnitCost: types.MustMoney("3")},
	)

	updated, err := h.svc.RemoveLine(ctx, po.ID, po.Lines[1].LineID)
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 1)
	assert.Equal(t, 1, updated.Lines[0].LineNo)
	assert.True(t, updated.TotalAmount.Equal(types.MustMoney("200")))
}

// --- State machine ---

func TestSend_OnlyFromDraft(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	po := h.createOrder(t, Line{PartNumber: "SPK-001", QuantityOrdered: 1, UnitCost: types.MustMoney("10")})

	require.NoError(t, h.svc.Send(ctx, po.ID))

	err := h.svc.Send(ctx, po.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

func TestCancel_IsTerminal(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	po := h.createOrder(t, Line{PartNumber: "SPK-001", QuantityOrdered: 1, UnitCost: types.MustMoney("10")})
	require.NoError(t, h.svc.Cancel(ctx, po.ID))

	assert.Error(t, h.svc.Send(ctx, po.ID))
	assert.Error(t, h.svc.Cancel(ctx, po.ID))

	_, err := h.svc.BeginReceiving(ctx, po.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

// --- Receiving ---

func TestReceivingSession_BoundsQuantity(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	po := h.createOrder(t, Line{PartNumber: "SPK-001", QuantityOrdered: 2, UnitCost: types.MustMoney("10")})

	session, err := h.svc.BeginReceiving(ctx, po.ID)
	require.NoError(t, err)

	lineID := po.Lines[0].LineID
	assert.Error(t, session.RecordReceipt(lineID, -1))
	assert.Error(t, session.RecordReceipt(lineID, 3))
	assert.Error(t, session.RecordReceipt(id.New(), 1))

	require.NoError(t, session.RecordReceipt(lineID, 2))
	// Entries can be corrected before commit.
	require.NoError(t, session.RecordReceipt(lineID, 1))
	assert.Equal(t, types.Quantity(1), session.Quantity(lineID))
}

func TestCommitReceiving_PartialKeepsOrderOpen(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	cost := types.MustMoney("10")
	po := h.createOrder(t, Line{PartNumber: "SPK-001", QuantityOrdered: 2, UnitCost: cost})
	require.NoError(t, h.svc.Send(ctx, po.ID))

	// First session receives 1 of 2: stock moves, order stays open.
	session, err := h.svc.BeginReceiving(ctx, po.ID)
	require.NoError(t, err)
	require.NoError(t, session.RecordReceipt(po.Lines[0].LineID, 1))

	updated, err := h.svc.CommitReceiving(ctx, po.ID, session)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, updated.Status)
	assert.Equal(t, types.Quantity(1), updated.Lines[0].QuantityReceived)

	require.Len(t, h.stock.calls, 1)
	call := h.stock.calls[0]
	assert.Equal(t, "SPK-001", call.partNumber)
	assert.Equal(t, types.Quantity(1), call.qty)
	assert.True(t, call.unitCost.Equal(cost))
	require.NotNil(t, call.recorder)
	assert.Equal(t, ledger.RecorderPurchaseOrder, call.recorder.Type)

	// Second session receives the remaining unit: order closes.
	session, err = h.svc.BeginReceiving(ctx, po.ID)
	require.NoError(t, err)
	require.NoError(t, session.RecordReceipt(updated.Lines[0].LineID, 1))

	updated, err = h.svc.CommitReceiving(ctx, po.ID, session)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, updated.Status)
	assert.Equal(t, types.Quantity(2), updated.Lines[0].QuantityReceived)
	assert.Len(t, h.stock.calls, 2)
}

func TestCommitReceiving_ReceivedIffAllLinesFulfilled(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	po := h.createOrder(t,
		Line{PartNumber: "SPK-001", QuantityOrdered: 2, UnitCost: types.MustMoney("10")},
		Line{PartNumber: "CBL-014", QuantityOrdered: 5, UnitCost: types.MustMoney("3")},
	)

	session, err := h.svc.BeginReceiving(ctx, po.ID)
	require.NoError(t, err)
	require.NoError(t, session.RecordReceipt(po.Lines[0].LineID, 2))
	// Second line untouched: order must stay open.

	updated, err := h.svc.CommitReceiving(ctx, po.ID, session)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, updated.Status)
	assert.True(t, updated.Lines[0].IsFulfilled())
	assert.False(t, updated.Lines[1].IsFulfilled())
}

func TestCommitReceiving_StockFailureRollsBack(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	po := h.createOrder(t, Line{PartNumber: "SPK-001", QuantityOrdered: 2, UnitCost: types.MustMoney("10")})

	session, err := h.svc.BeginReceiving(ctx, po.ID)
	require.NoError(t, err)
	require.NoError(t, session.RecordReceipt(po.Lines[0].LineID, 1))

	h.stock.fail = apperror.NewInternal(fmt.Errorf("storage down"))
	_, err = h.svc.CommitReceiving(ctx, po.ID, session)
	require.Error(t, err)
}

func TestCommitReceiving_SessionMustMatchOrder(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	po := h.createOrder(t, Line{PartNumber: "SPK-001", QuantityOrdered: 1, UnitCost: types.MustMoney("10")})
	other := h.createOrder(t, Line{PartNumber: "CBL-014", QuantityOrdered: 1, UnitCost: types.MustMoney("3")})

	session, err := h.svc.BeginReceiving(ctx, other.ID)
	require.NoError(t, err)

	_, err = h.svc.CommitReceiving(ctx, po.ID, session)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

// --- Deletion ---

func TestDelete_ReceivedOrdersAreKept(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	po := h.createOrder(t, Line{PartNumber: "SPK-001", QuantityOrdered: 1, UnitCost: types.MustMoney("10")})

	session, err := h.svc.BeginReceiving(ctx, po.ID)
	require.NoError(t, err)
	require.NoError(t, session.RecordReceipt(po.Lines[0].LineID, 1))
	_, err = h.svc.CommitReceiving(ctx, po.ID, session)
	require.NoError(t, err)

	err = h.svc.Delete(ctx, po.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}
