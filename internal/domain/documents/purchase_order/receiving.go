package purchase_order

import (
	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
)

// ReceivingSession is a transient working map of per-line quantities for one
// receive operation. Nothing touches stock until the session is committed;
// an abandoned session simply has no effect.
type ReceivingSession struct {
	// POID identifies the order being received against
	POID id.ID `json:"poId"`

	entries map[id.ID]*sessionEntry
}

type sessionEntry struct {
	ordered  types.Quantity
	received types.Quantity
}

// NewReceivingSession opens a session seeded with zero received quantities
// for every line of the order.
func NewReceivingSession(po *PurchaseOrder) *ReceivingSession {
	s := &ReceivingSession{
		POID:    po.ID,
		entries: make(map[id.ID]*sessionEntry, len(po.Lines)),
	}
	for _, line := range po.Lines {
		s.entries[line.LineID] = &sessionEntry{ordered: line.QuantityOrdered}
	}
	return s
}

// RecordReceipt sets the session quantity for a line. The quantity is
// constrained to 0 <= qty <= quantityOrdered; entries can be corrected any
// number of times before commit.
func (s *ReceivingSession) RecordReceipt(lineID id.ID, qty types.Quantity) error {
	entry, ok := s.entries[lineID]
	if !ok {
		return apperror.NewNotFound("purchase order line", lineID.String())
	}
	if qty < 0 {
		return apperror.NewValidation("received quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	if qty > entry.ordered {
		return apperror.NewValidation("received quantity cannot exceed ordered quantity").
			WithDetail("field", "quantity").
			WithDetail("ordered", entry.ordered)
	}
	entry.received = qty
	return nil
}

// Quantity returns the session quantity recorded for a line.
func (s *ReceivingSession) Quantity(lineID id.ID) types.Quantity {
	if entry, ok := s.entries[lineID]; ok {
		return entry.received
	}
	return 0
}

// Quantities returns a copy of the non-zero session entries.
func (s *ReceivingSession) Quantities() map[id.ID]types.Quantity {
	out := make(map[id.ID]types.Quantity, len(s.entries))
	for lineID, entry := range s.entries {
		if entry.received > 0 {
			out[lineID] = entry.received
		}
	}
	return out
}
