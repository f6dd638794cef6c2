package ledger_repo

import (
	"context"
	"encoding/json"
	"fmt"

	"integratorpro/internal/core/id"
	"integratorpro/internal/domain/ledger"
	"integratorpro/internal/infrastructure/storage/postgres"
)

// AuditSink adapts the shared audit service to the ledger's append-only
// adjustment contract.
type AuditSink struct {
	audit *postgres.AuditService
}

// NewAuditSink creates a ledger audit sink.
func NewAuditSink(audit *postgres.AuditService) *AuditSink {
	return &AuditSink{audit: audit}
}

// RecordAdjustment appends one audit entry for a count adjustment.
func (s *AuditSink) RecordAdjustment(ctx context.Context, itemID id.ID, adj ledger.Adjustment) error {
	changes, err := json.Marshal(adj)
	if err != nil {
		return fmt.Errorf("marshal adjustment: %w", err)
	}

	return s.audit.Log(ctx, postgres.AuditEntry{
		EntityType: "stock_record",
		EntityID:   itemID,
		Action:     postgres.AuditActionAdjust,
		UserID:     adj.Actor,
		Changes:    changes,
		CreatedAt:  adj.Timestamp,
	})
}

// Ensure interface compliance.
var _ ledger.AuditSink = (*AuditSink)(nil)
