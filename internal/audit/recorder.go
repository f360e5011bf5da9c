package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/audit/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// Recorder receives fire-and-forget records of successful business
// mutations. Insert failures are logged and never fail the caller.
type Recorder interface {
	Record(ctx context.Context, entity, action string, userID *uuid.UUID, changes map[string]interface{})
}

// DBRecorder writes audit records through the audit repository
type DBRecorder struct {
	repo domain.AuditRepository
}

// NewDBRecorder creates a database-backed audit recorder
func NewDBRecorder(repo domain.AuditRepository) *DBRecorder {
	return &DBRecorder{repo: repo}
}

func (r *DBRecorder) Record(ctx context.Context, entity, action string, userID *uuid.UUID, changes map[string]interface{}) {
	payload, err := json.Marshal(changes)
	if err != nil {
		payload = []byte("{}")
	}

	log := &domain.AuditLog{
		Entity:  entity,
		Action:  action,
		UserID:  userID,
		Changes: string(payload),
	}

	// Detached from the request context so a cancelled request still leaves
	// its audit trail for the mutation that already committed.
	go func() {
		if err := r.repo.Insert(context.Background(), log); err != nil {
			logger.Logger.Warn().
				Err(err).
				Str("entity", entity).
				Str("action", action).
				Msg("Failed to write audit log")
		}
	}()
}

// NopRecorder discards all records, used when auditing is disabled and in
// tests
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, string, string, *uuid.UUID, map[string]interface{}) {}
