package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit actions
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionAccess = "ACCESS"
)

// AuditLog is an append-only record of what changed and who changed it
type AuditLog struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Entity    string     `json:"entity" gorm:"not null;size:50;index"`
	Action    string     `json:"action" gorm:"not null;size:10"`
	UserID    *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Changes   string     `json:"changes" gorm:"not null;default:'{}'"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditRepository defines the contract for audit log data access
type AuditRepository interface {
	Insert(ctx context.Context, log *AuditLog) error
	FindAll(ctx context.Context, entity string, limit, offset int) ([]AuditLog, error)
}
