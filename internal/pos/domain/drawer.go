package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Drawer event kinds
const (
	EventOpen       = "open"
	EventClose      = "close"
	EventShiftClose = "shift_close"
)

var (
	ErrDrawerAlreadyOpen = errors.New("cash drawer is already open")
	ErrDrawerNotOpen     = errors.New("cash drawer is not open")
	ErrEventNotFound     = errors.New("drawer event not found")
)

// DrawerEvent is one row of the append-only cash drawer history. Amount is
// the opening float on open events and the counted cash on close events.
type DrawerEvent struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Kind      string          `json:"kind" gorm:"not null;size:20;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	Note      string          `json:"note"`
	UserID    uuid.UUID       `json:"user_id" gorm:"type:uuid;not null"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (DrawerEvent) TableName() string {
	return "drawer_events"
}

// Opens reports whether this event leaves the drawer open
func (e *DrawerEvent) Opens() bool {
	return e.Kind == EventOpen
}

// DrawerEventRepository defines the contract for drawer event data access
type DrawerEventRepository interface {
	Create(ctx context.Context, event *DrawerEvent) error
	FindLast(ctx context.Context) (*DrawerEvent, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]DrawerEvent, error)
	FindAll(ctx context.Context, limit, offset int) ([]DrawerEvent, error)
}
