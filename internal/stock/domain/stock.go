package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Mutation kinds
const (
	KindIn     = "IN"
	KindOut    = "OUT"
	KindAdjust = "ADJUST"
)

// Intents for line-item application
const (
	IntentDecrease = "DECREASE"
	IntentIncrease = "INCREASE"
)

var (
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrConcurrentModification = errors.New("concurrent stock modification")
	ErrEntryNotFound          = errors.New("stock entry not found")
	ErrInvalidKind            = errors.New("invalid mutation kind")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
)

// StockEntry is one row of the append-only quantity ledger. The sum of Qty
// across a product's entries always equals that product's stock_level.
type StockEntry struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	Qty       int        `json:"qty" gorm:"not null"`
	Kind      string     `json:"kind" gorm:"not null;size:10"`
	Location  string     `json:"location" gorm:"size:100"`
	Batch     string     `json:"batch" gorm:"size:50"`
	Expiry    *time.Time `json:"expiry"`
	Ref       string     `json:"ref"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName specifies the table name
func (StockEntry) TableName() string {
	return "stock_entries"
}

// Mutation is one signed quantity change to apply to a product
type Mutation struct {
	ProductID     uuid.UUID
	Delta         int
	Kind          string
	Location      string
	Batch         string
	Expiry        *time.Time
	Ref           string
	AllowNegative bool
}

// ValidKind reports whether k is one of IN, OUT, ADJUST
func ValidKind(k string) bool {
	return k == KindIn || k == KindOut || k == KindAdjust
}

// LedgerRepository applies mutations to the product quantity and the ledger
// as a single atomic unit, and reads the ledger back.
type LedgerRepository interface {
	// Apply executes one read-modify-write as an atomic unit: the product
	// quantity update and the ledger insert commit together or not at all.
	// Returns the resulting quantity.
	Apply(ctx context.Context, mut Mutation) (int, error)

	// ApplyAll applies every mutation inside one database transaction; a
	// failure on any mutation rolls back all of them.
	ApplyAll(ctx context.Context, muts []Mutation) ([]int, error)

	Quantity(ctx context.Context, productID uuid.UUID) (int, error)
	SumDeltas(ctx context.Context, productID uuid.UUID) (int, error)

	FindByID(ctx context.Context, id uuid.UUID) (*StockEntry, error)
	FindAll(ctx context.Context, limit, offset int) ([]StockEntry, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]StockEntry, error)
}
