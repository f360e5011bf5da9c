package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the single row of store-wide configuration. ID is fixed at 1.
type Settings struct {
	ID                int             `json:"-" gorm:"primaryKey"`
	StoreName         string          `json:"store_name" gorm:"not null;default:'My Store';size:100"`
	Address           string          `json:"address"`
	Phone             string          `json:"phone" gorm:"size:30"`
	Currency          string          `json:"currency" gorm:"not null;default:'USD';size:10"`
	DefaultTaxRate    decimal.Decimal `json:"default_tax_rate" gorm:"type:numeric(5,2);default:0"`
	ReceiptFooter     string          `json:"receipt_footer"`
	LowStockThreshold int             `json:"low_stock_threshold" gorm:"not null;default:5"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns the row created on first access
func DefaultSettings() *Settings {
	return &Settings{
		ID:                1,
		StoreName:         "My Store",
		Currency:          "USD",
		DefaultTaxRate:    decimal.Zero,
		LowStockThreshold: 5,
	}
}

// SettingsRepository defines the contract for settings data access
type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, settings *Settings) error
}
