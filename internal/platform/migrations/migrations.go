package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the persisted bounded contexts. Carts are kept in
// memory only, so checkout attempt history is the sole table.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&checkoutAttemptRecord{},
	)
}

// Checkout attempt schema mirrors the checkout Postgres adapter.
type checkoutAttemptRecord struct {
	ID               string          `gorm:"primaryKey;column:id;size:64"`
	SessionID        string          `gorm:"column:session_id;size:64;index:idx_checkout_attempts_session"`
	PaymentSessionID string          `gorm:"column:payment_session_id;size:255"`
	Outcome          string          `gorm:"column:outcome;type:varchar(32);index"`
	FailureKind      string          `gorm:"column:failure_kind;type:varchar(32)"`
	FailureMessage   string          `gorm:"column:failure_message;type:text"`
	ItemIDs          pq.StringArray  `gorm:"column:item_ids;type:text[]"`
	Total            decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	RedirectURL      string          `gorm:"column:redirect_url;type:text"`
	StartedAt        time.Time       `gorm:"column:started_at;index"`
	FinishedAt       *time.Time      `gorm:"column:finished_at"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

func (checkoutAttemptRecord) TableName() string { return "checkout_attempts" }
