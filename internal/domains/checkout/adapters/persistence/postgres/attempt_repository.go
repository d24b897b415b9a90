package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var _ ports.AttemptRepository = (*AttemptRepository)(nil)

// AttemptRepository persists checkout attempts in PostgreSQL using GORM.
type AttemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	repo := &AttemptRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&attemptRecord{})
	}
	return repo
}

// attemptRecord maps a checkout attempt to a relational table.
type attemptRecord struct {
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

func (attemptRecord) TableName() string { return "checkout_attempts" }

// Save inserts or updates an attempt.
func (r *AttemptRepository) Save(ctx context.Context, attempt *domain.Attempt) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if attempt == nil {
		return errors.New("attempt is nil")
	}
	record := toRecord(attempt)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"payment_session_id": record.PaymentSessionID,
				"outcome":            record.Outcome,
				"failure_kind":       record.FailureKind,
				"failure_message":    record.FailureMessage,
				"redirect_url":       record.RedirectURL,
				"finished_at":        record.FinishedAt,
				"updated_at":         gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

// GetByID fetches an attempt by identifier.
func (r *AttemptRepository) GetByID(ctx context.Context, id string) (*domain.Attempt, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record attemptRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListBySession returns a session's attempts, newest first.
func (r *AttemptRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Attempt, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []attemptRecord
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("started_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	attempts := make([]*domain.Attempt, 0, len(records))
	for i := range records {
		attempts = append(attempts, records[i].toDomain())
	}
	return attempts, nil
}

// PurgeBefore deletes attempts started before the cutoff.
func (r *AttemptRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("started_at < ?", cutoff).Delete(&attemptRecord{})
	return result.RowsAffected, result.Error
}

func (r *AttemptRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres checkout attempt repository not configured")
	}
	return nil
}

func toRecord(attempt *domain.Attempt) attemptRecord {
	return attemptRecord{
		ID:               attempt.ID,
		SessionID:        attempt.SessionID,
		PaymentSessionID: attempt.PaymentSessionID,
		Outcome:          string(attempt.Outcome),
		FailureKind:      string(attempt.FailureKind),
		FailureMessage:   attempt.FailureMessage,
		ItemIDs:          pq.StringArray(append([]string(nil), attempt.ItemIDs...)),
		Total:            attempt.Total,
		RedirectURL:      attempt.RedirectURL,
		StartedAt:        attempt.StartedAt,
		FinishedAt:       attempt.FinishedAt,
	}
}

func (r attemptRecord) toDomain() *domain.Attempt {
	return &domain.Attempt{
		ID:               r.ID,
		SessionID:        r.SessionID,
		PaymentSessionID: r.PaymentSessionID,
		Outcome:          domain.Outcome(r.Outcome),
		FailureKind:      domain.FailureKind(r.FailureKind),
		FailureMessage:   r.FailureMessage,
		ItemIDs:          []string(r.ItemIDs),
		Total:            r.Total,
		RedirectURL:      r.RedirectURL,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
	}
}
