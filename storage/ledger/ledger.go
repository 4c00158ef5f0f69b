package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReasonDuplicate is reported when an accrual with the same event id has
// already been recorded. Callers must treat it as success-but-no-op.
const ReasonDuplicate = "duplicate"

var (
	// ErrDSNRequired is returned when the backing store DSN is missing.
	ErrDSNRequired = errors.New("ledger: dsn must be configured")
	// ErrEventIDRequired is returned when an accrual is attempted without
	// an idempotency key.
	ErrEventIDRequired = errors.New("ledger: event id must not be empty")
	// ErrNotFound is returned when no accrual exists for the event id.
	ErrNotFound = errors.New("ledger: accrual not found")
)

// AccrualRecord durably records that a reward has been applied for a single
// referral event. The unique index on EventID is the mechanism that
// guarantees at-most-once accrual under concurrent deliveries.
type AccrualRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID        string    `gorm:"size:128;uniqueIndex"`
	TenantID       string    `gorm:"size:100;index"`
	EventType      string    `gorm:"size:32"`
	ReferrerUserID string    `gorm:"size:100;index"`
	ReferredUserID string    `gorm:"size:100;index"`
	ReferrerPoints int       `gorm:"not null"`
	ReferredPoints int       `gorm:"not null"`
	AppliedAt      time.Time
}

// TableName keeps the ledger table clearly namespaced.
func (AccrualRecord) TableName() string {
	return "referral_accruals"
}

// AccrualOutcome reports whether an accrual attempt was applied or rejected
// as a duplicate of an earlier delivery.
type AccrualOutcome struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// Ledger wraps the accrual persistence layer.
type Ledger struct {
	db *gorm.DB
}

// Open initialises the ledger. Postgres DSNs select the postgres driver;
// everything else is treated as a sqlite DSN so tests can run in memory.
func Open(dsn string) (*Ledger, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return nil, ErrDSNRequired
	}
	dialector := gorm.Dialector(sqlite.Open(trimmed))
	if strings.HasPrefix(trimmed, "postgres://") || strings.HasPrefix(trimmed, "postgresql://") {
		dialector = postgres.Open(trimmed)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	if err := db.AutoMigrate(&AccrualRecord{}); err != nil {
		return nil, fmt.Errorf("migrate ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// TryRecordAccrual inserts the accrual keyed by eventID. The insert relies on
// the unique index for atomicity: of two concurrent deliveries of the same
// event exactly one is applied and the other reports a duplicate outcome.
// A duplicate is a valid business outcome, not an error.
func (l *Ledger) TryRecordAccrual(ctx context.Context, eventID string, rec AccrualRecord) (AccrualOutcome, error) {
	if l == nil || l.db == nil {
		return AccrualOutcome{}, fmt.Errorf("ledger not configured")
	}
	key := strings.TrimSpace(eventID)
	if key == "" {
		return AccrualOutcome{}, ErrEventIDRequired
	}
	rec.EventID = key
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.AppliedAt.IsZero() {
		rec.AppliedAt = time.Now().UTC()
	}
	res := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&rec)
	if res.Error != nil {
		return AccrualOutcome{}, fmt.Errorf("record accrual: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return AccrualOutcome{Applied: false, Reason: ReasonDuplicate}, nil
	}
	return AccrualOutcome{Applied: true}, nil
}

// GetAccrual returns the recorded accrual for the event id.
func (l *Ledger) GetAccrual(ctx context.Context, eventID string) (*AccrualRecord, error) {
	if l == nil || l.db == nil {
		return nil, fmt.Errorf("ledger not configured")
	}
	var rec AccrualRecord
	err := l.db.WithContext(ctx).First(&rec, "event_id = ?", strings.TrimSpace(eventID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query accrual: %w", err)
	}
	return &rec, nil
}

// TotalPointsForReferrer sums the referrer points applied to a user, useful
// for balance reconciliation.
func (l *Ledger) TotalPointsForReferrer(ctx context.Context, referrerUserID string) (int64, error) {
	if l == nil || l.db == nil {
		return 0, fmt.Errorf("ledger not configured")
	}
	var total int64
	err := l.db.WithContext(ctx).
		Model(&AccrualRecord{}).
		Where("referrer_user_id = ?", referrerUserID).
		Select("COALESCE(SUM(referrer_points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum referrer points: %w", err)
	}
	return total, nil
}

// Close releases database resources.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
