package configstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/sqlite"

	"spaloyalty/native/referral"
)

const schema = `
CREATE TABLE IF NOT EXISTS referral_configurations (
    name       TEXT PRIMARY KEY,
    is_active  INTEGER NOT NULL DEFAULT 0,
    document   TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

var (
	// ErrPathRequired is returned when the backing store path is missing.
	ErrPathRequired = errors.New("configstore: path must be configured")
)

// Store persists the referral configuration aggregate. Each configuration is
// stored as a single JSON document so the aggregate is read and replaced
// atomically, mirroring the single-active-document invariant of the engine.
type Store struct {
	db *sql.DB
}

// Open initialises the backing store using a sqlite-compatible DSN.
func Open(dsn string) (*Store, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return nil, ErrPathRequired
	}
	db, err := sql.Open("sqlite", trimmed)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetActiveConfiguration returns the single active configuration document.
// When none exists yet the default configuration is provisioned and returned,
// so callers always observe a usable document. Storage faults and corrupt
// documents are the only error paths.
func (s *Store) GetActiveConfiguration(ctx context.Context) (*referral.Configuration, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not configured")
	}
	row := s.db.QueryRowContext(ctx, `
        SELECT document FROM referral_configurations
        WHERE name = ? AND is_active = 1
    `, referral.DefaultConfigName)
	var document string
	err := row.Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		cfg := referral.DefaultConfiguration()
		if err := s.SaveConfiguration(ctx, cfg); err != nil {
			return nil, fmt.Errorf("provision default configuration: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query configuration: %w", err)
	}
	cfg := new(referral.Configuration)
	if err := json.Unmarshal([]byte(document), cfg); err != nil {
		return nil, fmt.Errorf("decode configuration document: %w", err)
	}
	return cfg.Normalize(), nil
}

// SaveConfiguration validates, normalizes and upserts the configuration
// keyed by its name.
func (s *Store) SaveConfiguration(ctx context.Context, cfg *referral.Configuration) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not configured")
	}
	cfg = cfg.Clone().Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	document, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode configuration document: %w", err)
	}
	active := 0
	if cfg.IsActive {
		active = 1
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO referral_configurations(name, is_active, document, updated_at)
        VALUES(?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            is_active = excluded.is_active,
            document = excluded.document,
            updated_at = excluded.updated_at
    `, cfg.Name, active, string(document), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert configuration: %w", err)
	}
	return nil
}

// UpsertTenantOverride replaces or appends the override for tenantID within
// the active configuration. Last write wins; at most one override per tenant
// is kept.
func (s *Store) UpsertTenantOverride(ctx context.Context, tenantID, tenantName, ownerID string, ov referral.TenantOverride) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not configured")
	}
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return fmt.Errorf("%w: tenant id must not be empty", referral.ErrInvalidOverride)
	}
	cfg, err := s.GetActiveConfiguration(ctx)
	if err != nil {
		return err
	}
	ov = ov.Clone()
	ov.TenantID = tenantID
	ov.TenantName = strings.TrimSpace(tenantName)
	ov.OwnerID = strings.TrimSpace(ownerID)

	replaced := false
	for i := range cfg.TenantOverrides {
		if cfg.TenantOverrides[i].TenantID == tenantID {
			cfg.TenantOverrides[i] = ov
			replaced = true
			break
		}
	}
	if !replaced {
		cfg.TenantOverrides = append(cfg.TenantOverrides, ov)
	}
	return s.SaveConfiguration(ctx, cfg)
}
