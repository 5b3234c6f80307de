package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"datapredictor/pkg/models"
)

// AdvisoryRecord is one persisted advisory run.
//
// Schema assumption (managed outside the app):
//
//	CREATE TABLE IF NOT EXISTS advisories (
//	  id UUID PRIMARY KEY,
//	  target TEXT,
//	  date_col TEXT,
//	  domain TEXT,
//	  advisory_json JSONB,
//	  created_at TIMESTAMPTZ
//	);
type AdvisoryRecord struct {
	ID        uuid.UUID       `json:"id"`
	Target    string          `json:"target"`
	DateCol   string          `json:"dateCol"`
	Domain    string          `json:"domain"`
	Advisory  models.Advisory `json:"advisory"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AdvisoryRepository persists advisory runs.
type AdvisoryRepository interface {
	Save(ctx context.Context, rec *AdvisoryRecord) error
	Load(ctx context.Context, id uuid.UUID) (*AdvisoryRecord, error)
	List(ctx context.Context, limit int) ([]*AdvisoryRecord, error)
}

// AdvisoryRepo is the pgx-backed implementation of AdvisoryRepository.
type AdvisoryRepo struct{}

// NewAdvisoryRepo creates a new repository instance.
func NewAdvisoryRepo() *AdvisoryRepo {
	return &AdvisoryRepo{}
}

// Save upserts the record by id.
func (r *AdvisoryRepo) Save(ctx context.Context, rec *AdvisoryRecord) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	jsonData, err := json.Marshal(rec.Advisory)
	if err != nil {
		return fmt.Errorf("failed to marshal advisory: %w", err)
	}

	query := `
		INSERT INTO advisories (id, target, date_col, domain, advisory_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			target = EXCLUDED.target,
			date_col = EXCLUDED.date_col,
			domain = EXCLUDED.domain,
			advisory_json = EXCLUDED.advisory_json;
	`

	_, err = pool.Exec(ctx, query, rec.ID, rec.Target, rec.DateCol, rec.Domain, jsonData, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save advisory: %w", err)
	}
	return nil
}

// Load retrieves one record by id.
func (r *AdvisoryRepo) Load(ctx context.Context, id uuid.UUID) (*AdvisoryRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT id, target, date_col, domain, advisory_json, created_at FROM advisories WHERE id = $1`

	rec := &AdvisoryRecord{}
	var jsonData []byte
	err := pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.Target, &rec.DateCol, &rec.Domain, &jsonData, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no advisory found for id %s", id)
		}
		return nil, fmt.Errorf("failed to load advisory: %w", err)
	}

	if err := json.Unmarshal(jsonData, &rec.Advisory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal advisory data: %w", err)
	}
	return rec, nil
}

// List returns recent records, newest first.
func (r *AdvisoryRepo) List(ctx context.Context, limit int) ([]*AdvisoryRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, target, date_col, domain, advisory_json, created_at FROM advisories ORDER BY created_at DESC LIMIT $1`
	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list advisories: %w", err)
	}
	defer rows.Close()

	var out []*AdvisoryRecord
	for rows.Next() {
		rec := &AdvisoryRecord{}
		var jsonData []byte
		if err := rows.Scan(&rec.ID, &rec.Target, &rec.DateCol, &rec.Domain, &jsonData, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan advisory row: %w", err)
		}
		if err := json.Unmarshal(jsonData, &rec.Advisory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal advisory data: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
