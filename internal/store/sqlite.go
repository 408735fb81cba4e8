package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/beatreach/beatreach/internal/types"
)

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is the SQLite-backed relational store holding the influencer
// catalog, mirrored user accounts, and saved campaign bundles.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore instance.
// It initializes the database with WAL mode, applies pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListInfluencers returns the full candidate catalog ordered by name.
func (s *SQLiteStore) ListInfluencers(ctx context.Context) ([]types.Influencer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, platform, followers, engagement_rate, niche, location, price, website, image, handle
		FROM influencers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list influencers: %w", err)
	}
	defer rows.Close()

	var out []types.Influencer
	for rows.Next() {
		var inf types.Influencer
		if err := rows.Scan(&inf.ID, &inf.Name, &inf.Platform, &inf.Followers,
			&inf.EngagementRate, &inf.Niche, &inf.Location, &inf.Price,
			&inf.Website, &inf.Image, &inf.Handle); err != nil {
			return nil, fmt.Errorf("scan influencer: %w", err)
		}
		out = append(out, inf)
	}
	return out, rows.Err()
}

// CountInfluencers returns the number of catalog entries.
func (s *SQLiteStore) CountInfluencers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM influencers").Scan(&count)
	return count, err
}

// SeedInfluencers inserts catalog entries, skipping ids that already exist.
// Returns the number of rows actually inserted.
func (s *SQLiteStore) SeedInfluencers(ctx context.Context, entries []types.Influencer) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, inf := range entries {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO influencers (id, name, platform, followers, engagement_rate, niche, location, price, website, image, handle)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, inf.ID, inf.Name, inf.Platform, inf.Followers, inf.EngagementRate,
			inf.Niche, inf.Location, inf.Price, inf.Website, inf.Image, inf.Handle)
		if err != nil {
			return 0, fmt.Errorf("seed influencer %s: %w", inf.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return inserted, nil
}

// CreateUser mirrors a registered account locally.
func (s *SQLiteStore) CreateUser(ctx context.Context, user types.NewUser) (*types.User, error) {
	now := time.Now().UTC()
	created := types.User{
		ID:         ulid.Make().String(),
		ExternalID: user.ExternalID,
		Email:      user.Email,
		Name:       user.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, external_id, email, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, created.ID, created.ExternalID, created.Email, created.Name,
		created.CreatedAt.Format(time.RFC3339), created.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &created, nil
}

// GetUserByEmail returns the mirrored account for an email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	var u types.User
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, external_id, email, name, created_at, updated_at
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.ExternalID, &u.Email, &u.Name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &u, nil
}

// SaveCampaign persists a completed bundle with the preferences that
// produced it.
func (s *SQLiteStore) SaveCampaign(ctx context.Context, campaign types.NewCampaign) (*types.SavedCampaign, error) {
	prefsJSON, err := json.Marshal(campaign.Preferences)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}
	bundleJSON, err := json.Marshal(campaign.Bundle)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}

	saved := types.SavedCampaign{
		ID:          ulid.Make().String(),
		Preferences: campaign.Preferences,
		Bundle:      campaign.Bundle,
		Degraded:    campaign.Degraded,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO campaigns (id, preferences, bundle, degraded, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, saved.ID, string(prefsJSON), string(bundleJSON), boolToInt(saved.Degraded),
		saved.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("save campaign: %w", err)
	}

	return &saved, nil
}

// GetCampaign returns a saved campaign by id.
func (s *SQLiteStore) GetCampaign(ctx context.Context, id string) (*types.SavedCampaign, error) {
	var saved types.SavedCampaign
	var prefsJSON, bundleJSON, createdAt string
	var degraded int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, preferences, bundle, degraded, created_at
		FROM campaigns WHERE id = ?
	`, id).Scan(&saved.ID, &prefsJSON, &bundleJSON, &degraded, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}

	if err := json.Unmarshal([]byte(prefsJSON), &saved.Preferences); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(bundleJSON), &saved.Bundle); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	saved.Degraded = degraded != 0
	saved.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &saved, nil
}

// ListCampaigns returns saved campaign summaries, newest first.
func (s *SQLiteStore) ListCampaigns(ctx context.Context) ([]types.CampaignSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bundle, degraded, created_at
		FROM campaigns
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []types.CampaignSummary
	for rows.Next() {
		var id, bundleJSON, createdAt string
		var degraded int
		if err := rows.Scan(&id, &bundleJSON, &degraded, &createdAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}

		var bundle types.CampaignBundle
		if err := json.Unmarshal([]byte(bundleJSON), &bundle); err != nil {
			return nil, fmt.Errorf("decode bundle for %s: %w", id, err)
		}

		summary := types.CampaignSummary{
			ID:              id,
			Strategy:        bundle.Strategy,
			InfluencerCount: len(bundle.Influencers),
			Degraded:        degraded != 0,
		}
		summary.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, summary)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
