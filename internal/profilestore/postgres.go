package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultKey is the storage key used when none is configured. The store keeps
// exactly one record per key.
const DefaultKey = "default"

// PostgresStore keeps the profile record as a single JSONB row.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresStore connects to the database and ensures the backing table
// exists. Close must be called when the store is no longer needed.
func NewPostgresStore(ctx context.Context, databaseURL, key string) (*PostgresStore, error) {
	if key == "" {
		key = DefaultKey
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool, key: key}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS speaker_profiles (
			key        TEXT PRIMARY KEY,
			content    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create speaker_profiles table: %w", err)
	}
	return nil
}

// Load fetches the record for the store's key, merging it over defaults. A
// missing row or corrupted content yields defaults without error.
func (s *PostgresStore) Load(ctx context.Context) (*StoredProfile, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM speaker_profiles WHERE key = $1`, s.key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %q: %w", s.key, err)
	}
	return merge(raw), nil
}

// Save upserts the full record under the store's key.
func (s *PostgresStore) Save(ctx context.Context, profile *StoredProfile) error {
	profile.SchemaVersion = SchemaVersion
	profile.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO speaker_profiles (key, content, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET content = EXCLUDED.content, updated_at = now()`,
		s.key, raw)
	if err != nil {
		return fmt.Errorf("failed to save profile %q: %w", s.key, err)
	}
	return nil
}
