package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/udisondev/statforge/internal/entity"
	"github.com/udisondev/statforge/internal/statdef"
)

// SQLiteStore keeps entity stat configs in a local SQLite file.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite store and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if err := RunSQLiteMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	return s.sqlDB.Close()
}

// LoadByEntity loads all stat configs of an entity ordered by position.
func (s *SQLiteStore) LoadByEntity(ctx context.Context, entityID string) ([]entity.StatConfig, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT stat_type, template_name, params FROM entity_stats WHERE entity_id = ? ORDER BY position`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying stats for entity %q: %w", entityID, err)
	}
	defer rows.Close()

	configs := make([]entity.StatConfig, 0, 8)
	for rows.Next() {
		c := entity.StatConfig{EntityID: entityID}
		var raw string
		if err := rows.Scan(&c.StatType, &c.TemplateName, &raw); err != nil {
			return nil, fmt.Errorf("scanning entity stat row: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &c.Params); err != nil {
			return nil, fmt.Errorf("decoding params of %q: %w", c.StatType, err)
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity stat rows: %w", err)
	}
	return configs, nil
}

// Save replaces all configs of the entity in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, entityID string, configs []entity.StatConfig) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("entity stats rollback failed", "entityID", entityID, "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entity_stats WHERE entity_id = ?`, entityID); err != nil {
		return fmt.Errorf("deleting existing entity stats: %w", err)
	}
	for i, c := range configs {
		params := c.Params
		if params == nil {
			params = statdef.Params{}
		}
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encoding params of %q: %w", c.StatType, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entity_stats (entity_id, position, stat_type, template_name, params) VALUES (?, ?, ?, ?, ?)`,
			entityID, i, c.StatType, c.TemplateName, string(raw),
		); err != nil {
			return fmt.Errorf("inserting stat %q at position %d: %w", c.StatType, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity stats save: %w", err)
	}
	return nil
}

// Delete removes every config of the entity.
func (s *SQLiteStore) Delete(ctx context.Context, entityID string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM entity_stats WHERE entity_id = ?`, entityID); err != nil {
		return fmt.Errorf("deleting stats for entity %q: %w", entityID, err)
	}
	return nil
}

// EntityIDs lists entities that have stored configs, sorted.
func (s *SQLiteStore) EntityIDs(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT DISTINCT entity_id FROM entity_stats ORDER BY entity_id`)
	if err != nil {
		return nil, fmt.Errorf("querying entity ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning entity id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity ids: %w", err)
	}
	return ids, nil
}
