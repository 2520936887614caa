package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/statforge/internal/entity"
	"github.com/udisondev/statforge/internal/statdef"
)

// EntityStatRepository manages the entity_stats table in PostgreSQL.
type EntityStatRepository struct {
	db *pgxpool.Pool
}

// NewEntityStatRepository creates a new EntityStatRepository.
func NewEntityStatRepository(db *pgxpool.Pool) *EntityStatRepository {
	return &EntityStatRepository{db: db}
}

// LoadByEntity loads all stat configs of an entity ordered by position.
func (r *EntityStatRepository) LoadByEntity(ctx context.Context, entityID string) ([]entity.StatConfig, error) {
	query := `
		SELECT stat_type, template_name, params
		FROM entity_stats
		WHERE entity_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying stats for entity %q: %w", entityID, err)
	}
	defer rows.Close()

	configs := make([]entity.StatConfig, 0, 8)
	for rows.Next() {
		c := entity.StatConfig{EntityID: entityID}
		var params statdef.Params
		if err := rows.Scan(&c.StatType, &c.TemplateName, &params); err != nil {
			return nil, fmt.Errorf("scanning entity stat row: %w", err)
		}
		c.Params = params
		configs = append(configs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity stat rows: %w", err)
	}

	return configs, nil
}

// SaveAllTx saves all configs within an existing transaction (full replace).
func (r *EntityStatRepository) SaveAllTx(ctx context.Context, tx pgx.Tx, entityID string, configs []entity.StatConfig) error {
	if _, err := tx.Exec(ctx, `DELETE FROM entity_stats WHERE entity_id = $1`, entityID); err != nil {
		return fmt.Errorf("deleting existing entity stats: %w", err)
	}

	for i, c := range configs {
		params := c.Params
		if params == nil {
			params = statdef.Params{}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO entity_stats (entity_id, position, stat_type, template_name, params)
			 VALUES ($1, $2, $3, $4, $5)`,
			entityID, i, c.StatType, c.TemplateName, params,
		); err != nil {
			return fmt.Errorf("inserting stat %q at position %d: %w", c.StatType, i, err)
		}
	}

	return nil
}

// Save saves all configs using a standalone transaction.
func (r *EntityStatRepository) Save(ctx context.Context, entityID string, configs []entity.StatConfig) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("entity stats rollback failed", "entityID", entityID, "error", err)
		}
	}()

	if err := r.SaveAllTx(ctx, tx, entityID, configs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing entity stats save: %w", err)
	}

	return nil
}

// Delete removes every config of the entity.
func (r *EntityStatRepository) Delete(ctx context.Context, entityID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM entity_stats WHERE entity_id = $1`, entityID); err != nil {
		return fmt.Errorf("deleting stats for entity %q: %w", entityID, err)
	}
	return nil
}

// EntityIDs lists entities that have stored configs, sorted.
func (r *EntityStatRepository) EntityIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT entity_id FROM entity_stats ORDER BY entity_id`)
	if err != nil {
		return nil, fmt.Errorf("querying entity ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting entity ids: %w", err)
	}
	return ids, nil
}
