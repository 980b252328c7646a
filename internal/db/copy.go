package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// CopyFrom bulk-inserts rows into a table using PostgreSQL COPY protocol.
func CopyFrom(ctx context.Context, pool Pool, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", table)
	}
	return n, nil
}

// ReplaceConfig identifies the slice of a table owned by one parent key.
type ReplaceConfig struct {
	Table   string   // target table (e.g., "route_results")
	KeyCol  string   // column holding the parent key (e.g., "run_id")
	Columns []string // columns being copied, in row order
}

// ReplaceRows deletes every row matching key and COPYs rows in its place,
// inside one transaction. Re-saving the same key is idempotent.
func ReplaceRows(ctx context.Context, pool Pool, cfg ReplaceConfig, key any, rows [][]any) (int64, error) {
	if len(cfg.Columns) == 0 {
		return 0, eris.New("db: replace: no columns specified")
	}
	if cfg.KeyCol == "" {
		return 0, eris.New("db: replace: no key column specified")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		pgx.Identifier{cfg.Table}.Sanitize(),
		pgx.Identifier{cfg.KeyCol}.Sanitize(),
	)
	if _, err := tx.Exec(ctx, deleteSQL, key); err != nil {
		return 0, eris.Wrapf(err, "db: replace: delete from %s", cfg.Table)
	}

	// pgx.Tx satisfies Pool, so the COPY runs inside the transaction.
	n, err := CopyFrom(ctx, tx, cfg.Table, cfg.Columns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: replace: commit tx")
	}
	return n, nil
}
