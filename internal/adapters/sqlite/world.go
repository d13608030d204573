// Package sqlite persists a block world in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aretw0/voxport/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS blocks (
	x     INTEGER NOT NULL,
	y     INTEGER NOT NULL,
	z     INTEGER NOT NULL,
	state TEXT    NOT NULL,
	PRIMARY KEY (x, y, z)
) WITHOUT ROWID;
`

// World implements ports.BlockStore on a SQLite table.
type World struct {
	db *sql.DB
}

// Open opens (or creates) the world database at path. Use ":memory:" for a
// throwaway world.
func Open(ctx context.Context, path string) (*World, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite world %s: %w", path, err)
	}
	// One connection: ":memory:" databases are per connection, and writers
	// serialise anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create blocks table: %w", err)
	}
	return &World{db: db}, nil
}

// Get returns the blocks inside [min, max] ordered by x, y, z.
func (w *World) Get(ctx context.Context, min, max domain.Vec3) ([]domain.PlacedBlock, error) {
	lo, hi := domain.Min(min, max), domain.Max(min, max)
	rows, err := w.db.QueryContext(ctx, `
		SELECT x, y, z, state FROM blocks
		WHERE x BETWEEN ? AND ? AND y BETWEEN ? AND ? AND z BETWEEN ? AND ?
		ORDER BY x, y, z`,
		lo.X, hi.X, lo.Y, hi.Y, lo.Z, hi.Z)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()

	var out []domain.PlacedBlock
	for rows.Next() {
		var b domain.PlacedBlock
		if err := rows.Scan(&b.Pos.X, &b.Pos.Y, &b.Pos.Z, &b.State); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Set upserts blocks in one transaction; an empty state deletes the row.
func (w *World) Set(ctx context.Context, blocks []domain.PlacedBlock) (err error) {
	if len(blocks) == 0 {
		return nil
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO blocks (x, y, z, state) VALUES (?, ?, ?, ?)
		ON CONFLICT (x, y, z) DO UPDATE SET state = excluded.state`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer upsert.Close()

	del, err := tx.PrepareContext(ctx, `DELETE FROM blocks WHERE x = ? AND y = ? AND z = ?`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	defer del.Close()

	for _, b := range blocks {
		if b.State == "" {
			_, err = del.ExecContext(ctx, b.Pos.X, b.Pos.Y, b.Pos.Z)
		} else {
			_, err = upsert.ExecContext(ctx, b.Pos.X, b.Pos.Y, b.Pos.Z, b.State)
		}
		if err != nil {
			return fmt.Errorf("write block %s: %w", b.Pos, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of stored blocks.
func (w *World) Count(ctx context.Context) (int, error) {
	var n int
	if err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blocks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count blocks: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (w *World) Close() error {
	return w.db.Close()
}
