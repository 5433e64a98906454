package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// withTx runs one write batch. The batch commits only if fn succeeds; an
// error or panic from fn rolls back every row it wrote.
func (db *DB) withTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin write batch: %w", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && err != nil {
			err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("write batch rolled back: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit write batch: %w", err)
	}
	done = true
	return nil
}
