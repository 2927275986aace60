package repositories

import (
	"context"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/sequence"
)

// SequenceRepository is the MySQL-backed sequence.Generator. Values are drawn
// inside the caller's transaction, so a rolled-back action leaves no gap.
type SequenceRepository struct {
	DB intdb.DBTX
}

func (r SequenceRepository) Next(ctx context.Context, code sequence.Code) (int64, error) {
	if _, err := r.DB.ExecContext(ctx,
		`INSERT INTO sequences (code, next_value) VALUES (?, 1) ON DUPLICATE KEY UPDATE code=code`, code); err != nil {
		return 0, fmt.Errorf("ensure sequence %s: %w", code, err)
	}

	var n int64
	if err := r.DB.QueryRowContext(ctx, `SELECT next_value FROM sequences WHERE code=? FOR UPDATE`, code).Scan(&n); err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", code, err)
	}
	if _, err := r.DB.ExecContext(ctx, `UPDATE sequences SET next_value=next_value+1 WHERE code=?`, code); err != nil {
		return 0, fmt.Errorf("bump sequence %s: %w", code, err)
	}
	return n, nil
}
