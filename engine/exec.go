package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Konsultn-Engineering/minorm/builder"
	"github.com/Konsultn-Engineering/minorm/database"
)

// reject counts a call that failed before execution and returns err.
func (e *Engine) reject(err error) error {
	if err != nil {
		e.stats.rejected.Add(1)
	}
	return err
}

func (e *Engine) logStatement(ctx context.Context, stmt *builder.Statement, start time.Time, err error) {
	e.stats.executed.Add(1)
	if err != nil {
		e.stats.failed.Add(1)
		e.logger.ErrorContext(ctx, "engine: statement failed",
			"kind", stmt.Kind.String(), "sql", stmt.SQL, "error", err)
		return
	}
	e.logger.DebugContext(ctx, "engine: statement executed",
		"kind", stmt.Kind.String(), "sql", stmt.SQL, "args", len(stmt.Params), "duration", time.Since(start))
}

func (e *Engine) exec(ctx context.Context, stmt *builder.Statement) (database.Result, error) {
	start := time.Now()
	res, err := e.db.ExecContext(ctx, stmt.SQL, stmt.Args(e.dialect)...)
	e.logStatement(ctx, stmt, start, err)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", stmt.Kind, stmt.Table, err)
	}
	return res, nil
}

func (e *Engine) query(ctx context.Context, stmt *builder.Statement) (database.Rows, error) {
	start := time.Now()
	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args(e.dialect)...)
	e.logStatement(ctx, stmt, start, err)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", stmt.Kind, stmt.Table, err)
	}
	return rows, nil
}

// scalar reads the first column of the first row into dest. It reports
// false when the statement returned no rows.
func (e *Engine) scalar(ctx context.Context, stmt *builder.Statement, dest any) (bool, error) {
	rows, err := e.query(ctx, stmt)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return false, rows.Err()
	}
	if err := rows.Scan(dest); err != nil {
		return false, fmt.Errorf("%s %s: failed to scan result: %w", stmt.Kind, stmt.Table, err)
	}
	return true, rows.Err()
}
