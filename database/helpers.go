package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"oasa_server/lib"
	"time"

	"github.com/uptrace/bun"
)

// RawQuery executes a raw SQL query and returns all results
func RawQuery[T any](db *DB, ctx context.Context, query string, args ...any) ([]T, error) {
	start := time.Now()
	var data []T

	if err := db.NewRaw(query, args...).Scan(ctx, &data); err != nil {
		return nil, fmt.Errorf("failed to execute raw query: %w (took %v)", Classify(err), time.Since(start))
	}

	return data, nil
}

// RawQueryOne executes a raw SQL query and returns a single result,
// or nil when no row matches
func RawQueryOne[T any](db *DB, ctx context.Context, query string, args ...any) (*T, error) {
	start := time.Now()
	var data T

	if err := db.NewRaw(query, args...).Scan(ctx, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute raw query: %w (took %v)", Classify(err), time.Since(start))
	}

	return &data, nil
}

// RawExec executes a raw SQL command (INSERT, UPDATE, DELETE) and returns
// the number of affected rows
func RawExec(db *DB, ctx context.Context, query string, args ...any) (int, error) {
	start := time.Now()

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute raw command: %w (took %v)", Classify(err), time.Since(start))
	}

	rowsAffected, _ := res.RowsAffected()
	return int(rowsAffected), nil
}

// Transaction executes a function within a database transaction. Any error
// from fn rolls the whole transaction back; the returned error still
// satisfies errors.Is for the inner error class.
func Transaction(ctx context.Context, db *DB, fn func(tx bun.Tx) error) error {
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(tx)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", lib.ErrTxAborted, err)
	}

	return nil
}

// TransactionWithResult executes a function within a transaction and returns a result
func TransactionWithResult[T any](ctx context.Context, db *DB, fn func(tx bun.Tx) (T, error)) (T, error) {
	var result T

	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		result, err = fn(tx)
		return err
	})
	if err != nil {
		return result, fmt.Errorf("%w: %w", lib.ErrTxAborted, err)
	}

	return result, nil
}

// Pagination represents pagination metadata for a filtered listing
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PaginationResult wraps paginated data with metadata
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate runs the count query and the page query off the same builder,
// so both see identical predicates. Count runs first, before Limit/Offset
// are set on the builder.
func Paginate[T any](q *QueryBuilder[T], ctx context.Context, page, limit int) (*PaginationResult[T], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	offset := (page - 1) * limit

	data, err := q.Limit(limit).Offset(offset).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get paginated data: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &PaginationResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// FindByID is a helper to find a record by ID
func FindByID[T any](db *DB, ctx context.Context, id any) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

// Create is a helper to insert a single record
func Create[T any](db *DB, ctx context.Context, data *T) (*T, error) {
	return Query[T](db).Insert(ctx, data)
}

// UpdateByID is a helper to update a record by ID
func UpdateByID[T any](db *DB, ctx context.Context, id any, data map[string]any) (int, error) {
	return Query[T](db).Where("id", id).Update(ctx, data)
}

// DeleteByID is a helper to delete a record by ID
func DeleteByID[T any](db *DB, ctx context.Context, id any) (int, error) {
	return Query[T](db).Where("id", id).Delete(ctx)
}

// Upsert performs INSERT ... ON CONFLICT (cols) DO UPDATE, overwriting the
// listed update columns with the incoming values
func Upsert[T any](db bun.IDB, ctx context.Context, data *T, conflictColumns string, updateColumns ...string) (*T, error) {
	start := time.Now()

	query := db.NewInsert().Model(data).On(fmt.Sprintf("CONFLICT (%s) DO UPDATE", conflictColumns))

	for _, col := range updateColumns {
		query = query.Set(fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	if _, err := query.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute upsert: %w (took %v)", Classify(err), time.Since(start))
	}

	return data, nil
}
