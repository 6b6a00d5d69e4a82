package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// buildSelect constructs a bun SelectQuery from the accumulated clauses.
// Count queries reuse the same wheres, groups and joins via buildFiltered,
// which is what keeps a page and its total in agreement.
func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.buildFiltered(model)

	// Order columns are supplied by callers from fixed allowlists, never
	// from raw request input
	for _, order := range q.orders {
		query = query.OrderExpr(fmt.Sprintf("%s %s", order.Column, order.Direction))
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}

	for _, rel := range q.relations {
		if len(rel.Orders) == 0 {
			query = query.Relation(rel.Name)
			continue
		}
		orders := rel.Orders
		query = query.Relation(rel.Name, func(sq *bun.SelectQuery) *bun.SelectQuery {
			for _, o := range orders {
				sq = sq.Order(o)
			}
			return sq
		})
	}

	return query
}

// buildFiltered constructs a SelectQuery with only the predicate-affecting
// clauses applied (table, columns, joins, wheres). Ordering, paging and
// relation preloads are layered on top by buildSelect.
func (q *QueryBuilder[T]) buildFiltered(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	if q.tableName != "" {
		query = query.ModelTableExpr(q.tableName)
	}

	for _, col := range q.selectCols {
		query = query.ColumnExpr(col)
	}

	if q.distinct {
		query = query.Distinct()
	}

	for _, join := range q.joins {
		query = query.Join(join.toSQL())
	}

	for _, where := range q.wheres {
		query = applyWhere(query, where)
	}

	for _, group := range q.whereGroups {
		sql, args := group.toSQL()
		if sql != "" {
			query = query.Where(sql, args...)
		}
	}

	return query
}

func applyWhere(query *bun.SelectQuery, where *WhereClause) *bun.SelectQuery {
	if where.IsRaw {
		return query.Where(where.RawSQL, where.RawArgs...)
	}

	if where.Operator == "IS NULL" || where.Operator == "IS NOT NULL" {
		return query.Where(fmt.Sprintf("%s %s", where.Column, where.Operator))
	}

	if where.Operator == "IN" {
		if where.Negate {
			return query.Where(fmt.Sprintf("%s NOT IN (?)", where.Column), bun.In(where.Value))
		}
		return query.Where(fmt.Sprintf("%s IN (?)", where.Column), bun.In(where.Value))
	}

	if where.Negate {
		return query.Where(fmt.Sprintf("NOT (%s %s ?)", where.Column, where.Operator), where.Value)
	}
	return query.Where(fmt.Sprintf("%s %s ?", where.Column, where.Operator), where.Value)
}

// toSQL flattens a WHERE group into a single parenthesised condition
func (g *WhereGroup) toSQL() (string, []any) {
	if len(g.Conditions) == 0 {
		return "", nil
	}

	var conditions []string
	var args []any

	for _, cond := range g.Conditions {
		if cond.IsRaw {
			conditions = append(conditions, cond.RawSQL)
			args = append(args, cond.RawArgs...)
			continue
		}
		if cond.Operator == "IS NULL" || cond.Operator == "IS NOT NULL" {
			conditions = append(conditions, fmt.Sprintf("%s %s", cond.Column, cond.Operator))
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s %s ?", cond.Column, cond.Operator))
		args = append(args, cond.Value)
	}

	groupSQL := "(" + joinStrings(conditions, " "+g.Connector+" ") + ")"
	if g.Negate {
		groupSQL = "NOT " + groupSQL
	}

	return groupSQL, args
}

// All executes the query and returns all matching records.
// Failures propagate immediately; there is no retry layer in the request path.
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	var data []T

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	// Relation preloads require Model() bound to the destination slice
	if err := q.buildSelect(&data).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", Classify(err), time.Since(start))
	}

	return data, nil
}

// First executes the query and returns the first matching record,
// or nil when no row matches
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	var data T

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	if err := q.Limit(1).buildSelect(&data).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", Classify(err), time.Since(start))
	}

	return &data, nil
}

// Count returns the number of records matching the accumulated predicates,
// ignoring any ordering, limit or offset set on the builder
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	count, err := q.buildFiltered((*T)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", Classify(err), time.Since(start))
	}

	return count, nil
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert inserts a new record and returns it
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	query := q.db.NewInsert().Model(data)
	if q.tableName != "" {
		query = query.ModelTableExpr(q.tableName)
	}

	if _, err := query.Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", Classify(err), time.Since(start))
	}

	return data, nil
}

// InsertMany inserts multiple records
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	start := time.Now()

	if len(data) == 0 {
		return data, nil
	}

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	query := q.db.NewInsert().Model(&data)
	if q.tableName != "" {
		query = query.ModelTableExpr(q.tableName)
	}

	if _, err := query.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute bulk insert query: %w (took %v)", Classify(err), time.Since(start))
	}

	return data, nil
}

// Update updates records matching the query and returns the affected row count
func (q *QueryBuilder[T]) Update(ctx context.Context, data any) (int, error) {
	start := time.Now()

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	var model T
	query := q.db.NewUpdate().Model(&model)
	if q.tableName != "" {
		query = query.ModelTableExpr(q.tableName)
	}

	query = q.applyWhereConditionsToUpdate(query)

	switch v := data.(type) {
	case map[string]any:
		for key, value := range v {
			query = query.Set("? = ?", bun.Ident(key), value)
		}
	case *T:
		query = query.Model(v)
	default:
		return 0, fmt.Errorf("unsupported data type for update: %T", data)
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", Classify(err), time.Since(start))
	}

	rowsAffected, _ := res.RowsAffected()
	return int(rowsAffected), nil
}

// Delete deletes records matching the query and returns the affected row count
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	var model T
	query := q.db.NewDelete().Model(&model)
	if q.tableName != "" {
		query = query.ModelTableExpr(q.tableName)
	}

	query = q.applyWhereConditionsToDelete(query)

	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", Classify(err), time.Since(start))
	}

	rowsAffected, _ := res.RowsAffected()
	return int(rowsAffected), nil
}

// applyWhereConditionsToUpdate applies WHERE conditions to a Bun UpdateQuery
func (q *QueryBuilder[T]) applyWhereConditionsToUpdate(query *bun.UpdateQuery) *bun.UpdateQuery {
	for _, where := range q.wheres {
		if where.IsRaw {
			query = query.Where(where.RawSQL, where.RawArgs...)
			continue
		}
		if where.Operator == "IS NULL" || where.Operator == "IS NOT NULL" {
			query = query.Where(fmt.Sprintf("%s %s", where.Column, where.Operator))
			continue
		}
		if where.Negate {
			query = query.Where(fmt.Sprintf("NOT (%s %s ?)", where.Column, where.Operator), where.Value)
			continue
		}
		query = query.Where(fmt.Sprintf("%s %s ?", where.Column, where.Operator), where.Value)
	}

	for _, group := range q.whereGroups {
		sql, args := group.toSQL()
		if sql != "" {
			query = query.Where(sql, args...)
		}
	}

	return query
}

// applyWhereConditionsToDelete applies WHERE conditions to a Bun DeleteQuery
func (q *QueryBuilder[T]) applyWhereConditionsToDelete(query *bun.DeleteQuery) *bun.DeleteQuery {
	for _, where := range q.wheres {
		if where.IsRaw {
			query = query.Where(where.RawSQL, where.RawArgs...)
			continue
		}
		if where.Operator == "IS NULL" || where.Operator == "IS NOT NULL" {
			query = query.Where(fmt.Sprintf("%s %s", where.Column, where.Operator))
			continue
		}
		if where.Negate {
			query = query.Where(fmt.Sprintf("NOT (%s %s ?)", where.Column, where.Operator), where.Value)
			continue
		}
		query = query.Where(fmt.Sprintf("%s %s ?", where.Column, where.Operator), where.Value)
	}

	for _, group := range q.whereGroups {
		sql, args := group.toSQL()
		if sql != "" {
			query = query.Where(sql, args...)
		}
	}

	return query
}
