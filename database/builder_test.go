package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

type item struct {
	tableName struct{} `bun:"table:items,alias:i"`
	ID        int64    `bun:"id,pk,autoincrement"`
	Name      string   `bun:"name"`
	Price     float64  `bun:"price"`
	Active    bool     `bun:"active"`
}

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	return &DB{DB: bun.NewDB(sqldb, pgdialect.New())}, mock
}

func TestBuildSelectRendersClauses(t *testing.T) {
	db, _ := newTestDB(t)

	q := Query[item](db).
		Where("i.active", true).
		WhereOp("i.price", ">=", 100).
		OrderBy("i.name", ASC).
		Limit(10).
		Offset(20)

	sql := q.buildSelect((*item)(nil)).String()

	assert.Contains(t, sql, "i.active = TRUE")
	assert.Contains(t, sql, "i.price >= 100")
	assert.Contains(t, sql, "ORDER BY i.name ASC")
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 20")
}

func TestCountQuerySharesPredicatesWithPageQuery(t *testing.T) {
	db, _ := newTestDB(t)

	q := Query[item](db).
		LeftJoin("categories", "c").On("i.category_id", "=", "c.id").End().
		Where("i.active", true).
		WhereILike("i.name", "%drill%").
		OrderBy("i.price", DESC).
		Limit(12).
		Offset(24)

	page := q.buildSelect((*item)(nil)).String()
	filtered := q.buildFiltered((*item)(nil)).String()

	// the count side carries every predicate the page side does
	for _, fragment := range []string{
		`LEFT JOIN categories AS c ON i.category_id = c.id`,
		"i.active = TRUE",
		"i.name ILIKE '%drill%'",
	} {
		assert.Contains(t, page, fragment)
		assert.Contains(t, filtered, fragment)
	}

	// but never ordering or paging
	assert.NotContains(t, filtered, "ORDER BY")
	assert.NotContains(t, filtered, "LIMIT")
	assert.NotContains(t, filtered, "OFFSET")
}

func TestWhereGroupRendersOrConditions(t *testing.T) {
	db, _ := newTestDB(t)

	q := Query[item](db).
		Where("i.active", true).
		Or().
		WhereOp("i.price", "<", 50).
		WhereOp("i.price", ">", 500).
		End()

	sql := q.buildFiltered((*item)(nil)).String()

	assert.Contains(t, sql, "i.active = TRUE")
	assert.Contains(t, sql, "i.price < 50 OR i.price > 500")
}

func TestJoinClauseToSQL(t *testing.T) {
	jc := &JoinClause{
		Type:  LeftJoin,
		Table: "categories",
		Alias: "c",
		Conditions: []*JoinCondition{
			{Left: "p.category_id", Operator: "=", Right: "c.id"},
			{Left: "c.active", Operator: "=", Right: "p.active"},
		},
	}

	assert.Equal(t,
		"LEFT JOIN categories AS c ON p.category_id = c.id AND c.active = p.active",
		jc.toSQL())
}

func TestPaginateCountsBeforePaging(t *testing.T) {
	db, mock := newTestDB(t)

	// sqlmock expectations are ordered: the count query must run first
	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`SELECT .* LIMIT 10 OFFSET 10`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "active"}).
			AddRow(int64(11), "item", 9.99, true))

	q := Query[item](db).Where("i.active", true)

	result, err := Paginate(q, context.Background(), 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Pagination.Page)
	assert.Equal(t, 10, result.Pagination.Limit)
	assert.Equal(t, 25, result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.Len(t, result.Data, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaginateClampsInput(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .* LIMIT 10`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "active"}))

	result, err := Paginate(Query[item](db), context.Background(), -3, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 10, result.Pagination.Limit)
	assert.Equal(t, 0, result.Pagination.TotalPages)
	require.NoError(t, mock.ExpectationsWereMet())
}
