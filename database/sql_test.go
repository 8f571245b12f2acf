package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sdb := NewSqlDatabase(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id, name FROM users").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "ada"))

	rows, err := sdb.QueryContext(ctx, "SELECT id, name FROM users WHERE id = ?", 1)
	require.NoError(t, err)
	cols, err := rows.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, cols)

	require.True(t, rows.Next())
	var (
		id   int64
		name string
	)
	require.NoError(t, rows.Scan(&id, &name))
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "ada", name)
	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
	require.NoError(t, rows.Close())

	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 3))
	res, err := sdb.ExecContext(ctx, "DELETE FROM users")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mock.ExpectClose()
	require.NoError(t, sdb.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommandType(t *testing.T) {
	assert.Equal(t, "scalar", CommandScalar.String())
	assert.Equal(t, "rowset", CommandRowSet.String())
	assert.Equal(t, "nonquery", CommandNonQuery.String())
}
