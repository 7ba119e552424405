package storage_test

import (
	"context"
	"dcms/backend/internal/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// insertedValue finds column in a single-row INSERT and returns its bound value.
func insertedValue(t *testing.T, stmt statement, column string) any {
	t.Helper()
	open := strings.Index(stmt.sql, "(")
	end := strings.Index(stmt.sql, ")")
	require.True(t, open >= 0 && end > open, stmt.sql)

	cols := strings.Split(stmt.sql[open+1:end], ",")
	for i, c := range cols {
		if strings.Trim(c, `" `) == column {
			require.Less(t, i, len(stmt.vars))
			return stmt.vars[i]
		}
	}
	t.Fatalf("column %s not inserted: %s", column, stmt.sql)
	return nil
}

func TestCreateUser_InsertsInactiveFlag(t *testing.T) {
	s, rec, _ := newDryRunStore(t)

	u := &models.User{Username: "disabled@example.com", Email: "disabled@example.com", PasswordHash: "x", IsActive: false}
	require.NoError(t, s.CreateUser(context.Background(), u))
	assert.NotEmpty(t, u.ID, "the create hook assigns a UUID")

	stmt := rec.only(t)
	assert.True(t, strings.HasPrefix(stmt.sql, `INSERT INTO "users"`), stmt.sql)
	assert.Equal(t, false, insertedValue(t, stmt, "is_active"))
}

func TestCreateUser_InsertsActiveFlag(t *testing.T) {
	s, rec, _ := newDryRunStore(t)

	u := &models.User{Username: "ram@example.com", Email: "ram@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, s.CreateUser(context.Background(), u))

	assert.Equal(t, true, insertedValue(t, rec.only(t), "is_active"))
}
