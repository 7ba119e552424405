package storage_test

import (
	"context"
	"database/sql"
	"dcms/backend/internal/storage"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errNoServer = errors.New("dry run: no database server")

// noConn fails every statement. DryRun builds SQL without executing it, so
// nothing reaches these methods.
type noConn struct{}

func (noConn) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errNoServer
}

func (noConn) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoServer
}

func (noConn) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoServer
}

func (noConn) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

// dryPool hands out fake transactions and remembers them.
type dryPool struct {
	noConn
	mu  sync.Mutex
	txs []*dryTx
}

func (p *dryPool) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tx := &dryTx{}
	p.txs = append(p.txs, tx)
	return tx, nil
}

type dryTx struct {
	noConn
	committed  bool
	rolledBack bool
}

func (t *dryTx) Commit() error {
	t.committed = true
	return nil
}

func (t *dryTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type statement struct {
	sql  string
	vars []any
}

// recorder keeps every statement gorm built, in order.
type recorder struct {
	mu    sync.Mutex
	stmts []statement
}

func (r *recorder) record(tx *gorm.DB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, statement{
		sql:  tx.Statement.SQL.String(),
		vars: append([]any(nil), tx.Statement.Vars...),
	})
}

func (r *recorder) only(t *testing.T) statement {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.stmts, 1)
	return r.stmts[0]
}

// newDryRunStore returns a storage service on the postgres dialect that builds
// SQL without a server, plus the recorder that sees each statement.
func newDryRunStore(t *testing.T) (*storage.Service, *recorder, *dryPool) {
	t.Helper()
	pool := &dryPool{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: pool}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	rec := &recorder{}
	cb := db.Callback()
	require.NoError(t, cb.Query().After("gorm:query").Register("test:record", rec.record))
	require.NoError(t, cb.Row().After("gorm:row").Register("test:record", rec.record))
	require.NoError(t, cb.Update().After("gorm:update").Register("test:record", rec.record))
	require.NoError(t, cb.Create().After("gorm:create").Register("test:record", rec.record))

	return storage.NewStorageService(db, nil, nil), rec, pool
}
