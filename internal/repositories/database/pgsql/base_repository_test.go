package pgsql

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

// stubTx overrides Rollback only; no other method is reached.
type stubTx struct {
	pgx.Tx
	rollbackErr error
}

func (s stubTx) Rollback(ctx context.Context) error {
	return s.rollbackErr
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRollback_IgnoresAlreadyClosedTransaction(t *testing.T) {
	buf := captureLog(t)
	repo := &BaseRepository{}

	repo.Rollback(context.Background(), stubTx{rollbackErr: pgx.ErrTxClosed})
	repo.Rollback(context.Background(), stubTx{rollbackErr: sql.ErrTxDone})
	repo.Rollback(context.Background(), stubTx{rollbackErr: nil})

	assert.Empty(t, buf.String())
}

func TestRollback_LogsUnexpectedError(t *testing.T) {
	buf := captureLog(t)
	repo := &BaseRepository{}

	repo.Rollback(context.Background(), stubTx{rollbackErr: errors.New("connection reset")})

	assert.Contains(t, buf.String(), "Failed to roll back transaction")
	assert.Contains(t, buf.String(), "connection reset")
}
