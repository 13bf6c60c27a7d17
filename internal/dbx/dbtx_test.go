package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openKV(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE kv_store (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv_store (key, value) VALUES ('access', 'old-access'), ('refresh', 'old-refresh')`)
	require.NoError(t, err)
	return db
}

func value(t *testing.T, db *sql.DB, key string) string {
	t.Helper()
	var v string
	require.NoError(t, db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&v))
	return v
}

// rotate replaces both tokens, then runs after.
func rotate(after func() error) func(ctx context.Context, tx DBTX) error {
	return func(ctx context.Context, tx DBTX) error {
		for k, v := range map[string]string{"access": "new-access", "refresh": "new-refresh"} {
			if _, err := tx.ExecContext(ctx, `UPDATE kv_store SET value = ? WHERE key = ?`, v, k); err != nil {
				return err
			}
		}
		return after()
	}
}

func TestWithTx(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		after   func() error
		wantErr error
		want    string
	}{
		{name: "commit", after: func() error { return nil }, want: "new"},
		{name: "rollback on error", after: func() error { return boom }, wantErr: boom, want: "old"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openKV(t)

			err := WithTx(context.Background(), db, nil, rotate(tt.after))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want+"-access", value(t, db, "access"))
			assert.Equal(t, tt.want+"-refresh", value(t, db, "refresh"))
		})
	}
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := openKV(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, rotate(func() error { panic("kaput") }))
	})
	assert.Equal(t, "old-refresh", value(t, db, "refresh"))
}

func TestWithTx_BeginError(t *testing.T) {
	db := openKV(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return nil })
	require.ErrorContains(t, err, "begin tx")
}
