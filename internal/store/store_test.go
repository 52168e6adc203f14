package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/gamepulse/gamepulse/pkg/plugin"
)

func testDB(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrateAppliesOnce(t *testing.T) {
	s := testDB(t)
	ctx := context.Background()

	runs := 0
	migs := []plugin.Migration{
		{
			Version:     1,
			Description: "create table",
			Up: func(tx *sql.Tx) error {
				runs++
				_, err := tx.Exec(`CREATE TABLE things (id INTEGER PRIMARY KEY)`)
				return err
			},
		},
	}

	if err := s.Migrate(ctx, "test", migs); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := s.Migrate(ctx, "test", migs); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if runs != 1 {
		t.Errorf("migration ran %d times, want 1", runs)
	}
}

func TestMigratePerPluginTracking(t *testing.T) {
	s := testDB(t)
	ctx := context.Background()

	mk := func(table string) []plugin.Migration {
		return []plugin.Migration{{
			Version:     1,
			Description: "create " + table,
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`CREATE TABLE ` + table + ` (id INTEGER PRIMARY KEY)`)
				return err
			},
		}}
	}

	if err := s.Migrate(ctx, "alpha", mk("alpha_rows")); err != nil {
		t.Fatalf("alpha migrate: %v", err)
	}
	if err := s.Migrate(ctx, "beta", mk("beta_rows")); err != nil {
		t.Fatalf("beta migrate: %v", err)
	}

	for _, table := range []string{"alpha_rows", "beta_rows"} {
		var n int
		if err := s.DB().QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateFailureRollsBack(t *testing.T) {
	s := testDB(t)
	ctx := context.Background()

	migs := []plugin.Migration{{
		Version:     1,
		Description: "fails halfway",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE TABLE half (id INTEGER PRIMARY KEY)`); err != nil {
				return err
			}
			return fmt.Errorf("boom")
		},
	}}

	if err := s.Migrate(ctx, "test", migs); err == nil {
		t.Fatal("expected migration error")
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM half`).Scan(&n); err == nil {
		t.Error("table from failed migration should not exist")
	}
	var applied int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM _migrations WHERE plugin_name = 'test'`).Scan(&applied); err != nil {
		t.Fatalf("query _migrations: %v", err)
	}
	if applied != 0 {
		t.Errorf("failed migration was recorded as applied")
	}
}

func TestTxRollsBackOnError(t *testing.T) {
	s := testDB(t)
	ctx := context.Background()

	if _, err := s.DB().Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	wantErr := fmt.Errorf("abort")
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO kv (k, v) VALUES ('a', '1')`); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Tx error = %v, want %v", err, wantErr)
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("rolled-back insert persisted")
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		current string
		wantErr bool
	}{
		{name: "first run records version", stored: "", current: "1.2.0"},
		{name: "same version passes", stored: "1.2.0", current: "1.2.0"},
		{name: "upgrade passes", stored: "1.1.0", current: "1.2.0"},
		{name: "downgrade fails", stored: "1.3.0", current: "1.2.0", wantErr: true},
		{name: "dev always passes", stored: "9.9.9", current: "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testDB(t)
			ctx := context.Background()

			if tt.stored != "" {
				if err := s.CheckVersion(ctx, tt.stored); err != nil {
					t.Fatalf("seed stored version: %v", err)
				}
			}

			err := s.CheckVersion(ctx, tt.current)
			if tt.wantErr {
				if !errors.Is(err, ErrNewerSchema) {
					t.Fatalf("error = %v, want ErrNewerSchema", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
