package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haarg/bcvi/internal/modules/install/domain"
	installout "github.com/haarg/bcvi/internal/modules/install/port/out"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteTracker struct {
	db *sql.DB
}

func NewSQLiteTracker(dbPath string) (installout.Tracker, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	tracker := &SQLiteTracker{db: db}
	if err := tracker.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return tracker, nil
}

func (t *SQLiteTracker) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS installs (
  host TEXT PRIMARY KEY,
  first_installed TEXT NOT NULL,
  last_update TEXT NOT NULL
);
`
	if _, err := t.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create installs table: %w", err)
	}
	return nil
}

// RecordInstall upserts one host. The first install stamp survives
// later updates; only last_update moves.
func (t *SQLiteTracker) RecordInstall(ctx context.Context, host string, now time.Time) error {
	const stmt = `
INSERT INTO installs (host, first_installed, last_update)
VALUES (?, ?, ?)
ON CONFLICT(host) DO UPDATE SET
  last_update=excluded.last_update;
`
	stamp := now.Format(timeLayout)
	if _, err := t.db.ExecContext(ctx, stmt, host, stamp, stamp); err != nil {
		return fmt.Errorf("record install: %w", err)
	}
	return nil
}

func (t *SQLiteTracker) Hosts(ctx context.Context) ([]domain.InstallRecord, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT host, first_installed, last_update FROM installs ORDER BY host`)
	if err != nil {
		return nil, fmt.Errorf("list installs: %w", err)
	}
	defer rows.Close()

	var records []domain.InstallRecord
	for rows.Next() {
		var record domain.InstallRecord
		var first, last string
		if err := rows.Scan(&record.Host, &first, &last); err != nil {
			return nil, fmt.Errorf("scan install row: %w", err)
		}
		if record.FirstInstalled, err = time.Parse(timeLayout, first); err != nil {
			return nil, fmt.Errorf("decode first_installed for %s: %w", record.Host, err)
		}
		if record.LastUpdate, err = time.Parse(timeLayout, last); err != nil {
			return nil, fmt.Errorf("decode last_update for %s: %w", record.Host, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate installs: %w", err)
	}
	return records, nil
}
