package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS invoices (
	id             TEXT PRIMARY KEY,
	party          TEXT NOT NULL,
	invoice_number TEXT NOT NULL,
	invoice_date   TEXT NOT NULL,
	subtotal       TEXT NOT NULL,
	tax            TEXT NOT NULL,
	total          TEXT NOT NULL,
	grand_total    TEXT NOT NULL,
	source_path    TEXT NOT NULL DEFAULT '',
	confidence     REAL NOT NULL DEFAULT 0,
	needs_review   INTEGER NOT NULL DEFAULT 0,
	extracted_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS line_items (
	invoice_id TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	quantity   TEXT NOT NULL,
	rate       TEXT NOT NULL,
	amount     TEXT NOT NULL,
	PRIMARY KEY (invoice_id, position)
);
`

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	logger.Info("opening database", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("database ready")
	return db, nil
}

// Close closes the database gracefully
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database closed")
}
