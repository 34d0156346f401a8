package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"

	"github.com/moshpitcodes/livinglands-core/internal/apperrors"
)

// AuditRecord is one routed event captured for later "what happened to me"
// reconstruction. It never backs an authoritative document; FileSink alone
// owns durable module state.
type AuditRecord struct {
	ID        string
	Timestamp time.Time
	EventType string
	PlayerID  string
	Summary   string
}

// SQLiteAudit is an append-only event ledger; nothing prunes old rows, so
// it grows with every recorded event. It is optional: a
// framework instance that never constructs one simply has no audit
// reconstruction available.
type SQLiteAudit struct {
	db *sql.DB
}

// OpenSQLiteAudit opens (creating if necessary) the SQLite-backed ledger at
// dbPath, following the teacher's InitSQLite directory-prep and
// create-if-missing-schema idiom.
func OpenSQLiteAudit(dbPath string) (*SQLiteAudit, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit db directory: %w", apperrors.ErrPersistenceFailed)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", apperrors.ErrPersistenceFailed)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping audit db: %w", apperrors.ErrPersistenceFailed)
	}

	schema := `CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		event_type TEXT NOT NULL,
		player_id TEXT NOT NULL,
		summary TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_player_id ON audit_events(player_id);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create audit schema: %w", apperrors.ErrPersistenceFailed)
	}

	return &SQLiteAudit{db: db}, nil
}

// Record appends one event to the ledger.
func (a *SQLiteAudit) Record(ctx context.Context, r AuditRecord) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, timestamp, event_type, player_id, summary) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp, r.EventType, r.PlayerID, r.Summary,
	)
	if err != nil {
		return fmt.Errorf("record audit event: %w", apperrors.ErrPersistenceFailed)
	}
	return nil
}

// Recap rebuilds the recent history for a player, reading events stamped
// at or after since in chronological order, mirroring
// the teacher's GenerateRecap shape without the narrative-specific fields.
func (a *SQLiteAudit) Recap(ctx context.Context, playerID string, since time.Time) ([]AuditRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, timestamp, event_type, player_id, summary FROM audit_events
		 WHERE player_id = ? AND timestamp >= ? ORDER BY timestamp ASC`,
		playerID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit recap: %w", apperrors.ErrPersistenceFailed)
	}
	defer rows.Close()

	var out []AuditRecord
	for rows.Next() {
		var r AuditRecord
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.EventType, &r.PlayerID, &r.Summary); err != nil {
			return nil, fmt.Errorf("scan audit recap row: %w", apperrors.ErrPersistenceFailed)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PayloadSummary renders a JSON-ish payload into a one-line summary,
// falling back to its type name when it can't be marshaled, matching the
// teacher's defensive decode-and-continue approach to untyped payloads.
func PayloadSummary(payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}

// RenderRecap formats records as relative-time lines ("3 minutes ago: …"),
// the one-line-per-event rendering a chat-based recap command would send.
func RenderRecap(records []AuditRecord, now time.Time) []string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, humanize.RelTime(r.Timestamp, now, "ago", "from now")+": "+r.Summary)
	}
	return lines
}

// Close releases the underlying database handle.
func (a *SQLiteAudit) Close() error {
	return a.db.Close()
}
