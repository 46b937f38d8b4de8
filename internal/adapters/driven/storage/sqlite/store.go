package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/scrub-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

var _ driven.AuditSink = (*Store)(nil)

// Store is the SQLite-backed audit sink. One database holds the decision
// logs of every redaction pass plus the shadow-mode parity records.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite audit store in the specified data
// directory. If dataDir is empty, defaults to ~/.scrub/data/audit.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scrub", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "audit.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordDecisions stores every entry of one pass's decision log under the
// given document or session ID, in a single transaction.
func (s *Store) RecordDecisions(ctx context.Context, docID string, log *domain.DecisionLog) error {
	if log == nil || len(log.Entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decisions
			(doc_id, kind, detector, character_start, character_end, span_index, winner_index, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range log.Entries {
		if _, err := stmt.ExecContext(ctx, docID, string(d.Kind), d.Detector,
			d.CharacterStart, d.CharacterEnd, d.SpanIndex, d.WinnerIndex, d.Reason); err != nil {
			return fmt.Errorf("inserting decision: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing decisions: %w", err)
	}
	return nil
}

// RecordParity stores one shadow comparison outcome. The diff sample is
// stored as JSON.
func (s *Store) RecordParity(ctx context.Context, rec domain.ParityRecord) error {
	diffs := jsonNull
	if len(rec.Diffs) > 0 {
		data, err := json.Marshal(rec.Diffs)
		if err != nil {
			return fmt.Errorf("marshaling diffs: %w", err)
		}
		diffs = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO parity_records
			(id, detector, recorded_at, matched, only_reference, only_accelerated, diffs)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Detector, rec.Time, rec.Matched, rec.OnlyReference, rec.OnlyAccelerated, diffs)
	if err != nil {
		return fmt.Errorf("inserting parity record: %w", err)
	}
	return nil
}

// Decisions returns all stored decisions for a document or session ID in
// insertion order.
func (s *Store) Decisions(ctx context.Context, docID string) ([]domain.Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, detector, character_start, character_end, span_index, winner_index, reason
		FROM decisions WHERE doc_id = ? ORDER BY id
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var out []domain.Decision
	for rows.Next() {
		var d domain.Decision
		var kind string
		if err := rows.Scan(&kind, &d.Detector, &d.CharacterStart, &d.CharacterEnd,
			&d.SpanIndex, &d.WinnerIndex, &d.Reason); err != nil {
			return nil, fmt.Errorf("scanning decision: %w", err)
		}
		d.Kind = domain.DecisionKind(kind)
		out = append(out, d)
	}
	return out, rows.Err()
}

// ParityRecords returns stored comparison outcomes, newest first. An
// empty detector matches all detectors; limit 0 means no limit.
func (s *Store) ParityRecords(ctx context.Context, detector string, limit int) ([]domain.ParityRecord, error) {
	query := `
		SELECT id, detector, recorded_at, matched, only_reference, only_accelerated, diffs
		FROM parity_records
	`
	var args []any
	if detector != "" {
		query += " WHERE detector = ?"
		args = append(args, detector)
	}
	query += " ORDER BY recorded_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying parity records: %w", err)
	}
	defer rows.Close()

	var out []domain.ParityRecord
	for rows.Next() {
		var rec domain.ParityRecord
		var diffs string
		if err := rows.Scan(&rec.ID, &rec.Detector, &rec.Time, &rec.Matched,
			&rec.OnlyReference, &rec.OnlyAccelerated, &diffs); err != nil {
			return nil, fmt.Errorf("scanning parity record: %w", err)
		}
		if diffs != jsonNull && diffs != "" {
			if err := json.Unmarshal([]byte(diffs), &rec.Diffs); err != nil {
				return nil, fmt.Errorf("unmarshaling diffs: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
