// Package sessionstore persists session records across resets.
package sessionstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// snapshotsTable is the append-only table of session record snapshots.
const snapshotsTable = "debtsession_snapshots"

// SQLStore persists session snapshots using various database backends.
// Snapshots are append-only: rows are inserted, never updated or deleted,
// so archived records stay immutable and safe for concurrent readers.
type SQLStore struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.SessionStore = &SQLStore{} // Compile-time check

// NewSessionStore initializes and returns a session store for the backend.
// The memory backend returns a volatile in-process store, useful for tests
// and dry runs.
func NewSessionStore(backend schema.StoreBackend, connStr string) (contract.SessionStore, error) {
	if backend == schema.MemoryBackend {
		return NewMemoryStore(), nil
	}

	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetStoreDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or memory", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if _, err := db.Exec(getCreateTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", snapshotsTable, err)
	}

	return &SQLStore{db: db, backend: backend}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(backend schema.StoreBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				session_id VARCHAR(64) NOT NULL,
				phase VARCHAR(16) NOT NULL,
				forced TINYINT NOT NULL,
				remaining INT NOT NULL,
				capacity INT NOT NULL,
				taken_at BIGINT NOT NULL,
				payload BLOB NOT NULL
			);
		`, snapshotsTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				session_id TEXT NOT NULL,
				phase TEXT NOT NULL,
				forced BOOLEAN NOT NULL,
				remaining INTEGER NOT NULL,
				capacity INTEGER NOT NULL,
				taken_at BIGINT NOT NULL,
				payload BYTEA NOT NULL
			);
		`, snapshotsTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id TEXT NOT NULL,
				phase TEXT NOT NULL,
				forced INTEGER NOT NULL,
				remaining INTEGER NOT NULL,
				capacity INTEGER NOT NULL,
				taken_at INTEGER NOT NULL,
				payload BLOB NOT NULL
			);
		`, snapshotsTable)
	}
}

// getPlaceholders returns n parameter placeholders for the backend.
func (s *SQLStore) getPlaceholders(n int) []string {
	placeholders := make([]string, n)
	for i := range placeholders {
		if s.backend == schema.PostgreSQLBackend {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		} else {
			placeholders[i] = "?"
		}
	}
	return placeholders
}

// Append persists one immutable snapshot of the record. The JSON payload is
// the source of truth for round-tripping; the scalar columns exist for
// listing and export queries.
func (s *SQLStore) Append(rec schema.SessionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}

	p := s.getPlaceholders(7)
	query := fmt.Sprintf(
		`INSERT INTO %s (session_id, phase, forced, remaining, capacity, taken_at, payload) VALUES (%s, %s, %s, %s, %s, %s, %s)`,
		snapshotsTable, p[0], p[1], p[2], p[3], p[4], p[5], p[6])
	_, err = s.db.Exec(query,
		rec.SessionID, string(rec.CurrentPhase), rec.Forced,
		rec.Budget.Remaining, rec.Budget.TotalCapacity,
		rec.UpdatedAt.UnixNano(), payload)
	if err != nil {
		return fmt.Errorf("failed to append session snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently appended snapshot.
func (s *SQLStore) Latest() (schema.SessionRecord, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s ORDER BY id DESC LIMIT 1`, snapshotsTable)
	var payload []byte
	if err := s.db.QueryRow(query).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.SessionRecord{}, schema.ErrNoSession
		}
		return schema.SessionRecord{}, fmt.Errorf("failed to read latest snapshot: %w", err)
	}
	return decodeRecord(payload)
}

// History returns all snapshots for a session in append order.
func (s *SQLStore) History(sessionID string) ([]schema.SessionRecord, error) {
	p := s.getPlaceholders(1)
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE session_id = %s ORDER BY id ASC`, snapshotsTable, p[0])
	rows, err := s.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.SessionRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// List returns condensed summaries of all snapshots in append order.
func (s *SQLStore) List() ([]schema.SessionSummary, error) {
	query := fmt.Sprintf(`SELECT id, session_id, phase, forced, remaining, capacity, taken_at FROM %s ORDER BY id ASC`, snapshotsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []schema.SessionSummary
	for rows.Next() {
		var sum schema.SessionSummary
		var phase string
		var takenAt int64
		if err := rows.Scan(&sum.Seq, &sum.SessionID, &phase, &sum.Forced, &sum.Remaining, &sum.Capacity, &takenAt); err != nil {
			return nil, err
		}
		sum.Phase = schema.Phase(phase)
		sum.TakenAt = time.Unix(0, takenAt)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Status returns status information about the session store.
func (s *SQLStore) Status() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}

	row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT session_id) FROM %s", snapshotsTable))
	if err := row.Scan(&status.TotalSnapshots, &status.Sessions); err != nil {
		return status, fmt.Errorf("failed to count snapshots: %w", err)
	}
	if status.TotalSnapshots == 0 {
		return status, nil
	}

	var lastTs int64
	row = s.db.QueryRow(fmt.Sprintf("SELECT MAX(taken_at) FROM %s", snapshotsTable))
	if err := row.Scan(&lastTs); err != nil {
		return status, fmt.Errorf("failed to get last snapshot time: %w", err)
	}
	status.LastSnapshot = time.Unix(0, lastTs)

	// Table size is best-effort; only SQLite exposes it cheaply.
	if s.backend == schema.SQLiteBackend {
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := s.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	}

	return status, nil
}

// Clear removes all snapshots.
func (s *SQLStore) Clear() error {
	if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", snapshotsTable)); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

// Close closes the underlying DB connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// decodeRecord round-trips a payload back into a session record.
func decodeRecord(payload []byte) (schema.SessionRecord, error) {
	var rec schema.SessionRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return schema.SessionRecord{}, fmt.Errorf("failed to decode session record: %w", err)
	}
	return rec, nil
}
