package reportstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver, also used for DSN parsing
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// GradeCacheImpl persists serialized report models in a single table.
// Keys are content fingerprints, so a row can never describe anything
// other than the exact document and specification it was graded with.
type GradeCacheImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.CacheStore = (*GradeCacheImpl)(nil)

// NewCacheStore opens the grade cache on the requested backend and makes
// sure the cache table exists. A NoneBackend store accepts writes and
// reports every key as missing.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := ensureTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &GradeCacheImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openBackendDB(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("grade cache unavailable: %w", err)
	}

	if _, err := db.Exec(cacheTableDDL(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache table %s: %w", tableName, err)
	}

	return &GradeCacheImpl{db: db, tableName: tableName, backend: backend, connStr: connStr}, nil
}

// cacheTableDDL returns the CREATE TABLE statement for the cache table.
// The blob and integer column types differ per dialect.
func cacheTableDDL(tableName string, backend schema.DatabaseBackend) string {
	table := quoteIdent(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			grade_key VARCHAR(255) PRIMARY KEY,
			report_blob BLOB NOT NULL,
			format_version INT NOT NULL,
			stored_at BIGINT NOT NULL
		);`, table)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			grade_key TEXT PRIMARY KEY,
			report_blob BYTEA NOT NULL,
			format_version INTEGER NOT NULL,
			stored_at BIGINT NOT NULL
		);`, table)

	default: // SQLite
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			grade_key TEXT PRIMARY KEY,
			report_blob BLOB NOT NULL,
			format_version INTEGER NOT NULL,
			stored_at INTEGER NOT NULL
		);`, table)
	}
}

// keyParam returns the bind parameter for a single-argument query.
func keyParam(backend schema.DatabaseBackend) string {
	if backend == schema.PostgreSQLBackend {
		return "$1"
	}
	return "?"
}

// upsertStatement returns the insert-or-replace statement for the backend.
func upsertStatement(tableName string, backend schema.DatabaseBackend) string {
	table := quoteIdent(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (grade_key, report_blob, format_version, stored_at) VALUES (?, ?, ?, ?) AS incoming
			ON DUPLICATE KEY UPDATE report_blob = incoming.report_blob, format_version = incoming.format_version, stored_at = incoming.stored_at`, table)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (grade_key, report_blob, format_version, stored_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (grade_key) DO UPDATE SET report_blob = EXCLUDED.report_blob, format_version = EXCLUDED.format_version, stored_at = EXCLUDED.stored_at`, table)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (grade_key, report_blob, format_version, stored_at) VALUES (?, ?, ?, ?)`, table)
	}
}

// Get returns the payload, format version and storage time for a
// fingerprint key. A miss surfaces as sql.ErrNoRows, including on a
// disabled store.
func (gc *GradeCacheImpl) Get(key string) ([]byte, int, int64, error) {
	if gc.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	query := fmt.Sprintf(`SELECT report_blob, format_version, stored_at FROM %s WHERE grade_key = %s`,
		quoteIdent(gc.tableName, gc.backend), keyParam(gc.backend))

	var payload []byte
	var version int
	var storedAt int64
	if err := gc.db.QueryRow(query, key).Scan(&payload, &version, &storedAt); err != nil {
		return nil, 0, 0, err
	}
	return payload, version, storedAt, nil
}

// Set stores a payload under its fingerprint key, replacing any previous
// row. Writes to a disabled store are silently dropped.
func (gc *GradeCacheImpl) Set(key string, payload []byte, version int, storedAt int64) error {
	if gc.db == nil {
		return nil
	}
	_, err := gc.db.Exec(upsertStatement(gc.tableName, gc.backend), key, payload, version, storedAt)
	return err
}

// Close releases the underlying connection.
func (gc *GradeCacheImpl) Close() error {
	if gc.db == nil {
		return nil
	}
	return gc.db.Close()
}

// GetStatus reports entry counts, the entry time span and an approximate
// table size for the cache.
func (gc *GradeCacheImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(gc.backend),
		Connected: gc.db != nil,
	}
	if gc.db == nil {
		return status, nil
	}

	table := quoteIdent(gc.tableName, gc.backend)
	if err := gc.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to count cache entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var newest, oldest int64
	spanQuery := fmt.Sprintf("SELECT MAX(stored_at), MIN(stored_at) FROM %s", table)
	if err := gc.db.QueryRow(spanQuery).Scan(&newest, &oldest); err != nil {
		return status, fmt.Errorf("failed to read cache entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(newest, 0)
	status.OldestEntryTime = time.Unix(oldest, 0)

	status.TableSizeBytes = gc.tableSizeBytes(status.TotalEntries)
	return status, nil
}

// tableSizeBytes reads the on-disk size of the cache table where the
// backend exposes one, falling back to a rough per-row estimate.
func (gc *GradeCacheImpl) tableSizeBytes(entries int) int64 {
	estimate := int64(entries) * 1000

	switch gc.backend {
	case schema.SQLiteBackend:
		// Whole-file size; SQLite has no cheap per-table figure.
		var size int64
		row := gc.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		dsn, err := mysql.ParseDSN(gc.connStr)
		if err != nil || dsn.DBName == "" {
			return estimate
		}
		var size int64
		row := gc.db.QueryRow(
			"SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
			dsn.DBName, gc.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size

	case schema.PostgreSQLBackend:
		var size int64
		if err := gc.db.QueryRow("SELECT pg_total_relation_size($1)", gc.tableName).Scan(&size); err != nil {
			return estimate
		}
		return size

	default:
		return estimate
	}
}
