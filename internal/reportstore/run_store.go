package reportstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// Table names for run tracking.
const (
	runsTable         = "scangrade_runs"
	imageReportsTable = "scangrade_image_reports"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = (*RunStoreImpl)(nil)

// NewRunStore opens the run tracking store on the requested backend and
// makes sure both run tables exist. A NoneBackend store turns every
// operation into a no-op.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openBackendDB(backend, connStr, contract.GetRunsDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("run store unavailable: %w", err)
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// runTableColumns holds the column definitions of the run tracking tables
// per dialect. SQLite stores timestamps as RFC3339 text, MySQL and
// PostgreSQL use native datetime columns.
var runTableColumns = map[string]map[schema.DatabaseBackend]string{
	runsTable: {
		schema.SQLiteBackend: `
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			start_time TEXT NOT NULL,
			end_time TEXT,
			run_duration_ms INTEGER,
			total_images_graded INTEGER,
			config_params TEXT`,
		schema.MySQLBackend: `
			run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
			start_time DATETIME(6) NOT NULL,
			end_time DATETIME(6),
			run_duration_ms INT,
			total_images_graded INT,
			config_params TEXT`,
		schema.PostgreSQLBackend: `
			run_id BIGSERIAL PRIMARY KEY,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ,
			run_duration_ms INT,
			total_images_graded INT,
			config_params TEXT`,
	},
	imageReportsTable: {
		schema.SQLiteBackend: `
			run_id INTEGER NOT NULL,
			image TEXT NOT NULL,
			graded_at TEXT NOT NULL,
			overall_score REAL NOT NULL,
			star_rating INTEGER NOT NULL,
			tier TEXT NOT NULL,
			compliance_level TEXT NOT NULL,
			violation_count INTEGER NOT NULL,
			excellent_metrics INTEGER NOT NULL,
			good_metrics INTEGER NOT NULL,
			fair_metrics INTEGER NOT NULL,
			poor_metrics INTEGER NOT NULL,
			recommendations TEXT,
			PRIMARY KEY (run_id, image)`,
		schema.MySQLBackend: `
			run_id BIGINT NOT NULL,
			image VARCHAR(512) NOT NULL,
			graded_at DATETIME(6) NOT NULL,
			overall_score DOUBLE NOT NULL,
			star_rating INT NOT NULL,
			tier VARCHAR(50) NOT NULL,
			compliance_level VARCHAR(50) NOT NULL,
			violation_count INT NOT NULL,
			excellent_metrics INT NOT NULL,
			good_metrics INT NOT NULL,
			fair_metrics INT NOT NULL,
			poor_metrics INT NOT NULL,
			recommendations TEXT,
			PRIMARY KEY (run_id, image)`,
		schema.PostgreSQLBackend: `
			run_id BIGINT NOT NULL,
			image TEXT NOT NULL,
			graded_at TIMESTAMPTZ NOT NULL,
			overall_score DOUBLE PRECISION NOT NULL,
			star_rating INT NOT NULL,
			tier TEXT NOT NULL,
			compliance_level TEXT NOT NULL,
			violation_count INT NOT NULL,
			excellent_metrics INT NOT NULL,
			good_metrics INT NOT NULL,
			fair_metrics INT NOT NULL,
			poor_metrics INT NOT NULL,
			recommendations TEXT,
			PRIMARY KEY (run_id, image)`,
	},
}

// runTableDDL assembles the CREATE TABLE statement for one run tracking
// table on one backend.
func runTableDDL(name string, backend schema.DatabaseBackend) (string, error) {
	columns, ok := runTableColumns[name][backend]
	if !ok {
		return "", fmt.Errorf("no %s definition for backend %s", name, backend)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s\n);", quoteIdent(name, backend), columns), nil
}

// createRunTables creates both run tracking tables if missing.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, name := range []string{runsTable, imageReportsTable} {
		ddl, err := runTableDDL(name, backend)
		if err != nil {
			return err
		}
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create run table %s: %w", name, err)
		}
	}
	return nil
}

// bindList returns n bind parameters in the placeholder style of the
// backend, "$1" onwards for PostgreSQL and "?" for everything else.
func bindList(backend schema.DatabaseBackend, n int) []string {
	params := make([]string, n)
	for i := range params {
		params[i] = "?"
		if backend == schema.PostgreSQLBackend {
			params[i] = fmt.Sprintf("$%d", i+1)
		}
	}
	return params
}

// BeginRun creates a new grading run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to encode run config: %w", err)
	}

	table := quoteIdent(runsTable, rs.backend)

	// pgx exposes no LastInsertId, so PostgreSQL hands the key back inline.
	if rs.backend == schema.PostgreSQLBackend {
		var runID int64
		insert := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, table)
		if err := rs.db.QueryRow(insert, startTime, string(configJSON)).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to record run start: %w", err)
		}
		return runID, nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, table)
	result, err := rs.db.Exec(insert, formatTime(startTime, rs.backend), string(configJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to record run start: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to record run start: %w", err)
	}
	return runID, nil
}

// EndRun closes a grading run, deriving the duration from the stored
// start time.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalImages int) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	table := quoteIdent(runsTable, rs.backend)

	var startTime time.Time
	load := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, table, keyParam(rs.backend))
	if err := rs.db.QueryRow(load, runID).Scan(backendTime{&startTime}); err != nil {
		return fmt.Errorf("failed to load start time of run %d: %w", runID, err)
	}

	p := bindList(rs.backend, 4)
	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_images_graded = %s WHERE run_id = %s`,
		table, p[0], p[1], p[2], p[3])
	durationMs := endTime.Sub(startTime).Milliseconds()
	if _, err := rs.db.Exec(update, formatTime(endTime, rs.backend), durationMs, totalImages, runID); err != nil {
		return fmt.Errorf("failed to finish run %d: %w", runID, err)
	}
	return nil
}

// RecordImageReport stores the per-image grade summary for a run.
func (rs *RunStoreImpl) RecordImageReport(record schema.ImageReportRecord) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (run_id, image, graded_at, overall_score, star_rating,
		tier, compliance_level, violation_count,
		excellent_metrics, good_metrics, fair_metrics, poor_metrics, recommendations)
		VALUES (%s)`,
		quoteIdent(imageReportsTable, rs.backend), strings.Join(bindList(rs.backend, 13), ", "))

	_, err := rs.db.Exec(insert,
		record.RunID, record.Image, formatTime(record.GradedAt, rs.backend), record.OverallScore, record.StarRating,
		record.Tier, record.ComplianceLevel, record.ViolationCount,
		record.ExcellentMetrics, record.GoodMetrics, record.FairMetrics, record.PoorMetrics, record.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to store report for %s: %w", record.Image, err)
	}
	return nil
}

// Close releases the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db == nil {
		return nil
	}
	return rs.db.Close()
}

// GetStatus reports run counts, the tracked time span and per-table row
// counts.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	runs := quoteIdent(runsTable, rs.backend)
	if err := rs.db.QueryRow("SELECT COUNT(*) FROM " + runs).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to count grading runs: %w", err)
	}

	if status.TotalRuns > 0 {
		newest := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs)
		if err := rs.db.QueryRow(newest).Scan(&status.LastRunID, backendTime{&status.LastRunTime}); err != nil {
			return status, fmt.Errorf("failed to read latest run: %w", err)
		}

		oldest := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs)
		if err := rs.db.QueryRow(oldest).Scan(backendTime{&status.OldestRunTime}); err != nil {
			return status, fmt.Errorf("failed to read oldest run: %w", err)
		}

		graded := fmt.Sprintf("SELECT COALESCE(SUM(total_images_graded), 0) FROM %s", runs)
		if err := rs.db.QueryRow(graded).Scan(&status.TotalImagesGraded); err != nil {
			return status, fmt.Errorf("failed to sum graded images: %w", err)
		}
	}

	for _, name := range []string{runsTable, imageReportsTable} {
		var count int64
		if err := rs.db.QueryRow("SELECT COUNT(*) FROM " + quoteIdent(name, rs.backend)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count rows of %s: %w", name, err)
		}
		status.TableSizes[name] = count
	}

	return status, nil
}

// GetAllRuns retrieves every grading run in insertion order.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, total_images_graded, config_params FROM %s ORDER BY run_id",
		quoteIdent(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query grading runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		if err := rows.Scan(&record.RunID, backendTime{&record.StartTime}, nullBackendTime{&record.EndTime},
			&record.RunDurationMs, &record.TotalImagesGraded, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan grading run: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetAllImageReports retrieves every stored image report, ordered by run
// and image name.
func (rs *RunStoreImpl) GetAllImageReports() ([]schema.ImageReportRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, image, graded_at, overall_score, star_rating,
		tier, compliance_level, violation_count,
		excellent_metrics, good_metrics, fair_metrics, poor_metrics, recommendations
		FROM %s ORDER BY run_id, image`, quoteIdent(imageReportsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query image reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.ImageReportRecord
	for rows.Next() {
		var record schema.ImageReportRecord
		if err := rows.Scan(&record.RunID, &record.Image, backendTime{&record.GradedAt}, &record.OverallScore,
			&record.StarRating, &record.Tier, &record.ComplianceLevel, &record.ViolationCount,
			&record.ExcellentMetrics, &record.GoodMetrics, &record.FairMetrics, &record.PoorMetrics,
			&record.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to scan image report: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// formatTime renders a timestamp the way the backend stores it. SQLite
// has no datetime type and gets RFC3339 text, the server backends take
// time.Time natively.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.Format(time.RFC3339Nano)
	}
	return t
}

// mysqlTimeLayout is what the MySQL driver produces for datetime columns
// when the DSN lacks parseTime=true.
const mysqlTimeLayout = "2006-01-02 15:04:05.999999"

// backendTime scans a timestamp column regardless of how the backend
// stores it. MySQL and PostgreSQL produce time.Time, SQLite returns the
// text written by formatTime.
type backendTime struct {
	t *time.Time
}

func (bt backendTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*bt.t = v
		return nil
	case string:
		return bt.parse(v)
	case []byte:
		return bt.parse(string(v))
	default:
		return fmt.Errorf("cannot read timestamp from %T", src)
	}
}

func (bt backendTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(mysqlTimeLayout, s)
	}
	if err != nil {
		return fmt.Errorf("malformed stored timestamp %q", s)
	}
	*bt.t = parsed
	return nil
}

// nullBackendTime is backendTime for nullable columns. NULL leaves the
// target pointer nil.
type nullBackendTime struct {
	t **time.Time
}

func (nt nullBackendTime) Scan(src any) error {
	if src == nil {
		*nt.t = nil
		return nil
	}
	var parsed time.Time
	if err := (backendTime{&parsed}).Scan(src); err != nil {
		return err
	}
	*nt.t = &parsed
	return nil
}
