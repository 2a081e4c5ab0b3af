package reportstore

import (
	"testing"
	"time"

	"github.com/scangrade/scangrade/schema"
	"github.com/stretchr/testify/assert"
)

// TestRunStoreLifecycle tests the full lifecycle of run tracking operations.
func TestRunStoreLifecycle(t *testing.T) {
	t.Run("begin and end run", func(t *testing.T) {
		store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite run store")
		defer func() { _ = store.Close() }()

		start := time.Date(2025, 11, 4, 9, 30, 0, 0, time.UTC)
		configParams := map[string]any{
			"input_path": "scans/batch-042",
			"workers":    4,
		}

		runID, err := store.BeginRun(start, configParams)
		assert.NoError(t, err, "BeginRun should not fail")
		assert.Equal(t, int64(1), runID, "First run should get ID 1")

		end := start.Add(1500 * time.Millisecond)
		err = store.EndRun(runID, end, 3)
		assert.NoError(t, err, "EndRun should not fail")

		runs, err := store.GetAllRuns()
		assert.NoError(t, err, "GetAllRuns should not fail")
		assert.Len(t, runs, 1, "Should have exactly one run")

		record := runs[0]
		assert.Equal(t, int64(1), record.RunID, "RunID mismatch")
		assert.Equal(t, start, record.StartTime, "StartTime should roundtrip")
		assert.NotNil(t, record.EndTime, "EndTime should be set after EndRun")
		assert.Equal(t, end, *record.EndTime, "EndTime should roundtrip")
		assert.NotNil(t, record.RunDurationMs, "RunDurationMs should be set after EndRun")
		assert.Equal(t, int32(1500), *record.RunDurationMs, "RunDurationMs mismatch")
		assert.Equal(t, int32(3), record.TotalImagesGraded, "TotalImagesGraded mismatch")
		assert.NotNil(t, record.ConfigParams, "ConfigParams should be stored")
		assert.Contains(t, *record.ConfigParams, "input_path", "ConfigParams should keep the JSON keys")
	})

	t.Run("record image reports", func(t *testing.T) {
		store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite run store")
		defer func() { _ = store.Close() }()

		start := time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)
		runID, err := store.BeginRun(start, map[string]any{"workers": 2})
		assert.NoError(t, err, "BeginRun should not fail")

		recommendations := `[{"priority":"CRITICAL","category":"sharpness"}]`
		reports := []schema.ImageReportRecord{
			{
				RunID:           runID,
				Image:           "scan-002.jpg",
				GradedAt:        start.Add(time.Second),
				OverallScore:    0.42,
				StarRating:      2,
				Tier:            "FAIR",
				ComplianceLevel: "NON_COMPLIANT",
				ViolationCount:  2,
				FairMetrics:     1,
				PoorMetrics:     3,
				Recommendations: &recommendations,
			},
			{
				RunID:            runID,
				Image:            "scan-001.jpg",
				GradedAt:         start.Add(time.Second),
				OverallScore:     0.88,
				StarRating:       4,
				Tier:             "EXCELLENT",
				ComplianceLevel:  "COMPLIANT",
				ExcellentMetrics: 3,
				GoodMetrics:      1,
			},
		}

		for _, report := range reports {
			err := store.RecordImageReport(report)
			assert.NoError(t, err, "RecordImageReport should not fail for %s", report.Image)
		}

		stored, err := store.GetAllImageReports()
		assert.NoError(t, err, "GetAllImageReports should not fail")
		assert.Len(t, stored, 2, "Should have two image reports")

		// Results are ordered by run_id, image
		assert.Equal(t, "scan-001.jpg", stored[0].Image, "Reports should be ordered by image")
		assert.Equal(t, "scan-002.jpg", stored[1].Image, "Reports should be ordered by image")

		assert.InDelta(t, 0.88, stored[0].OverallScore, 0.0001, "OverallScore should roundtrip")
		assert.Equal(t, int32(4), stored[0].StarRating, "StarRating should roundtrip")
		assert.Equal(t, "EXCELLENT", stored[0].Tier, "Tier should roundtrip")
		assert.Equal(t, "COMPLIANT", stored[0].ComplianceLevel, "ComplianceLevel should roundtrip")
		assert.Equal(t, int32(3), stored[0].ExcellentMetrics, "ExcellentMetrics should roundtrip")
		assert.Nil(t, stored[0].Recommendations, "Missing recommendations should stay nil")

		assert.Equal(t, int32(2), stored[1].ViolationCount, "ViolationCount should roundtrip")
		assert.Equal(t, int32(3), stored[1].PoorMetrics, "PoorMetrics should roundtrip")
		assert.NotNil(t, stored[1].Recommendations, "Recommendations should be stored")
		assert.Equal(t, recommendations, *stored[1].Recommendations, "Recommendations should roundtrip")
		assert.Equal(t, start.Add(time.Second), stored[1].GradedAt, "GradedAt should roundtrip")
	})

	t.Run("none backend operations", func(t *testing.T) {
		store, err := NewRunStore(schema.NoneBackend, "")
		assert.NoError(t, err, "Failed to create none backend run store")

		runID, err := store.BeginRun(time.Now(), map[string]any{"workers": 4})
		assert.NoError(t, err, "BeginRun should not error on none backend")
		assert.Equal(t, int64(0), runID, "BeginRun should return zero ID on none backend")

		err = store.EndRun(1, time.Now(), 5)
		assert.NoError(t, err, "EndRun should not error on none backend")

		err = store.RecordImageReport(schema.ImageReportRecord{RunID: 1, Image: "scan-001.jpg"})
		assert.NoError(t, err, "RecordImageReport should not error on none backend")

		runs, err := store.GetAllRuns()
		assert.NoError(t, err, "GetAllRuns should not error on none backend")
		assert.Nil(t, runs, "GetAllRuns should return nil on none backend")

		reports, err := store.GetAllImageReports()
		assert.NoError(t, err, "GetAllImageReports should not error on none backend")
		assert.Nil(t, reports, "GetAllImageReports should return nil on none backend")

		err = store.Close()
		assert.NoError(t, err, "Close should not error on none backend")
	})
}

// TestRunStoreGetStatus tests the GetStatus method of the run store.
func TestRunStoreGetStatus(t *testing.T) {
	t.Run("SQLite backend with runs", func(t *testing.T) {
		store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite run store")
		defer func() { _ = store.Close() }()

		start1 := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
		start2 := time.Date(2025, 11, 4, 8, 0, 0, 0, time.UTC)

		run1, err := store.BeginRun(start1, nil)
		assert.NoError(t, err, "BeginRun should not fail")
		err = store.EndRun(run1, start1.Add(time.Minute), 2)
		assert.NoError(t, err, "EndRun should not fail")

		run2, err := store.BeginRun(start2, nil)
		assert.NoError(t, err, "BeginRun should not fail")
		err = store.EndRun(run2, start2.Add(time.Minute), 1)
		assert.NoError(t, err, "EndRun should not fail")

		for _, image := range []string{"a.jpg", "b.jpg"} {
			err := store.RecordImageReport(schema.ImageReportRecord{
				RunID:    run1,
				Image:    image,
				GradedAt: start1,
			})
			assert.NoError(t, err, "RecordImageReport should not fail")
		}
		err = store.RecordImageReport(schema.ImageReportRecord{
			RunID:    run2,
			Image:    "c.jpg",
			GradedAt: start2,
		})
		assert.NoError(t, err, "RecordImageReport should not fail")

		status, err := store.GetStatus()
		assert.NoError(t, err, "GetStatus should not fail")

		assert.Equal(t, "sqlite", status.Backend, "Backend should be sqlite")
		assert.True(t, status.Connected, "Should be connected")
		assert.Equal(t, 2, status.TotalRuns, "Total runs should be 2")
		assert.Equal(t, int64(2), status.LastRunID, "Last run ID should be 2")
		assert.Equal(t, start2, status.LastRunTime, "Last run time mismatch")
		assert.Equal(t, start1, status.OldestRunTime, "Oldest run time mismatch")
		assert.Equal(t, 3, status.TotalImagesGraded, "Total images graded should sum across runs")
		assert.Equal(t, int64(2), status.TableSizes[runsTable], "Runs table should have 2 rows")
		assert.Equal(t, int64(3), status.TableSizes[imageReportsTable], "Image reports table should have 3 rows")
	})

	t.Run("SQLite backend empty", func(t *testing.T) {
		store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite run store")
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		assert.NoError(t, err, "GetStatus should not fail")

		assert.Equal(t, "sqlite", status.Backend, "Backend should be sqlite")
		assert.True(t, status.Connected, "Should be connected")
		assert.Equal(t, 0, status.TotalRuns, "Total runs should be 0")
		assert.True(t, status.LastRunTime.IsZero(), "Last run time should be zero")
		assert.Equal(t, int64(0), status.TableSizes[runsTable], "Runs table should be empty")
		assert.Equal(t, int64(0), status.TableSizes[imageReportsTable], "Image reports table should be empty")
	})

	t.Run("None backend", func(t *testing.T) {
		store, err := NewRunStore(schema.NoneBackend, "")
		assert.NoError(t, err, "Failed to create None run store")

		status, err := store.GetStatus()
		assert.NoError(t, err, "GetStatus should not fail")

		assert.Equal(t, "none", status.Backend, "Backend should be none")
		assert.False(t, status.Connected, "Should not be connected")
		assert.Equal(t, 0, status.TotalRuns, "Total runs should be 0")
		assert.Empty(t, status.TableSizes, "Table sizes should be empty")
	})
}

// TestNewRunStoreErrors tests error scenarios in NewRunStore.
func TestNewRunStoreErrors(t *testing.T) {
	t.Run("unsupported backend", func(t *testing.T) {
		_, err := NewRunStore("unsupported", "")
		assert.Error(t, err, "Expected error for unsupported backend")
	})

	t.Run("invalid MySQL connection string", func(t *testing.T) {
		_, err := NewRunStore(schema.MySQLBackend, "invalid://connection")
		assert.Error(t, err, "Expected error for invalid MySQL connection string")
	})
}

// TestRunTableDDL tests the CREATE TABLE statements per table and backend.
func TestRunTableDDL(t *testing.T) {
	tests := []struct {
		name         string
		table        string
		backend      schema.DatabaseBackend
		wantContains []string
	}{
		{
			name:    "runs on SQLite",
			table:   runsTable,
			backend: schema.SQLiteBackend,
			wantContains: []string{
				"CREATE TABLE IF NOT EXISTS",
				`"scangrade_runs"`,
				"run_id INTEGER PRIMARY KEY AUTOINCREMENT",
				"start_time TEXT NOT NULL",
				"config_params TEXT",
			},
		},
		{
			name:    "runs on MySQL",
			table:   runsTable,
			backend: schema.MySQLBackend,
			wantContains: []string{
				"CREATE TABLE IF NOT EXISTS",
				"`scangrade_runs`",
				"run_id BIGINT AUTO_INCREMENT PRIMARY KEY",
				"start_time DATETIME(6) NOT NULL",
			},
		},
		{
			name:    "runs on PostgreSQL",
			table:   runsTable,
			backend: schema.PostgreSQLBackend,
			wantContains: []string{
				"CREATE TABLE IF NOT EXISTS",
				`"scangrade_runs"`,
				"run_id BIGSERIAL PRIMARY KEY",
				"start_time TIMESTAMPTZ NOT NULL",
			},
		},
		{
			name:    "image reports on SQLite",
			table:   imageReportsTable,
			backend: schema.SQLiteBackend,
			wantContains: []string{
				"CREATE TABLE IF NOT EXISTS",
				`"scangrade_image_reports"`,
				"overall_score REAL NOT NULL",
				"PRIMARY KEY (run_id, image)",
			},
		},
		{
			name:    "image reports on MySQL",
			table:   imageReportsTable,
			backend: schema.MySQLBackend,
			wantContains: []string{
				"CREATE TABLE IF NOT EXISTS",
				"`scangrade_image_reports`",
				"image VARCHAR(512) NOT NULL",
				"overall_score DOUBLE NOT NULL",
				"PRIMARY KEY (run_id, image)",
			},
		},
		{
			name:    "image reports on PostgreSQL",
			table:   imageReportsTable,
			backend: schema.PostgreSQLBackend,
			wantContains: []string{
				"CREATE TABLE IF NOT EXISTS",
				`"scangrade_image_reports"`,
				"graded_at TIMESTAMPTZ NOT NULL",
				"overall_score DOUBLE PRECISION NOT NULL",
				"PRIMARY KEY (run_id, image)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runTableDDL(tt.table, tt.backend)
			assert.NoError(t, err, "runTableDDL should succeed for a known backend")
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want, "runTableDDL(%s, %s) should contain %q", tt.table, tt.backend, want)
			}
		})
	}

	t.Run("unknown backend", func(t *testing.T) {
		_, err := runTableDDL(runsTable, schema.NoneBackend)
		assert.Error(t, err, "NoneBackend has no table definitions")
	})
}

// TestBackendTimeScan tests timestamp scanning across the value types the
// drivers hand back.
func TestBackendTimeScan(t *testing.T) {
	want := time.Date(2025, 11, 4, 9, 30, 0, 0, time.UTC)

	t.Run("native time", func(t *testing.T) {
		var got time.Time
		err := (backendTime{&got}).Scan(want)
		assert.NoError(t, err, "time.Time should scan directly")
		assert.Equal(t, want, got, "native time should pass through")
	})

	t.Run("RFC3339 text", func(t *testing.T) {
		var got time.Time
		err := (backendTime{&got}).Scan("2025-11-04T09:30:00Z")
		assert.NoError(t, err, "RFC3339 text should scan")
		assert.Equal(t, want, got, "RFC3339 text should parse")
	})

	t.Run("MySQL datetime text", func(t *testing.T) {
		var got time.Time
		err := (backendTime{&got}).Scan([]byte("2025-11-04 09:30:00"))
		assert.NoError(t, err, "MySQL datetime text should scan")
		assert.Equal(t, want, got, "MySQL datetime text should parse")
	})

	t.Run("garbage text", func(t *testing.T) {
		var got time.Time
		err := (backendTime{&got}).Scan("last tuesday")
		assert.Error(t, err, "unparseable text should error")
	})

	t.Run("unsupported type", func(t *testing.T) {
		var got time.Time
		err := (backendTime{&got}).Scan(42)
		assert.Error(t, err, "integers are not timestamps")
	})

	t.Run("NULL into nullable", func(t *testing.T) {
		got := &time.Time{}
		err := (nullBackendTime{&got}).Scan(nil)
		assert.NoError(t, err, "NULL should scan into a nullable column")
		assert.Nil(t, got, "NULL should clear the target pointer")
	})

	t.Run("value into nullable", func(t *testing.T) {
		var got *time.Time
		err := (nullBackendTime{&got}).Scan("2025-11-04T09:30:00Z")
		assert.NoError(t, err, "text should scan into a nullable column")
		assert.NotNil(t, got, "value should allocate the target")
		assert.Equal(t, want, *got, "value should parse")
	})
}

// TestFormatTime tests time formatting per backend.
func TestFormatTime(t *testing.T) {
	ts := time.Date(2025, 11, 4, 9, 30, 0, 123456789, time.UTC)

	t.Run("SQLite formats as RFC3339Nano string", func(t *testing.T) {
		got := formatTime(ts, schema.SQLiteBackend)
		str, ok := got.(string)
		assert.True(t, ok, "SQLite formatTime should return a string")
		assert.Equal(t, "2025-11-04T09:30:00.123456789Z", str, "RFC3339Nano format mismatch")
	})

	t.Run("MySQL keeps native time", func(t *testing.T) {
		got := formatTime(ts, schema.MySQLBackend)
		assert.Equal(t, ts, got, "MySQL formatTime should return the time unchanged")
	})

	t.Run("PostgreSQL keeps native time", func(t *testing.T) {
		got := formatTime(ts, schema.PostgreSQLBackend)
		assert.Equal(t, ts, got, "PostgreSQL formatTime should return the time unchanged")
	})
}

// TestClearRuns tests the ClearRuns function.
func TestClearRuns(t *testing.T) {
	t.Run("SQLite backend", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := tmpDir + "/test_runs_clear.db"

		store, err := NewRunStore(schema.SQLiteBackend, dbPath)
		assert.NoError(t, err, "Failed to create run store")
		_ = store.Close()

		err = ClearRuns(schema.SQLiteBackend, dbPath, "")
		assert.NoError(t, err, "ClearRuns should not fail")
	})

	t.Run("SQLite backend - non-existent file", func(t *testing.T) {
		tmpDir := t.TempDir()
		err := ClearRuns(schema.SQLiteBackend, tmpDir+"/non_existent.db", "")
		assert.NoError(t, err, "ClearRuns on non-existent file should not error")
	})

	t.Run("NoneBackend", func(t *testing.T) {
		err := ClearRuns(schema.NoneBackend, "", "")
		assert.NoError(t, err, "ClearRuns with NoneBackend should not error")
	})

	t.Run("empty dbFilePath for SQLite", func(t *testing.T) {
		err := ClearRuns(schema.SQLiteBackend, "", "")
		assert.Error(t, err, "Expected error for empty dbFilePath with SQLite backend")
	})

	t.Run("unsupported backend", func(t *testing.T) {
		err := ClearRuns("unsupported", "", "")
		assert.Error(t, err, "Expected error for unsupported backend")
	})
}
