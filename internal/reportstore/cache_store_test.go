package reportstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
	"github.com/stretchr/testify/assert"
)

// reportPayload builds a minimal serialized report for cache fixtures.
func reportPayload(image string, score float64) []byte {
	return fmt.Appendf(nil, `{"summary":{"image":%q,"overall_score":%g}}`, image, score)
}

func TestStoreLifecycle(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		dbPath := contract.GetCacheDBFilePath()
		defer func() { _ = os.Remove(dbPath) }()
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		// Cache on SQLite, run tracking left disabled
		err := InitStores(schema.SQLiteBackend, "", "", "")
		assert.NoError(t, err, "Failed to initialize stores")

		assert.NotNil(t, Manager, "Manager should not be nil")
		assert.NotNil(t, Manager.GetGradeCacheStore(), "Grade cache store should not be nil")
		assert.Nil(t, Manager.GetRunStore(), "Run store should be nil when its backend is unset")

		CloseStores()

		_, err = os.Stat(dbPath)
		assert.False(t, os.IsNotExist(err), "Cache database file should be created")
	})

	t.Run("repeated setup and teardown", func(t *testing.T) {
		dbPath := contract.GetCacheDBFilePath()
		defer func() { _ = os.Remove(dbPath) }()
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		// Only the first call in each direction does any work
		for range 3 {
			assert.NoError(t, InitStores(schema.SQLiteBackend, "", "", ""), "Repeated init should not fail")
		}
		for range 3 {
			CloseStores()
		}
	})

	t.Run("none backend", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		err := InitStores(schema.NoneBackend, "", "", "")
		assert.NoError(t, err, "Failed to initialize stores with none backend")

		assert.NotNil(t, Manager.GetGradeCacheStore(), "Disabled cache store should still satisfy the interface")

		CloseStores()
	})
}

func TestDisabledCacheOperations(t *testing.T) {
	t.Run("constructed via NewCacheStore", func(t *testing.T) {
		store, err := NewCacheStore("grade_cache_test", schema.NoneBackend, "")
		assert.NoError(t, err, "Failed to create disabled cache store")

		// Writes vanish and every read misses
		assert.NoError(t, store.Set("9f86d081884c7d65", reportPayload("scan_001.png", 0.91), 1, 1700000000),
			"Set should not error on a disabled store")
		_, _, _, err = store.Get("9f86d081884c7d65")
		assert.Equal(t, sql.ErrNoRows, err, "Get should miss on a disabled store")

		assert.NoError(t, store.Close(), "Close should not error on a disabled store")
	})

	t.Run("zero value store", func(t *testing.T) {
		store := &GradeCacheImpl{tableName: "grade_cache_test", backend: schema.NoneBackend}

		_, _, _, err := store.Get("9f86d081884c7d65")
		assert.Equal(t, sql.ErrNoRows, err, "Get with no connection should return sql.ErrNoRows")
		assert.NoError(t, store.Set("9f86d081884c7d65", nil, 1, 0), "Set with no connection should be a no-op")
		assert.NoError(t, store.Close(), "Close with no connection should not error")
	})
}

func TestEnsureTableName(t *testing.T) {
	valid := []string{
		"grade_cache",
		"grade_cache_2",
		"_staging",
		"GRADE_CACHE",
		"GradeCache_v2",
		strings.Repeat("a", 1000),
	}
	for _, name := range valid {
		assert.NoError(t, ensureTableName(name), "%q should be accepted", name)
	}

	invalid := []string{
		"",
		"2fast",
		"grade-cache",
		"grade cache",
		"grade@cache",
		"grade.cache",
		"grade;cache",
		"x'; DROP TABLE scangrade_runs; --",
		"cache_表", // non-ASCII identifiers are rejected
	}
	for _, name := range invalid {
		assert.Error(t, ensureTableName(name), "%q should be rejected", name)
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"grade_cache"`, quoteIdent("grade_cache", schema.SQLiteBackend))
	assert.Equal(t, "`grade_cache`", quoteIdent("grade_cache", schema.MySQLBackend))
	assert.Equal(t, `"grade_cache"`, quoteIdent("grade_cache", schema.PostgreSQLBackend))
	assert.Equal(t, `"grade_cache"`, quoteIdent("grade_cache", schema.NoneBackend), "Unknown backends fall back to double quotes")
}

func TestGradeCacheRoundtrip(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		store, err := NewCacheStore("grade_cache_test", schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite cache store")
		defer func() { _ = store.Close() }()

		payload := reportPayload("scan_001.png", 0.91)
		storedAt := time.Date(2025, 11, 4, 9, 30, 0, 0, time.UTC).Unix()

		assert.NoError(t, store.Set("9f86d081884c7d65", payload, 1, storedAt), "Set should not fail")

		got, version, ts, err := store.Get("9f86d081884c7d65")
		assert.NoError(t, err, "Get should not fail")
		assert.Equal(t, string(payload), string(got), "Payload should roundtrip")
		assert.Equal(t, 1, version, "Format version should roundtrip")
		assert.Equal(t, storedAt, ts, "Storage time should roundtrip")
	})

	t.Run("same key replaces the row", func(t *testing.T) {
		store, err := NewCacheStore("grade_cache_test", schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite cache store")
		defer func() { _ = store.Close() }()

		key := "b1946ac92492d234"
		assert.NoError(t, store.Set(key, reportPayload("scan_002.png", 0.52), 1, 1000), "Initial Set should not fail")
		assert.NoError(t, store.Set(key, reportPayload("scan_002.png", 0.55), 2, 2000), "Replacing Set should not fail")

		got, version, ts, err := store.Get(key)
		assert.NoError(t, err, "Get after replacement should not fail")
		assert.Contains(t, string(got), "0.55", "The replacement payload should win")
		assert.Equal(t, 2, version, "The replacement version should win")
		assert.Equal(t, int64(2000), ts, "The replacement timestamp should win")
	})

	t.Run("unknown key misses", func(t *testing.T) {
		store, err := NewCacheStore("grade_cache_test", schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite cache store")
		defer func() { _ = store.Close() }()

		_, _, _, err = store.Get("feedfacecafebeef")
		assert.Equal(t, sql.ErrNoRows, err, "A miss should surface as sql.ErrNoRows")
	})

	t.Run("keys stay independent", func(t *testing.T) {
		store, err := NewCacheStore("grade_cache_test", schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite cache store")
		defer func() { _ = store.Close() }()

		images := []string{"scan_001.png", "scan_002.png", "scan_003.png"}
		for i, image := range images {
			key := fmt.Sprintf("fp%02d", i)
			assert.NoError(t, store.Set(key, reportPayload(image, 0.5+float64(i)/10), i+1, int64(1000+i)), "Set %s should not fail", key)
		}

		for i, image := range images {
			got, version, ts, err := store.Get(fmt.Sprintf("fp%02d", i))
			assert.NoError(t, err, "Get for %s should not fail", image)
			assert.Contains(t, string(got), image, "Each key should keep its own payload")
			assert.Equal(t, i+1, version, "Each key should keep its own version")
			assert.Equal(t, int64(1000+i), ts, "Each key should keep its own timestamp")
		}
	})
}

func TestKeyParam(t *testing.T) {
	assert.Equal(t, "?", keyParam(schema.SQLiteBackend))
	assert.Equal(t, "?", keyParam(schema.MySQLBackend))
	assert.Equal(t, "$1", keyParam(schema.PostgreSQLBackend))
	assert.Equal(t, "?", keyParam(schema.NoneBackend))
}

func TestUpsertStatement(t *testing.T) {
	cases := []struct {
		backend schema.DatabaseBackend
		want    []string
	}{
		{schema.SQLiteBackend, []string{"INSERT OR REPLACE", `"grade_cache"`}},
		{schema.MySQLBackend, []string{"INSERT INTO", "ON DUPLICATE KEY UPDATE", "`grade_cache`"}},
		{schema.PostgreSQLBackend, []string{"INSERT INTO", "ON CONFLICT (grade_key)", "DO UPDATE SET", `"grade_cache"`, "$1", "$2", "$3", "$4"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.backend), func(t *testing.T) {
			got := upsertStatement("grade_cache", tc.backend)
			for _, want := range tc.want {
				assert.Contains(t, got, want, "upsert for %s should contain %q", tc.backend, want)
			}
		})
	}
}

func TestCacheTableDDL(t *testing.T) {
	cases := []struct {
		backend schema.DatabaseBackend
		want    []string
	}{
		{schema.SQLiteBackend, []string{
			"CREATE TABLE IF NOT EXISTS", `"grade_cache"`,
			"grade_key TEXT PRIMARY KEY", "report_blob BLOB", "format_version INTEGER", "stored_at INTEGER",
		}},
		{schema.MySQLBackend, []string{
			"CREATE TABLE IF NOT EXISTS", "`grade_cache`",
			"grade_key VARCHAR(255) PRIMARY KEY", "report_blob BLOB", "format_version INT", "stored_at BIGINT",
		}},
		{schema.PostgreSQLBackend, []string{
			"CREATE TABLE IF NOT EXISTS", `"grade_cache"`,
			"grade_key TEXT PRIMARY KEY", "report_blob BYTEA", "format_version INTEGER", "stored_at BIGINT",
		}},
	}

	for _, tc := range cases {
		t.Run(string(tc.backend), func(t *testing.T) {
			got := cacheTableDDL("grade_cache", tc.backend)
			for _, want := range tc.want {
				assert.Contains(t, got, want, "DDL for %s should contain %q", tc.backend, want)
			}
		})
	}
}

func TestNewCacheStoreErrors(t *testing.T) {
	t.Run("table name with a dash", func(t *testing.T) {
		_, err := NewCacheStore("grade-cache", schema.SQLiteBackend, "")
		assert.Error(t, err, "Expected error for an invalid table name")
	})

	t.Run("empty table name", func(t *testing.T) {
		_, err := NewCacheStore("", schema.SQLiteBackend, "")
		assert.Error(t, err, "Expected error for an empty table name")
	})

	t.Run("unsupported backend", func(t *testing.T) {
		_, err := NewCacheStore("grade_cache", "unsupported", "")
		assert.Error(t, err, "Expected error for an unsupported backend")
	})
}

func TestClearCache(t *testing.T) {
	t.Run("SQLite deletes the file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "clear_cache.db")

		db, err := sql.Open("sqlite", dbPath)
		assert.NoError(t, err, "Failed to create test database")
		_, err = db.Exec("CREATE TABLE placeholder (id INTEGER PRIMARY KEY)")
		assert.NoError(t, err, "Failed to create placeholder table")
		_ = db.Close()

		assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""), "ClearCache should not fail")

		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err), "Database file should be gone after ClearCache")
	})

	t.Run("SQLite tolerates a missing file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "never_created.db")
		assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""), "ClearCache on a missing file should not error")
	})

	t.Run("none backend is a no-op", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""), "ClearCache with NoneBackend should not error")
	})

	t.Run("SQLite requires a file path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""), "Expected error for an empty file path")
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearCache("unsupported", "", ""), "Expected error for an unsupported backend")
	})
}

func TestManagerConcurrentAccess(t *testing.T) {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}

	if err := InitStores(schema.SQLiteBackend, ":memory:", "", ""); err != nil {
		t.Fatalf("InitStores failed: %v", err)
	}
	defer CloseStores()

	var wg sync.WaitGroup
	for id := range 10 {
		wg.Go(func() {
			store := Manager.GetGradeCacheStore()
			if store == nil {
				t.Errorf("goroutine %d: GetGradeCacheStore returned nil", id)
				return
			}
			if err := store.Set("shared_fingerprint", reportPayload("scan_001.png", 0.9), 1, int64(1000+id)); err != nil {
				t.Errorf("goroutine %d: Set failed: %v", id, err)
			}
		})
	}
	wg.Wait()
}

func TestInitStoresErrors(t *testing.T) {
	t.Run("invalid MySQL connection string", func(t *testing.T) {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		defer func() {
			initOnce = sync.Once{}
			closeOnce = sync.Once{}
		}()

		err := InitStores(schema.MySQLBackend, "invalid://connection", "", "")
		assert.Error(t, err, "Expected error for an invalid MySQL connection string")
	})
}

func TestInitStoresDisabledBackends(t *testing.T) {
	defer func() {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
	}()

	t.Run("cache disabled, runs active", func(t *testing.T) {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}

		err := InitStores(schema.NoneBackend, "", schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "InitStores should accept a disabled cache")

		cache := Manager.GetGradeCacheStore()
		assert.NotNil(t, cache, "Disabled cache should still satisfy the interface")
		assert.NotNil(t, Manager.GetRunStore(), "Run store should be active")

		assert.NoError(t, cache.Set("fp01", reportPayload("scan_001.png", 0.8), 1, 1700000000), "Disabled cache should swallow writes")
		_, _, _, err = cache.Get("fp01")
		assert.Equal(t, sql.ErrNoRows, err, "Disabled cache should always miss")

		CloseStores()
	})

	t.Run("cache active, runs disabled", func(t *testing.T) {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}

		err := InitStores(schema.SQLiteBackend, ":memory:", schema.NoneBackend, "")
		assert.NoError(t, err, "InitStores should accept disabled run tracking")

		cache := Manager.GetGradeCacheStore()
		assert.NotNil(t, cache, "Cache store should be active")
		assert.NoError(t, cache.Set("fp02", reportPayload("scan_002.png", 0.6), 1, 1700000000), "Active cache should accept writes")

		runs := Manager.GetRunStore()
		assert.NotNil(t, runs, "Disabled run store should still satisfy the interface")
		runID, err := runs.BeginRun(time.Now(), map[string]any{"workers": 4})
		assert.NoError(t, err, "BeginRun should not error on a disabled store")
		assert.Equal(t, int64(0), runID, "BeginRun should return a zero ID on a disabled store")

		CloseStores()
	})

	t.Run("both disabled", func(t *testing.T) {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}

		err := InitStores(schema.NoneBackend, "", schema.NoneBackend, "")
		assert.NoError(t, err, "InitStores should accept both stores disabled")

		assert.NotNil(t, Manager.GetGradeCacheStore(), "Disabled cache should still satisfy the interface")
		assert.NotNil(t, Manager.GetRunStore(), "Disabled run store should still satisfy the interface")

		CloseStores()
	})
}

func TestGradeCacheGetStatus(t *testing.T) {
	t.Run("SQLite with entries", func(t *testing.T) {
		store, err := NewCacheStore("grade_cache_status", schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite cache store")
		defer func() { _ = store.Close() }()

		early := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC).Unix()
		middle := time.Date(2025, 11, 4, 8, 0, 0, 0, time.UTC).Unix()
		late := time.Date(2025, 11, 5, 8, 0, 0, 0, time.UTC).Unix()

		assert.NoError(t, store.Set("fp01", reportPayload("scan_001.png", 0.91), 1, early))
		assert.NoError(t, store.Set("fp02", reportPayload("scan_002.png", 0.55), 1, late))
		assert.NoError(t, store.Set("fp03", reportPayload("scan_003.png", 0.72), 1, middle))

		status, err := store.GetStatus()
		assert.NoError(t, err, "GetStatus should not fail")

		assert.Equal(t, "sqlite", status.Backend, "Backend label mismatch")
		assert.True(t, status.Connected, "Store should report connected")
		assert.Equal(t, 3, status.TotalEntries, "Entry count mismatch")
		assert.Equal(t, time.Unix(late, 0), status.LastEntryTime, "Newest entry time mismatch")
		assert.Equal(t, time.Unix(early, 0), status.OldestEntryTime, "Oldest entry time mismatch")
		assert.Greater(t, status.TableSizeBytes, int64(0), "Size should be positive with entries present")
	})

	t.Run("SQLite empty", func(t *testing.T) {
		store, err := NewCacheStore("grade_cache_status", schema.SQLiteBackend, ":memory:")
		assert.NoError(t, err, "Failed to create SQLite cache store")
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		assert.NoError(t, err, "GetStatus should not fail")

		assert.True(t, status.Connected, "Store should report connected")
		assert.Equal(t, 0, status.TotalEntries, "Entry count should be zero")
		assert.True(t, status.LastEntryTime.IsZero(), "Newest entry time should stay zero")
		assert.True(t, status.OldestEntryTime.IsZero(), "Oldest entry time should stay zero")
		assert.Equal(t, int64(0), status.TableSizeBytes, "Size should stay zero with no entries")
	})

	t.Run("disabled store", func(t *testing.T) {
		store, err := NewCacheStore("grade_cache_status", schema.NoneBackend, "")
		assert.NoError(t, err, "Failed to create disabled cache store")

		status, err := store.GetStatus()
		assert.NoError(t, err, "GetStatus should not fail")

		assert.Equal(t, "none", status.Backend, "Backend label mismatch")
		assert.False(t, status.Connected, "Disabled store should report disconnected")
		assert.Equal(t, 0, status.TotalEntries, "Entry count should be zero")
	})
}
