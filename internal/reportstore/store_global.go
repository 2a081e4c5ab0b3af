package reportstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// gradeCacheTable is the name of the table for grade report caching.
const gradeCacheTable = "scangrade_grade_cache"

// Manager is the process-wide store manager handed to the grading
// entry points.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores wires the global manager to its cache and run stores. An
// empty backend leaves that store disabled. Safe to call more than once;
// only the first call does any work.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, runsBackend schema.DatabaseBackend, runsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var gradeCache contract.CacheStore
		var runs contract.RunStore
		var err error

		if cacheBackend != "" {
			gradeCache, err = NewCacheStore(gradeCacheTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize grade caching: %w", err)
				return
			}
		}

		if runsBackend != "" {
			runs, err = NewRunStore(runsBackend, runsConnStr)
			if err != nil {
				if gradeCache != nil {
					_ = gradeCache.Close()
				}
				initErr = fmt.Errorf("failed to initialize run tracking: %w", err)
				return
			}
		}

		Manager.gradeCache = gradeCache
		Manager.runs = runs
	})

	return initErr
}

// CloseStores releases both stores. Called from main before exit.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.gradeCache != nil {
			_ = Manager.gradeCache.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearCache wipes the grade cache. SQLite deletes the database file;
// the server backends drop the cache table; NoneBackend has nothing to
// wipe.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)
	case schema.MySQLBackend:
		return dropTables("mysql", connStr, gradeCacheTable)
	case schema.PostgreSQLBackend:
		return dropTables("pgx", connStr, gradeCacheTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("cannot clear a grade cache on backend %s", backend)
	}
}

// ClearRuns wipes the run history. SQLite deletes the database file; the
// server backends drop both run tables; NoneBackend has nothing to wipe.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)
	case schema.MySQLBackend:
		return dropTables("mysql", connStr, runsTable, imageReportsTable)
	case schema.PostgreSQLBackend:
		return dropTables("pgx", connStr, runsTable, imageReportsTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("cannot clear run history on backend %s", backend)
	}
}

// removeSQLiteFile deletes a SQLite database file, tolerating a missing
// one.
func removeSQLiteFile(path string) error {
	if path == "" {
		return fmt.Errorf("database file path cannot be empty for the sqlite backend")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", path, err)
	}
	return nil
}

// dropTables connects with the given driver and drops each listed table.
func dropTables(driverName, connStr string, tables ...string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("open %s connection: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("reach %s server: %w", driverName, err)
	}

	for _, table := range tables {
		if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
