// Package reportstore persists grade cache entries and run history.
package reportstore

import (
	"sync"

	"github.com/scangrade/scangrade/internal/contract"
)

// StoreManagerImpl manages the grade cache and run tracking stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	gradeCache   contract.CacheStore
	runs         contract.RunStore
}

var _ contract.StoreManager = (*StoreManagerImpl)(nil)

// GetGradeCacheStore returns the grade cache CacheStore.
func (mgr *StoreManagerImpl) GetGradeCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.gradeCache
}

// GetRunStore returns the run tracking RunStore.
func (mgr *StoreManagerImpl) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
