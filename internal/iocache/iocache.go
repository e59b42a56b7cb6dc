// Package iocache persists analysis history and trained models.
package iocache

import (
	"sync"

	"github.com/huangsam/greenscore/internal/contract"
)

// StoreManager manages the history and model store instances.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	history      contract.HistoryStore
	models       contract.ModelStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetHistoryStore returns the analysis HistoryStore.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// GetModelStore returns the trained ModelStore.
func (mgr *StoreManager) GetModelStore() contract.ModelStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.models
}
