// Package datastore persists performance records, mastery estimates and projection runs.
package datastore

import (
	"sync"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
)

// StoreManager hands out the stores backed by one SQLStore.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        *SQLStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// NewStoreManager wraps an open store.
func NewStoreManager(store *SQLStore) *StoreManager {
	return &StoreManager{store: store}
}

// GetRecordStore returns the RecordStore, or nil before initialization.
func (mgr *StoreManager) GetRecordStore() contract.RecordStore {
	mgr.RLock()
	defer mgr.RUnlock()
	if mgr.store == nil {
		return nil
	}
	return mgr.store
}

// GetMasteryRepository returns the MasteryRepository, or nil before initialization.
func (mgr *StoreManager) GetMasteryRepository() contract.MasteryRepository {
	mgr.RLock()
	defer mgr.RUnlock()
	if mgr.store == nil {
		return nil
	}
	return mgr.store
}

// GetRunStore returns the RunStore, or nil before initialization.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	if mgr.store == nil {
		return nil
	}
	return mgr.store
}
