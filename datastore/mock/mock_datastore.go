/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides a fault-injecting DataStore for testing
package mock

import (
	"sync"

	"github.com/google/uuid"
	"github.com/suparena/virtualstore/datastore"
	"github.com/suparena/virtualstore/datastore/memory"
	"github.com/suparena/virtualstore/storagemodels"
)

// DataStore wraps another datastore.DataStore and fails selected calls.
// Without any injected errors it behaves exactly like the wrapped store.
type DataStore struct {
	inner datastore.DataStore

	mu             sync.Mutex
	saveError      error
	saveErrorAfter int
	saves          int
	loadError      error
	updateError    error
	deleteError    error
}

var _ datastore.DataStore = (*DataStore)(nil)

// New wraps inner. A nil inner gets a fresh in-memory store named "mock".
func New(inner datastore.DataStore) *DataStore {
	if inner == nil {
		inner = memory.New("mock")
	}
	return &DataStore{inner: inner, saveErrorAfter: -1}
}

// WithSaveError makes every Save return err
func (m *DataStore) WithSaveError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
	m.saveErrorAfter = 0
	return m
}

// WithSaveErrorAfter lets the first n saves through and fails the rest with err
func (m *DataStore) WithSaveErrorAfter(n int, err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
	m.saveErrorAfter = n
	return m
}

// WithLoadError makes LoadAll and Load return err
func (m *DataStore) WithLoadError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
	return m
}

// WithUpdateError makes Update return err
func (m *DataStore) WithUpdateError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateError = err
	return m
}

// WithDeleteError makes Delete return err
func (m *DataStore) WithDeleteError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteError = err
	return m
}

// Reset clears every injected error and the save counter
func (m *DataStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError, m.loadError, m.updateError, m.deleteError = nil, nil, nil, nil
	m.saveErrorAfter = -1
	m.saves = 0
}

// Saves returns the number of Save calls seen, failed ones included
func (m *DataStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Inner returns the wrapped store
func (m *DataStore) Inner() datastore.DataStore {
	return m.inner
}

func (m *DataStore) Name() string {
	return m.inner.Name()
}

func (m *DataStore) Save(entityType string, record storagemodels.Record) (storagemodels.Record, error) {
	m.mu.Lock()
	m.saves++
	fail := m.saveError != nil && m.saveErrorAfter >= 0 && m.saves > m.saveErrorAfter
	err := m.saveError
	m.mu.Unlock()

	if fail {
		return nil, err
	}
	return m.inner.Save(entityType, record)
}

func (m *DataStore) LoadAll(entityType string) ([]storagemodels.Record, error) {
	if err := m.injected(&m.loadError); err != nil {
		return nil, err
	}
	return m.inner.LoadAll(entityType)
}

func (m *DataStore) Load(entityType string, id uuid.UUID) (storagemodels.Record, error) {
	if err := m.injected(&m.loadError); err != nil {
		return nil, err
	}
	return m.inner.Load(entityType, id)
}

func (m *DataStore) Update(entityType string, id uuid.UUID, fn datastore.UpdateFunc) (storagemodels.Record, error) {
	if err := m.injected(&m.updateError); err != nil {
		return nil, err
	}
	return m.inner.Update(entityType, id, fn)
}

func (m *DataStore) Delete(entityType string, id uuid.UUID) error {
	if err := m.injected(&m.deleteError); err != nil {
		return err
	}
	return m.inner.Delete(entityType, id)
}

func (m *DataStore) Counts() map[string]int {
	return m.inner.Counts()
}

func (m *DataStore) EntityTypes() []string {
	return m.inner.EntityTypes()
}

func (m *DataStore) BeginTx() datastore.Tx {
	return m.inner.BeginTx()
}

func (m *DataStore) injected(slot *error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *slot
}
