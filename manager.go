/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package virtualstore

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/suparena/virtualstore/datastore"
	"github.com/suparena/virtualstore/datastore/memory"
	"github.com/suparena/virtualstore/errors"
	"github.com/suparena/virtualstore/registry"
	"github.com/suparena/virtualstore/storagemodels"
)

// StoreFactory builds the DataStore for a newly created store name.
type StoreFactory func(name string) datastore.DataStore

// Option configures a Manager
type Option func(*Manager)

// WithStoreFactory replaces the default in-memory store constructor
func WithStoreFactory(f StoreFactory) Option {
	return func(m *Manager) {
		m.factory = f
	}
}

// WithLogger sets the logger used for lifecycle events
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// Manager owns every named store of the process together with their entity
// definitions. It is explicitly constructed and passed to its users; there
// is no package-level instance.
type Manager struct {
	// mu keeps the two store indexes and the definitions consistent across
	// create and delete.
	mu          sync.Mutex
	stores      *registry.Index[datastore.DataStore]
	virtual     *registry.Index[*memory.Store]
	definitions *registry.Definitions
	factory     StoreFactory
	logger      logrus.FieldLogger
}

// NewManager creates an empty manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		stores:      registry.NewIndex[datastore.DataStore](),
		virtual:     registry.NewIndex[*memory.Store](),
		definitions: registry.NewDefinitions(),
		factory:     func(name string) datastore.DataStore { return memory.New(name) },
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateStore returns the store registered under name, creating it first if
// needed. Concurrent calls for one name all receive the same instance.
func (m *Manager) CreateStore(name string) (datastore.DataStore, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewValidationError("name", "store name is required")
	}

	if ds, ok := m.stores.Get(name); ok {
		return ds, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(name)
}

// createLocked is CreateStore without the fast path; m.mu must be held.
func (m *Manager) createLocked(name string) (datastore.DataStore, error) {
	ds, created, err := m.stores.GetOrCreate(name, func() (datastore.DataStore, error) {
		return m.factory(name), nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		if vs, ok := ds.(*memory.Store); ok {
			_ = m.virtual.Register(name, vs)
		}
		m.logger.WithField("store", name).Info("created store")
	}
	return ds, nil
}

// GetStore looks up a store. It never creates one.
func (m *Manager) GetStore(name string) (datastore.DataStore, error) {
	ds, ok := m.stores.Get(name)
	if !ok {
		return nil, errors.NewStoreNotFoundError(name)
	}
	return ds, nil
}

// VirtualStore looks up a store backed by the in-memory implementation.
func (m *Manager) VirtualStore(name string) (*memory.Store, error) {
	vs, ok := m.virtual.Get(name)
	if !ok {
		return nil, errors.NewStoreNotFoundError(name)
	}
	return vs, nil
}

// DeleteStore drops a store with all of its data and definitions.
// Deleting an unknown store is a no-op.
func (m *Manager) DeleteStore(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, existed := m.stores.Remove(name)
	m.virtual.Remove(name)
	m.definitions.DeleteStore(name)

	if existed {
		m.logger.WithField("store", name).Info("deleted store")
	}
}

// StoreNames returns the registered store names in lexical order
func (m *Manager) StoreNames() []string {
	return m.stores.List()
}

// ListStores returns a detached summary of every store, ordered by name.
func (m *Manager) ListStores() []storagemodels.StoreSummary {
	names := m.stores.List()
	out := make([]storagemodels.StoreSummary, 0, len(names))
	for _, name := range names {
		ds, ok := m.stores.Get(name)
		if !ok {
			continue
		}
		out = append(out, storagemodels.StoreSummary{
			Name:         name,
			EntityCounts: ds.Counts(),
			Definitions:  m.definitions.Names(name),
		})
	}
	return out
}

// RegistryStatistics summarises the registered stores
func (m *Manager) RegistryStatistics() storagemodels.RegistryStatistics {
	total := m.stores.Len()
	virtual := m.virtual.Len()

	var details []storagemodels.StoreSummary
	for _, s := range m.ListStores() {
		if _, ok := m.virtual.Get(s.Name); ok {
			details = append(details, s)
		}
	}
	if details == nil {
		details = []storagemodels.StoreSummary{}
	}

	return storagemodels.RegistryStatistics{
		TotalStores:   total,
		VirtualStores: virtual,
		RegularStores: total - virtual,
		Details:       details,
	}
}

// RegisterDefinition records def for store, replacing any previous
// definition of the same entity. The store itself is not checked.
func (m *Manager) RegisterDefinition(store string, def *storagemodels.Definition) error {
	if err := validateDefinition(def); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerLocked(store, def)
	return nil
}

// DefineEntity creates store if needed and records def for it in one step,
// so a concurrent DeleteStore either removes both or neither. It returns a
// copy of the stored definition.
func (m *Manager) DefineEntity(store string, def *storagemodels.Definition) (*storagemodels.Definition, error) {
	if strings.TrimSpace(store) == "" {
		return nil, errors.NewValidationError("name", "store name is required")
	}
	if err := validateDefinition(def); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.createLocked(store); err != nil {
		return nil, err
	}
	m.registerLocked(store, def)
	return m.GetDefinition(store, def.EntityName)
}

func validateDefinition(def *storagemodels.Definition) error {
	if def == nil || strings.TrimSpace(def.EntityName) == "" {
		return errors.NewValidationError("entityName", "entity name is required")
	}
	return nil
}

func (m *Manager) registerLocked(store string, def *storagemodels.Definition) {
	m.definitions.Register(store, def)
	m.logger.WithFields(logrus.Fields{
		"store":  store,
		"entity": def.EntityName,
	}).Debug("registered entity definition")
}

// GetDefinition returns a copy of the definition for (store, entity)
func (m *Manager) GetDefinition(store, entity string) (*storagemodels.Definition, error) {
	def, ok := m.definitions.Get(store, entity)
	if !ok {
		return nil, errors.NewNotFoundError("definition", store+"/"+entity)
	}
	return def, nil
}

// ListDefinitions returns copies of the store's definitions ordered by entity name
func (m *Manager) ListDefinitions(store string) []*storagemodels.Definition {
	return m.definitions.List(store)
}

// DeleteDefinition removes a definition. Stored records are left untouched.
func (m *Manager) DeleteDefinition(store, entity string) {
	m.definitions.Delete(store, entity)
}
