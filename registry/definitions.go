/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sort"
	"sync"

	"github.com/suparena/virtualstore/storagemodels"
)

// Definitions holds entity definitions keyed by store name, then entity name.
// Values are copied in and out so callers never share a *Definition with the registry.
type Definitions struct {
	mu   sync.RWMutex
	defs map[string]map[string]*storagemodels.Definition
}

// NewDefinitions creates an empty definition registry
func NewDefinitions() *Definitions {
	return &Definitions{
		defs: make(map[string]map[string]*storagemodels.Definition),
	}
}

// Register stores def under (store, def.EntityName), replacing any previous
// definition for that pair. The stored copy has StoreName set to store.
func (d *Definitions) Register(store string, def *storagemodels.Definition) {
	cp := def.Clone()
	cp.StoreName = store

	d.mu.Lock()
	defer d.mu.Unlock()

	byEntity, ok := d.defs[store]
	if !ok {
		byEntity = make(map[string]*storagemodels.Definition)
		d.defs[store] = byEntity
	}
	byEntity[cp.EntityName] = cp
}

// Get retrieves the definition for (store, entity)
func (d *Definitions) Get(store, entity string) (*storagemodels.Definition, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	def, ok := d.defs[store][entity]
	if !ok {
		return nil, false
	}
	return def.Clone(), true
}

// List returns copies of every definition in store, ordered by entity name
func (d *Definitions) List(store string) []*storagemodels.Definition {
	d.mu.RLock()
	defer d.mu.RUnlock()

	byEntity := d.defs[store]
	out := make([]*storagemodels.Definition, 0, len(byEntity))
	for _, def := range byEntity {
		out = append(out, def.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityName < out[j].EntityName })
	return out
}

// Names returns the entity names defined in store in lexical order
func (d *Definitions) Names(store string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.defs[store]))
	for name := range d.defs[store] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete removes the definition for (store, entity) and reports whether it existed
func (d *Definitions) Delete(store, entity string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	byEntity, ok := d.defs[store]
	if !ok {
		return false
	}
	if _, ok := byEntity[entity]; !ok {
		return false
	}
	delete(byEntity, entity)
	if len(byEntity) == 0 {
		delete(d.defs, store)
	}
	return true
}

// DeleteStore drops every definition of store
func (d *Definitions) DeleteStore(store string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.defs, store)
}
