/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides the in-memory implementation of datastore.DataStore
package memory

import (
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/suparena/virtualstore/datastore"
	"github.com/suparena/virtualstore/storagemodels"
)

// entry pairs a stored record with its parsed identity so scans never
// re-parse the id field.
type entry struct {
	id     uuid.UUID
	record storagemodels.Record
}

// partition holds the records of one entity type in insertion order.
type partition struct {
	mu      sync.RWMutex
	entries []entry
}

func (p *partition) indexOf(id uuid.UUID) int {
	for i := range p.entries {
		if p.entries[i].id == id {
			return i
		}
	}
	return -1
}

// replace removes any entry with the same identity and appends e.
// Callers hold the write lock.
func (p *partition) replace(e entry) {
	p.entries = slices.DeleteFunc(p.entries, func(cur entry) bool { return cur.id == e.id })
	p.entries = append(p.entries, e)
}

// Store is a concurrency-safe, schema-less entity store. Partitions are
// created on first write and looked up through a sync.Map; each partition
// serialises its writers with its own lock. Lookups by id are linear scans.
type Store struct {
	name       string
	partitions sync.Map // entity type -> *partition
}

var _ datastore.DataStore = (*Store)(nil)

// New creates an empty store
func New(name string) *Store {
	return &Store{name: name}
}

// Name returns the store name
func (s *Store) Name() string {
	return s.name
}

func (s *Store) lookup(entityType string) (*partition, bool) {
	v, ok := s.partitions.Load(entityType)
	if !ok {
		return nil, false
	}
	return v.(*partition), true
}

func (s *Store) partition(entityType string) *partition {
	if p, ok := s.lookup(entityType); ok {
		return p
	}
	v, _ := s.partitions.LoadOrStore(entityType, &partition{})
	return v.(*partition)
}

// Save upserts a record by identity. A record without a valid UUID id gets a
// fresh one. Any existing record with the same id is removed before the new
// one is appended. The stored record is a private copy; the returned record
// is another copy carrying the assigned id.
func (s *Store) Save(entityType string, record storagemodels.Record) (storagemodels.Record, error) {
	rec := record.Clone()
	if rec == nil {
		rec = make(storagemodels.Record)
	}

	p := s.partition(entityType)
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := rec.ID()
	if !ok {
		id = uuid.New()
		for p.indexOf(id) >= 0 {
			id = uuid.New()
		}
	}
	rec.SetID(id)

	p.replace(entry{id: id, record: rec})
	return rec.Clone(), nil
}

// LoadAll returns copies of every record of the entity type in insertion
// order. A missing partition yields an empty slice.
func (s *Store) LoadAll(entityType string) ([]storagemodels.Record, error) {
	p, ok := s.lookup(entityType)
	if !ok {
		return []storagemodels.Record{}, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]storagemodels.Record, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.record.Clone()
	}
	return out, nil
}

// Load returns a copy of the record with the given id, or nil if there is none.
func (s *Store) Load(entityType string, id uuid.UUID) (storagemodels.Record, error) {
	p, ok := s.lookup(entityType)
	if !ok {
		return nil, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if i := p.indexOf(id); i >= 0 {
		return p.entries[i].record.Clone(), nil
	}
	return nil, nil
}

// Update applies fn to a copy of the record with the given id and stores the
// result under the same id, all under the partition lock. It returns nil if
// the record does not exist. A nil result from fn leaves the record as is.
func (s *Store) Update(entityType string, id uuid.UUID, fn datastore.UpdateFunc) (storagemodels.Record, error) {
	p, ok := s.lookup(entityType)
	if !ok {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return nil, nil
	}

	next := fn(p.entries[i].record.Clone())
	if next == nil {
		return p.entries[i].record.Clone(), nil
	}
	next = next.Clone()
	next.SetID(id)

	p.replace(entry{id: id, record: next})
	return next.Clone(), nil
}

// Delete removes the record with the given id. Missing partitions and
// records are ignored.
func (s *Store) Delete(entityType string, id uuid.UUID) error {
	p, ok := s.lookup(entityType)
	if !ok {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = slices.DeleteFunc(p.entries, func(e entry) bool { return e.id == id })
	return nil
}

// Counts returns the number of records per entity type, including
// partitions that have been emptied by deletes.
func (s *Store) Counts() map[string]int {
	counts := make(map[string]int)
	s.partitions.Range(func(key, value any) bool {
		p := value.(*partition)
		p.mu.RLock()
		counts[key.(string)] = len(p.entries)
		p.mu.RUnlock()
		return true
	})
	return counts
}

// EntityTypes returns the partition names in lexical order.
func (s *Store) EntityTypes() []string {
	var names []string
	s.partitions.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// BeginTx returns a placeholder transaction.
func (s *Store) BeginTx() datastore.Tx {
	return datastore.NoopTx{}
}
