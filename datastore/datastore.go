/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"github.com/google/uuid"
	"github.com/suparena/virtualstore/storagemodels"
)

// UpdateFunc receives a private copy of the current record and returns the
// record to store in its place.
type UpdateFunc func(current storagemodels.Record) storagemodels.Record

// DataStore holds the entity-type partitions of one named store.
// Absence is never an error: reads of missing partitions yield empty
// slices, and Load and Update return a nil record when the id is unknown.
type DataStore interface {
	Name() string

	Save(entityType string, record storagemodels.Record) (storagemodels.Record, error)

	LoadAll(entityType string) ([]storagemodels.Record, error)

	Load(entityType string, id uuid.UUID) (storagemodels.Record, error)

	Update(entityType string, id uuid.UUID, fn UpdateFunc) (storagemodels.Record, error)

	Delete(entityType string, id uuid.UUID) error

	Counts() map[string]int

	EntityTypes() []string

	BeginTx() Tx
}

// Tx is a placeholder transaction handle. Commit and Rollback do nothing;
// atomicity is only guaranteed per single Save, Update or Delete.
type Tx interface {
	Commit() error
	Rollback() error
}

// NoopTx implements Tx without any effect.
type NoopTx struct{}

func (NoopTx) Commit() error   { return nil }
func (NoopTx) Rollback() error { return nil }
