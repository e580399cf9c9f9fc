/*
Package datastore defines the core interface of virtualstore's entity storage layer.

The main interface is DataStore, which provides schema-less CRUD over the
entity-type partitions of one named store:

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

Implementations:
  - memory: the concurrent in-memory store used for every named store
  - mock: a wrapper that injects errors, for testing callers

Everything is volatile; a process restart starts from an empty registry.
*/
package datastore
