/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/suparena/virtualstore"
	"github.com/suparena/virtualstore/aggregation"
	"github.com/suparena/virtualstore/datastore"
	"github.com/suparena/virtualstore/errors"
	"github.com/suparena/virtualstore/storagemodels"
)

// Service is the facade used by the HTTP and import layers. It resolves
// store names through the Manager, validates names and ids, and turns soft
// absence into NotFoundError where callers asked for something specific.
type Service struct {
	manager *virtualstore.Manager
	engine  *aggregation.Engine
	logger  logrus.FieldLogger
}

// New creates a Service. A nil engine or logger gets a default.
func New(manager *virtualstore.Manager, engine *aggregation.Engine, logger logrus.FieldLogger) *Service {
	if engine == nil {
		engine = aggregation.NewEngine()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{manager: manager, engine: engine, logger: logger}
}

// Manager returns the underlying store manager
func (s *Service) Manager() *virtualstore.Manager {
	return s.manager
}

// CreateStore creates the store if needed and returns its summary
func (s *Service) CreateStore(ctx context.Context, name string) (storagemodels.StoreSummary, error) {
	if err := ctx.Err(); err != nil {
		return storagemodels.StoreSummary{}, err
	}
	ds, err := s.manager.CreateStore(name)
	if err != nil {
		return storagemodels.StoreSummary{}, err
	}
	return storagemodels.StoreSummary{
		Name:         ds.Name(),
		EntityCounts: ds.Counts(),
		Definitions:  names(s.manager.ListDefinitions(name)),
	}, nil
}

// DeleteStore drops a store and everything in it. Unknown names are ignored.
func (s *Service) DeleteStore(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.manager.DeleteStore(name)
	return nil
}

// ListStores returns a summary of every store
func (s *Service) ListStores(ctx context.Context) []storagemodels.StoreSummary {
	return s.manager.ListStores()
}

// RegistryStatistics returns registry-wide counts
func (s *Service) RegistryStatistics(ctx context.Context) storagemodels.RegistryStatistics {
	return s.manager.RegistryStatistics()
}

// RegisterDefinition records an entity definition, creating the store when
// it does not exist yet. An existing definition is replaced.
func (s *Service) RegisterDefinition(ctx context.Context, store string, def *storagemodels.Definition) (*storagemodels.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.manager.DefineEntity(store, def)
}

// GetDefinition returns the definition for (store, entity)
func (s *Service) GetDefinition(ctx context.Context, store, entity string) (*storagemodels.Definition, error) {
	if _, err := s.manager.GetStore(store); err != nil {
		return nil, err
	}
	return s.manager.GetDefinition(store, entity)
}

// ListDefinitions returns the store's definitions ordered by entity name
func (s *Service) ListDefinitions(ctx context.Context, store string) ([]*storagemodels.Definition, error) {
	if _, err := s.manager.GetStore(store); err != nil {
		return nil, err
	}
	return s.manager.ListDefinitions(store), nil
}

// DeleteDefinition removes a definition; the entity's records stay
func (s *Service) DeleteDefinition(ctx context.Context, store, entity string) error {
	if _, err := s.manager.GetStore(store); err != nil {
		return err
	}
	s.manager.DeleteDefinition(store, entity)
	return nil
}

// CreateEntity stores a copy of data. An id that is absent, null or not a
// UUID is replaced with a fresh one. The caller's record is never modified.
func (s *Service) CreateEntity(ctx context.Context, store, entity string, data storagemodels.Record) (storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := s.resolve(store, entity)
	if err != nil {
		return nil, err
	}
	return save(ds, entity, data)
}

// BulkCreate saves rows one by one and returns how many were committed.
// It stops at the first failure; rows saved before it stay committed.
func (s *Service) BulkCreate(ctx context.Context, store, entity string, rows []storagemodels.Record) (int, error) {
	ds, err := s.resolve(store, entity)
	if err != nil {
		return 0, err
	}

	imported := 0
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		if _, err := save(ds, entity, row); err != nil {
			s.logger.WithFields(logrus.Fields{
				"store":  store,
				"entity": entity,
				"row":    i,
				"count":  imported,
			}).WithError(err).Warn("bulk create stopped")
			return imported, fmt.Errorf("row %d: %w", i, err)
		}
		imported++
	}

	s.logger.WithFields(logrus.Fields{
		"store":  store,
		"entity": entity,
		"count":  imported,
	}).Debug("bulk create complete")
	return imported, nil
}

// LoadAll returns every record of the entity type
func (s *Service) LoadAll(ctx context.Context, store, entity string) ([]storagemodels.Record, error) {
	ds, err := s.resolve(store, entity)
	if err != nil {
		return nil, err
	}
	return ds.LoadAll(entity)
}

// Load returns one record. A missing record is a NotFoundError.
func (s *Service) Load(ctx context.Context, store, entity, id string) (storagemodels.Record, error) {
	ds, uid, err := s.resolveID(store, entity, id)
	if err != nil {
		return nil, err
	}
	rec, err := ds.Load(entity, uid)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NewNotFoundError(entity, id)
	}
	return rec, nil
}

// Update merges patch over the stored record, patch fields winning. The id
// field of the patch is ignored. The read-merge-write runs atomically.
func (s *Service) Update(ctx context.Context, store, entity, id string, patch storagemodels.Record) (storagemodels.Record, error) {
	ds, uid, err := s.resolveID(store, entity, id)
	if err != nil {
		return nil, err
	}

	updated, err := ds.Update(entity, uid, func(current storagemodels.Record) storagemodels.Record {
		for k, v := range patch {
			if k == storagemodels.IDField {
				continue
			}
			current[k] = storagemodels.CloneValue(v)
		}
		return current
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errors.NewNotFoundError(entity, id)
	}
	return updated, nil
}

// Delete removes a record. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, store, entity, id string) error {
	ds, uid, err := s.resolveID(store, entity, id)
	if err != nil {
		return err
	}
	return ds.Delete(entity, uid)
}

// Query returns the records of the entity type that match every filter
func (s *Service) Query(ctx context.Context, store, entity string, filters storagemodels.Record) ([]storagemodels.Record, error) {
	all, err := s.LoadAll(ctx, store, entity)
	if err != nil {
		return nil, err
	}
	out := make([]storagemodels.Record, 0, len(all))
	for _, rec := range all {
		if matchesFilters(rec, filters) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Aggregate joins entity types of store according to params
func (s *Service) Aggregate(ctx context.Context, store string, params storagemodels.AggregateParams) ([]storagemodels.Record, error) {
	ds, err := s.manager.GetStore(store)
	if err != nil {
		return nil, err
	}
	for _, e := range params.Entities {
		if strings.TrimSpace(e) == "" {
			return nil, errors.NewValidationError("entities", "entity names must not be empty")
		}
	}
	if len(params.Entities) > 0 && strings.TrimSpace(params.JoinKey) == "" {
		return nil, errors.NewValidationError("joinKey", "join key is required")
	}
	return s.engine.Aggregate(ctx, ds, params)
}

// Statistics returns entity type → record count for store
func (s *Service) Statistics(ctx context.Context, store string) (map[string]int, error) {
	ds, err := s.manager.GetStore(store)
	if err != nil {
		return nil, err
	}
	return ds.Counts(), nil
}

func (s *Service) resolve(store, entity string) (datastore.DataStore, error) {
	if strings.TrimSpace(entity) == "" {
		return nil, errors.NewValidationError("entity", "entity name is required")
	}
	return s.manager.GetStore(store)
}

func (s *Service) resolveID(store, entity, id string) (datastore.DataStore, uuid.UUID, error) {
	ds, err := s.resolve(store, entity)
	if err != nil {
		return nil, uuid.Nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, uuid.Nil, errors.NewValidationError(storagemodels.IDField, fmt.Sprintf("malformed id %q", id))
	}
	return ds, uid, nil
}

func save(ds datastore.DataStore, entity string, data storagemodels.Record) (storagemodels.Record, error) {
	rec := data.Clone()
	if rec == nil {
		rec = make(storagemodels.Record)
	}
	if _, ok := rec.ID(); !ok {
		rec.SetID(uuid.New())
	}
	return ds.Save(entity, rec)
}

func names(defs []*storagemodels.Definition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.EntityName
	}
	return out
}
