/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package aggregation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/suparena/virtualstore/storagemodels"
)

// WholeRecordSuffix is appended to an entity name to key the complete
// matched record inside a merged row.
const WholeRecordSuffix = ".*"

// Source supplies the records of one entity type. Every datastore.DataStore satisfies it.
type Source interface {
	LoadAll(entityType string) ([]storagemodels.Record, error)
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for per-call diagnostics
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine joins entity types of one store on a shared key. It holds no
// per-call state, so one Engine can serve concurrent callers.
type Engine struct {
	logger logrus.FieldLogger
}

// NewEngine creates an Engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Aggregate runs a base-driven nested-loop inner join over params.Entities.
//
// The first entity type is the base. A base record without the join key is
// skipped. For every other entity type the first record (in load order)
// whose join key equals the base key is merged in; if any type has no match
// the base record is dropped. Merged rows carry "<Entity>.<field>" entries
// plus the whole record under "<Entity>.*". Rows failing params.Filters are
// dropped and params.Select, when non-empty, projects the survivors.
//
// The cost is O(base rows × Σ other rows). ctx is checked between base rows.
func (e *Engine) Aggregate(ctx context.Context, src Source, params storagemodels.AggregateParams) ([]storagemodels.Record, error) {
	rows := []storagemodels.Record{}
	if len(params.Entities) == 0 {
		return rows, nil
	}

	start := time.Now()
	data := make([][]storagemodels.Record, len(params.Entities))
	for i, entity := range params.Entities {
		recs, err := src.LoadAll(entity)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entity, err)
		}
		data[i] = recs
	}

	base := params.Entities[0]
	for _, baseRec := range data[0] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key, ok := baseRec.Get(params.JoinKey)
		if !ok || storagemodels.IsNull(key) {
			continue
		}

		merged := make(storagemodels.Record)
		flatten(merged, base, baseRec)

		joined := true
		for i := 1; i < len(params.Entities); i++ {
			match := firstMatch(data[i], params.JoinKey, key)
			if match == nil {
				joined = false
				break
			}
			flatten(merged, params.Entities[i], match)
		}
		if !joined {
			continue
		}

		if !MatchFilters(merged, params.Filters) {
			continue
		}
		rows = append(rows, project(merged, params.Select))
	}

	e.logger.WithFields(logrus.Fields{
		"entities": params.Entities,
		"joinKey":  params.JoinKey,
		"rows":     len(rows),
		"duration": time.Since(start),
	}).Debug("aggregation complete")

	return rows, nil
}

func firstMatch(recs []storagemodels.Record, joinKey string, key storagemodels.Value) storagemodels.Record {
	for _, rec := range recs {
		v, ok := rec.Get(joinKey)
		if ok && storagemodels.Equal(v, key) {
			return rec
		}
	}
	return nil
}

func flatten(dst storagemodels.Record, entity string, rec storagemodels.Record) {
	for field, v := range rec {
		dst[entity+"."+field] = storagemodels.CloneValue(v)
	}
	dst[entity+WholeRecordSuffix] = storagemodels.Object(rec.Clone())
}

// project builds alias → value rows. References missing from the merged
// row yield Null.
func project(merged storagemodels.Record, sel map[string]string) storagemodels.Record {
	if len(sel) == 0 {
		return merged
	}
	out := make(storagemodels.Record, len(sel))
	for alias, ref := range sel {
		v, ok := merged[ref]
		if !ok || v == nil {
			v = storagemodels.Null{}
		}
		out[alias] = v
	}
	return out
}
