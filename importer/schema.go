/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package importer

import (
	"github.com/suparena/virtualstore/errors"
	"github.com/suparena/virtualstore/storagemodels"
)

// Rows normalises a decoded document into records. Accepted shapes are an
// array (non-object items skipped), a single object, or records already.
func Rows(doc any) ([]storagemodels.Record, error) {
	switch x := doc.(type) {
	case []any:
		rows := make([]storagemodels.Record, 0, len(x))
		for _, item := range x {
			if m, ok := item.(map[string]any); ok {
				rows = append(rows, storagemodels.NewRecord(m))
			}
		}
		return rows, nil
	case map[string]any:
		return []storagemodels.Record{storagemodels.NewRecord(x)}, nil
	case []map[string]any:
		rows := make([]storagemodels.Record, len(x))
		for i, m := range x {
			rows[i] = storagemodels.NewRecord(m)
		}
		return rows, nil
	case []storagemodels.Record:
		return x, nil
	case storagemodels.Record:
		return []storagemodels.Record{x}, nil
	default:
		return nil, errors.NewValidationError("payload", "unsupported JSON structure, expected an array or an object")
	}
}

// InferSchema derives a definition from one sample row. Every property is
// declared nullable; nulls infer as string.
func InferSchema(store, entity string, sample storagemodels.Record) *storagemodels.Definition {
	def := storagemodels.NewDefinition(store, entity)
	for field, v := range sample {
		def.AddProperty(field, storagemodels.FieldTypeOf(v), true)
	}
	return def
}
