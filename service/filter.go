/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import "github.com/suparena/virtualstore/storagemodels"

// matchesFilters keeps records whose fields loosely equal every filter value.
// A filter naming a field the record lacks rejects the record.
func matchesFilters(rec storagemodels.Record, filters storagemodels.Record) bool {
	if len(filters) == 0 {
		return true
	}
	for field, want := range filters {
		got, present := rec[field]
		if !present || !storagemodels.LooseEqual(got, want) {
			return false
		}
	}
	return true
}
