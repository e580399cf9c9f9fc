/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package aggregation

import "github.com/suparena/virtualstore/storagemodels"

// MatchFilters reports whether row satisfies every filter. Each filter key
// must be present in row with a loosely equal value; an empty filter set
// matches everything.
func MatchFilters(row storagemodels.Record, filters storagemodels.Record) bool {
	for key, want := range filters {
		got, ok := row[key]
		if !ok {
			return false
		}
		if !storagemodels.LooseEqual(got, want) {
			return false
		}
	}
	return true
}
