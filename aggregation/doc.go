// Package aggregation joins records of several entity types within one store
// on a shared key, then filters and projects the merged rows.
package aggregation
