/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "time"

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Message    string                        `json:"message"`
	StoreName  string                        `json:"storeName"`
	EntityName string                        `json:"entityName"`
	Imported   int                           `json:"imported"`
	Properties map[string]PropertyDefinition `json:"properties,omitempty"`
}

// ImportProgress tracks a paginated import
type ImportProgress struct {
	ItemsProcessed int64     // Total items read from the source
	PagesProcessed int       // Total pages read
	StartTime      time.Time // When the import started
	CurrentRate    float64   // Items per second
}

// ImportOptions configures paginated imports
type ImportOptions struct {
	PageSize        int32                // Items per source page (default: 100)
	MaxItems        int                  // Stop after this many items (0: no limit)
	ProgressHandler func(ImportProgress) // Optional progress callback, called once per page
}

// ImportOption is a functional option for configuring imports
type ImportOption func(*ImportOptions)

// DefaultImportOptions returns default import options
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		PageSize: 100,
	}
}

// WithPageSize sets the source page size
func WithPageSize(size int32) ImportOption {
	return func(opts *ImportOptions) {
		opts.PageSize = size
	}
}

// WithMaxItems caps the number of imported items
func WithMaxItems(n int) ImportOption {
	return func(opts *ImportOptions) {
		opts.MaxItems = n
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(ImportProgress)) ImportOption {
	return func(opts *ImportOptions) {
		opts.ProgressHandler = handler
	}
}
