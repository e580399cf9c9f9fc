/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// AggregateParams defines a cross-entity join within one store.
type AggregateParams struct {
	// Entities lists the entity types to join. The first one is the base.
	Entities []string `json:"entities"`
	// JoinKey is the field shared by every joined entity type.
	JoinKey string `json:"joinKey"`
	// Select maps output aliases to "<Entity>.<field>" references.
	// When empty the merged row is returned unprojected.
	Select map[string]string `json:"select,omitempty"`
	// Filters are loose equality filters keyed by "<Entity>.<field>".
	Filters Record `json:"filters,omitempty"`
}

// StoreSummary is a lightweight, detached view of one store.
type StoreSummary struct {
	Name         string         `json:"name"`
	EntityCounts map[string]int `json:"entityCounts"`
	Definitions  []string       `json:"entityDefinitions"`
}

// RegistryStatistics summarises every registered store.
type RegistryStatistics struct {
	TotalStores   int            `json:"totalStores"`
	VirtualStores int            `json:"virtualStores"`
	RegularStores int            `json:"regularStores"`
	Details       []StoreSummary `json:"virtualStoreDetails"`
}
