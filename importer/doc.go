// Package importer loads external JSON documents and tables into a store,
// registering a definition inferred from the first row.
package importer
