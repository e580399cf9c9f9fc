/*
Package virtualstore provides a schema-less, multi-tenant, in-memory entity store.

Callers create named stores, register advisory entity definitions at runtime,
and then create, load, update, delete, filter and join records entirely in
memory. Nothing is persisted; a restart yields an empty registry.

Key Features:
  - Dynamic records built on a sealed value union (storagemodels.Value)
  - Concurrent-safe stores with copy-on-read semantics
  - Atomic get-or-create store lifecycle through an explicitly owned Manager
  - Nested-loop joins with loose equality filters and projections (aggregation)
  - JSON and DynamoDB import with schema inference (importer)
  - HTTP API with metrics and rate limiting (api)

Basic Usage:

	mgr := virtualstore.NewManager()
	svc := service.New(mgr, aggregation.NewEngine(), logrus.StandardLogger())

	svc.CreateStore(ctx, "shop")
	rec, _ := svc.CreateEntity(ctx, "shop", "Product", storagemodels.Record{
	    "name": storagemodels.String("Widget"),
	})

	rows, _ := svc.Query(ctx, "shop", "Product", storagemodels.Record{
	    "name": storagemodels.String("widget"),
	})
*/
package virtualstore
