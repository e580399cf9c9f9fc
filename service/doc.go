/*
Package service is the orchestration facade over the store manager and the
aggregation engine.

Every operation names its store; unknown stores yield errors.NotFoundError
and malformed ids yield errors.ValidationError. Records are copied on the way
in and out, so callers may freely reuse the maps they pass and receive.

	svc := service.New(mgr, aggregation.NewEngine(), logger)
	n, err := svc.BulkCreate(ctx, "shop", "Product", rows)
	// n rows are committed even when err != nil

Query and Aggregate share one filter semantics: a filter matches when the
field exists and both values render to the same text, compared with Unicode
case folding.
*/
package service
