/*
Package errors provides semantic error types for the virtualstore library.

Only the orchestration layer and its collaborators raise these errors. The
in-memory data stores and the aggregation engine express absence as empty
results instead.

Common Errors:

	var (
	    ErrNotFound     = errors.New("not found")
	    ErrInvalidInput = errors.New("invalid input")
	)

Usage:

	rec, err := svc.Load(ctx, "shop", "Product", id)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // unknown store or record
	    }
	    if errors.IsValidationError(err) {
	        // malformed identity
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewStoreNotFoundError("shop")
	err := errors.NewValidationError("id", "invalid UUID format")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
