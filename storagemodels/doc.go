/*
Package storagemodels defines the data structures used throughout virtualstore.

Key Types:

Value:
A closed union of dynamically typed field values:

	Null{}, String("a"), Int(42), Float(1.5), Bool(true),
	Decimal (arbitrary precision), Timestamp (RFC3339), Object{...}, Array{...}

Equal is typed equality (used for join keys). LooseEqual compares textual
forms case-insensitively (used for filters), so Int(1) and String("1") match.

Record:
One entity instance, a map from field name to Value. The "id" field holds the
identity as a canonical UUID string:

	rec := storagemodels.NewRecord(map[string]any{"name": "Widget", "price": 10})
	id, ok := rec.ID()

Definition:
Advisory per-entity metadata (field name to declared type and nullability).

AggregateParams:
Parameters for a cross-entity join:

	params := storagemodels.AggregateParams{
	    Entities: []string{"Citizen", "Education"},
	    JoinKey:  "cccd",
	    Select:   map[string]string{"name": "Citizen.name", "school": "Education.school"},
	    Filters:  storagemodels.Record{"Citizen.city": storagemodels.String("hanoi")},
	}

These types carry no synchronisation of their own; stores hand out copies.
*/
package storagemodels
