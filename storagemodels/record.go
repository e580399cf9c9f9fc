/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// IDField is the name of the identity field carried by every stored record.
const IDField = "id"

// Record is one entity instance: a flat mapping from field name to value.
// Aggregation result rows use the same representation.
type Record map[string]Value

// NewRecord converts plain Go values into a Record.
func NewRecord(fields map[string]any) Record {
	rec := make(Record, len(fields))
	for k, v := range fields {
		rec[k] = FromAny(v)
	}
	return rec
}

// Get returns the value stored under field. A present Null counts as present.
func (r Record) Get(field string) (Value, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return Null{}, ok
	}
	return v, true
}

// ID returns the record identity when the id field holds a valid UUID string.
func (r Record) ID() (uuid.UUID, bool) {
	v, ok := r[IDField].(String)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(string(v))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SetID stores id in canonical string form.
func (r Record) SetID(id uuid.UUID) {
	r[IDField] = String(id.String())
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// SortedKeys returns the field names in lexical order.
func (r Record) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts the record into plain Go values.
func (r Record) Interface() map[string]any {
	m := make(map[string]any, len(r))
	for k, v := range r {
		m[k] = interfaceOf(v)
	}
	return m
}

// Strings renders every field as text, for generic name/value tables.
// Nulls render as the empty string.
func (r Record) Strings() map[string]string {
	m := make(map[string]string, len(r))
	for k, v := range r {
		if IsNull(v) {
			m[k] = ""
			continue
		}
		m[k] = v.String()
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Interface())
}

// UnmarshalJSON implements json.Unmarshaler. Numbers keep their exact
// literal so integers stay integers.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if raw == nil {
		*r = nil
		return nil
	}
	*r = NewRecord(raw)
	return nil
}

// CloneRecords deep-copies a slice of records.
func CloneRecords(in []Record) []Record {
	out := make([]Record, len(in))
	for i, rec := range in {
		out[i] = rec.Clone()
	}
	return out
}
