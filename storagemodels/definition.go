/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "sort"

// FieldType is the logical type declared for a property of an entity definition.
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeDecimal   FieldType = "bigdecimal"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeTimestamp FieldType = "datetime"
	FieldTypeJSON      FieldType = "json"
)

// FieldTypeOf maps a value to the logical type used for schema inference.
// Nulls and unrecognised variants infer as string.
func FieldTypeOf(v Value) FieldType {
	if v == nil {
		return FieldTypeString
	}
	switch v.Kind() {
	case KindBool:
		return FieldTypeBoolean
	case KindInt:
		return FieldTypeInteger
	case KindFloat, KindDecimal:
		return FieldTypeDecimal
	case KindTimestamp:
		return FieldTypeTimestamp
	case KindObject, KindArray:
		return FieldTypeJSON
	default:
		return FieldTypeString
	}
}

// PropertyDefinition describes one declared field.
type PropertyDefinition struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Nullable bool      `json:"nullable" yaml:"nullable"`
}

// Definition is advisory metadata for an entity type within a store. It is
// never enforced against writes and may drift from the stored data.
type Definition struct {
	EntityName string                        `json:"entityName"`
	StoreName  string                        `json:"storeName"`
	Properties map[string]PropertyDefinition `json:"properties"`
	PrimaryKey []string                      `json:"primaryKeyProperties,omitempty"`
}

// NewDefinition creates an empty definition.
func NewDefinition(storeName, entityName string) *Definition {
	return &Definition{
		EntityName: entityName,
		StoreName:  storeName,
		Properties: make(map[string]PropertyDefinition),
	}
}

// AddProperty declares or replaces a property.
func (d *Definition) AddProperty(name string, typ FieldType, nullable bool) {
	if d.Properties == nil {
		d.Properties = make(map[string]PropertyDefinition)
	}
	d.Properties[name] = PropertyDefinition{Name: name, Type: typ, Nullable: nullable}
}

// AddPrimaryKeyProperty appends name to the primary key once.
func (d *Definition) AddPrimaryKeyProperty(name string) {
	for _, p := range d.PrimaryKey {
		if p == name {
			return
		}
	}
	d.PrimaryKey = append(d.PrimaryKey, name)
}

// Property looks up a declared property.
func (d *Definition) Property(name string) (PropertyDefinition, bool) {
	p, ok := d.Properties[name]
	return p, ok
}

// PropertyNames returns the declared property names in lexical order.
func (d *Definition) PropertyNames() []string {
	names := make([]string, 0, len(d.Properties))
	for n := range d.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}
	out := &Definition{
		EntityName: d.EntityName,
		StoreName:  d.StoreName,
		Properties: make(map[string]PropertyDefinition, len(d.Properties)),
	}
	for k, p := range d.Properties {
		out.Properties[k] = p
	}
	if len(d.PrimaryKey) > 0 {
		out.PrimaryKey = append([]string(nil), d.PrimaryKey...)
	}
	return out
}
