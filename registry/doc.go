/*
Package registry provides the thread-safe lookup tables behind the store manager.

Index:
A generic name → value table used for the store registry:

	stores := registry.NewIndex[datastore.DataStore]()
	ds, created, err := stores.GetOrCreate("virtualStore1", func() (datastore.DataStore, error) {
	    return memory.New("virtualStore1"), nil
	})

GetOrCreate performs the existence check and the insert under one lock, so
concurrent creators of the same name share a single instance.

Definitions:
Advisory entity definitions, namespaced by store name and then entity name.
Registering a definition replaces the previous one for the same pair; nothing
is merged. Definitions are never enforced against stored records.

	defs := registry.NewDefinitions()
	def := storagemodels.NewDefinition("shop", "Product")
	def.AddProperty("name", storagemodels.FieldTypeString, true)
	defs.Register("shop", def)
*/
package registry
