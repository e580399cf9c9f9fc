/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package virtualstore

import (
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/virtualstore/datastore"
	"github.com/suparena/virtualstore/datastore/memory"
	"github.com/suparena/virtualstore/datastore/mock"
	"github.com/suparena/virtualstore/errors"
	"github.com/suparena/virtualstore/storagemodels"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestManagerCreateStore(t *testing.T) {
	m := NewManager(WithLogger(quietLogger()))

	first, err := m.CreateStore("shop")
	require.NoError(t, err)
	second, err := m.CreateStore("shop")
	require.NoError(t, err)
	assert.Same(t, first.(*memory.Store), second.(*memory.Store))

	_, err = m.CreateStore("  ")
	assert.True(t, errors.IsValidationError(err))

	got, err := m.GetStore("shop")
	require.NoError(t, err)
	assert.Equal(t, "shop", got.Name())

	_, err = m.GetStore("missing")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, []string{"shop"}, m.StoreNames())
}

func TestManagerConcurrentCreate(t *testing.T) {
	var mu sync.Mutex
	built := 0
	m := NewManager(
		WithLogger(quietLogger()),
		WithStoreFactory(func(name string) datastore.DataStore {
			mu.Lock()
			built++
			mu.Unlock()
			return memory.New(name)
		}),
	)

	const n = 50
	results := make([]datastore.DataStore, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := m.CreateStore("shared")
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, built)
	for _, ds := range results {
		assert.Same(t, results[0].(*memory.Store), ds.(*memory.Store))
	}
}

func TestManagerDeleteStore(t *testing.T) {
	m := NewManager(WithLogger(quietLogger()))

	ds, err := m.CreateStore("X")
	require.NoError(t, err)
	_, err = ds.Save("Product", storagemodels.Record{"name": storagemodels.String("a")})
	require.NoError(t, err)
	require.NoError(t, m.RegisterDefinition("X", storagemodels.NewDefinition("X", "Product")))

	m.DeleteStore("X")
	m.DeleteStore("X")

	_, err = m.GetStore("X")
	assert.True(t, errors.IsNotFound(err))
	_, err = m.VirtualStore("X")
	assert.True(t, errors.IsNotFound(err))
	_, err = m.GetDefinition("X", "Product")
	assert.True(t, errors.IsNotFound(err))

	fresh, err := m.CreateStore("X")
	require.NoError(t, err)
	assert.Empty(t, fresh.Counts())
	all, err := fresh.LoadAll("Product")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestManagerListStores(t *testing.T) {
	m := NewManager(WithLogger(quietLogger()))

	b, _ := m.CreateStore("b")
	m.CreateStore("a")
	b.Save("Order", storagemodels.Record{})
	m.RegisterDefinition("b", storagemodels.NewDefinition("b", "Order"))

	summaries := m.ListStores()
	require.Len(t, summaries, 2)
	assert.Equal(t, "a", summaries[0].Name)
	assert.Equal(t, "b", summaries[1].Name)
	assert.Equal(t, map[string]int{"Order": 1}, summaries[1].EntityCounts)
	assert.Equal(t, []string{"Order"}, summaries[1].Definitions)

	// summaries are detached from the live store
	summaries[1].EntityCounts["Order"] = 99
	assert.Equal(t, 1, b.Counts()["Order"])
}

func TestManagerRegistryStatistics(t *testing.T) {
	m := NewManager(
		WithLogger(quietLogger()),
		WithStoreFactory(func(name string) datastore.DataStore {
			if name == "wrapped" {
				return mock.New(memory.New(name))
			}
			return memory.New(name)
		}),
	)
	m.CreateStore("virtualStore1")
	m.CreateStore("wrapped")

	stats := m.RegistryStatistics()
	assert.Equal(t, 2, stats.TotalStores)
	assert.Equal(t, 1, stats.VirtualStores)
	assert.Equal(t, 1, stats.RegularStores)
	require.Len(t, stats.Details, 1)
	assert.Equal(t, "virtualStore1", stats.Details[0].Name)
}

func TestManagerDefinitions(t *testing.T) {
	m := NewManager(WithLogger(quietLogger()))

	assert.True(t, errors.IsValidationError(m.RegisterDefinition("shop", nil)))
	assert.True(t, errors.IsValidationError(m.RegisterDefinition("shop", storagemodels.NewDefinition("shop", ""))))

	def := storagemodels.NewDefinition("shop", "Product")
	def.AddProperty("price", storagemodels.FieldTypeDecimal, true)
	require.NoError(t, m.RegisterDefinition("shop", def))

	got, err := m.GetDefinition("shop", "Product")
	require.NoError(t, err)
	assert.Equal(t, storagemodels.FieldTypeDecimal, got.Properties["price"].Type)

	assert.Len(t, m.ListDefinitions("shop"), 1)
	m.DeleteDefinition("shop", "Product")
	m.DeleteDefinition("shop", "Product")
	assert.Empty(t, m.ListDefinitions("shop"))
}

func TestVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), "virtualstore version "+Version)
}

func TestManagerDefineEntity(t *testing.T) {
	m := NewManager(WithLogger(quietLogger()))

	def := storagemodels.NewDefinition("", "Product")
	def.AddProperty("name", storagemodels.FieldTypeString, true)
	stored, err := m.DefineEntity("shop", def)
	require.NoError(t, err)
	assert.Equal(t, "shop", stored.StoreName)
	_, err = m.GetStore("shop")
	require.NoError(t, err)

	_, err = m.DefineEntity(" ", def)
	assert.True(t, errors.IsValidationError(err))
	_, err = m.DefineEntity("other", storagemodels.NewDefinition("other", ""))
	assert.True(t, errors.IsValidationError(err))
	_, err = m.GetStore("other")
	assert.True(t, errors.IsNotFound(err), "an invalid definition creates no store")
}

func TestManagerDefineEntityRacesDelete(t *testing.T) {
	m := NewManager(WithLogger(quietLogger()))

	for round := 0; round < 200; round++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := m.DefineEntity("volatile", storagemodels.NewDefinition("volatile", "Product"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			m.DeleteStore("volatile")
		}()
		wg.Wait()

		_, err := m.GetStore("volatile")
		if errors.IsNotFound(err) {
			require.Empty(t, m.ListDefinitions("volatile"), "round %d left a definition without a store", round)
		} else {
			require.Len(t, m.ListDefinitions("volatile"), 1, "round %d", round)
		}
		m.DeleteStore("volatile")
	}
}
