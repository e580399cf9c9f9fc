/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package importer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/virtualstore"
	"github.com/suparena/virtualstore/aggregation"
	"github.com/suparena/virtualstore/datastore"
	"github.com/suparena/virtualstore/datastore/memory"
	"github.com/suparena/virtualstore/datastore/mock"
	"github.com/suparena/virtualstore/errors"
	"github.com/suparena/virtualstore/service"
	"github.com/suparena/virtualstore/storagemodels"
)

type recorded struct {
	source   string
	imported int
	failed   bool
}

type fakeRecorder struct{ calls []recorded }

func (f *fakeRecorder) RecordImport(source string, imported int, err error) {
	f.calls = append(f.calls, recorded{source, imported, err != nil})
}

type fakeTables struct {
	rows  []storagemodels.Record
	table string
}

func (f *fakeTables) Records(ctx context.Context, table string, opts ...storagemodels.ImportOption) ([]storagemodels.Record, error) {
	f.table = table
	return f.rows, nil
}

func newTestImporter(t *testing.T, opts ...Option) (*Importer, *service.Service) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.New(virtualstore.NewManager(virtualstore.WithLogger(log)), aggregation.NewEngine(aggregation.WithLogger(log)), log)
	return New(svc, append([]Option{WithLogger(log)}, opts...)...), svc
}

func TestFromJSON(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	im, svc := newTestImporter(t, WithRecorder(rec))

	payload := `[
		{"name": "Widget", "qty": 3, "price": 9.95, "active": true, "tags": ["a"], "note": null},
		{"name": "Gadget", "qty": 1, "price": 2, "active": false},
		"skipped",
		42
	]`

	result, err := im.FromJSON(ctx, "shop", "Product", []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "Imported successfully", result.Message)
	assert.Equal(t, "shop", result.StoreName)
	assert.Equal(t, "Product", result.EntityName)
	assert.Equal(t, 2, result.Imported)

	assert.Equal(t, storagemodels.FieldTypeString, result.Properties["name"].Type)
	assert.Equal(t, storagemodels.FieldTypeInteger, result.Properties["qty"].Type)
	assert.Equal(t, storagemodels.FieldTypeDecimal, result.Properties["price"].Type)
	assert.Equal(t, storagemodels.FieldTypeBoolean, result.Properties["active"].Type)
	assert.Equal(t, storagemodels.FieldTypeJSON, result.Properties["tags"].Type)
	assert.Equal(t, storagemodels.FieldTypeString, result.Properties["note"].Type)
	for _, p := range result.Properties {
		assert.True(t, p.Nullable)
	}

	def, err := svc.GetDefinition(ctx, "shop", "Product")
	require.NoError(t, err)
	assert.Len(t, def.Properties, 6)

	rows, err := svc.Query(ctx, "shop", "Product", storagemodels.Record{"name": storagemodels.String("gadget")})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, storagemodels.Int(1), rows[0]["qty"])

	assert.Equal(t, []recorded{{SourceJSON, 2, false}}, rec.calls)
}

func TestFromJSONShapes(t *testing.T) {
	ctx := context.Background()
	im, svc := newTestImporter(t)

	t.Run("single object", func(t *testing.T) {
		result, err := im.FromJSON(ctx, "s1", "Thing", []byte(`{"k": "v"}`))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
	})

	t.Run("empty array", func(t *testing.T) {
		result, err := im.FromJSON(ctx, "s2", "Thing", []byte(`[]`))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
		assert.Equal(t, "No records to import", result.Message)
		assert.Nil(t, result.Properties)

		_, err = svc.ListDefinitions(ctx, "s2")
		assert.True(t, errors.IsNotFound(err), "no definition or store is created for an empty import")
	})

	t.Run("unsupported shape", func(t *testing.T) {
		_, err := im.FromJSON(ctx, "s3", "Thing", []byte(`"text"`))
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := im.FromJSON(ctx, "s3", "Thing", []byte(`{`))
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestFromJSONPartialFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.NewValidationError("row", "rejected")
	log := logrus.New()
	log.SetOutput(io.Discard)

	mgr := virtualstore.NewManager(
		virtualstore.WithLogger(log),
		virtualstore.WithStoreFactory(func(name string) datastore.DataStore {
			return mock.New(memory.New(name)).WithSaveErrorAfter(1, boom)
		}),
	)
	rec := &fakeRecorder{}
	im := New(service.New(mgr, nil, log), WithLogger(log), WithRecorder(rec))

	result, err := im.FromJSON(ctx, "shop", "Product", []byte(`[{"n":1},{"n":2},{"n":3}]`))
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []recorded{{SourceJSON, 1, true}}, rec.calls)
}

func TestFromURL(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/players":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `[{"name":"Ann","rating":1500},{"name":"Bob","rating":1410}]`)
		case "/big":
			io.WriteString(w, `[`+strings.Repeat(`{"k":1},`, 100)+`{"k":1}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	im, svc := newTestImporter(t, WithHTTPClient(server.Client()), WithMaxBodySize(256))

	result, err := im.FromURL(ctx, "club", "Player", server.URL+"/players")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	stats, err := svc.Statistics(ctx, "club")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Player": 2}, stats)

	_, err = im.FromURL(ctx, "club", "Player", server.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = im.FromURL(ctx, "club", "Player", server.URL+"/big")
	assert.True(t, errors.IsValidationError(err))

	_, err = im.FromURL(ctx, "club", "Player", "ftp://example.com/data.json")
	assert.True(t, errors.IsValidationError(err))
}

func TestFromTable(t *testing.T) {
	ctx := context.Background()

	im, _ := newTestImporter(t)
	_, err := im.FromTable(ctx, "s", "E", "Players")
	assert.True(t, errors.IsValidationError(err))

	tables := &fakeTables{rows: []storagemodels.Record{
		{"PK": storagemodels.String("PLAYER#1"), "score": storagemodels.Int(3)},
	}}
	im, svc := newTestImporter(t, WithTableSource(tables))

	result, err := im.FromTable(ctx, "ddb", "Player", "Players")
	require.NoError(t, err)
	assert.Equal(t, "Players", tables.table)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, storagemodels.FieldTypeInteger, result.Properties["score"].Type)

	all, err := svc.LoadAll(ctx, "ddb", "Player")
	require.NoError(t, err)
	require.Len(t, all, 1)
	_, ok := all[0].ID()
	assert.True(t, ok)
}

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestInferSchema(t *testing.T) {
	def := InferSchema("s", "E", storagemodels.Record{
		"when": storagemodels.NewTimestamp(testTime),
		"obj":  storagemodels.Object{},
	})
	assert.Equal(t, "s", def.StoreName)
	assert.Equal(t, "E", def.EntityName)
	assert.Equal(t, storagemodels.FieldTypeTimestamp, def.Properties["when"].Type)
	assert.Equal(t, storagemodels.FieldTypeJSON, def.Properties["obj"].Type)
}
