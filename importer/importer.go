/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/suparena/virtualstore/errors"
	"github.com/suparena/virtualstore/service"
	"github.com/suparena/virtualstore/storagemodels"
)

const (
	// DefaultMaxBodySize bounds payloads fetched by FromURL.
	DefaultMaxBodySize int64 = 10 << 20
	// DefaultTimeout bounds a single FromURL fetch.
	DefaultTimeout = 30 * time.Second
)

// Source names used for metrics and logs
const (
	SourceJSON     = "json"
	SourceURL      = "url"
	SourceDynamoDB = "dynamodb"
)

// Recorder receives import outcomes. *metrics.Metrics implements it.
type Recorder interface {
	RecordImport(source string, imported int, err error)
}

// TableSource reads a whole external table as records
type TableSource interface {
	Records(ctx context.Context, table string, opts ...storagemodels.ImportOption) ([]storagemodels.Record, error)
}

// Option configures an Importer
type Option func(*Importer)

// WithHTTPClient sets the client used by FromURL
func WithHTTPClient(c *http.Client) Option {
	return func(im *Importer) { im.client = c }
}

// WithMaxBodySize bounds the payload size accepted by FromURL
func WithMaxBodySize(n int64) Option {
	return func(im *Importer) { im.maxBody = n }
}

// WithRecorder reports every import to r
func WithRecorder(r Recorder) Option {
	return func(im *Importer) { im.recorder = r }
}

// WithTableSource enables FromTable
func WithTableSource(s TableSource) Option {
	return func(im *Importer) { im.tables = s }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(im *Importer) { im.logger = l }
}

// Importer turns external JSON documents and tables into records: it infers a
// definition from the first row, registers it, then bulk-creates every row.
type Importer struct {
	svc      *service.Service
	client   *http.Client
	maxBody  int64
	recorder Recorder
	tables   TableSource
	logger   logrus.FieldLogger
}

// New creates an Importer writing through svc
func New(svc *service.Service, opts ...Option) *Importer {
	im := &Importer{
		svc:     svc,
		client:  &http.Client{Timeout: DefaultTimeout},
		maxBody: DefaultMaxBodySize,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// FromJSON imports a raw JSON document: an array of objects or one object.
func (im *Importer) FromJSON(ctx context.Context, store, entity string, payload []byte) (*storagemodels.ImportResult, error) {
	doc, err := decode(payload)
	if err != nil {
		return nil, err
	}
	return im.FromValue(ctx, store, entity, doc)
}

// FromValue imports an already decoded document. Array items that are not
// objects are skipped; any other shape is rejected.
func (im *Importer) FromValue(ctx context.Context, store, entity string, doc any) (*storagemodels.ImportResult, error) {
	rows, err := Rows(doc)
	if err != nil {
		return nil, err
	}
	return im.importRows(ctx, SourceJSON, store, entity, rows)
}

// FromURL fetches a JSON document over HTTP(S) and imports it.
func (im *Importer) FromURL(ctx context.Context, store, entity, rawURL string) (*storagemodels.ImportResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewValidationError("url", fmt.Sprintf("unsupported url %q", rawURL))
	}

	payload, err := im.fetch(ctx, u.String())
	if err != nil {
		im.record(SourceURL, 0, err)
		return nil, err
	}
	doc, err := decode(payload)
	if err != nil {
		im.record(SourceURL, 0, err)
		return nil, err
	}
	rows, err := Rows(doc)
	if err != nil {
		im.record(SourceURL, 0, err)
		return nil, err
	}
	return im.importRows(ctx, SourceURL, store, entity, rows)
}

// FromTable imports every record of an external table through the
// configured TableSource.
func (im *Importer) FromTable(ctx context.Context, store, entity, table string, opts ...storagemodels.ImportOption) (*storagemodels.ImportResult, error) {
	if im.tables == nil {
		return nil, errors.NewValidationError("table", "table import is not configured")
	}
	rows, err := im.tables.Records(ctx, table, opts...)
	if err != nil {
		im.record(SourceDynamoDB, 0, err)
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}
	return im.importRows(ctx, SourceDynamoDB, store, entity, rows)
}

func (im *Importer) importRows(ctx context.Context, source, store, entity string, rows []storagemodels.Record) (*storagemodels.ImportResult, error) {
	result := &storagemodels.ImportResult{
		StoreName:  store,
		EntityName: entity,
	}
	if len(rows) == 0 {
		result.Message = "No records to import"
		im.record(source, 0, nil)
		return result, nil
	}

	def := InferSchema(store, entity, rows[0])
	if _, err := im.svc.RegisterDefinition(ctx, store, def); err != nil {
		im.record(source, 0, err)
		return nil, err
	}

	imported, err := im.svc.BulkCreate(ctx, store, entity, rows)
	im.record(source, imported, err)
	result.Imported = imported
	result.Properties = def.Properties
	if err != nil {
		result.Message = "Import stopped after an error"
		return result, err
	}

	result.Message = "Imported successfully"
	im.logger.WithFields(logrus.Fields{
		"store":  store,
		"entity": entity,
		"count":  imported,
		"source": source,
	}).Info("import complete")
	return result, nil
}

func (im *Importer) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", target, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, im.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if int64(len(body)) > im.maxBody {
		return nil, errors.NewValidationError("url", fmt.Sprintf("payload exceeds %d bytes", im.maxBody))
	}
	return body, nil
}

func (im *Importer) record(source string, imported int, err error) {
	if im.recorder != nil {
		im.recorder.RecordImport(source, imported, err)
	}
}

func decode(payload []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.NewValidationError("payload", fmt.Sprintf("invalid JSON: %v", err))
	}
	return doc, nil
}
