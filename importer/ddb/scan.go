/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
	"github.com/suparena/virtualstore/errors"
	"github.com/suparena/virtualstore/storagemodels"
)

// Source reads whole DynamoDB tables as records
type Source struct {
	client sdk.ScanAPIClient
	logger logrus.FieldLogger
}

// NewSource creates a Source over client. A nil logger uses the standard logger.
func NewSource(client sdk.ScanAPIClient, logger logrus.FieldLogger) *Source {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Source{client: client, logger: logger}
}

// Records scans table page by page and converts every item to a record.
// Numbers become Int when they fit in int64 and Decimal otherwise.
func (s *Source) Records(ctx context.Context, table string, opts ...storagemodels.ImportOption) ([]storagemodels.Record, error) {
	if table == "" {
		return nil, errors.NewValidationError("table", "table name is required")
	}

	options := storagemodels.DefaultImportOptions()
	for _, opt := range opts {
		opt(&options)
	}

	input := &sdk.ScanInput{TableName: aws.String(table)}
	if options.PageSize > 0 {
		input.Limit = aws.Int32(options.PageSize)
	}

	progress := storagemodels.ImportProgress{StartTime: time.Now()}
	reportProgress := func() {
		if options.ProgressHandler == nil {
			return
		}
		if elapsed := time.Since(progress.StartTime).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(progress.ItemsProcessed) / elapsed
		}
		options.ProgressHandler(progress)
	}

	var records []storagemodels.Record
	paginator := sdk.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return records, fmt.Errorf("scan %s page %d: %w", table, progress.PagesProcessed+1, err)
		}
		progress.PagesProcessed++

		for _, item := range out.Items {
			rec, err := ItemToRecord(item)
			if err != nil {
				return records, fmt.Errorf("scan %s item %d: %w", table, progress.ItemsProcessed, err)
			}
			records = append(records, rec)
			progress.ItemsProcessed++

			if options.MaxItems > 0 && len(records) >= options.MaxItems {
				reportProgress()
				return records, nil
			}
		}
		reportProgress()
	}

	s.logger.WithFields(logrus.Fields{
		"table": table,
		"count": len(records),
		"pages": progress.PagesProcessed,
	}).Debug("scanned table")
	return records, nil
}

// ItemToRecord converts one DynamoDB item. Binary values are base64 text,
// sets become arrays and NULL becomes Null.
func ItemToRecord(item map[string]types.AttributeValue) (storagemodels.Record, error) {
	var raw map[string]any
	err := attributevalue.UnmarshalMapWithOptions(item, &raw, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}

	rec := make(storagemodels.Record, len(raw))
	for k, v := range raw {
		rec[k] = normalize(v)
	}
	return rec, nil
}

func normalize(v any) storagemodels.Value {
	switch x := v.(type) {
	case attributevalue.Number:
		return number(string(x))
	case []attributevalue.Number:
		out := make(storagemodels.Array, len(x))
		for i, n := range x {
			out[i] = number(string(n))
		}
		return out
	case map[string]any:
		out := make(storagemodels.Object, len(x))
		for k, ev := range x {
			out[k] = normalize(ev)
		}
		return out
	case []any:
		out := make(storagemodels.Array, len(x))
		for i, ev := range x {
			out[i] = normalize(ev)
		}
		return out
	case [][]byte:
		out := make(storagemodels.Array, len(x))
		for i, b := range x {
			out[i] = storagemodels.FromAny(b)
		}
		return out
	default:
		return storagemodels.FromAny(v)
	}
}

func number(s string) storagemodels.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return storagemodels.Int(i)
	}
	if d, err := storagemodels.ParseDecimal(s); err == nil {
		return d
	}
	return storagemodels.String(s)
}
