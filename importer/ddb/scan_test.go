/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/virtualstore/storagemodels"
)

// fakeScanClient serves items in pages of the requested Limit.
type fakeScanClient struct {
	items  []map[string]types.AttributeValue
	calls  int
	limits []int32
	failAt int
}

func (f *fakeScanClient) Scan(ctx context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return nil, errors.New("throttled")
	}

	start := 0
	if in.ExclusiveStartKey != nil {
		var key struct{ Pos int }
		if err := attributevalue.UnmarshalMap(in.ExclusiveStartKey, &key); err != nil {
			return nil, err
		}
		start = key.Pos
	}

	limit := len(f.items)
	if in.Limit != nil {
		limit = int(*in.Limit)
		f.limits = append(f.limits, *in.Limit)
	}
	end := start + limit
	if end > len(f.items) {
		end = len(f.items)
	}

	out := &sdk.ScanOutput{Items: f.items[start:end], Count: int32(end - start)}
	if end < len(f.items) {
		lek, err := attributevalue.MarshalMap(struct{ Pos int }{Pos: end})
		if err != nil {
			return nil, err
		}
		out.LastEvaluatedKey = lek
	}
	return out, nil
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testItems(t *testing.T, n int) []map[string]types.AttributeValue {
	t.Helper()
	items := make([]map[string]types.AttributeValue, n)
	for i := range items {
		item, err := attributevalue.MarshalMap(map[string]any{
			"PK":    "PLAYER#" + strconv.Itoa(i),
			"score": i,
		})
		require.NoError(t, err)
		items[i] = item
	}
	return items
}

func TestRecordsPaginates(t *testing.T) {
	client := &fakeScanClient{items: testItems(t, 7)}
	var pages []storagemodels.ImportProgress

	records, err := NewSource(client, quietLogger()).Records(context.Background(), "Players",
		storagemodels.WithPageSize(3),
		storagemodels.WithProgressHandler(func(p storagemodels.ImportProgress) {
			pages = append(pages, p)
		}),
	)
	require.NoError(t, err)
	require.Len(t, records, 7)

	assert.Equal(t, 3, client.calls)
	assert.Equal(t, []int32{3, 3, 3}, client.limits)
	require.Len(t, pages, 3)
	assert.Equal(t, int64(7), pages[2].ItemsProcessed)
	assert.Equal(t, 3, pages[2].PagesProcessed)

	assert.Equal(t, storagemodels.String("PLAYER#0"), records[0]["PK"])
	assert.Equal(t, storagemodels.Int(6), records[6]["score"])
}

func TestRecordsMaxItems(t *testing.T) {
	client := &fakeScanClient{items: testItems(t, 10)}

	records, err := NewSource(client, quietLogger()).Records(context.Background(), "Players",
		storagemodels.WithPageSize(4),
		storagemodels.WithMaxItems(5),
	)
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, 2, client.calls)
}

func TestRecordsErrors(t *testing.T) {
	_, err := NewSource(&fakeScanClient{}, quietLogger()).Records(context.Background(), "")
	require.Error(t, err)

	client := &fakeScanClient{items: testItems(t, 6), failAt: 2}
	records, err := NewSource(client, quietLogger()).Records(context.Background(), "Players", storagemodels.WithPageSize(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.Len(t, records, 3)
}

func TestItemToRecord(t *testing.T) {
	item := map[string]types.AttributeValue{
		"name":    &types.AttributeValueMemberS{Value: "Ann"},
		"rating":  &types.AttributeValueMemberN{Value: "1534"},
		"avg":     &types.AttributeValueMemberN{Value: "12.50"},
		"huge":    &types.AttributeValueMemberN{Value: "123456789012345678901234567890"},
		"active":  &types.AttributeValueMemberBOOL{Value: true},
		"nothing": &types.AttributeValueMemberNULL{Value: true},
		"tags":    &types.AttributeValueMemberSS{Value: []string{"a", "b"}},
		"raw":     &types.AttributeValueMemberB{Value: []byte("hi")},
		"club": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"city": &types.AttributeValueMemberS{Value: "Oakville"},
		}},
		"history": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberN{Value: "1"},
			&types.AttributeValueMemberS{Value: "x"},
		}},
	}

	rec, err := ItemToRecord(item)
	require.NoError(t, err)

	assert.Equal(t, storagemodels.String("Ann"), rec["name"])
	assert.Equal(t, storagemodels.Int(1534), rec["rating"])
	assert.Equal(t, storagemodels.KindDecimal, rec["avg"].Kind())
	assert.Equal(t, "12.50", rec["avg"].String())
	assert.Equal(t, storagemodels.KindDecimal, rec["huge"].Kind())
	assert.Equal(t, storagemodels.Bool(true), rec["active"])
	assert.True(t, storagemodels.IsNull(rec["nothing"]))
	assert.Equal(t, storagemodels.Array{storagemodels.String("a"), storagemodels.String("b")}, rec["tags"])
	assert.Equal(t, storagemodels.String("aGk="), rec["raw"])
	assert.Equal(t, storagemodels.Object{"city": storagemodels.String("Oakville")}, rec["club"])
	assert.Equal(t, storagemodels.Array{storagemodels.Int(1), storagemodels.String("x")}, rec["history"])
}

func TestCredentialsConfigured(t *testing.T) {
	assert.False(t, Credentials{}.Configured())
	assert.False(t, Credentials{Region: "us-east-1"}.Configured())
	assert.True(t, Credentials{Region: "us-east-1", AccessKey: "k", SecretKey: "s"}.Configured())
}
