//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/suparena/virtualstore/storagemodels"
)

func integrationSource(t *testing.T) (*Source, string) {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	creds := Credentials{
		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		SecretKey: os.Getenv("AWS_SECRET_KEY"),
		Region:    os.Getenv("AWS_REGION"),
		Endpoint:  os.Getenv("AWS_DDB_ENDPOINT"),
	}
	table := os.Getenv("AWS_DDB_TABLE")
	if !creds.Configured() || table == "" {
		t.Skip("AWS credentials or AWS_DDB_TABLE not set")
	}

	client, err := NewDynamoDBClient(context.Background(), creds)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return NewSource(client, nil), table
}

func TestScanTableIntegration(t *testing.T) {
	source, table := integrationSource(t)

	pages := 0
	records, err := source.Records(context.Background(), table,
		storagemodels.WithPageSize(25),
		storagemodels.WithMaxItems(100),
		storagemodels.WithProgressHandler(func(p storagemodels.ImportProgress) {
			pages++
			t.Logf("Progress: %d items, %d pages, rate: %.2f/s", p.ItemsProcessed, p.PagesProcessed, p.CurrentRate)
		}),
	)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(records) == 0 {
		t.Log("No items found in test table")
		return
	}
	if pages == 0 {
		t.Error("Progress handler was not called")
	}
	t.Logf("First record: %v", records[0].Strings())
}
