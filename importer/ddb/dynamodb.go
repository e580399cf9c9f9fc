/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"
)

// Credentials holds the static AWS settings for a DynamoDB client.
type Credentials struct {
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string `yaml:"endpoint"`
}

// Configured reports whether enough settings are present to build a client
func (c Credentials) Configured() bool {
	return c.Region != "" && c.AccessKey != "" && c.SecretKey != ""
}

// NewDynamoDBClient initializes a DynamoDB client using static AWS credentials.
func NewDynamoDBClient(ctx context.Context, creds Credentials) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(creds.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if creds.Endpoint != "" {
			o.BaseEndpoint = aws.String(creds.Endpoint)
		}
	})

	logrus.WithFields(logrus.Fields{
		"region":   creds.Region,
		"endpoint": creds.Endpoint,
	}).Debug("DynamoDB client initialized")
	return client, nil
}
