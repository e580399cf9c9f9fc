/*
Package ddb reads DynamoDB tables as schema-less records for bulk import.

A Source runs a paginated Scan and converts each item with attributevalue,
keeping numbers exact:

	client, _ := ddb.NewDynamoDBClient(ctx, ddb.Credentials{
	    AccessKey: os.Getenv("AWS_ACCESS_KEY"),
	    SecretKey: os.Getenv("AWS_SECRET_KEY"),
	    Region:    os.Getenv("AWS_REGION"),
	})
	records, err := ddb.NewSource(client, logger).Records(ctx, "Players",
	    storagemodels.WithPageSize(25),
	    storagemodels.WithProgressHandler(func(p storagemodels.ImportProgress) {
	        logger.Infof("Processed %d items", p.ItemsProcessed)
	    }),
	)

Throttling retries are left to the SDK's default retryer.
*/
package ddb
