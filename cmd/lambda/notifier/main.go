package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/example/stockkeeper/internal/changefeed"
	"github.com/example/stockkeeper/internal/config"
	"github.com/example/stockkeeper/internal/email"
	"github.com/example/stockkeeper/internal/infrastructure/kinesis"
	"github.com/example/stockkeeper/internal/notification"
)

var (
	notificationHandler *notification.Handler
	catalogKey          string
	feed                = changefeed.New(nil)
)

func init() {
	cfg := config.Load()
	catalogKey = cfg.CatalogKey

	emailSvc := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	notificationHandler = notification.NewHandler(emailSvc, cfg.AlertRecipient)

	log.Printf("[Lambda Notifier] Initialized successfully (key: %s, SMTP: %s:%s)", catalogKey, cfg.SMTPHost, cfg.SMTPPort)
}

// handler receives writes to the DynamoDB catalog table through its Kinesis
// stream and turns each catalog version change into notifier events.
func handler(ctx context.Context, kinesisEvent events.KinesisEvent) (events.KinesisEventResponse, error) {
	log.Printf("[Lambda Notifier] Received %d records", len(kinesisEvent.Records))

	var batchItemFailures []events.KinesisBatchItemFailure
	fail := func(record events.KinesisEventRecord) {
		batchItemFailures = append(batchItemFailures, events.KinesisBatchItemFailure{
			ItemIdentifier: record.Kinesis.SequenceNumber,
		})
	}

	for _, record := range kinesisEvent.Records {
		change, err := kinesis.ConvertFromKinesisRecord(record)
		if err != nil {
			log.Printf("[Lambda Notifier] Failed to convert record %s: %v", record.EventID, err)
			fail(record)
			continue
		}

		// Skip deletes and other keys in the table
		if change == nil || change.Key != catalogKey {
			continue
		}

		changes, err := change.CatalogChanges(time.Now())
		if err != nil {
			log.Printf("[Lambda Notifier] Failed to decode catalog in record %s: %v", record.EventID, err)
			fail(record)
			continue
		}

		for _, c := range changes {
			event, err := feed.Emit(ctx, c.ProductID.String(), c.EventType, c.Data)
			if err != nil {
				log.Printf("[Lambda Notifier] Failed to build %s for %s: %v", c.EventType, c.ProductID, err)
				continue
			}
			if err := notificationHandler.HandleChange(ctx, *event); err != nil {
				log.Printf("[Lambda Notifier] Failed to process %s for %s: %v", c.EventType, c.ProductID, err)
			}
		}
	}

	successCount := len(kinesisEvent.Records) - len(batchItemFailures)
	log.Printf("[Lambda Notifier] Processed %d/%d records successfully", successCount, len(kinesisEvent.Records))

	return events.KinesisEventResponse{
		BatchItemFailures: batchItemFailures,
	}, nil
}

func main() {
	lambda.Start(handler)
}
