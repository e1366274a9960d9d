package kinesis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/example/stockkeeper/internal/changefeed"
	"github.com/example/stockkeeper/internal/domain/catalog"
)

// BlobChange is one write to the DynamoDB blob table, as seen on its stream.
// OldValue is empty for the first write of a key.
type BlobChange struct {
	Key       string
	OldValue  []byte
	NewValue  []byte
	UpdatedAt string
}

// ConvertFromKinesisRecord converts a Kinesis record (DynamoDB Streams format) to a BlobChange.
// DynamoDB Kinesis integration sends records in DynamoDB Streams format.
func ConvertFromKinesisRecord(record events.KinesisEventRecord) (*BlobChange, error) {
	var dynamoDBRecord events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &dynamoDBRecord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DynamoDB record: %w", err)
	}
	return ConvertFromDynamoDBStreamRecord(dynamoDBRecord)
}

// ConvertFromDynamoDBStreamRecord converts a DynamoDB Stream record to a BlobChange.
// Deleting a blob produces no change.
func ConvertFromDynamoDBStreamRecord(record events.DynamoDBEventRecord) (*BlobChange, error) {
	switch record.EventName {
	case "INSERT", "MODIFY":
	default:
		return nil, nil
	}

	key, value, updatedAt, err := convertBlobImage(record.Change.NewImage)
	if err != nil {
		return nil, err
	}
	change := &BlobChange{Key: key, NewValue: value, UpdatedAt: updatedAt}

	// The stream view type may omit old images
	if record.Change.OldImage != nil {
		if _, old, _, err := convertBlobImage(record.Change.OldImage); err == nil {
			change.OldValue = old
		}
	}
	return change, nil
}

// convertBlobImage extracts the blob fields from DynamoDB attribute values.
func convertBlobImage(image map[string]events.DynamoDBAttributeValue) (string, []byte, string, error) {
	if image == nil {
		return "", nil, "", fmt.Errorf("DynamoDB image is nil")
	}

	var key, value, updatedAt string
	if v, ok := image["key"]; ok {
		key = v.String()
	}
	if v, ok := image["value"]; ok {
		value = v.String()
	}
	if v, ok := image["updated_at"]; ok {
		updatedAt = v.String()
	}

	if key == "" {
		return "", nil, "", fmt.Errorf("missing required field: key")
	}
	return key, []byte(value), updatedAt, nil
}

// CatalogChanges decodes both versions of the blob and lists the product
// changes between them. A corrupt new value is an error; a corrupt old value
// is treated as empty.
func (c *BlobChange) CatalogChanges(at time.Time) ([]changefeed.Change, error) {
	after, _, err := catalog.Decode(c.NewValue)
	if err != nil {
		return nil, err
	}

	before := catalog.Catalog{}
	if len(c.OldValue) > 0 {
		if old, _, err := catalog.Decode(c.OldValue); err == nil {
			before = old
		}
	}
	return changefeed.Diff(before, after, at), nil
}
