// Package changefeed publishes catalog change events to downstream consumers.
package changefeed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/stockkeeper/internal/domain/catalog"
	"github.com/google/uuid"
)

// Publisher delivers an encoded event under a partition key
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Event is the envelope written to the change topic
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Type reports the event type, used as a message header by the Kafka producer
func (e Event) Type() string {
	return e.EventType
}

// Feed wraps domain payloads in envelopes and hands them to a Publisher.
// A Feed without a publisher builds envelopes and drops them.
type Feed struct {
	publisher Publisher
	now       func() time.Time
}

func New(publisher Publisher) *Feed {
	return &Feed{publisher: publisher, now: time.Now}
}

// Emit publishes one event for aggregateID. Catalog-wide events use the
// catalog key as aggregate id so they stay ordered within one partition.
func (f *Feed) Emit(ctx context.Context, aggregateID, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: catalog.AggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     f.now(),
	}

	if f.publisher != nil {
		if err := f.publisher.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}
	return &event, nil
}
