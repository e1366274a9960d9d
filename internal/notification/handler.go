package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/stockkeeper/internal/changefeed"
	"github.com/example/stockkeeper/internal/domain/catalog"
	"github.com/example/stockkeeper/internal/email"
	"github.com/example/stockkeeper/internal/query"
)

// Alerter delivers stock alerts, usually by email
type Alerter interface {
	SendStockAlert(to string, alert email.StockAlert) error
}

// Handler follows the catalog change feed and raises an alert whenever a
// draw-down leaves a product LOW or OUT_OF_STOCK
type Handler struct {
	alerter   Alerter
	recipient string
}

// NewHandler creates a new notification handler. Without an alerter or a
// recipient, alerts are only logged.
func NewHandler(alerter Alerter, recipient string) *Handler {
	return &Handler{
		alerter:   alerter,
		recipient: recipient,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event changefeed.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}
	return h.HandleChange(ctx, event)
}

// HandleChange processes a decoded change event
func (h *Handler) HandleChange(ctx context.Context, event changefeed.Event) error {
	switch event.EventType {
	case catalog.EventStockAdjusted:
		return h.handleStockAdjusted(event)
	case catalog.EventCatalogReconciled:
		var e catalog.CatalogReconciled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			log.Printf("[Notifier] Failed to unmarshal CatalogReconciled event: %v", err)
			return err
		}
		log.Printf("[Notifier] Catalog reconciled: %d local + %d remote -> %d (remote available: %t)",
			e.LocalCount, e.RemoteCount, e.MergedCount, e.RemoteAvailable)
	default:
		log.Printf("[Notifier] %s for product %s", event.EventType, event.AggregateID)
	}
	return nil
}

func (h *Handler) handleStockAdjusted(event changefeed.Event) error {
	var e catalog.StockAdjusted
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal StockAdjusted event: %v", err)
		return err
	}

	quantity := 0
	if len(e.Quantities) > 0 {
		quantity = e.Quantities[0]
	}
	level := query.LevelOf(quantity)
	if e.Delta >= 0 || level == query.OK {
		return nil
	}

	alert := email.StockAlert{
		ProductID: e.ProductID.String(),
		Name:      e.Name,
		Quantity:  quantity,
		Delta:     e.Delta,
		Level:     level.String(),
	}
	log.Printf("[Notifier] %s: product %s now at %d", alert.Level, alert.ProductID, alert.Quantity)

	if h.alerter == nil || h.recipient == "" {
		return nil
	}
	if err := h.alerter.SendStockAlert(h.recipient, alert); err != nil {
		log.Printf("[Notifier] Failed to send alert to %s: %v", h.recipient, err)
		return err
	}
	log.Printf("[Notifier] Stock alert sent to %s for product %s", h.recipient, alert.ProductID)
	return nil
}
