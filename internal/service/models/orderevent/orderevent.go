package orderevent

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshfold/orderdesk/internal/service/models/order"
)

// Event types emitted through the outbox.
const (
	TypeCreated = "order.created"
	TypeUpdated = "order.updated"
	TypeDeleted = "order.deleted"
)

// Event is the payload published to RabbitMQ for every order mutation.
type Event struct {
	Type        string          `json:"type"`
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	UserID      uuid.UUID       `json:"userId"`
	Total       decimal.Decimal `json:"total"`
	Actor       string          `json:"actor"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// New builds an event for the given order mutation.
func New(eventType string, o order.Order, actorName string, at time.Time) Event {
	return Event{
		Type:        eventType,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Total:       o.Total,
		Actor:       actorName,
		OccurredAt:  at,
	}
}

// Marshal serializes the event for the outbox payload column.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
