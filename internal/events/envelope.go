package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventsExchange = "shopfront.events"

	EventOrderPlaced = "order.placed"
	EventCartUpdated = "cart.updated"

	producerName = "shopfront-api"
)

// Envelope wraps every published payload.
type Envelope struct {
	EventName     string          `json:"eventName"`
	EventVersion  int             `json:"eventVersion"`
	EventID       string          `json:"eventId"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Producer      string          `json:"producer"`
	PartitionKey  string          `json:"partitionKey"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Payload       json.RawMessage `json:"payload"`
}

func (e Envelope) Validate() error {
	if e.EventName == "" {
		return fmt.Errorf("missing eventName")
	}
	if e.EventID == "" {
		return fmt.Errorf("missing eventId")
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	if len(e.Payload) == 0 {
		return fmt.Errorf("missing payload")
	}
	return nil
}

// RoutingKey is the topic routing key for the event, e.g. order.placed.v1.
func (e Envelope) RoutingKey() string {
	return fmt.Sprintf("%s.v%d", e.EventName, e.EventVersion)
}

// Meta carries request-scoped identifiers into the envelope.
type Meta struct {
	CorrelationID string
	PartitionKey  string
}

func newEnvelope(name string, meta Meta, payload any, occurredAt time.Time) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", name, err)
	}
	env := Envelope{
		EventName:     name,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		Producer:      producerName,
		PartitionKey:  meta.PartitionKey,
		OccurredAt:    occurredAt.UTC(),
		Payload:       body,
	}
	return env, env.Validate()
}

type OrderPlacedPayload struct {
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	ItemCount   int             `json:"itemCount"`
}

type CartUpdatedPayload struct {
	ReceivedAt time.Time       `json:"receivedAt"`
	Body       json.RawMessage `json:"body"`
}

// NewOrderPlaced builds the envelope published after a successful checkout.
func NewOrderPlaced(meta Meta, p OrderPlacedPayload, occurredAt time.Time) (Envelope, error) {
	if meta.PartitionKey == "" {
		meta.PartitionKey = p.UserID
	}
	return newEnvelope(EventOrderPlaced, meta, p, occurredAt)
}

// NewCartUpdated wraps a raw webhook body. Bodies that are not valid JSON are
// carried as a JSON string.
func NewCartUpdated(meta Meta, body []byte, receivedAt time.Time) (Envelope, error) {
	raw := json.RawMessage(body)
	if !json.Valid(body) {
		quoted, err := json.Marshal(string(body))
		if err != nil {
			return Envelope{}, err
		}
		raw = quoted
	}
	if meta.PartitionKey == "" {
		meta.PartitionKey = "webhook"
	}
	return newEnvelope(EventCartUpdated, meta, CartUpdatedPayload{ReceivedAt: receivedAt.UTC(), Body: raw}, receivedAt)
}
