package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/SreeHarith/ocr-app/pkg/logger"
	"github.com/SreeHarith/ocr-app/pkg/model"
)

// Audit event types.
const (
	EventContactsSaved  = "contact.saved"
	EventContactDeleted = "contact.deleted"
)

const (
	headerEventID   = "event-id"
	headerEventType = "event-type"
	headerSource    = "source"
)

type savedEvent struct {
	Count  int      `json:"count"`
	IDs    []string `json:"ids"`
	Phones []string `json:"phones"`
}

type deletedEvent struct {
	ID string `json:"id"`
}

// Publisher emits audit events for writes to the contact store. Publishing
// is best-effort: a broker outage must never fail the save that triggered
// the event. A nil Publisher is valid and drops everything.
type Publisher struct {
	writer *kafka.Writer
	source string
	log    *logger.Logger
}

// NewPublisher returns nil when no brokers or topic are configured, which
// disables auditing.
func NewPublisher(brokers []string, topic, source string, log *logger.Logger) *Publisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("Kafka producer error", "detail", msg)
		}),
	}

	return &Publisher{writer: writer, source: source, log: log}
}

func (p *Publisher) ContactsSaved(ctx context.Context, ids []string, contacts []model.Contact) {
	if p == nil {
		return
	}

	phones := make([]string, len(contacts))
	for i, c := range contacts {
		phones[i] = c.Phone
	}
	p.publish(ctx, EventContactsSaved, savedEvent{
		Count:  len(contacts),
		IDs:    ids,
		Phones: phones,
	})
}

func (p *Publisher) ContactDeleted(ctx context.Context, id string) {
	if p == nil {
		return
	}
	p.publish(ctx, EventContactDeleted, deletedEvent{ID: id})
}

func (p *Publisher) publish(ctx context.Context, eventType string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("Failed to encode audit event", "event_type", eventType, "error", err)
		return
	}

	eventID := uuid.New().String()
	msg := kafka.Message{
		Key:   []byte(eventID),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(eventID)},
			{Key: headerEventType, Value: []byte(eventType)},
			{Key: headerSource, Value: []byte(p.source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish audit event",
			"event_type", eventType,
			"event_id", eventID,
			"error", err,
		)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		p.log.Error("Failed to close Kafka writer", "error", err)
	}
}
