package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MFahim14/test-assignment/internal/transform"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher emits one TransformReceived event per recorded payload to a topic exchange.
// Sequence numbers are monotonic per process, not per partition.
type Publisher struct {
	mu       sync.Mutex
	ch       channel
	exchange string
	producer string
	seq      atomic.Int64
	now      func() time.Time
}

type PublisherOptions struct {
	Exchange string
	Producer string
}

func NewPublisher(conn *amqp.Connection, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	opts = opts.withDefaults()
	if err := declareEventsExchange(ch, opts.Exchange); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return newPublisher(ch, opts), nil
}

func newPublisher(ch channel, opts PublisherOptions) *Publisher {
	opts = opts.withDefaults()
	return &Publisher{
		ch:       ch,
		exchange: opts.Exchange,
		producer: opts.Producer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (o PublisherOptions) withDefaults() PublisherOptions {
	if o.Exchange == "" {
		o.Exchange = DefaultExchange
	}
	if o.Producer == "" {
		o.Producer = serviceName
	}
	return o
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PublishTransform implements transform.EventSink.
func (p *Publisher) PublishTransform(ctx context.Context, kind transform.Kind, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", kind, err)
	}

	ev := p.newTransformReceivedEvent(middleware.GetReqID(ctx), kind, data)
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal TransformReceived envelope: %w", err)
	}

	return p.publishJSON(ctx, RoutingKey(kind), body)
}

func (p *Publisher) newTransformReceivedEvent(correlationID string, kind transform.Kind, data json.RawMessage) TransformReceivedEvent {
	return TransformReceivedEvent{
		EventEnvelope: EventEnvelope{
			EventName:     EventTypeTransformReceived,
			EventVersion:  1,
			EventID:       uuid.NewString(),
			CorrelationID: correlationID,
			Producer:      p.producer,
			PartitionKey:  string(kind),
			Sequence:      p.seq.Add(1),
			OccurredAt:    p.now(),
			Schema:        transformReceivedSchema,
		},
		Payload: TransformReceivedPayload{
			Kind: string(kind),
			Data: data,
		},
	}
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
