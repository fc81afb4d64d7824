package events

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MFahim14/test-assignment/internal/transform"
)

const (
	DefaultExchange = "scene.events"
	serviceName     = "inventory-server"
)

// RoutingKey returns the topic routing key for a transform kind, e.g. "transform.rotation.v1".
func RoutingKey(kind transform.Kind) string {
	return "transform." + string(kind) + ".v1"
}

func declareEventsExchange(ch *amqp.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// Dial connects to the broker at url with a bounded handshake.
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}
