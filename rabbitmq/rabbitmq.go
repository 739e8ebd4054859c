// Package rabbitmq publishes contact change events to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"contactmanager/contact"

	amqp "github.com/streadway/amqp"
)

// DefaultExchange is used when Config.Exchange is empty.
const DefaultExchange = "contacts"

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// Client holds the RabbitMQ connection and channel. It implements
// contact.EventPublisher.
type Client struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string

	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

var _ contact.EventPublisher = (*Client)(nil)

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// topic exchange events are published to.
func NewClient(cfg Config) (*Client, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Client{conn: conn, channel: ch, exchange: exchange}, nil
}

// NewWithChannel builds a client over an already opened channel.
func NewWithChannel(ch Channel, exchange string) *Client {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Client{channel: ch, exchange: exchange}
}

// Publish sends e to the exchange using the event type as routing key.
func (c *Client) Publish(ctx context.Context, e contact.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	msg, err := encodeEvent(e)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.channel.Publish(c.exchange, e.Type, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

func encodeEvent(e contact.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	ts := e.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts,
		Type:         e.Type,
		MessageId:    e.Contact.ID,
		Body:         body,
	}, nil
}
