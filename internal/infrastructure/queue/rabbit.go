// Package queue moves background jobs through a durable RabbitMQ queue: the
// API publishes reminder emails, cmd/email_worker consumes them.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var ErrClosed = errors.New("queue publisher closed")

func declare(ch *amqp.Channel, name string) error {
	// durable, not auto-deleted, shared between API and worker
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

func open(url, name string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := declare(ch, name); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// Publisher sends JSON jobs to one queue. Channels are not safe for
// concurrent publishes, so PublishJSON serializes on mu.
type Publisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func Dial(url, name string) (*Publisher, error) {
	conn, ch, err := open(url, name)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: name}, nil
}

func (p *Publisher) Queue() string { return p.queue }

func (p *Publisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return ErrClosed
	}
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Handler processes one message body. Returning an error for which the
// consumer's Permanent func reports true drops the message; any other error
// requeues it.
type Handler func(ctx context.Context, body []byte) error

type Consumer struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	queue     string
	Permanent func(error) bool
	Logger    *logrus.Logger
}

// NewConsumer connects and limits unacked deliveries to prefetch so several
// workers share the queue fairly.
func NewConsumer(url, name string, prefetch int) (*Consumer, error) {
	conn, ch, err := open(url, name)
	if err != nil {
		return nil, err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp qos: %w", err)
	}
	return &Consumer{conn: conn, ch: ch, queue: name}, nil
}

// Run consumes until ctx is cancelled or the broker closes the channel.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}
	go func() {
		<-ctx.Done()
		_ = c.ch.Close()
	}()
	c.drain(ctx, deliveries, handle)
	return ctx.Err()
}

func (c *Consumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery, handle Handler) {
	for d := range deliveries {
		c.settle(d, handle(ctx, d.Body))
	}
}

func (c *Consumer) settle(d amqp.Delivery, err error) {
	if err == nil {
		_ = d.Ack(false)
		return
	}
	permanent := c.Permanent != nil && c.Permanent(err)
	if c.Logger != nil {
		c.Logger.WithError(err).WithFields(logrus.Fields{
			"queue":      c.queue,
			"message_id": d.MessageId,
			"requeue":    !permanent,
		}).Warn("job failed")
	}
	_ = d.Nack(false, !permanent)
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
