package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures = 5
	openTimeout = 60 * time.Second
)

// Client publishes and consumes debt sync messages over RabbitMQ. Publishes
// go through a circuit breaker so a dead broker degrades the app instead of
// blocking it.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	url          string
	exchangeName string
	queueName    string

	failureCount int64
	state        int32
	lastFailure  time.Time
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key equals the queue name on a direct exchange.
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishDebtSync publishes a message asking the worker to mirror one debt.
func (c *Client) PublishDebtSync(ctx context.Context, id string, version int64) error {
	msg := NewDebtSyncMessage(id, version)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published debt sync message",
		"id", id,
		"version", version,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishDebtDelete publishes a message asking the worker to drop a mirror row.
func (c *Client) PublishDebtDelete(ctx context.Context, id string) error {
	msg := NewDebtDeleteMessage(id)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published debt delete message",
		"id", id,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

func (c *Client) publish(ctx context.Context, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish message: circuit breaker is open")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("publish message: %w", err)
	}

	c.recordSuccess()
	return nil
}

// ConsumeMessages consumes the sync queue until ctx is cancelled, dispatching
// each delivery to the handler matching its type discriminator. Handler
// errors requeue the delivery; undecodable payloads are dropped.
func (c *Client) ConsumeMessages(ctx context.Context,
	syncHandler func(*DebtSyncMessage) error,
	deleteHandler func(*DebtDeleteMessage) error) error {

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming debt sync messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.dispatch(ctx, delivery, syncHandler, deleteHandler)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, delivery amqp091.Delivery,
	syncHandler func(*DebtSyncMessage) error,
	deleteHandler func(*DebtDeleteMessage) error) {

	msgType, err := messageType(delivery.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read message type", "error", err)
		delivery.Nack(false, false) // reject and don't requeue
		return
	}

	switch msgType {
	case TypeDebtSync:
		msg, err := DebtSyncMessageFromJSON(delivery.Body)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal sync message", "error", err)
			delivery.Nack(false, false)
			return
		}
		if err := syncHandler(msg); err != nil {
			slog.ErrorContext(ctx, "Failed to handle sync message",
				"error", err, "id", msg.ID, "version", msg.Version)
			delivery.Nack(false, true) // reject and requeue
			return
		}
		delivery.Ack(false)
		slog.InfoContext(ctx, "Processed debt sync message", "id", msg.ID, "version", msg.Version)

	case TypeDebtDelete:
		msg, err := DebtDeleteMessageFromJSON(delivery.Body)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal delete message", "error", err)
			delivery.Nack(false, false)
			return
		}
		if err := deleteHandler(msg); err != nil {
			slog.ErrorContext(ctx, "Failed to handle delete message", "error", err, "id", msg.ID)
			delivery.Nack(false, true)
			return
		}
		delivery.Ack(false)
		slog.InfoContext(ctx, "Processed debt delete message", "id", msg.ID)

	default:
		slog.WarnContext(ctx, "Unknown message type", "type", msgType)
		delivery.Nack(false, false)
	}
}

func (c *Client) isCircuitOpen() bool {
	switch atomic.LoadInt32(&c.state) {
	case StateOpen:
		if time.Since(c.lastFailure) > openTimeout {
			atomic.StoreInt32(&c.state, StateHalfOpen)
			return false
		}
		return true
	default:
		return false
	}
}

func (c *Client) recordFailure() {
	count := atomic.AddInt64(&c.failureCount, 1)
	c.lastFailure = time.Now()
	if count >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

// exponentialBackoff returns the reconnect delay for the given attempt,
// doubling from one second and capping at thirty.
func exponentialBackoff(attempt int) time.Duration {
	delay := time.Duration(1<<uint(attempt)) * time.Second
	if delay > 30*time.Second {
		return 30 * time.Second
	}
	return delay
}

// isConnectionError reports whether err looks like a broken broker
// connection worth a reconnect, rather than a protocol or handler error.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection closed",
		"connection reset",
		"EOF",
		"broken pipe",
		"use of closed network connection",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ConsumeLoop keeps a consumer running until ctx is cancelled, redialing the
// broker with exponential backoff whenever the connection drops.
func ConsumeLoop(ctx context.Context, url, exchange, queue string,
	syncHandler func(*DebtSyncMessage) error,
	deleteHandler func(*DebtDeleteMessage) error) error {

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		client, err := NewClient(url, exchange, queue)
		if err != nil {
			delay := exponentialBackoff(attempt)
			slog.WarnContext(ctx, "AMQP connect failed, retrying",
				"error", err, "attempt", attempt, "delay", delay)
			attempt++
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}
		attempt = 0

		err = client.ConsumeMessages(ctx, syncHandler, deleteHandler)
		client.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isConnectionError(err) {
			slog.WarnContext(ctx, "Consumer stopped", "error", err)
		}

		delay := exponentialBackoff(attempt)
		attempt++
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
