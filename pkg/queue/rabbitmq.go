package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dorm-link/pkg/config"
	"dorm-link/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DomainExchange       = "dorm_events"
	NotificationExchange = "notifications"

	NotificationTasksQueue = "notification_tasks"
	DeliveryQueue          = "notification_delivery"

	RoutingKeyEventCreated        = "event.created"
	RoutingKeyInspectionStatus    = "inspection.status_updated"
	RoutingKeyNotificationCreated = "notification.created"
)

// Result tells the consumer loop what to do with a message after handling.
// Retry nacks with requeue so the broker redelivers; Reject drops the message.
type Result int

const (
	Done Result = iota
	Retry
	Reject
)

// Handler processes one message. It must tolerate redelivery: the broker
// guarantees at-least-once, never exactly-once.
type Handler func(ctx context.Context, routingKey string, body []byte) Result

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	client := &Client{conn: conn, channel: channel, logger: log}
	if err := client.declareTopology(); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)
	return client, nil
}

func (c *Client) declareTopology() error {
	for _, exchange := range []string{DomainExchange, NotificationExchange} {
		err := c.channel.ExchangeDeclare(
			exchange, // name
			"direct", // type
			true,     // durable
			false,    // auto-deleted
			false,    // internal
			false,    // no-wait
			nil,      // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
	}

	queues := []struct {
		name     string
		exchange string
		keys     []string
	}{
		{NotificationTasksQueue, DomainExchange, []string{RoutingKeyEventCreated, RoutingKeyInspectionStatus}},
		{DeliveryQueue, NotificationExchange, []string{RoutingKeyNotificationCreated}},
	}

	for _, q := range queues {
		_, err := c.channel.QueueDeclare(
			q.name, // name
			true,   // durable
			false,  // delete when unused
			false,  // exclusive
			false,  // no-wait
			nil,    // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", q.name, err)
		}
		for _, key := range q.keys {
			if err := c.channel.QueueBind(q.name, key, q.exchange, false, nil); err != nil {
				return fmt.Errorf("failed to bind queue %s to %s/%s: %w", q.name, q.exchange, key, err)
			}
		}
	}

	return nil
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

// PublishEventCreated is called by the event service after an event is saved.
func (c *Client) PublishEventCreated(event *EventCreated) error {
	return c.publish(DomainExchange, RoutingKeyEventCreated, event)
}

// PublishInspectionStatusUpdated is called by the inspection service after a
// room inspection result is recorded.
func (c *Client) PublishInspectionStatusUpdated(event *RoomInspectionStatusUpdated) error {
	return c.publish(DomainExchange, RoutingKeyInspectionStatus, event)
}

// PublishNotificationCreated emits the integration event for one ledger row.
func (c *Client) PublishNotificationCreated(event *NotificationCreated) error {
	return c.publish(NotificationExchange, RoutingKeyNotificationCreated, event)
}

func (c *Client) publish(exchange, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = c.channel.Publish(
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s, routing_key=%s: %v", exchange, routingKey, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published to exchange=%s, routing_key=%s: %s", exchange, routingKey, string(body))
	return nil
}

// ConsumeDomainEvents feeds the fan-out engine from the notification_tasks queue.
func (c *Client) ConsumeDomainEvents(ctx context.Context, handler Handler) error {
	return c.consume(ctx, NotificationTasksQueue, handler)
}

// ConsumeDeliveries feeds a channel dispatcher from the notification_delivery queue.
func (c *Client) ConsumeDeliveries(ctx context.Context, handler Handler) error {
	return c.consume(ctx, DeliveryQueue, handler)
}

func (c *Client) consume(ctx context.Context, queueName string, handler Handler) error {
	msgs, err := c.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack (we ack manually after processing)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", queueName, err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", queueName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("[RABBITMQ] Stopping consumer on queue %s: %v", queueName, ctx.Err())
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("[RABBITMQ] Delivery channel closed for queue %s", queueName)
					return
				}

				switch handler(ctx, msg.RoutingKey, msg.Body) {
				case Done:
					msg.Ack(false)
				case Retry:
					c.logger.Warn("[RABBITMQ] Requeueing message from %s, routing_key=%s", queueName, msg.RoutingKey)
					msg.Nack(false, true)
				case Reject:
					c.logger.Error("[RABBITMQ] Rejecting message from %s, routing_key=%s, body=%s", queueName, msg.RoutingKey, string(msg.Body))
					msg.Nack(false, false)
				}
			}
		}
	}()

	return nil
}

// GetQueueLength returns the number of ready messages in a queue.
func (c *Client) GetQueueLength(queueName string) (int, error) {
	queue, err := c.channel.QueueInspect(queueName)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect queue %s: %w", queueName, err)
	}
	return queue.Messages, nil
}
