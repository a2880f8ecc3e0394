package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/corray333/kitchenpos/internal/service/models/outbox"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// Client represents a RabbitMQ client.
// Publishing and consuming use separate channels.
type Client struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	consumeCh *amqp.Channel
}

// Close closes the channel and connection for graceful shutdown.
func (r *Client) Close() error {
	if r.consumeCh != nil {
		if err := r.consumeCh.Close(); err != nil {
			return err
		}
	}
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			return err
		}
	}
	if r.conn != nil {
		return r.conn.Close()
	}

	return nil
}

// URL builds the AMQP connection string from the rabbitmq.* config keys.
func URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(viper.GetString("rabbitmq.user"), viper.GetString("rabbitmq.password")),
		Host:   net.JoinHostPort(viper.GetString("rabbitmq.host"), strconv.Itoa(viper.GetInt("rabbitmq.port"))),
		Path:   "/" + viper.GetString("rabbitmq.vhost"),
	}

	return u.String()
}

// MustNewClient connects to RabbitMQ and declares the event topology.
func MustNewClient() *Client {
	conn, err := amqp.Dial(URL())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to RabbitMQ: %v", err))
	}

	channel, err := conn.Channel()
	if err != nil {
		err := conn.Close()
		if err != nil {
			panic(fmt.Sprintf("Failed to close a connection: %v", err))
		}
		panic(fmt.Sprintf("Failed to open a channel: %v", err))
	}

	client := &Client{
		conn:    conn,
		channel: channel,
	}

	if err := client.DeclareTopology(); err != nil {
		_ = client.Close()
		panic(fmt.Sprintf("Failed to declare RabbitMQ topology: %v", err))
	}

	slog.Info("RabbitMQ connected")

	return client
}

// DeclareTopology declares the events exchange and, when configured,
// a durable audit queue bound to every order event.
func (r *Client) DeclareTopology() error {
	exchange := viper.GetString("rabbitmq.exchange")
	if err := r.DeclareExchange(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	queue := viper.GetString("rabbitmq.audit_queue")
	if queue == "" {
		return nil
	}

	q, err := r.DeclareQueue(DeclareQueueConfig{
		Name:    queue,
		Durable: true,
	})
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	for _, key := range []string{outbox.RoutingKeyOrderCreated, outbox.RoutingKeyOrderStatusChanged} {
		if err := r.channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s to %s: %w", q.Name, key, err)
		}
	}

	return nil
}

// DeclareExchange declares a durable topic exchange.
func (r *Client) DeclareExchange(name string) error {
	return r.channel.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil)
}

type DeclareQueueConfig struct {
	Name       string
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

// DeclareQueue declares a queue with the given configuration.
func (r *Client) DeclareQueue(cfg DeclareQueueConfig) (amqp.Queue, error) {
	return r.channel.QueueDeclare(
		cfg.Name,
		cfg.Durable,
		cfg.AutoDelete,
		cfg.Exclusive,
		cfg.NoWait,
		cfg.Args,
	)
}

// Publish sends an outbox message as a persistent publishing.
func (r *Client) Publish(_ context.Context, msg outbox.OutboxMessage) error {
	return r.channel.Publish(
		msg.ExchangeName,
		msg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			MessageId:    msg.MessageID,
			Timestamp:    msg.CreatedAt,
			DeliveryMode: amqp.Persistent,
			Body:         msg.Payload,
		},
	)
}

type ConsumeConfig struct {
	Queue     string
	Consumer  string
	Prefetch  int
	AutoAck   bool
	Exclusive bool
	NoLocal   bool
	NoWait    bool
	Args      amqp.Table
}

// Consume opens the consumer channel and starts consuming from cfg.Queue.
func (r *Client) Consume(cfg ConsumeConfig) (<-chan amqp.Delivery, error) {
	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open consumer channel: %w", err)
	}

	if cfg.Prefetch > 0 {
		if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
			_ = ch.Close()

			return nil, fmt.Errorf("failed to set prefetch: %w", err)
		}
	}
	r.consumeCh = ch

	return ch.Consume(
		cfg.Queue,
		cfg.Consumer,
		cfg.AutoAck,
		cfg.Exclusive,
		cfg.NoLocal,
		cfg.NoWait,
		cfg.Args,
	)
}

// CancelConsumer stops deliveries to consumer; the delivery channel is closed afterwards.
func (r *Client) CancelConsumer(consumer string) error {
	if r.consumeCh == nil {
		return nil
	}

	return r.consumeCh.Cancel(consumer, false)
}
