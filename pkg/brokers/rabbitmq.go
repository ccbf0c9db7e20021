package brokers

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// emptyQueueWait — пауза перед ErrNoMessage, чтобы цикл чтения не крутился вхолостую
const emptyQueueWait = time.Second

// RabbitMQ читает сообщения из очереди RabbitMQ с ручным подтверждением
type RabbitMQ struct {
	config       Config
	conn         *amqp.Connection
	channel      *amqp.Channel
	lastDelivery *amqp.Delivery
}

// NewRabbitMQ создает подписчика RabbitMQ
func NewRabbitMQ(cfg Config) (*RabbitMQ, error) {
	if cfg.Queue == "" {
		return nil, fmt.Errorf("queue name is required for RabbitMQ")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		if cfg.UseTLS {
			cfg.Port = 5671
		} else {
			cfg.Port = 5672
		}
	}
	if cfg.VHost == "" {
		cfg.VHost = "/"
	}

	return &RabbitMQ{config: cfg}, nil
}

// URL возвращает строку подключения amqp(s)://user:password@host:port/vhost
func (r *RabbitMQ) URL() string {
	scheme := "amqp"
	if r.config.UseTLS {
		scheme = "amqps"
	}
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(r.config.User, r.config.Password),
		Host:   fmt.Sprintf("%s:%d", r.config.Host, r.config.Port),
		Path:   "/" + r.config.VHost,
	}
	if r.config.VHost == "/" {
		u.Path = "/"
	}
	return u.String()
}

// Connect открывает соединение, канал и объявляет очередь (идемпотентно)
func (r *RabbitMQ) Connect(ctx context.Context) error {
	var err error
	if r.config.UseTLS {
		r.conn, err = amqp.DialTLS(r.URL(), &tls.Config{
			ServerName: r.config.Host,
			MinVersion: tls.VersionTLS12,
		})
	} else {
		r.conn, err = amqp.Dial(r.URL())
	}
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	r.channel, err = r.conn.Channel()
	if err != nil {
		r.conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = r.channel.QueueDeclare(
		r.config.Queue,
		r.config.Durable,
		r.config.AutoDelete,
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		r.channel.Close()
		r.conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	return nil
}

// Receive забирает одно сообщение без auto-ack.
// Пустая очередь — ErrNoMessage после короткой паузы.
func (r *RabbitMQ) Receive(ctx context.Context) ([]byte, error) {
	if r.channel == nil {
		return nil, fmt.Errorf("not connected to RabbitMQ")
	}

	delivery, ok, err := r.channel.Get(r.config.Queue, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	if !ok {
		timer := time.NewTimer(emptyQueueWait)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil, ErrNoMessage
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	r.lastDelivery = &delivery
	return delivery.Body, nil
}

// Ack подтверждает последнее полученное сообщение (удаляет из очереди)
func (r *RabbitMQ) Ack(context.Context) error {
	if r.lastDelivery == nil {
		return fmt.Errorf("no message to acknowledge")
	}
	if err := r.lastDelivery.Ack(false); err != nil {
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}
	r.lastDelivery = nil
	return nil
}

// Close закрывает канал и соединение
func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return nil
}

func (r *RabbitMQ) Type() string {
	return "rabbitmq"
}
