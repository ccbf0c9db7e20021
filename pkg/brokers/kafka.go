package brokers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// DefaultConsumerGroup — группа потребителей, если не задана
const DefaultConsumerGroup = "tdtpgrid"

// Kafka читает сообщения из топика Kafka с ручным commit
type Kafka struct {
	config      Config
	reader      *kafka.Reader
	lastMessage *kafka.Message
}

// NewKafka создает подписчика Kafka
func NewKafka(cfg Config) (*Kafka, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic name is required for Kafka")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker address is required for Kafka")
	}
	if cfg.ConsumerGroup == "" {
		cfg.ConsumerGroup = DefaultConsumerGroup
	}

	return &Kafka{config: cfg}, nil
}

// Connect проверяет доступность брокера и создает reader
func (k *Kafka) Connect(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", k.config.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial Kafka broker: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(k.config.Topic); err != nil {
		return fmt.Errorf("failed to read topic partitions: %w", err)
	}

	k.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        k.config.Brokers,
		GroupID:        k.config.ConsumerGroup,
		Topic:          k.config.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // ручной commit
		StartOffset:    kafka.FirstOffset,
		MaxWait:        time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
	})
	return nil
}

// Receive ждет следующее сообщение; offset не коммитится до Ack
func (k *Kafka) Receive(ctx context.Context) ([]byte, error) {
	if k.reader == nil {
		return nil, fmt.Errorf("not connected to Kafka")
	}

	msg, err := k.reader.FetchMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	k.lastMessage = &msg
	return msg.Value, nil
}

// Ack коммитит offset последнего полученного сообщения
func (k *Kafka) Ack(ctx context.Context) error {
	if k.lastMessage == nil {
		return fmt.Errorf("no message to commit")
	}
	if err := k.reader.CommitMessages(ctx, *k.lastMessage); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}
	k.lastMessage = nil
	return nil
}

// Close закрывает reader
func (k *Kafka) Close() error {
	if k.reader != nil {
		if err := k.reader.Close(); err != nil {
			return fmt.Errorf("failed to close reader: %w", err)
		}
	}
	return nil
}

func (k *Kafka) Type() string {
	return "kafka"
}

// Stats возвращает статистику reader (нулевую до Connect)
func (k *Kafka) Stats() kafka.ReaderStats {
	if k.reader == nil {
		return kafka.ReaderStats{}
	}
	return k.reader.Stats()
}
