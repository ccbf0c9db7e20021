package brokers

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoMessage возвращается Receive, когда очередь пуста и ждать больше нечего.
// Вызывающий просто повторяет Receive.
var ErrNoMessage = errors.New("no messages available")

// Subscriber — сторона получателя очереди сообщений (RabbitMQ, Kafka).
// Сообщение не удаляется из очереди до вызова Ack.
type Subscriber interface {
	// Connect устанавливает соединение с брокером
	Connect(ctx context.Context) error

	// Receive получает следующее сообщение.
	// Блокирующий вызов: ждет сообщения, ErrNoMessage или отмены ctx.
	Receive(ctx context.Context) ([]byte, error)

	// Ack подтверждает последнее полученное сообщение
	Ack(ctx context.Context) error

	// Close закрывает соединение
	Close() error

	// Type возвращает тип брокера (rabbitmq, kafka)
	Type() string
}

// Config содержит параметры подключения к брокеру
type Config struct {
	Type     string `yaml:"type"` // rabbitmq, kafka
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Queue    string `yaml:"queue"`
	VHost    string `yaml:"vhost"`   // по умолчанию "/"
	UseTLS   bool   `yaml:"use_tls"` // amqps://

	// Параметры очереди RabbitMQ должны совпадать с существующей очередью
	Durable    bool `yaml:"durable"`
	AutoDelete bool `yaml:"auto_delete"`

	// Kafka
	Brokers       []string `yaml:"brokers"`
	Topic         string   `yaml:"topic"`
	ConsumerGroup string   `yaml:"consumer_group"` // по умолчанию "tdtpgrid"
}

// New создает Subscriber по типу из конфигурации
func New(cfg Config) (Subscriber, error) {
	switch cfg.Type {
	case "rabbitmq":
		return NewRabbitMQ(cfg)
	case "kafka":
		return NewKafka(cfg)
	default:
		return nil, fmt.Errorf("unsupported broker type: %s (supported: rabbitmq, kafka)", cfg.Type)
	}
}
