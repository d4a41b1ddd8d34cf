package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

// Producer представляет Kafka producer для публикации событий
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // обязательно для идемпотентного producer

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewProducerWithSyncProducer(producer), nil
}

// NewProducerWithSyncProducer оборачивает готовый sarama.SyncProducer (в тестах из пакета mocks).
func NewProducerWithSyncProducer(producer sarama.SyncProducer) *Producer {
	return &Producer{
		producer: producer,
		logger:   log.WithField("component", "kafka-producer"),
	}
}

// PublishEvent публикует событие в Kafka
func (p *Producer) PublishEvent(topic string, key string, event interface{}) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(eventData),
		Timestamp: time.Now(),
	}
	if typed, ok := event.(*OrderEvent); ok {
		msg.Headers = []sarama.RecordHeader{{Key: []byte(HeaderEventType), Value: []byte(typed.EventType)}}
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic": topic,
			"key":   key,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("message sent to kafka")

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

// OrderPublisher публикует подтверждённые заказы в заданный topic.
type OrderPublisher struct {
	events domain.EventPublisher
	topic  string
}

// NewOrderPublisher создаёт паблишер заказов. Пустой topic заменяется на TopicOrderEvents.
func NewOrderPublisher(events domain.EventPublisher, topic string) *OrderPublisher {
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &OrderPublisher{events: events, topic: topic}
}

// PublishOrderConfirmed отправляет событие order.confirmed с ключом = ID заказа.
func (p *OrderPublisher) PublishOrderConfirmed(order domain.Order) error {
	if p == nil || p.events == nil {
		return fmt.Errorf("kafka order publisher is not initialized")
	}
	return p.events.PublishEvent(p.topic, order.ID, NewOrderConfirmedEvent(order))
}

var (
	_ domain.EventPublisher      = (*Producer)(nil)
	_ domain.OrderEventPublisher = (*OrderPublisher)(nil)
)
