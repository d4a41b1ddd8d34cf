package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// MessageHandler обрабатывает сообщение из Kafka
type MessageHandler func(ctx context.Context, message *sarama.ConsumerMessage) error

// Consumer читает события заказов через consumer group.
// Ошибка обработчика повторяется до maxRetries раз с паузой retryDelay.
type Consumer struct {
	consumer   sarama.ConsumerGroup
	topics     []string
	handler    MessageHandler
	logger     *log.Entry
	wg         sync.WaitGroup
	maxRetries int
	retryDelay time.Duration
}

// NewConsumer создает новый Kafka consumer
func NewConsumer(brokers []string, groupID string, topics []string, handler MessageHandler) (*Consumer, error) {
	return NewConsumerWithRetries(brokers, groupID, topics, handler, 3, 200*time.Millisecond)
}

// NewConsumerWithRetries создает consumer с заданной политикой повторов.
func NewConsumerWithRetries(brokers []string, groupID string, topics []string, handler MessageHandler, maxRetries int, retryDelay time.Duration) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return &Consumer{
		consumer:   group,
		topics:     topics,
		handler:    handler,
		logger:     log.WithField("component", "kafka-consumer"),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// Start запускает consumer
func (c *Consumer) Start(ctx context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			// при rebalance Consume завершается, поэтому вызывается в цикле
			if err := c.consumer.Consume(ctx, c.topics, c); err != nil {
				c.logger.WithError(err).Error("error from consumer")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for err := range c.consumer.Errors() {
			c.logger.WithError(err).Error("consumer error")
		}
	}()

	c.logger.WithField("topics", c.topics).Info("kafka consumer started")
	return nil
}

// Stop останавливает consumer
func (c *Consumer) Stop() error {
	if err := c.consumer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka consumer: %w", err)
	}
	c.wg.Wait()
	c.logger.Info("kafka consumer stopped")
	return nil
}

// Setup вызывается при старте consumer session
func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup вызывается при завершении consumer session
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim обрабатывает сообщения из partition
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			fields := log.Fields{
				"topic":     message.Topic,
				"partition": message.Partition,
				"offset":    message.Offset,
			}
			c.logger.WithFields(fields).Debug("received message")

			if err := c.handleMessage(session.Context(), message); err != nil {
				// offset не сдвигаем: сообщение перечитается после перезапуска
				c.logger.WithError(err).WithFields(fields).Error("message processing failed after all retries")
				continue
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// handleMessage вызывает обработчик до 1+maxRetries раз.
func (c *Consumer) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(log.Fields{
				"topic":   message.Topic,
				"attempt": attempt,
			}).Warn("retrying message")

			if c.retryDelay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(c.retryDelay):
				}
			}
		}

		if err = c.handler(ctx, message); err == nil {
			return nil
		}
	}
	return err
}

// ParseOrderEvent парсит OrderEvent из сообщения
func ParseOrderEvent(message *sarama.ConsumerMessage) (*OrderEvent, error) {
	var event OrderEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order event: %w", err)
	}
	return &event, nil
}

// OrderEventHandler адаптирует обработчик событий заказа к MessageHandler.
// Нечитаемые сообщения логируются и пропускаются.
func OrderEventHandler(logger *log.Entry, fn func(ctx context.Context, event *OrderEvent) error) MessageHandler {
	return func(ctx context.Context, message *sarama.ConsumerMessage) error {
		event, err := ParseOrderEvent(message)
		if err != nil {
			logger.WithError(err).WithField("offset", message.Offset).Warn("skipping malformed order event")
			return nil
		}
		return fn(ctx, event)
	}
}
