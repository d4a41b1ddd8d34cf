package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/partshop/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/partshop/internal/service/invoice"
)

type watchOptions struct {
	brokers []string
	topic   string
	group   string
}

func parseWatchOptions(args []string) (watchOptions, error) {
	fs := subcommandFlags("watch")
	brokers := fs.String("brokers", os.Getenv("KAFKA_BROKERS"), "comma-separated kafka brokers")
	topic := fs.String("topic", kafka.TopicOrderEvents, "order events topic")
	group := fs.String("group", "shopctl-watch", "consumer group id")
	if err := fs.Parse(args); err != nil {
		return watchOptions{}, fmt.Errorf("%w: %v", errUsage, err)
	}

	opts := watchOptions{topic: strings.TrimSpace(*topic), group: strings.TrimSpace(*group)}
	for _, b := range strings.Split(*brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			opts.brokers = append(opts.brokers, b)
		}
	}
	if len(opts.brokers) == 0 {
		return watchOptions{}, fmt.Errorf("%w: -brokers or KAFKA_BROKERS is required", errUsage)
	}
	if opts.topic == "" || opts.group == "" {
		return watchOptions{}, fmt.Errorf("%w: topic and group must not be empty", errUsage)
	}
	return opts, nil
}

// runWatch печатает события order.confirmed до отмены ctx.
func runWatch(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseWatchOptions(args)
	if err != nil {
		return err
	}

	logger := log.WithField("component", "shopctl-watch")
	handler := kafka.OrderEventHandler(logger, func(_ context.Context, event *kafka.OrderEvent) error {
		_, err := fmt.Fprintln(out, formatEvent(event))
		return err
	})

	consumer, err := kafka.NewConsumer(opts.brokers, opts.group, []string{opts.topic}, handler)
	if err != nil {
		return err
	}
	if err := consumer.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return consumer.Stop()
}

func formatEvent(event *kafka.OrderEvent) string {
	units := 0
	for _, item := range event.Items {
		units += item.Quantity
	}
	return fmt.Sprintf("%s %s %s customer=%q units=%d total=%s",
		event.Timestamp.Format("2006-01-02 15:04:05"),
		event.EventType,
		event.OrderID,
		event.Customer,
		units,
		invoice.FormatJMD(event.Total))
}
