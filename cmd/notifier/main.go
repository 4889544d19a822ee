package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/brbanco/go-account-opening/internal/events"
	"github.com/brbanco/go-account-opening/internal/notify"
)

const consumerGroup = "notification-service"

func main() {
	broker := envOr("KAFKA_BROKER", "localhost:9092")

	dispatcher := notify.NewDispatcher(notify.LogSenders(), notify.DefaultStrategies()...)
	consumer := notify.NewConsumer(
		notify.NewReader(broker, events.TopicAccountOpened, consumerGroup),
		notify.NewReader(broker, events.TopicRequestRejected, consumerGroup),
		dispatcher,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("notifier consuming from %s (group %s)", broker, consumerGroup)
	consumer.Run(ctx)
	log.Printf("notifier stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
