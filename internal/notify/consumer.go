package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/brbanco/go-account-opening/internal/correlation"
	"github.com/brbanco/go-account-opening/internal/events"
)

// fetchRetryDelay spaces out retries when the broker is unreachable, so
// a down broker does not spin a hot log loop.
const fetchRetryDelay = time.Second

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads the two terminal-outcome topics and hands each event to
// the dispatcher. Events may arrive more than once (at-least-once
// delivery); consumers tolerate duplicates, keyed by eventId.
type Consumer struct {
	opened     MessageReader
	rejected   MessageReader
	dispatcher *Dispatcher
}

// NewConsumer wires a consumer over per-topic readers.
func NewConsumer(opened, rejected MessageReader, dispatcher *Dispatcher) *Consumer {
	return &Consumer{opened: opened, rejected: rejected, dispatcher: dispatcher}
}

// NewReader builds a consumer-group reader for one topic.
func NewReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{broker},
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // explicit commits
		MaxWait:        500 * time.Millisecond,
	})
}

// Run consumes both topics until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		c.consume(ctx, c.opened, events.TopicAccountOpened, c.handleOpened)
	}()
	go func() {
		defer wg.Done()
		c.consume(ctx, c.rejected, events.TopicRequestRejected, c.handleRejected)
	}()

	wg.Wait()
}

// consume loops over one topic. Malformed payloads are logged and
// skipped; dispatch failures are logged but the message is still
// committed, since redelivery would fail the same way.
func (c *Consumer) consume(ctx context.Context, reader MessageReader, topic string, handle func(ctx context.Context, value []byte) error) {
	defer reader.Close()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("[notify] consumer stopping: topic=%s", topic)
				return
			}
			log.Printf("[notify] fetch failed: topic=%s err=%v", topic, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		msgCtx := correlation.WithID(ctx, headerValue(msg, correlation.Header))
		msgCtx, corrID := correlation.Ensure(msgCtx)

		if err := handle(msgCtx, msg.Value); err != nil {
			log.Printf("[notify] handling failed: topic=%s key=%s corr=%s err=%v", topic, msg.Key, corrID, err)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Printf("[notify] commit failed: topic=%s key=%s corr=%s err=%v", topic, msg.Key, corrID, err)
		}
	}
}

func (c *Consumer) handleOpened(ctx context.Context, value []byte) error {
	var ev events.AccountOpened
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	return c.dispatcher.DispatchOpened(ctx, ev)
}

func (c *Consumer) handleRejected(ctx context.Context, value []byte) error {
	var ev events.Rejected
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	return c.dispatcher.DispatchRejected(ctx, ev)
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
