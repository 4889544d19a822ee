package events

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/brbanco/go-account-opening/internal/classify"
	"github.com/brbanco/go-account-opening/internal/correlation"
	"github.com/brbanco/go-account-opening/internal/requests"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
// Narrow so tests can capture messages in memory.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher emits terminal-outcome events. Publishing is fire-and-forget:
// failures are logged and swallowed, never surfaced to the pipeline.
// The known gap (outcome stored but never announced) is closed by an
// outbox relay in a hardened deployment, not here.
type Publisher struct {
	opened   MessageWriter
	rejected MessageWriter
	nowFunc  func() time.Time
}

// NewPublisher returns a Publisher bound to per-topic writers.
func NewPublisher(opened, rejected MessageWriter) *Publisher {
	return &Publisher{
		opened:   opened,
		rejected: rejected,
		nowFunc:  time.Now,
	}
}

// NewWriter builds a kafka writer for one topic with the hash balancer,
// so equal keys always map to the same partition.
func NewWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// PublishOpened emits an AccountOpened event for the approved record.
func (p *Publisher) PublishOpened(ctx context.Context, rec *requests.Record) {
	event := AccountOpened{
		EventID:       uuid.NewString(),
		RequestID:     rec.ID,
		CPF:           rec.CPF,
		Name:          rec.Name,
		Email:         rec.Email,
		Phone:         rec.Phone,
		Brand:         string(rec.Brand),
		AccountNumber: rec.AccountNumber,
		Timestamp:     p.nowFunc().UTC(),
	}
	p.publish(ctx, p.opened, TopicAccountOpened, rec.ID, event)
}

// PublishRejected emits a Rejected event, tagging it with the category
// derived from the stored rejection reason.
func (p *Publisher) PublishRejected(ctx context.Context, rec *requests.Record) {
	event := Rejected{
		EventID:           uuid.NewString(),
		RequestID:         rec.ID,
		CPF:               rec.CPF,
		Name:              rec.Name,
		Email:             rec.Email,
		Phone:             rec.Phone,
		Brand:             string(rec.Brand),
		RejectionReason:   rec.RejectionReason,
		RejectionCategory: string(classify.Classify(rec.RejectionReason)),
		Timestamp:         p.nowFunc().UTC(),
	}
	p.publish(ctx, p.rejected, TopicRequestRejected, rec.ID, event)
}

func (p *Publisher) publish(ctx context.Context, w MessageWriter, topic string, requestID int64, event interface{}) {
	corrID := correlation.FromContext(ctx)

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[events] marshal failed: topic=%s request=%d corr=%s err=%v", topic, requestID, corrID, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(requestID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: correlation.Header, Value: []byte(corrID)},
		},
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		log.Printf("[events] publish failed: topic=%s request=%d corr=%s err=%v", topic, requestID, corrID, err)
		return
	}
	log.Printf("[events] published: topic=%s request=%d corr=%s", topic, requestID, corrID)
}
