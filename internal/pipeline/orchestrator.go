package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/brbanco/go-account-opening/internal/correlation"
	"github.com/brbanco/go-account-opening/internal/requests"
)

// Default rejection reason when a stage rejects without a message.
const defaultRejectionReason = "Solicitação rejeitada durante o processo de validação"

// ErrAlreadyRunning indicates a pipeline run is already active for the
// request id.
var ErrAlreadyRunning = errors.New("pipeline already running for request")

// RecordStore is the slice of the request store the orchestrator needs.
type RecordStore interface {
	Get(ctx context.Context, id int64) (*requests.Record, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Approve(ctx context.Context, id int64, accountNumber string) error
	Reject(ctx context.Context, id int64, reason string) error
}

// OutcomePublisher emits the terminal events. Fire-and-forget by
// contract; implementations log their own failures.
type OutcomePublisher interface {
	PublishOpened(ctx context.Context, rec *requests.Record)
	PublishRejected(ctx context.Context, rec *requests.Record)
}

// MetricsSink records stage outcomes. May be nil-backed; emission must
// never fail a run.
type MetricsSink interface {
	EmitStageOutcome(ctx context.Context, stage, outcome string)
}

// Orchestrator runs the ordered stage table for one request and applies
// the status transitions. It performs no retries: a stage infrastructure
// failure is fatal to the run, and restart policy belongs to whatever
// supervises the process.
type Orchestrator struct {
	store     RecordStore
	publisher OutcomePublisher
	registry  RunRegistry
	metrics   MetricsSink
	stages    []Stage
}

// NewOrchestrator wires the orchestrator. metrics may be nil.
func NewOrchestrator(store RecordStore, publisher OutcomePublisher, registry RunRegistry, metrics MetricsSink, stages []Stage) *Orchestrator {
	return &Orchestrator{
		store:     store,
		publisher: publisher,
		registry:  registry,
		metrics:   metrics,
		stages:    stages,
	}
}

// Start runs the pipeline for the request, refusing to start when the
// run registry already holds an active run for the key. The registry
// check is an existence query, not a lock; a concurrent Start in the
// race window is possible and accepted.
func (o *Orchestrator) Start(ctx context.Context, requestID int64) error {
	corrID := correlation.FromContext(ctx)

	active, err := o.registry.Exists(ctx, requestID)
	if err != nil {
		// Registry trouble must not strand the request; log and proceed.
		log.Printf("[pipeline] run registry check failed: request=%d corr=%s err=%v", requestID, corrID, err)
	}
	if active {
		log.Printf("[pipeline] run already active: request=%d corr=%s", requestID, corrID)
		return ErrAlreadyRunning
	}
	if err := o.registry.Register(ctx, requestID); err != nil {
		log.Printf("[pipeline] run registration failed: request=%d corr=%s err=%v", requestID, corrID, err)
	}

	if err := o.run(ctx, requestID, corrID); err != nil {
		if failErr := o.registry.Fail(ctx, requestID, err.Error()); failErr != nil {
			log.Printf("[pipeline] run fail-mark failed: request=%d corr=%s err=%v", requestID, corrID, failErr)
		}
		return err
	}
	if err := o.registry.Complete(ctx, requestID); err != nil {
		log.Printf("[pipeline] run complete-mark failed: request=%d corr=%s err=%v", requestID, corrID, err)
	}
	return nil
}

// StartAsync triggers Start on its own goroutine, detached from the
// caller's lifetime but keeping its correlation id. Used by the API
// boundary after the creating write has been persisted.
func (o *Orchestrator) StartAsync(ctx context.Context, requestID int64) {
	runCtx := correlation.WithID(context.Background(), correlation.FromContext(ctx))
	go func() {
		if err := o.Start(runCtx, requestID); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			log.Printf("[pipeline] run aborted: request=%d err=%v", requestID, err)
		}
	}()
}

func (o *Orchestrator) run(ctx context.Context, requestID int64, corrID string) error {
	var accountNumber string

	for _, stage := range o.stages {
		// Status reflects the last stage attempted, not the last one
		// passed: it is written before the verdict is inspected, so a
		// rejected request reads as "validating <stage>" until the
		// rejection handler below runs.
		if err := o.store.UpdateStatus(ctx, requestID, stage.ValidatingStatus); err != nil {
			return fmt.Errorf("stage %s: set status: %w", stage.Key, err)
		}

		log.Printf("[pipeline] stage started: request=%d stage=%s corr=%s", requestID, stage.Key, corrID)
		res, err := stage.Run(ctx, requestID)
		if err != nil {
			// The check itself broke, which is not a customer verdict.
			o.emitMetric(ctx, stage.Key, "failed")
			return fmt.Errorf("stage %s: %w", stage.Key, err)
		}

		if !res.Approved {
			o.emitMetric(ctx, stage.Key, "rejected")
			log.Printf("[pipeline] stage rejected: request=%d stage=%s meta=%v corr=%s", requestID, stage.Key, res.Metadata, corrID)
			return o.reject(ctx, requestID, res.Rejection, corrID)
		}

		o.emitMetric(ctx, stage.Key, "approved")
		log.Printf("[pipeline] stage approved: request=%d stage=%s meta=%v corr=%s", requestID, stage.Key, res.Metadata, corrID)
		if num, ok := res.Metadata["accountNumber"].(string); ok {
			accountNumber = num
		}
	}

	return o.approve(ctx, requestID, accountNumber, corrID)
}

func (o *Orchestrator) reject(ctx context.Context, requestID int64, rejection *Rejection, corrID string) error {
	reason := defaultRejectionReason
	if rejection != nil && rejection.Reason() != "" {
		reason = rejection.Reason()
	}
	log.Printf("[pipeline] rejecting request: request=%d reason=%q corr=%s", requestID, reason, corrID)

	if err := o.store.Reject(ctx, requestID, reason); err != nil {
		return fmt.Errorf("reject request %d: %w", requestID, err)
	}

	rec, err := o.store.Get(ctx, requestID)
	if err != nil {
		return fmt.Errorf("load rejected request %d: %w", requestID, err)
	}
	if rec == nil {
		return fmt.Errorf("rejected request %d disappeared", requestID)
	}

	// Publish only after the status write is durable.
	o.publisher.PublishRejected(ctx, rec)
	return nil
}

func (o *Orchestrator) approve(ctx context.Context, requestID int64, accountNumber string, corrID string) error {
	if accountNumber == "" {
		return fmt.Errorf("approve request %d: no account number issued", requestID)
	}
	log.Printf("[pipeline] approving request: request=%d account=%s corr=%s", requestID, accountNumber, corrID)

	if err := o.store.Approve(ctx, requestID, accountNumber); err != nil {
		return fmt.Errorf("approve request %d: %w", requestID, err)
	}
	if err := o.store.UpdateStatus(ctx, requestID, requests.StatusAccountOpened); err != nil {
		return fmt.Errorf("open account for request %d: %w", requestID, err)
	}

	rec, err := o.store.Get(ctx, requestID)
	if err != nil {
		return fmt.Errorf("load approved request %d: %w", requestID, err)
	}
	if rec == nil {
		return fmt.Errorf("approved request %d disappeared", requestID)
	}

	o.publisher.PublishOpened(ctx, rec)
	return nil
}

func (o *Orchestrator) emitMetric(ctx context.Context, stage, outcome string) {
	if o.metrics != nil {
		o.metrics.EmitStageOutcome(ctx, stage, outcome)
	}
}
