// Package pipeline drives the ordered validation stages for one
// account-opening request and routes terminal outcomes.
package pipeline

import (
	"context"
	"fmt"

	"github.com/brbanco/go-account-opening/internal/classify"
)

// Result is the outcome of one stage run. Approved=false requires a
// non-nil Rejection. Metadata carries stage-specific values (scores,
// fraud counts, the issued account number) for logging and metrics.
type Result struct {
	Approved  bool
	Metadata  map[string]interface{}
	Rejection *Rejection
}

// Rejection is the typed business-rejection signal. It is part of the
// stage result, not an error: a stage returns an error only when the
// check itself could not be completed, which aborts the whole run.
type Rejection struct {
	Category classify.Category
	Message  string // "<CATEGORY_TOKEN> - <human explanation>"
}

// Reason returns the rejection text persisted on the record and carried
// on the Rejected event.
func (r *Rejection) Reason() string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s - %s", r.Category, r.Category.Message())
}

// StageFunc evaluates one validation check for a request. The decision
// providers behind these are remote and slow; implementations must honor
// ctx cancellation.
type StageFunc func(ctx context.Context, requestID int64) (Result, error)

// Stage is one entry of the orchestrator's stage table.
type Stage struct {
	// Key is the stable registration key of the stage.
	Key string
	// ValidatingStatus is written to the record before the verdict is
	// inspected, so a rejected request reads as "validating <stage>"
	// until the rejection handler runs.
	ValidatingStatus string
	Run              StageFunc
}
