package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/brbanco/go-account-opening/internal/classify"
	"github.com/brbanco/go-account-opening/internal/requests"
)

// Stage registration keys.
const (
	StageTopaz     = "topaz"
	StageAntifraud = "antifraud"
	StagePix       = "pix"
	StageSerasa    = "serasa"
	StageLifeProof = "life-proof"
	StageInternal  = "internal-account"
)

// StageOptions configures the reference stage implementations. The
// deciders here are threshold-over-uniform-draw placeholders; a real
// deployment swaps each StageFunc for a scoring client without touching
// the orchestrator.
type StageOptions struct {
	// Delay simulates the latency of the remote check. Zero in tests.
	Delay time.Duration
	// DrawFunc returns a uniform draw in [0,1). Defaults to rand.Float64.
	DrawFunc func() float64
	// IssueAccount allocates the account number for an approved request.
	// Defaults to the reference numbering scheme: the request id
	// zero-padded to 8 digits.
	IssueAccount func(ctx context.Context, requestID int64) (string, error)
}

func (o StageOptions) draw() float64 {
	if o.DrawFunc != nil {
		return o.DrawFunc()
	}
	return rand.Float64()
}

func (o StageOptions) issue(ctx context.Context, requestID int64) (string, error) {
	if o.IssueAccount != nil {
		return o.IssueAccount(ctx, requestID)
	}
	return fmt.Sprintf("%08d", requestID), nil
}

// wait blocks for the configured delay, honoring ctx cancellation.
func (o StageOptions) wait(ctx context.Context) error {
	if o.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(o.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DefaultStages returns the ordered stage table for the account-opening
// pipeline. Order matters: the first rejection wins.
func DefaultStages(opts StageOptions) []Stage {
	return []Stage{
		{
			Key:              StageTopaz,
			ValidatingStatus: requests.StatusValidatingTopaz,
			Run: opts.thresholdStage(0.20, classify.CategoryTopaz,
				"TOPAZ - Problemas relacionados ao dispositivo durante a análise de segurança",
				func(approved bool) map[string]interface{} {
					return map[string]interface{}{"topazScore": score(approved, 85, 30)}
				}),
		},
		{
			Key:              StageAntifraud,
			ValidatingStatus: requests.StatusValidatingFraud,
			Run: opts.thresholdStage(0.15, classify.CategoryAntifraud,
				"ANTIFRAUDE - Sua solicitação não passou na análise antifraude",
				nil),
		},
		{
			Key:              StagePix,
			ValidatingStatus: requests.StatusValidatingPix,
			Run: opts.thresholdStage(0.10, classify.CategoryPix,
				"PIX - Identificamos pendências relacionadas ao PIX durante a análise",
				func(approved bool) map[string]interface{} {
					return map[string]interface{}{"pixFraudCount": score(approved, 0, 3)}
				}),
		},
		{
			Key:              StageSerasa,
			ValidatingStatus: requests.StatusValidatingSerasa,
			Run: opts.thresholdStage(0.25, classify.CategorySerasa,
				"SERASA - Pendências no Serasa que precisam ser regularizadas antes de abrir sua conta",
				func(approved bool) map[string]interface{} {
					return map[string]interface{}{"serasaScore": score(approved, 750, 400)}
				}),
		},
		{
			Key:              StageLifeProof,
			ValidatingStatus: requests.StatusValidatingLife,
			Run: opts.thresholdStage(0.10, classify.CategoryLifeProof,
				"PROVA_VIDA - A análise de documentos e selfie não foi aprovada. Por favor, tente novamente com documentos válidos e selfie nítida",
				func(approved bool) map[string]interface{} {
					return map[string]interface{}{"biometricSimilarity": score(approved, 95, 60)}
				}),
		},
		{
			Key:              StageInternal,
			ValidatingStatus: requests.StatusAwaitingInternal,
			Run:              opts.internalAccountStage(),
		},
	}
}

// thresholdStage builds a placeholder decider that approves when the
// uniform draw exceeds rejectBelow.
func (o StageOptions) thresholdStage(rejectBelow float64, category classify.Category, rejectMessage string, metaFunc func(approved bool) map[string]interface{}) StageFunc {
	return func(ctx context.Context, requestID int64) (Result, error) {
		if err := o.wait(ctx); err != nil {
			return Result{}, err
		}

		approved := o.draw() > rejectBelow
		res := Result{Approved: approved}
		if metaFunc != nil {
			res.Metadata = metaFunc(approved)
		}
		if !approved {
			res.Rejection = &Rejection{Category: category, Message: rejectMessage}
		}
		return res, nil
	}
}

// internalAccountStage opens the account in the internal system and
// reports the issued number via metadata.
func (o StageOptions) internalAccountStage() StageFunc {
	return func(ctx context.Context, requestID int64) (Result, error) {
		if err := o.wait(ctx); err != nil {
			return Result{}, err
		}

		accountNumber, err := o.issue(ctx, requestID)
		if err != nil {
			return Result{}, fmt.Errorf("issue account number: %w", err)
		}
		return Result{
			Approved: true,
			Metadata: map[string]interface{}{
				"accountNumber": accountNumber,
				"accountOpened": true,
			},
		}, nil
	}
}

func score(approved bool, pass, fail int) int {
	if approved {
		return pass
	}
	return fail
}
