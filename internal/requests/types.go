package requests

import (
	"strings"
	"time"
)

// Request statuses, in pipeline order. REJECTED is absorbing and
// reachable from any VALIDATING_* status.
const (
	StatusInitiated          = "INITIATED"
	StatusValidatingTopaz    = "VALIDATING_TOPAZ"
	StatusValidatingFraud    = "VALIDATING_ANTIFRAUD"
	StatusValidatingPix      = "VALIDATING_PIX"
	StatusValidatingSerasa   = "VALIDATING_SERASA"
	StatusValidatingLife     = "VALIDATING_LIFE_PROOF"
	StatusAwaitingInternal   = "AWAITING_INTERNAL_SYSTEM"
	StatusApproved           = "APPROVED"
	StatusRejected           = "REJECTED"
	StatusAccountOpened      = "ACCOUNT_OPENED"
)

// Brand identifies the affinity program the account was requested under.
type Brand string

const (
	BrandFlamengo Brand = "FLAMENGO"
	BrandAzul     Brand = "AZUL"
	BrandAmerica  Brand = "AMERICA"
)

// DefaultBrand is applied when a creation request omits the brand.
func DefaultBrand() Brand { return BrandAmerica }

// ParseBrand resolves a brand name case-insensitively. Blank or unknown
// values fall back to the default brand at the API boundary; the
// notification side is stricter and rejects unknown brands there.
func ParseBrand(s string) Brand {
	switch Brand(strings.ToUpper(strings.TrimSpace(s))) {
	case BrandFlamengo:
		return BrandFlamengo
	case BrandAzul:
		return BrandAzul
	case BrandAmerica:
		return BrandAmerica
	default:
		return DefaultBrand()
	}
}

// Record is the account-opening request persisted in the requests
// DynamoDB table. Records are created once by the API boundary, mutated
// only by the pipeline, and never deleted.
type Record struct {
	ID              int64     `dynamodbav:"request_id"` // PK
	CPF             string    `dynamodbav:"cpf"`        // natural key (cpf-index GSI)
	Name            string    `dynamodbav:"name"`
	Email           string    `dynamodbav:"email"`
	Phone           string    `dynamodbav:"phone"`
	Brand           Brand     `dynamodbav:"brand"`
	Status          string    `dynamodbav:"status"`
	AccountNumber   string    `dynamodbav:"account_number,omitempty"` // set on approval
	RejectionReason string    `dynamodbav:"rejection_reason,omitempty"`
	CreatedAt       time.Time `dynamodbav:"created_at"`
	UpdatedAt       time.Time `dynamodbav:"updated_at"`
}
