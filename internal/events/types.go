// Package events defines the terminal-outcome events and their Kafka
// publisher. Exactly one of the two events is published per request.
package events

import "time"

// Topics for terminal outcomes. Messages are keyed by the stringified
// request id, so all events of one request land on the same partition.
const (
	TopicAccountOpened   = "account-opened"
	TopicRequestRejected = "request-rejected"
)

// AccountOpened announces a successfully opened account.
// EventID is generated per publish so at-least-once consumers can dedup.
type AccountOpened struct {
	EventID       string    `json:"eventId"`
	RequestID     int64     `json:"requestId"`
	CPF           string    `json:"cpf"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Brand         string    `json:"brand"`
	AccountNumber string    `json:"accountNumber"`
	Timestamp     time.Time `json:"timestamp"`
}

// Rejected announces a request that failed validation. RejectionCategory
// carries the explicit classification; consumers fall back to
// classifying RejectionReason when the field is missing or unknown.
type Rejected struct {
	EventID           string    `json:"eventId"`
	RequestID         int64     `json:"requestId"`
	CPF               string    `json:"cpf"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Brand             string    `json:"brand"`
	RejectionReason   string    `json:"rejectionReason"`
	RejectionCategory string    `json:"rejectionCategory"`
	Timestamp         time.Time `json:"timestamp"`
}
