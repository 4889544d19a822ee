package notify

import (
	"github.com/brbanco/go-account-opening/internal/classify"
	"github.com/brbanco/go-account-opening/internal/events"
	"github.com/brbanco/go-account-opening/internal/requests"
)

// Strategy renders the brand-specific message copy for both terminal
// outcomes. The channel fan-out itself is shared by all brands and lives
// in the Dispatcher.
type Strategy interface {
	Brand() requests.Brand

	OpenedEmail(ev events.AccountOpened) (subject, body string)
	OpenedSMS(ev events.AccountOpened) string
	OpenedPush(ev events.AccountOpened) (title, body string)

	RejectedEmail(ev events.Rejected, category classify.Category) (subject, body string)
	RejectedSMS(ev events.Rejected, category classify.Category) string
	RejectedPush(ev events.Rejected, category classify.Category) (title, body string)
}

// DefaultStrategies returns the strategies for the three supported
// brands.
func DefaultStrategies() []Strategy {
	return []Strategy{
		flamengoStrategy{},
		azulStrategy{},
		americaStrategy{},
	}
}
