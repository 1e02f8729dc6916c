// internal/notify/notify.go
package notify

import (
	"context"
	"fmt"
	"time"

	"leadcredit/internal/pricing"
)

// Redis keys of the notification queue.
const (
	QueueKey       = "leadcredit:notifications"
	FailedQueueKey = "leadcredit:notifications:failed"
)

// AllocationNotice tells a buyer that a purchase committed.
type AllocationNotice struct {
	AllocationID     int64     `json:"allocation_id"`
	LeadID           int64     `json:"lead_id"`
	LeadTitle        string    `json:"lead_title"`
	BuyerID          string    `json:"buyer_id"`
	Email            string    `json:"email"`
	CompetitionLevel int       `json:"competition_level"`
	CreditCost       int64     `json:"credit_cost"`
	Balance          int64     `json:"balance"`
	CreatedAt        time.Time `json:"created_at"`
	Tries            int       `json:"tries"`
}

// Subject returns the email subject line for the notice.
func (n AllocationNotice) Subject() string {
	return fmt.Sprintf("Lead #%d is now yours", n.LeadID)
}

// Body returns the plain text email body for the notice.
func (n AllocationNotice) Body() string {
	return fmt.Sprintf(
		"You acquired lead #%d (%s).\n\nCompetition: %s\nCredits charged: %d\nRemaining balance: %d\n",
		n.LeadID, n.LeadTitle,
		pricing.Describe(n.CompetitionLevel, n.CompetitionLevel == 0),
		n.CreditCost, n.Balance,
	)
}

// Notifier is invoked after a purchase commits. Failures never undo the purchase.
type Notifier interface {
	NotifyAllocation(ctx context.Context, notice AllocationNotice) error
}

// Nop drops every notice. It is used when no queue is configured.
type Nop struct{}

// NotifyAllocation implements Notifier.
func (Nop) NotifyAllocation(context.Context, AllocationNotice) error { return nil }
