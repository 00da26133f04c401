package billing

import "time"

// Transaction records a completed credit purchase. One row per Stripe
// checkout session; the unique session id is what makes webhook retries
// harmless.
type Transaction struct {
	ID              string
	AccountID       string
	StripeSessionID string
	AmountCents     int64
	Credits         int
	Status          string
	CreatedAt       time.Time
}

const StatusCompleted = "completed"
