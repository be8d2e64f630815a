package model

import "time"

// WebhookEvent is the idempotency ledger for provider notifications.
// Providers redeliver webhooks aggressively; a seen event id is acknowledged
// and skipped so side effects (confirmation email, ERP push) never fire twice.
type WebhookEvent struct {
	EventID     string    `gorm:"primaryKey;type:varchar(128)" json:"eventId"`
	Provider    string    `gorm:"type:varchar(32);index" json:"provider"`
	ProcessedAt time.Time `json:"processedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
