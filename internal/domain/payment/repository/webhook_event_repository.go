package repository

import (
	"errors"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	// Seen reports whether the event id was already processed.
	Seen(eventID string) (bool, error)

	// MarkProcessed records the event id. Safe to call twice; the second
	// insert is a no-op.
	MarkProcessed(eventID, provider string) error
}

type webhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Seen(eventID string) (bool, error) {
	var event model.WebhookEvent
	err := r.db.Where("event_id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *webhookEventRepository) MarkProcessed(eventID, provider string) error {
	event := &model.WebhookEvent{
		EventID:     eventID,
		Provider:    provider,
		ProcessedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(event).Error
}
