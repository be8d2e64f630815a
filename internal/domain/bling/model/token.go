package model

import (
	"time"

	baseModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/model"
)

// DefaultAccount is the single tenant the store uses.
const DefaultAccount = "default"

// Token is the stored Bling OAuth pair. One row per account; the store runs
// a single account. Refresh tokens rotate, so every refresh overwrites both.
type Token struct {
	baseModel.BaseModel
	Account      string    `gorm:"type:varchar(32);uniqueIndex;not null;default:'default'" json:"account"`
	AccessToken  string    `gorm:"type:text;not null" json:"-"`
	RefreshToken string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt    time.Time `gorm:"not null" json:"expiresAt"`
}

// TokenSkew is subtracted from expires_at so a token is refreshed before the
// provider actually rejects it.
const TokenSkew = 60 * time.Second

func (Token) TableName() string {
	return "bling_tokens"
}

// Expired reports whether the access token needs a refresh at the given
// instant.
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt.Add(-TokenSkew))
}
