package repository

import (
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenRepository interface {
	Get(account string) (*model.Token, error)
	Save(token *model.Token) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Get(account string) (*model.Token, error) {
	var token model.Token
	if err := r.db.Where("account = ?", account).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Save upserts on the account key so connect and refresh share one path.
func (r *tokenRepository) Save(token *model.Token) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "updated_at"}),
	}).Create(token).Error
}
