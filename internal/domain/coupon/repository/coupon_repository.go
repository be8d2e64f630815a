package repository

import (
	"errors"
	"strings"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/model"

	"gorm.io/gorm"
)

// ErrUsageLimitReached is returned when a redeem races past the limit.
var ErrUsageLimitReached = errors.New("coupon usage limit reached")

type CouponRepository interface {
	Create(coupon *model.Coupon) error
	GetByCode(code string) (*model.Coupon, error)
	GetByID(id string) (*model.Coupon, error)
	GetList(offset, limit int) ([]model.Coupon, int64, error)
	Update(coupon *model.Coupon) error
	Delete(coupon *model.Coupon) error
	Redeem(id string) error
	Release(id string) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	return r.db.Create(coupon).Error
}

func (r *couponRepository) GetByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := r.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) GetByID(id string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.First(&coupon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) GetList(offset, limit int) ([]model.Coupon, int64, error) {
	var coupons []model.Coupon
	var total int64

	if err := r.db.Model(&model.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&coupons).Error; err != nil {
		return nil, 0, err
	}

	return coupons, total, nil
}

func (r *couponRepository) Update(coupon *model.Coupon) error {
	return r.db.Save(coupon).Error
}

func (r *couponRepository) Delete(coupon *model.Coupon) error {
	return r.db.Delete(coupon).Error
}

// Redeem increments used_count with the limit enforced in the same statement,
// so concurrent checkouts cannot push used_count past max_uses.
func (r *couponRepository) Redeem(id string) error {
	result := r.db.Model(&model.Coupon{}).
		Where("id = ? AND (max_uses = 0 OR used_count < max_uses)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUsageLimitReached
	}
	return nil
}

// Release hands back one use after a redeemed checkout fails downstream,
// before any payment exists. Guarded so the count never goes negative.
func (r *couponRepository) Release(id string) error {
	return r.db.Model(&model.Coupon{}).
		Where("id = ? AND used_count > 0", id).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}
