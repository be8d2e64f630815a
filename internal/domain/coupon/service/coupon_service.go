package service

import (
	"errors"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/repository"

	"gorm.io/gorm"
)

// ErrCouponNotFound hides the storage error from callers.
var ErrCouponNotFound = errors.New("coupon not found")

type CouponService interface {
	// ValidateCoupon checks a code against a cart subtotal without consuming it.
	ValidateCoupon(code string, subtotal float64) (*model.Coupon, model.Validation, error)

	// Redeem consumes one use of the coupon. Called by checkout after the
	// order is created; the guarded increment enforces max_uses under races.
	Redeem(couponID string) error

	// Release gives a use back when checkout fails after Redeem but before
	// a payment exists, so provider outages do not burn limited coupons.
	Release(couponID string) error

	CreateCoupon(input CouponInput) (*model.Coupon, error)
	UpdateCoupon(id string, input CouponInput) (*model.Coupon, error)
	DeleteCoupon(id string) error
	GetCoupons(page, limit int) ([]model.Coupon, int64, error)
}

// CouponInput is the admin create/update payload.
type CouponInput struct {
	Code          string
	DiscountType  string
	DiscountValue float64
	MinCartValue  float64
	MaxUses       int
	StartsAt      *time.Time
	ExpiresAt     *time.Time
	Active        *bool
}

type couponService struct {
	repo repository.CouponRepository
}

func NewCouponService(repo repository.CouponRepository) CouponService {
	return &couponService{repo: repo}
}

func (s *couponService) ValidateCoupon(code string, subtotal float64) (*model.Coupon, model.Validation, error) {
	coupon, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.Validation{}, ErrCouponNotFound
		}
		return nil, model.Validation{}, err
	}

	return coupon, coupon.Validate(subtotal, time.Now()), nil
}

func (s *couponService) Redeem(couponID string) error {
	return s.repo.Redeem(couponID)
}

func (s *couponService) Release(couponID string) error {
	return s.repo.Release(couponID)
}

func (s *couponService) CreateCoupon(input CouponInput) (*model.Coupon, error) {
	coupon := &model.Coupon{
		Code:          input.Code,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		MinCartValue:  input.MinCartValue,
		MaxUses:       input.MaxUses,
		StartsAt:      input.StartsAt,
		ExpiresAt:     input.ExpiresAt,
		Active:        true,
	}
	if input.Active != nil {
		coupon.Active = *input.Active
	}

	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) UpdateCoupon(id string, input CouponInput) (*model.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if input.DiscountType != "" {
		coupon.DiscountType = input.DiscountType
	}
	if input.DiscountValue > 0 {
		coupon.DiscountValue = input.DiscountValue
	}
	if input.MinCartValue >= 0 {
		coupon.MinCartValue = input.MinCartValue
	}
	if input.MaxUses >= 0 {
		coupon.MaxUses = input.MaxUses
	}
	if input.StartsAt != nil {
		coupon.StartsAt = input.StartsAt
	}
	if input.ExpiresAt != nil {
		coupon.ExpiresAt = input.ExpiresAt
	}
	if input.Active != nil {
		coupon.Active = *input.Active
	}

	if err := s.repo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) DeleteCoupon(id string) error {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	return s.repo.Delete(coupon)
}

func (s *couponService) GetCoupons(page, limit int) ([]model.Coupon, int64, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetList(offset, limit)
}
