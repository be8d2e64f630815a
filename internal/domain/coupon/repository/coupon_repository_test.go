package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestRedeem(t *testing.T) {
	t.Run("increments under the limit", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCouponRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "coupons" SET "used_count"=used_count \+ 1 WHERE \(id = \$1 AND \(max_uses = 0 OR used_count < max_uses\)\)`).
			WithArgs("coupon-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Redeem("coupon-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit reached means zero rows", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCouponRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "coupons" SET "used_count"=used_count \+ 1`).
			WithArgs("coupon-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		assert.ErrorIs(t, repo.Redeem("coupon-1"), ErrUsageLimitReached)
	})
}

func TestRelease(t *testing.T) {
	t.Run("decrements a consumed use", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCouponRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "coupons" SET "used_count"=used_count - 1 WHERE \(id = \$1 AND used_count > 0\)`).
			WithArgs("coupon-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Release("coupon-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("never goes below zero", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCouponRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "coupons" SET "used_count"=used_count - 1`).
			WithArgs("coupon-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		assert.NoError(t, repo.Release("coupon-1"))
	})
}

func TestGetByCodeNormalizes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCouponRepository(db)

	rows := sqlmock.NewRows([]string{"id", "code", "discount_type", "discount_value", "active"}).
		AddRow("coupon-1", "PROMO10", "percentage", 10.0, true)
	mock.ExpectQuery(`SELECT \* FROM "coupons" WHERE code = \$1`).
		WithArgs("PROMO10", 1).
		WillReturnRows(rows)

	coupon, err := repo.GetByCode("  promo10 ")
	require.NoError(t, err)
	assert.Equal(t, "PROMO10", coupon.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
