package repository

import (
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	GetByID(id string) (*model.Order, error)
	GetByTransactionID(transactionID string) (*model.Order, error)
	GetByCustomer(customerID string, offset, limit int) ([]model.Order, int64, error)
	GetList(status string, offset, limit int) ([]model.Order, int64, error)
	SetTransaction(orderID, transactionID, provider string) error
	SetPaymentStatus(orderID, paymentStatus string) error
	SetStatus(orderID, status string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByTransactionID(transactionID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Where("transaction_id = ?", transactionID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByCustomer(customerID string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.Model(&model.Order{}).Where("customer_id = ?", customerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) GetList(status string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.Model(&model.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) SetTransaction(orderID, transactionID, provider string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"transaction_id":   transactionID,
			"payment_provider": provider,
		}).Error
}

// SetPaymentStatus is a pure overwrite; replays of the same webhook converge
// on the same row state.
func (r *orderRepository) SetPaymentStatus(orderID, paymentStatus string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", orderID).
		UpdateColumn("payment_status", paymentStatus).Error
}

func (r *orderRepository) SetStatus(orderID, status string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", orderID).
		UpdateColumn("status", status).Error
}
