package model

import (
	"encoding/json"

	baseModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/model"
)

// Order is the persisted checkout record. Items and customer fields are a
// snapshot taken at checkout; only the status columns mutate afterwards, and
// only through the webhook reconciler or the admin fulfillment endpoints.
// Orders are never deleted.
type Order struct {
	baseModel.BaseModel
	CustomerID    string          `gorm:"type:uuid;index" json:"customerId"`
	Status        string          `gorm:"type:varchar(16);default:'pending'" json:"status"`
	PaymentStatus string          `gorm:"type:varchar(16);default:'pending'" json:"paymentStatus"`
	Items         json.RawMessage `gorm:"type:jsonb;not null" json:"items"`
	Subtotal      float64         `gorm:"not null" json:"subtotal"`
	Discount      float64         `gorm:"not null;default:0" json:"discount"`
	Total         float64         `gorm:"not null" json:"total"`
	CouponCode    string          `gorm:"type:varchar(64)" json:"couponCode,omitempty"`

	TransactionID   string `gorm:"type:varchar(128);index" json:"transactionId,omitempty"`
	PaymentProvider string `gorm:"type:varchar(32)" json:"paymentProvider,omitempty"`

	CustomerName    string `gorm:"type:varchar(120);not null" json:"customerName"`
	CustomerEmail   string `gorm:"type:varchar(255);not null" json:"customerEmail"`
	CustomerPhone   string `gorm:"type:varchar(32)" json:"customerPhone"`
	CustomerAddress string `gorm:"type:text" json:"customerAddress"`
}

// OrderItem is one line of the items snapshot.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Fulfillment status.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment status.
const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
	PaymentCancelled = "cancelled"
)

// ParseItems decodes the items snapshot.
func (o *Order) ParseItems() ([]OrderItem, error) {
	var items []OrderItem
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}
