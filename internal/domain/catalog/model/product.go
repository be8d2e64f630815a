package model

import (
	"encoding/json"

	baseModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/model"
)

// Product is a catalog item. Price and name are snapshotted into order items at
// checkout, so edits here never rewrite history.
type Product struct {
	baseModel.BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Brand       string          `gorm:"type:varchar(120);index" json:"brand"`
	Price       float64         `gorm:"not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Images      json.RawMessage `gorm:"type:jsonb" json:"images"`
	CategoryID  string          `gorm:"type:uuid;index" json:"categoryId"`
	Active      bool            `gorm:"default:true" json:"active"`
	Featured    bool            `gorm:"default:false" json:"featured"`
}

// Category groups products for storefront navigation.
type Category struct {
	baseModel.BaseModel
	Name string `gorm:"type:varchar(120);not null" json:"name"`
	Slug string `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
}

// ProductFilter carries the storefront listing filters.
type ProductFilter struct {
	Query        string
	CategorySlug string
	Brand        string
	MinPrice     float64
	MaxPrice     float64
	Featured     bool
	Sort         string // price_asc, price_desc, newest
}
