package models

import "time"

type StockStatus string

const (
	InStock    StockStatus = "IN_STOCK"
	OutOfStock StockStatus = "OUT_OF_STOCK"
)

const MaxProductImages = 5

var ProductCategories = []string{"Men", "Women", "Kids"}

func ValidCategory(c string) bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ProductImage points at an image already uploaded to object storage.
type ProductImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type Product struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Name         string         `gorm:"size:200;not null;index" json:"name"`
	Description  *string        `gorm:"type:text" json:"description,omitempty"`
	Price        float64        `gorm:"not null" json:"price"`
	Images       []ProductImage `gorm:"serializer:json;type:text" json:"images"`
	Category     string         `gorm:"size:32;not null;index" json:"category"`
	SubCategory  string         `gorm:"size:100;not null;index" json:"subCategory"`
	StockStatus  StockStatus    `gorm:"size:16;not null;default:'IN_STOCK'" json:"stockStatus"`
	IsOnline     bool           `gorm:"not null;index" json:"isOnline"`
	IsNewArrival bool           `gorm:"not null" json:"isNewArrival"`
	IsBestSeller bool           `gorm:"not null" json:"isBestSeller"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (p *Product) Available() bool {
	return p.StockStatus == InStock
}

// Snapshot copies the fields a sale must remember about the product.
func (p *Product) Snapshot() ProductSnapshot {
	s := ProductSnapshot{
		Name:        p.Name,
		Category:    p.Category,
		SubCategory: p.SubCategory,
	}
	if len(p.Images) > 0 {
		s.URL = p.Images[0].URL
	}
	return s
}
