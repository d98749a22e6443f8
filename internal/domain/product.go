package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	VisibilityOn  = "on"
	VisibilityOff = "off"

	// MaxProductImages matches the dashboard upload cap.
	MaxProductImages = 5
)

// Product is a catalog entry. ID is internal, ProductId is the public key.
type Product struct {
	ID             int64           `gorm:"primaryKey" json:"-" csv:"-"`
	ProductId      string          `gorm:"size:64;uniqueIndex" json:"productId" csv:"productId"`
	Name           string          `gorm:"index" json:"name" csv:"name"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2)" json:"price" csv:"price"`
	Category       string          `gorm:"size:128;index" json:"category" csv:"category"`
	Rating         float64         `json:"rating" csv:"rating"`
	InStockValue   int             `json:"inStockValue" csv:"inStockValue"`
	SoldStockValue int             `json:"soldStockValue" csv:"soldStockValue"`
	Description    string          `gorm:"type:text" json:"description" csv:"description"`
	Visibility     string          `gorm:"size:8;default:on" json:"visibility" csv:"visibility"`
	Images         []ProductImage  `gorm:"constraint:OnDelete:CASCADE" json:"img" csv:"-"`
	CreatedAt      time.Time       `json:"createdAt" csv:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt" csv:"-"`
}

func (Product) TableName() string {
	return "product"
}

// ProductImage is one uploaded image blob, ordered by Position.
type ProductImage struct {
	ID          int64     `gorm:"primaryKey" json:"-"`
	ProductID   int64     `gorm:"index" json:"-"`
	Position    int       `json:"position"`
	Data        []byte    `json:"data"`
	ContentType string    `gorm:"size:128" json:"contentType"`
	Filename    string    `gorm:"size:255" json:"filename"`
	UploadDate  time.Time `json:"uploadDate"`
}

func (ProductImage) TableName() string {
	return "product_image"
}
