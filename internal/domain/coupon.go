package domain

import "time"

type Coupon struct {
	ID                 int64     `json:"-"`
	Code               string    `gorm:"size:64;uniqueIndex" json:"code"`
	DiscountPercentage float64   `json:"discountPercentage"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (Coupon) TableName() string {
	return "coupon"
}

// Customer is a storefront user. Only the email matters to the back office.
type Customer struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customer"
}
