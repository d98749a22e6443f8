package domain

import "time"

const (
	LoggedIn  = "loggedin"
	LoggedOut = "loggedout"

	// NotAvailable fills business fields that signup does not collect.
	NotAvailable = "Not Available"
)

type Seller struct {
	ID              int64     `json:"-"`
	SellerId        string    `gorm:"size:32;uniqueIndex" json:"sellerId"`
	Name            string    `json:"name"`
	Email           string    `gorm:"size:255;uniqueIndex" json:"email"`
	PhoneNumber     string    `gorm:"size:32;index" json:"phoneNumber"`
	Password        string    `json:"-"`
	BusinessName    string    `json:"businessName"`
	BusinessAddress string    `json:"businessAddress"`
	BusinessType    string    `json:"businessType"`
	EmailVerified   bool      `json:"emailVerified"`
	PhoneVerified   bool      `json:"phoneVerified"`
	Otp             string    `gorm:"size:16" json:"-"`
	LoggedIn        string    `gorm:"size:16;default:loggedout" json:"loggedIn"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (Seller) TableName() string {
	return "seller"
}

// Verified reports whether at least one contact channel is confirmed.
func (s *Seller) Verified() bool {
	return s.EmailVerified || s.PhoneVerified
}
