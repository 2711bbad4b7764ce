package models

import (
	"strings"

	"gorm.io/gorm"
)

// User represents a wallet holder reached over WhatsApp
type User struct {
	gorm.Model

	MobileNumber string `json:"mobile_number" gorm:"uniqueIndex"` // WhatsApp number - unique
	Name         string `json:"name"`
	SessionToken string `json:"-"` // short-lived conversation token (5 min)
	AuthToken    string `json:"-"` // long-lived device token (3 days)
	Currency     string `json:"currency" gorm:"default:SLE"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
}

// BeforeCreate hook to normalize the mobile number
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.MobileNumber = strings.TrimSpace(u.MobileNumber)
	if u.MobileNumber != "" && !strings.HasPrefix(u.MobileNumber, "+") {
		u.MobileNumber = "+" + u.MobileNumber
	}
	if u.Currency == "" {
		u.Currency = "SLE"
	}
	return nil
}
