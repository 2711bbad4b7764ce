package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction types
const (
	TxnTypeDeposit  = "deposit"
	TxnTypeWithdraw = "withdraw"
	TxnTypeTransfer = "transfer"
)

// Transaction statuses
const (
	TxnStatusPending   = "pending"
	TxnStatusCompleted = "completed"
	TxnStatusFailed    = "failed"
)

// Transaction is a money-movement record written by the provider and
// wallet clients. Settlement truth lives here, not on BotIntent.
type Transaction struct {
	gorm.Model

	Reference    string     `json:"reference" gorm:"uniqueIndex"`
	MobileNumber string     `json:"mobile_number" gorm:"index"`
	Type         string     `json:"type"`
	Amount       string     `json:"amount"`
	Currency     string     `json:"currency"`
	Platform     string     `json:"platform"` // operator code or transfer currency
	Status       string     `json:"status" gorm:"default:pending"`
	USSDCode     string     `json:"ussd" gorm:"column:ussd"`
	CompletedAt  *time.Time `json:"completed_at"`
	FailReason   string     `json:"fail_reason"`
}
