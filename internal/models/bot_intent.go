package models

import (
	"gorm.io/gorm"
)

// Intent is the active top-level conversation flow
type Intent string

const (
	IntentStart        Intent = "start"
	IntentDeposit      Intent = "deposit"
	IntentTransfer     Intent = "transfer"
	IntentWithdraw     Intent = "withdraw"
	IntentCheckBalance Intent = "check_balance"
)

// IntentOption is the sub-choice within an intent (e.g. deposit method)
type IntentOption string

const (
	OptionMobileMoney  IntentOption = "mobile_money"
	OptionCrypto       IntentOption = "crypto"
	OptionBankTransfer IntentOption = "bank_transfer"
)

// IntentStatus tracks the lifecycle of a conversation session
type IntentStatus string

const (
	StatusPending    IntentStatus = "pending"
	StatusProcessing IntentStatus = "processing"
	StatusSuccess    IntentStatus = "success"
	StatusCancel     IntentStatus = "cancel"
)

// Conversation steps. The step counter is the question currently awaiting
// an answer; within StepRouting the exact question is discriminated by
// which collected field is still empty.
const (
	StepEntry   = 0 // flow not started, menu not yet answered
	StepRouting = 1 // collecting method / payer / recipient number
	StepAmount  = 2 // waiting on a free-text amount
	StepConfirm = 3 // waiting on the yes/cancel confirmation buttons
)

// BotIntent is the single mutable record of a conversation session,
// keyed by the currently valid session token. Rotating the token
// supersedes the record; superseded records are kept, never deleted.
type BotIntent struct {
	gorm.Model

	BotSession   string       `json:"bot_session" gorm:"uniqueIndex"`
	Intent       Intent       `json:"intent" gorm:"default:start"`
	IntentOption IntentOption `json:"intent_option"`
	Step         int          `json:"step" gorm:"default:0"`
	Amount       string       `json:"amount"`
	Number       string       `json:"number"`
	Currency     string       `json:"currency"`
	Payer        string       `json:"payer"` // "self" or "other"
	Status       IntentStatus `json:"status" gorm:"default:pending"`
	USSDCode     string       `json:"ussd" gorm:"column:ussd"`
}

// Terminal reports whether the record has reached a final status and
// must not be reused for another turn.
func (b *BotIntent) Terminal() bool {
	return b.Status == StatusSuccess || b.Status == StatusCancel
}
