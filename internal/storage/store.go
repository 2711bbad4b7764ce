package storage

import (
	"errors"
	"time"

	"github.com/byn2/byn2-backend/internal/models"
)

// ErrNotFound is returned when a record does not exist. Callers treat it
// as an expected condition, not a failure.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for storage operations
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUserByMobile(mobile string) (*models.User, error)
	UpdateUser(user *models.User) error

	// BotIntent operations
	CreateBotIntent(intent *models.BotIntent) (*models.BotIntent, error)
	GetBotIntentBySession(session string) (*models.BotIntent, error)
	// UpdateBotIntent merges the given columns into the record.
	// Last write wins; callers hold the per-session lock.
	UpdateBotIntent(id uint, updates map[string]interface{}) error
	GetStalePendingIntents(before time.Time) ([]*models.BotIntent, error)

	// Transaction (money movement) operations
	CreateTransaction(txn *models.Transaction) (*models.Transaction, error)
	UpdateTransaction(txn *models.Transaction) error
	GetTransactionByReference(reference string) (*models.Transaction, error)
	GetTransactionsByMobile(mobile string) ([]*models.Transaction, error)

	// Transaction wraps fn in a database transaction. The Store passed to
	// fn must be used for every operation inside it.
	Transaction(fn func(tx Store) error) error
}
