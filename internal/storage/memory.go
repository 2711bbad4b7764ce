package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/byn2/byn2-backend/internal/models"
)

// MemoryStore holds all data in memory for testing
type MemoryStore struct {
	users        map[string]*models.User        // keyed by mobile number
	intents      map[uint]*models.BotIntent     // keyed by record ID
	transactions map[string]*models.Transaction // keyed by reference

	mu sync.RWMutex

	userCounter   uint
	intentCounter uint
	txnCounter    uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]*models.User),
		intents:      make(map[uint]*models.BotIntent),
		transactions: make(map[string]*models.Transaction),
	}
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.MobileNumber]; exists {
		return nil, fmt.Errorf("user with mobile %s already exists", user.MobileNumber)
	}

	m.userCounter++
	user.ID = m.userCounter
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Currency == "" {
		user.Currency = "SLE"
	}
	user.IsActive = true

	m.users[user.MobileNumber] = user
	return user, nil
}

func (m *MemoryStore) GetUserByMobile(mobile string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[mobile]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.MobileNumber]; !exists {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.MobileNumber] = user
	return nil
}

// BotIntent operations

func (m *MemoryStore) CreateBotIntent(intent *models.BotIntent) (*models.BotIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.intents {
		if existing.BotSession == intent.BotSession {
			return nil, fmt.Errorf("bot session %s already exists", intent.BotSession)
		}
	}

	m.intentCounter++
	intent.ID = m.intentCounter
	intent.CreatedAt = time.Now()
	intent.UpdatedAt = time.Now()
	if intent.Intent == "" {
		intent.Intent = models.IntentStart
	}
	if intent.Status == "" {
		intent.Status = models.StatusPending
	}

	m.intents[intent.ID] = intent
	return intent, nil
}

func (m *MemoryStore) GetBotIntentBySession(session string) (*models.BotIntent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, intent := range m.intents {
		if intent.BotSession == session {
			return intent, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateBotIntent(id uint, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	intent, exists := m.intents[id]
	if !exists {
		return ErrNotFound
	}

	for column, value := range updates {
		switch column {
		case "intent":
			intent.Intent = value.(models.Intent)
		case "intent_option":
			intent.IntentOption = value.(models.IntentOption)
		case "step":
			intent.Step = value.(int)
		case "amount":
			intent.Amount = value.(string)
		case "number":
			intent.Number = value.(string)
		case "currency":
			intent.Currency = value.(string)
		case "payer":
			intent.Payer = value.(string)
		case "status":
			intent.Status = value.(models.IntentStatus)
		case "ussd":
			intent.USSDCode = value.(string)
		default:
			return fmt.Errorf("unknown bot intent column: %s", column)
		}
	}
	intent.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) GetStalePendingIntents(before time.Time) ([]*models.BotIntent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stale []*models.BotIntent
	for _, intent := range m.intents {
		if intent.Status == models.StatusPending && intent.Intent != models.IntentStart && intent.UpdatedAt.Before(before) {
			stale = append(stale, intent)
		}
	}
	return stale, nil
}

// Transaction operations

func (m *MemoryStore) CreateTransaction(txn *models.Transaction) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.transactions[txn.Reference]; exists {
		return nil, fmt.Errorf("transaction %s already exists", txn.Reference)
	}

	m.txnCounter++
	txn.ID = m.txnCounter
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()
	if txn.Status == "" {
		txn.Status = models.TxnStatusPending
	}

	m.transactions[txn.Reference] = txn
	return txn, nil
}

func (m *MemoryStore) UpdateTransaction(txn *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.transactions[txn.Reference]; !exists {
		return ErrNotFound
	}
	txn.UpdatedAt = time.Now()
	m.transactions[txn.Reference] = txn
	return nil
}

func (m *MemoryStore) GetTransactionByReference(reference string) (*models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	txn, exists := m.transactions[reference]
	if !exists {
		return nil, ErrNotFound
	}
	return txn, nil
}

func (m *MemoryStore) GetTransactionsByMobile(mobile string) ([]*models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var txns []*models.Transaction
	for _, txn := range m.transactions {
		if txn.MobileNumber == mobile {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

// Transaction runs fn directly; the memory store has no rollback.
func (m *MemoryStore) Transaction(fn func(tx Store) error) error {
	return fn(m)
}
