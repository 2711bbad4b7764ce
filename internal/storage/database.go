package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/byn2/byn2-backend/internal/models"
)

// DatabaseStore persists everything through GORM/PostgreSQL
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// User operations

func (s *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *DatabaseStore) GetUserByMobile(mobile string) (*models.User, error) {
	var user models.User
	err := s.db.Where("mobile_number = ?", mobile).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

// BotIntent operations

func (s *DatabaseStore) CreateBotIntent(intent *models.BotIntent) (*models.BotIntent, error) {
	if err := s.db.Create(intent).Error; err != nil {
		return nil, err
	}
	return intent, nil
}

func (s *DatabaseStore) GetBotIntentBySession(session string) (*models.BotIntent, error) {
	var intent models.BotIntent
	err := s.db.Where("bot_session = ?", session).First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (s *DatabaseStore) UpdateBotIntent(id uint, updates map[string]interface{}) error {
	return s.db.Model(&models.BotIntent{}).Where("id = ?", id).Updates(updates).Error
}

func (s *DatabaseStore) GetStalePendingIntents(before time.Time) ([]*models.BotIntent, error) {
	var intents []*models.BotIntent
	err := s.db.
		Where("status = ? AND intent <> ? AND updated_at < ?", models.StatusPending, models.IntentStart, before).
		Find(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}

// Transaction (money movement) operations

func (s *DatabaseStore) CreateTransaction(txn *models.Transaction) (*models.Transaction, error) {
	if err := s.db.Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *DatabaseStore) UpdateTransaction(txn *models.Transaction) error {
	return s.db.Save(txn).Error
}

func (s *DatabaseStore) GetTransactionByReference(reference string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Where("reference = ?", reference).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *DatabaseStore) GetTransactionsByMobile(mobile string) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := s.db.Where("mobile_number = ?", mobile).Order("created_at desc").Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// Transaction wraps fn in a database transaction
func (s *DatabaseStore) Transaction(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&DatabaseStore{db: tx})
	})
}
