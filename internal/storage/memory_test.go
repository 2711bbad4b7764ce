package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byn2/byn2-backend/internal/models"
)

func TestMemoryStoreUsers(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetUserByMobile("+23276123456")
	assert.ErrorIs(t, err, ErrNotFound)

	user, err := store.CreateUser(&models.User{MobileNumber: "+23276123456", Name: "Aminata"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "SLE", user.Currency)
	assert.True(t, user.IsActive)

	_, err = store.CreateUser(&models.User{MobileNumber: "+23276123456"})
	assert.Error(t, err, "mobile number is unique")

	user.Name = "Aminata K"
	require.NoError(t, store.UpdateUser(user))
	got, err := store.GetUserByMobile("+23276123456")
	require.NoError(t, err)
	assert.Equal(t, "Aminata K", got.Name)
}

func TestMemoryStoreBotIntents(t *testing.T) {
	store := NewMemoryStore()

	intent, err := store.CreateBotIntent(&models.BotIntent{BotSession: "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, models.IntentStart, intent.Intent)
	assert.Equal(t, models.StatusPending, intent.Status)

	_, err = store.CreateBotIntent(&models.BotIntent{BotSession: "tok-1"})
	assert.Error(t, err, "session token is unique")

	got, err := store.GetBotIntentBySession("tok-1")
	require.NoError(t, err)
	assert.Equal(t, intent.ID, got.ID)

	err = store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"intent": models.IntentWithdraw,
		"step":   models.StepAmount,
		"amount": "100",
		"status": models.StatusProcessing,
	})
	require.NoError(t, err)

	got, err = store.GetBotIntentBySession("tok-1")
	require.NoError(t, err)
	assert.Equal(t, models.IntentWithdraw, got.Intent)
	assert.Equal(t, models.StepAmount, got.Step)
	assert.Equal(t, "100", got.Amount)

	err = store.UpdateBotIntent(intent.ID, map[string]interface{}{"no_such_column": 1})
	assert.Error(t, err)

	err = store.UpdateBotIntent(999, map[string]interface{}{"step": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreStalePendingIntents(t *testing.T) {
	store := NewMemoryStore()

	stale, _ := store.CreateBotIntent(&models.BotIntent{BotSession: "tok-stale", Intent: models.IntentDeposit})
	fresh, _ := store.CreateBotIntent(&models.BotIntent{BotSession: "tok-fresh", Intent: models.IntentWithdraw})
	idle, _ := store.CreateBotIntent(&models.BotIntent{BotSession: "tok-idle"}) // start intent, never stale
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	idle.UpdatedAt = time.Now().Add(-time.Hour)

	got, err := store.GetStalePendingIntents(time.Now().Add(-10 * time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ID)
	_ = fresh
}

func TestMemoryStoreTransactions(t *testing.T) {
	store := NewMemoryStore()

	txn, err := store.CreateTransaction(&models.Transaction{
		Reference:    "ref-1",
		MobileNumber: "+23276123456",
		Type:         models.TxnTypeDeposit,
		Amount:       "100",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TxnStatusPending, txn.Status)

	_, err = store.CreateTransaction(&models.Transaction{Reference: "ref-1"})
	assert.Error(t, err, "reference is unique")

	txn.Status = models.TxnStatusCompleted
	require.NoError(t, store.UpdateTransaction(txn))

	got, err := store.GetTransactionByReference("ref-1")
	require.NoError(t, err)
	assert.Equal(t, models.TxnStatusCompleted, got.Status)

	_, err = store.CreateTransaction(&models.Transaction{Reference: "ref-2", MobileNumber: "+23277000111"})
	require.NoError(t, err)

	mine, err := store.GetTransactionsByMobile("+23276123456")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestMemoryStoreTransactionWrapper(t *testing.T) {
	store := NewMemoryStore()

	err := store.Transaction(func(tx Store) error {
		_, err := tx.CreateUser(&models.User{MobileNumber: "+23276123456"})
		return err
	})
	require.NoError(t, err)

	_, err = store.GetUserByMobile("+23276123456")
	assert.NoError(t, err)
}
