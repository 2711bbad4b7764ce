package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/byn2/byn2-backend/internal/models"
	"github.com/byn2/byn2-backend/internal/storage"
)

// MoneyProvider is the mobile money collaborator: it collects deposits
// from a subscriber's phone and pays withdrawals out to one.
type MoneyProvider interface {
	RequestDeposit(mobile, amount, currency string) (*models.Transaction, error)
	Payout(mobile, amount, currency string) (*models.Transaction, error)
}

// MonimeService talks to the Monime mobile money aggregator
type MonimeService struct {
	baseURL string
	apiKey  string
	spaceID string
	client  *http.Client
	store   storage.Store
}

// NewMonimeService creates a Monime client from environment variables
func NewMonimeService(store storage.Store) (*MonimeService, error) {
	baseURL := os.Getenv("MONIME_API_URL")
	apiKey := os.Getenv("MONIME_API_KEY")
	spaceID := os.Getenv("MONIME_SPACE_ID")
	if baseURL == "" || apiKey == "" || spaceID == "" {
		return nil, fmt.Errorf("missing Monime credentials in environment variables")
	}
	return &MonimeService{
		baseURL: baseURL,
		apiKey:  apiKey,
		spaceID: spaceID,
		client:  &http.Client{Timeout: 30 * time.Second},
		store:   store,
	}, nil
}

type monimeDepositRequest struct {
	Phone     string `json:"phone"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type monimeDepositResponse struct {
	USSDCode string `json:"ussd_code"`
	Status   string `json:"status"`
}

// RequestDeposit asks Monime to collect a payment from the given phone.
// It returns a pending transaction carrying the USSD code the payer must
// dial; settlement lands later through the payment webhook.
func (m *MonimeService) RequestDeposit(mobile, amount, currency string) (*models.Transaction, error) {
	reference := uuid.NewString()

	txn, err := m.store.CreateTransaction(&models.Transaction{
		Reference:    reference,
		MobileNumber: mobile,
		Type:         models.TxnTypeDeposit,
		Amount:       amount,
		Currency:     currency,
		Status:       models.TxnStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	out := monimeDepositResponse{}
	err = m.post("/payment-codes", monimeDepositRequest{
		Phone:     mobile,
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
	}, &out)
	if err != nil {
		m.markFailed(txn, err)
		return nil, err
	}

	txn.USSDCode = out.USSDCode
	if err := m.store.UpdateTransaction(txn); err != nil {
		log.Printf("⚠️ Deposit %s created but record update failed: %v", reference, err)
	}

	log.Printf("✅ Deposit code requested: %s %s for %s (ref %s)", amount, currency, mobile, reference)
	return txn, nil
}

type monimePayoutRequest struct {
	Phone     string `json:"phone"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Channel   string `json:"channel"`
	Reference string `json:"reference"`
}

type monimePayoutResponse struct {
	Status string `json:"status"`
}

// Payout sends mobile money to the given phone. The receiving operator
// must be supported; callers check IsSupportedOperator first.
func (m *MonimeService) Payout(mobile, amount, currency string) (*models.Transaction, error) {
	op, ok := LookupOperator(mobile)
	if !ok {
		return nil, fmt.Errorf("no operator for number %s", mobile)
	}

	reference := uuid.NewString()

	txn, err := m.store.CreateTransaction(&models.Transaction{
		Reference:    reference,
		MobileNumber: mobile,
		Type:         models.TxnTypeWithdraw,
		Amount:       amount,
		Currency:     currency,
		Platform:     op.Code,
		Status:       models.TxnStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record payout: %w", err)
	}

	out := monimePayoutResponse{}
	err = m.post("/payouts", monimePayoutRequest{
		Phone:     mobile,
		Amount:    amount,
		Currency:  currency,
		Channel:   op.Code,
		Reference: reference,
	}, &out)
	if err != nil {
		m.markFailed(txn, err)
		return nil, err
	}

	now := time.Now()
	txn.Status = models.TxnStatusCompleted
	txn.CompletedAt = &now
	if err := m.store.UpdateTransaction(txn); err != nil {
		log.Printf("⚠️ Payout %s completed but record update failed: %v", reference, err)
	}

	log.Printf("✅ Payout sent: %s %s to %s via %s (ref %s)", amount, currency, mobile, op.Name, reference)
	return txn, nil
}

func (m *MonimeService) post(path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal Monime request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, m.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create Monime request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Monime-Space-Id", m.spaceID)
	req.Header.Set("Idempotency-Key", uuid.NewString())
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("monime request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("❌ Monime %s failed (%d): %s", path, resp.StatusCode, string(raw))
		return fmt.Errorf("monime API error: status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode Monime response: %w", err)
		}
	}
	return nil
}

func (m *MonimeService) markFailed(txn *models.Transaction, cause error) {
	txn.Status = models.TxnStatusFailed
	txn.FailReason = cause.Error()
	if err := m.store.UpdateTransaction(txn); err != nil {
		log.Printf("⚠️ Failed to mark transaction %s failed: %v", txn.Reference, err)
	}
}
