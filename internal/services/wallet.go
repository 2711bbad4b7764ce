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

// Wallet is the ledger collaborator. Balances and internal transfers
// live on the wallet core, not in this service's database.
type Wallet interface {
	Balance(mobile, currency string) (float64, error)
	Transfer(from, to, amount, currency string) (float64, error)
	Credit(mobile, amount, currency, reference string) error
	Debit(mobile, amount, currency, reference string) error
}

// WalletService talks to the Byn2 wallet core over HTTP
type WalletService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	store   storage.Store
}

// NewWalletService creates a wallet client from environment variables
func NewWalletService(store storage.Store) (*WalletService, error) {
	baseURL := os.Getenv("WALLET_API_URL")
	apiKey := os.Getenv("WALLET_API_KEY")
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("missing wallet API credentials in environment variables")
	}
	return &WalletService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		store:   store,
	}, nil
}

type balanceResponse struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// Balance returns the available balance for a wallet in the given currency
func (w *WalletService) Balance(mobile, currency string) (float64, error) {
	url := fmt.Sprintf("%s/wallets/%s/balance?currency=%s", w.baseURL, mobile, currency)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create balance request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch balance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("❌ Wallet balance failed (%d): %s", resp.StatusCode, string(body))
		return 0, fmt.Errorf("wallet API error: status %d", resp.StatusCode)
	}

	var out balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode balance response: %w", err)
	}
	return out.Balance, nil
}

type transferRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type transferResponse struct {
	Received float64 `json:"received"`
	Status   string  `json:"status"`
}

// Transfer moves money between two Byn2 wallets and returns the amount
// the recipient received. A transaction row records the movement either
// way; failures never leave a completed row behind.
func (w *WalletService) Transfer(from, to, amount, currency string) (float64, error) {
	reference := uuid.NewString()

	txn, err := w.store.CreateTransaction(&models.Transaction{
		Reference:    reference,
		MobileNumber: from,
		Type:         models.TxnTypeTransfer,
		Amount:       amount,
		Currency:     currency,
		Platform:     currency,
		Status:       models.TxnStatusPending,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record transfer: %w", err)
	}

	out := transferResponse{}
	err = w.post("/transfers", transferRequest{
		From:      from,
		To:        to,
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
	}, &out)
	if err != nil {
		w.markFailed(txn, err)
		return 0, err
	}

	now := time.Now()
	txn.Status = models.TxnStatusCompleted
	txn.CompletedAt = &now
	if err := w.store.UpdateTransaction(txn); err != nil {
		log.Printf("⚠️ Transfer %s completed but record update failed: %v", reference, err)
	}

	log.Printf("✅ Transfer %s: %s %s from %s to %s", reference, amount, currency, from, to)
	return out.Received, nil
}

type ledgerRequest struct {
	Mobile    string `json:"mobile"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

// Credit adds settled funds to a wallet (deposit clearing)
func (w *WalletService) Credit(mobile, amount, currency, reference string) error {
	return w.post("/wallets/credit", ledgerRequest{
		Mobile: mobile, Amount: amount, Currency: currency, Reference: reference,
	}, nil)
}

// Debit removes funds from a wallet (withdrawal settlement)
func (w *WalletService) Debit(mobile, amount, currency, reference string) error {
	return w.post("/wallets/debit", ledgerRequest{
		Mobile: mobile, Amount: amount, Currency: currency, Reference: reference,
	}, nil)
}

func (w *WalletService) post(path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create wallet request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("wallet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("❌ Wallet %s failed (%d): %s", path, resp.StatusCode, string(raw))
		return fmt.Errorf("wallet API error: status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode wallet response: %w", err)
		}
	}
	return nil
}

func (w *WalletService) markFailed(txn *models.Transaction, cause error) {
	txn.Status = models.TxnStatusFailed
	txn.FailReason = cause.Error()
	if err := w.store.UpdateTransaction(txn); err != nil {
		log.Printf("⚠️ Failed to mark transaction %s failed: %v", txn.Reference, err)
	}
}
