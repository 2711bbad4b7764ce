package services

import (
	"fmt"
	"strings"
	"sync"
)

// Converter quotes exchange between the wallet currencies
type Converter interface {
	Convert(amount float64, from, to string) (float64, error)
}

// CurrencyService converts between SLE and USD from an in-memory rate
// table. Rates are quoted as units of SLE per one unit of the currency
// and can be refreshed at runtime.
type CurrencyService struct {
	mu    sync.RWMutex
	rates map[string]float64
}

// NewCurrencyService creates a converter with the default rate table
func NewCurrencyService() *CurrencyService {
	return &CurrencyService{
		rates: map[string]float64{
			"SLE": 1,
			"USD": 22.50,
		},
	}
}

// SetRate updates the SLE rate for a currency
func (c *CurrencyService) SetRate(currency string, rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("rate must be positive, got %f", rate)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[strings.ToUpper(currency)] = rate
	return nil
}

// Convert exchanges an amount between two supported currencies
func (c *CurrencyService) Convert(amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	c.mu.RLock()
	defer c.mu.RUnlock()

	fromRate, ok := c.rates[from]
	if !ok {
		return 0, fmt.Errorf("unsupported currency: %s", from)
	}
	toRate, ok := c.rates[to]
	if !ok {
		return 0, fmt.Errorf("unsupported currency: %s", to)
	}

	if from == to {
		return amount, nil
	}
	return amount * fromRate / toRate, nil
}
