package services

import (
	"fmt"

	"github.com/byn2/byn2-backend/internal/models"
)

// handleCheckBalance is the single-step balance flow: fetch, convert,
// report, finish. No multi-turn state.
func (b *BotService) handleCheckBalance(user *models.User, intent *models.BotIntent) error {
	if err := b.sendBalance(user); err != nil {
		return err
	}
	return b.finishFlow(intent, models.StatusSuccess)
}

// sendBalance reports the user's converted balance without touching
// conversation state. The global balance keyword uses this directly so
// a mid-flow check does not derail the flow.
func (b *BotService) sendBalance(user *models.User) error {
	balance, err := b.convertedBalance(user)
	if err != nil {
		return fmt.Errorf("failed to fetch balance for %s: %w", user.MobileNumber, err)
	}
	return b.messenger.Send(BalanceMessage(user.MobileNumber, balance, user.Currency))
}
