package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/byn2/byn2-backend/internal/models"
	"github.com/byn2/byn2-backend/internal/storage"
	"github.com/byn2/byn2-backend/internal/utils"
)

// handleTransfer advances the send-money state machine by one turn.
//
// The currency choice at step 1 decides the copy for the rest of the
// flow; the step shape itself is shared between SLE and USD.
func (b *BotService) handleTransfer(user *models.User, intent *models.BotIntent, in Incoming) error {
	switch intent.Step {
	case models.StepRouting:
		return b.transferRouting(user, intent, in)
	case models.StepAmount:
		return b.transferAmount(user, intent, in)
	case models.StepConfirm:
		return b.transferConfirm(user, intent, in)
	}
	if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"step": models.StepRouting,
	}); err != nil {
		return err
	}
	return b.messenger.Send(TransferCurrencyMessage(user.MobileNumber))
}

func (b *BotService) transferRouting(user *models.User, intent *models.BotIntent, in Incoming) error {
	// Sub-state a: currency not chosen yet.
	if intent.Currency == "" {
		var currency string
		switch in.ReplyID {
		case SendLeones:
			currency = "SLE"
		case SendDollars:
			currency = "USD"
		default:
			return b.messenger.Send(InvalidInputMessage(user.MobileNumber))
		}
		if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
			"currency": currency,
		}); err != nil {
			return err
		}
		return b.messenger.Send(TransferNumberMessage(user.MobileNumber, currency))
	}

	// Sub-state b: waiting on the recipient's number.
	if !utils.IsValidPhoneNumber(in.Text) {
		return b.messenger.Send(InvalidNumberMessage(user.MobileNumber))
	}
	number := utils.StripPhoneNumber(in.Text)
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"number": number,
		"step":   models.StepAmount,
	}); err != nil {
		return err
	}
	return b.messenger.Send(TransferAmountMessage(user.MobileNumber, intent.Currency))
}

func (b *BotService) transferAmount(user *models.User, intent *models.BotIntent, in Incoming) error {
	if !utils.IsValidAmount(in.Text) {
		return b.messenger.Send(InvalidAmountMessage(user.MobileNumber))
	}
	amount := strings.TrimSpace(in.Text)
	if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"amount": amount,
		"step":   models.StepConfirm,
	}); err != nil {
		return err
	}
	return b.messenger.Send(TransferConfirmMessage(user.MobileNumber, amount, intent.Currency, intent.Number))
}

func (b *BotService) transferConfirm(user *models.User, intent *models.BotIntent, in Incoming) error {
	switch in.ReplyID {
	case ConfirmYes:
		received, err := b.wallet.Transfer(user.MobileNumber, intent.Number, intent.Amount, intent.Currency)
		if err != nil {
			log.Printf("❌ Transfer failed for %s: %v", user.MobileNumber, err)
			if resetErr := b.resetIntent(intent, models.StatusPending); resetErr != nil {
				return resetErr
			}
			return b.messenger.Send(FailedOperationMessage(user.MobileNumber))
		}

		amount, currency, number := intent.Amount, intent.Currency, intent.Number
		if err := b.finishFlow(intent, models.StatusSuccess); err != nil {
			return err
		}
		if err := b.messenger.Send(TransferSuccessMessage(user.MobileNumber, amount, currency, number, received)); err != nil {
			return err
		}
		b.notifyRecipient(user, number, amount, currency)
		return nil

	case ConfirmCancel:
		if err := b.finishFlow(intent, models.StatusCancel); err != nil {
			return err
		}
		return b.messenger.Send(CancelAckMessage(user.MobileNumber))
	}
	return b.messenger.Send(InvalidInputMessage(user.MobileNumber))
}

// notifyRecipient tells the other side money arrived: on WhatsApp if
// they are a Byn2 user, by SMS otherwise. Best effort.
func (b *BotService) notifyRecipient(sender *models.User, number, amount, currency string) {
	body := fmt.Sprintf("💸 You received %s %s from %s on Byn2!", amount, currency, sender.Name)

	if _, err := b.store.GetUserByMobile(number); err == nil {
		if err := b.messenger.SendText(number, body); err != nil {
			log.Printf("⚠️ Failed to notify recipient %s on WhatsApp: %v", number, err)
		}
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("⚠️ Recipient lookup failed for %s: %v", number, err)
		return
	}

	if b.notifier == nil {
		return
	}
	if err := b.notifier.NotifySMS(number, body+" Message us on WhatsApp to claim your wallet."); err != nil {
		log.Printf("⚠️ Failed to notify recipient %s by SMS: %v", number, err)
	}
}
