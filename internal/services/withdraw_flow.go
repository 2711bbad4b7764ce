package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/byn2/byn2-backend/internal/models"
	"github.com/byn2/byn2-backend/internal/utils"
)

// handleWithdraw advances the withdraw state machine by one turn.
//
// Same shape as deposit, with two extra gates: the receiving number
// must belong to an operator we can pay out through, and the amount
// must fit inside the user's converted wallet balance. Both gates
// re-prompt without advancing the step.
func (b *BotService) handleWithdraw(user *models.User, intent *models.BotIntent, in Incoming) error {
	switch intent.Step {
	case models.StepRouting:
		return b.withdrawRouting(user, intent, in)
	case models.StepAmount:
		return b.withdrawAmount(user, intent, in)
	case models.StepConfirm:
		return b.withdrawConfirm(user, intent, in)
	}
	if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"step": models.StepRouting,
	}); err != nil {
		return err
	}
	return b.messenger.Send(WithdrawMethodMessage(user.MobileNumber))
}

func (b *BotService) withdrawRouting(user *models.User, intent *models.BotIntent, in Incoming) error {
	// Sub-state a: cash-out method not chosen yet.
	if intent.IntentOption == "" {
		switch in.ReplyID {
		case WithdrawMobileMoney:
			if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
				"intent_option": models.OptionMobileMoney,
				"currency":      user.Currency,
			}); err != nil {
				return err
			}
			return b.messenger.Send(WithdrawReceiverMessage(user.MobileNumber))

		case WithdrawMoneyGram:
			if err := b.resetIntent(intent, models.StatusPending); err != nil {
				return err
			}
			return b.messenger.Send(ComingSoonMessage(user.MobileNumber, "MoneyGram withdrawal"))
		}
		return b.messenger.Send(InvalidInputMessage(user.MobileNumber))
	}

	// Sub-state b: receiver not chosen yet.
	if intent.Payer == "" {
		switch in.ReplyID {
		case PayerSelf:
			if !IsSupportedOperator(user.MobileNumber) {
				return b.messenger.Send(UnsupportedNumberMessage(user.MobileNumber))
			}
			if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
				"payer":  "self",
				"number": user.MobileNumber,
				"step":   models.StepAmount,
			}); err != nil {
				return err
			}
			return b.messenger.Send(AskAmountMessage(user.MobileNumber, intent.Currency))

		case PayerOther:
			if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
				"payer": "other",
			}); err != nil {
				return err
			}
			return b.messenger.Send(AskNumberMessage(user.MobileNumber))
		}
		return b.messenger.Send(InvalidInputMessage(user.MobileNumber))
	}

	// Sub-state c: waiting on the receiving number. The unsupported
	// template re-offers the "different number" button, so accept that
	// reply here as a re-prompt.
	if in.ReplyID == PayerOther {
		return b.messenger.Send(AskNumberMessage(user.MobileNumber))
	}
	if !utils.IsValidPhoneNumber(in.Text) {
		return b.messenger.Send(InvalidNumberMessage(user.MobileNumber))
	}
	number := utils.StripPhoneNumber(in.Text)
	if !IsSupportedOperator(number) {
		return b.messenger.Send(UnsupportedNumberMessage(user.MobileNumber))
	}
	if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"number": number,
		"step":   models.StepAmount,
	}); err != nil {
		return err
	}
	return b.messenger.Send(AskAmountMessage(user.MobileNumber, intent.Currency))
}

func (b *BotService) withdrawAmount(user *models.User, intent *models.BotIntent, in Incoming) error {
	if !utils.IsValidAmount(in.Text) {
		return b.messenger.Send(InvalidAmountMessage(user.MobileNumber))
	}
	amount := strings.TrimSpace(in.Text)
	requested, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return b.messenger.Send(InvalidAmountMessage(user.MobileNumber))
	}

	balance, err := b.convertedBalance(user)
	if err != nil {
		return fmt.Errorf("failed to fetch balance for %s: %w", user.MobileNumber, err)
	}
	if requested > balance {
		return b.messenger.Send(InsufficientBalanceMessage(
			user.MobileNumber,
			strconv.FormatFloat(balance, 'f', 2, 64),
			amount,
			intent.Currency,
		))
	}

	if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"amount": amount,
		"step":   models.StepConfirm,
	}); err != nil {
		return err
	}
	return b.messenger.Send(WithdrawConfirmMessage(user.MobileNumber, amount, intent.Currency, intent.Number))
}

func (b *BotService) withdrawConfirm(user *models.User, intent *models.BotIntent, in Incoming) error {
	switch in.ReplyID {
	case ConfirmYes:
		txn, err := b.provider.Payout(intent.Number, intent.Amount, intent.Currency)
		if err != nil {
			log.Printf("❌ Withdrawal failed for %s: %v", user.MobileNumber, err)
			if resetErr := b.resetIntent(intent, models.StatusPending); resetErr != nil {
				return resetErr
			}
			return b.messenger.Send(FailedOperationMessage(user.MobileNumber))
		}
		if err := b.wallet.Debit(user.MobileNumber, intent.Amount, intent.Currency, txn.Reference); err != nil {
			// Payout already left; settlement reconciles from the
			// transaction row. Log loudly and keep going.
			log.Printf("🚨 Wallet debit failed after payout %s: %v", txn.Reference, err)
		}
		amount, currency := intent.Amount, intent.Currency
		if err := b.finishFlow(intent, models.StatusSuccess); err != nil {
			return err
		}
		return b.messenger.Send(WithdrawSuccessMessage(user.MobileNumber, amount, currency))

	case ConfirmCancel:
		if err := b.finishFlow(intent, models.StatusCancel); err != nil {
			return err
		}
		return b.messenger.Send(CancelAckMessage(user.MobileNumber))
	}
	return b.messenger.Send(InvalidInputMessage(user.MobileNumber))
}

// convertedBalance returns the wallet balance in the user's fiat
// currency. The wallet core quotes in USD; conversion happens here.
func (b *BotService) convertedBalance(user *models.User) (float64, error) {
	raw, err := b.wallet.Balance(user.MobileNumber, "USD")
	if err != nil {
		return 0, err
	}
	return b.converter.Convert(raw, "USD", user.Currency)
}
