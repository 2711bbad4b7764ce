package services

import (
	"log"
	"strings"

	"github.com/byn2/byn2-backend/internal/models"
	"github.com/byn2/byn2-backend/internal/utils"
)

// handleDeposit advances the deposit state machine by one turn.
//
// Step 1 collects the method and the paying number, step 2 the amount,
// step 3 the confirmation. Invalid input re-prompts without advancing.
func (b *BotService) handleDeposit(user *models.User, intent *models.BotIntent, in Incoming) error {
	switch intent.Step {
	case models.StepRouting:
		return b.depositRouting(user, intent, in)
	case models.StepAmount:
		return b.depositAmount(user, intent, in)
	case models.StepConfirm:
		return b.depositConfirm(user, intent, in)
	}
	// A deposit intent with no live step means the record drifted;
	// start the flow over.
	if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"step": models.StepRouting,
	}); err != nil {
		return err
	}
	return b.messenger.Send(DepositMethodMessage(user.MobileNumber))
}

func (b *BotService) depositRouting(user *models.User, intent *models.BotIntent, in Incoming) error {
	// Sub-state a: method not chosen yet.
	if intent.IntentOption == "" {
		switch in.ReplyID {
		case DepositMobileMoney:
			if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
				"intent_option": models.OptionMobileMoney,
				"currency":      user.Currency,
			}); err != nil {
				return err
			}
			return b.messenger.Send(DepositPayerMessage(user.MobileNumber))

		case DepositCrypto:
			if err := b.resetIntent(intent, models.StatusPending); err != nil {
				return err
			}
			return b.messenger.Send(ComingSoonMessage(user.MobileNumber, "Crypto deposit"))

		case DepositBankTransfer:
			if err := b.resetIntent(intent, models.StatusPending); err != nil {
				return err
			}
			return b.messenger.Send(ComingSoonMessage(user.MobileNumber, "Bank transfer deposit"))
		}
		return b.messenger.Send(InvalidInputMessage(user.MobileNumber))
	}

	// Sub-state b: payer not chosen yet.
	if intent.Payer == "" {
		switch in.ReplyID {
		case PayerSelf:
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

	// Sub-state c: waiting on the other payer's number.
	if !utils.IsValidPhoneNumber(in.Text) {
		return b.messenger.Send(InvalidNumberMessage(user.MobileNumber))
	}
	number := utils.StripPhoneNumber(in.Text)
	if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"number": number,
		"step":   models.StepAmount,
	}); err != nil {
		return err
	}
	return b.messenger.Send(AskAmountMessage(user.MobileNumber, intent.Currency))
}

func (b *BotService) depositAmount(user *models.User, intent *models.BotIntent, in Incoming) error {
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
	return b.messenger.Send(DepositConfirmMessage(user.MobileNumber, amount, intent.Currency, intent.Number))
}

func (b *BotService) depositConfirm(user *models.User, intent *models.BotIntent, in Incoming) error {
	switch in.ReplyID {
	case ConfirmYes:
		txn, err := b.provider.RequestDeposit(intent.Number, intent.Amount, intent.Currency)
		if err != nil {
			log.Printf("❌ Deposit failed for %s: %v", user.MobileNumber, err)
			if resetErr := b.resetIntent(intent, models.StatusPending); resetErr != nil {
				return resetErr
			}
			return b.messenger.Send(FailedOperationMessage(user.MobileNumber))
		}
		if err := b.finishFlow(intent, models.StatusSuccess); err != nil {
			return err
		}
		return b.messenger.Send(DepositSuccessMessage(user.MobileNumber, txn.USSDCode))

	case ConfirmCancel:
		if err := b.finishFlow(intent, models.StatusCancel); err != nil {
			return err
		}
		return b.messenger.Send(CancelAckMessage(user.MobileNumber))
	}
	return b.messenger.Send(InvalidInputMessage(user.MobileNumber))
}
