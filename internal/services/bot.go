package services

import (
	"log"
	"strings"
	"sync"

	"github.com/byn2/byn2-backend/internal/auth"
	"github.com/byn2/byn2-backend/internal/models"
	"github.com/byn2/byn2-backend/internal/storage"
)

// Incoming is one inbound chat message, already flattened from the
// webhook payload. ReplyID carries a button or list selection; Text
// carries free-typed input. At most one of the two is meaningful.
type Incoming struct {
	From    string
	Name    string
	Text    string
	ReplyID string
}

// BotService drives the conversational state machine: one inbound
// message in, state mutation plus outbound templated messages out.
type BotService struct {
	store     storage.Store
	tokens    *auth.TokenService
	messenger Messenger
	wallet    Wallet
	provider  MoneyProvider
	converter Converter
	notifier  Notifier

	// Per-conversation single flight. The transport usually serializes
	// messages per user but does not guarantee it; without this, two
	// concurrent deliveries race on read-modify-write of the intent.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBotService creates the bot engine with its collaborators
func NewBotService(
	store storage.Store,
	tokens *auth.TokenService,
	messenger Messenger,
	wallet Wallet,
	provider MoneyProvider,
	converter Converter,
	notifier Notifier,
) *BotService {
	return &BotService{
		store:     store,
		tokens:    tokens,
		messenger: messenger,
		wallet:    wallet,
		provider:  provider,
		converter: converter,
		notifier:  notifier,
		locks:     make(map[string]*sync.Mutex),
	}
}

// HandleMessage processes one inbound message end to end. It never
// returns an error to the webhook layer: failures are logged and the
// user gets an apology template, so the transport always sees success
// and does not redeliver.
func (b *BotService) HandleMessage(in Incoming) {
	in.From = normalizeMobile(in.From)
	if in.From == "" {
		log.Printf("⚠️ Dropping message with empty sender")
		return
	}

	lock := b.sessionLock(in.From)
	lock.Lock()
	defer lock.Unlock()

	if err := b.handle(in); err != nil {
		log.Printf("❌ Bot error for %s: %v", in.From, err)
		if sendErr := b.messenger.Send(GenericErrorMessage(in.From)); sendErr != nil {
			log.Printf("❌ Failed to send error message to %s: %v", in.From, sendErr)
		}
	}
}

func (b *BotService) handle(in Incoming) error {
	user, intent, handled, err := b.resolveSession(in)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	if cmd, ok := ParseGlobalCommand(in.Text); ok {
		consumed, err := b.handleGlobalCommand(cmd, user, intent)
		if consumed || err != nil {
			return err
		}
	}

	switch intent.Intent {
	case models.IntentStart:
		return b.handleStart(user, intent, in)
	case models.IntentDeposit:
		return b.handleDeposit(user, intent, in)
	case models.IntentWithdraw:
		return b.handleWithdraw(user, intent, in)
	case models.IntentTransfer:
		return b.handleTransfer(user, intent, in)
	case models.IntentCheckBalance:
		return b.handleCheckBalance(user, intent)
	default:
		log.Printf("⚠️ Unknown intent %q for %s, resetting", intent.Intent, user.MobileNumber)
		if err := b.resetIntent(intent, models.StatusPending); err != nil {
			return err
		}
		return b.messenger.Send(MainMenu(user.MobileNumber, user.Name))
	}
}

// handleStart interprets the main-menu selection and enters a flow
func (b *BotService) handleStart(user *models.User, intent *models.BotIntent, in Incoming) error {
	switch in.ReplyID {
	case MenuDeposit:
		if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
			"intent": models.IntentDeposit,
			"step":   models.StepRouting,
		}); err != nil {
			return err
		}
		return b.messenger.Send(DepositMethodMessage(user.MobileNumber))

	case MenuWithdraw:
		if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
			"intent": models.IntentWithdraw,
			"step":   models.StepRouting,
		}); err != nil {
			return err
		}
		return b.messenger.Send(WithdrawMethodMessage(user.MobileNumber))

	case MenuSend:
		if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
			"intent": models.IntentTransfer,
			"step":   models.StepRouting,
		}); err != nil {
			return err
		}
		return b.messenger.Send(TransferCurrencyMessage(user.MobileNumber))

	case MenuBalance:
		if err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
			"intent": models.IntentCheckBalance,
		}); err != nil {
			return err
		}
		intent.Intent = models.IntentCheckBalance
		return b.handleCheckBalance(user, intent)
	}

	// Free text (or an unexpected reply) from the start state: point
	// the user at the menu.
	return b.messenger.Send(MainMenu(user.MobileNumber, user.Name))
}

// finishFlow marks the conversation terminal and clears the collected
// fields. The record is superseded on the next turn; a fresh message
// always starts clean.
func (b *BotService) finishFlow(intent *models.BotIntent, status models.IntentStatus) error {
	return b.resetIntent(intent, status)
}

// resetIntent returns the live record to the start state with every
// collected field cleared. This is conversational bookkeeping only:
// settlement truth lives on the transaction rows.
func (b *BotService) resetIntent(intent *models.BotIntent, status models.IntentStatus) error {
	err := b.store.UpdateBotIntent(intent.ID, map[string]interface{}{
		"intent":        models.IntentStart,
		"intent_option": models.IntentOption(""),
		"step":          models.StepEntry,
		"amount":        "",
		"number":        "",
		"currency":      "",
		"payer":         "",
		"ussd":          "",
		"status":        status,
	})
	if err != nil {
		return err
	}
	intent.Intent = models.IntentStart
	intent.IntentOption = ""
	intent.Step = models.StepEntry
	intent.Amount = ""
	intent.Number = ""
	intent.Currency = ""
	intent.Payer = ""
	intent.USSDCode = ""
	intent.Status = status
	return nil
}

func (b *BotService) sessionLock(mobile string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.locks[mobile]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[mobile] = lock
	}
	return lock
}

func normalizeMobile(mobile string) string {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return ""
	}
	if !strings.HasPrefix(mobile, "+") {
		mobile = "+" + mobile
	}
	return mobile
}
