package services

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byn2/byn2-backend/internal/auth"
	"github.com/byn2/byn2-backend/internal/models"
	"github.com/byn2/byn2-backend/internal/storage"
)

// Test fakes

type fakeMessenger struct {
	sent []Message
}

func (f *fakeMessenger) SendText(to, body string) error {
	return f.Send(Message{Type: MessageText, To: to, Body: body})
}

func (f *fakeMessenger) Send(msg Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMessenger) last() Message {
	if len(f.sent) == 0 {
		return Message{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) reset() {
	f.sent = nil
}

type transferCall struct {
	from, to, amount, currency string
}

type fakeWallet struct {
	balance     float64
	transfers   []transferCall
	transferErr error
	debits      []string
	credits     []string
}

func (f *fakeWallet) Balance(mobile, currency string) (float64, error) {
	return f.balance, nil
}

func (f *fakeWallet) Transfer(from, to, amount, currency string) (float64, error) {
	if f.transferErr != nil {
		return 0, f.transferErr
	}
	f.transfers = append(f.transfers, transferCall{from, to, amount, currency})
	received, _ := strconv.ParseFloat(amount, 64)
	return received, nil
}

func (f *fakeWallet) Credit(mobile, amount, currency, reference string) error {
	f.credits = append(f.credits, reference)
	return nil
}

func (f *fakeWallet) Debit(mobile, amount, currency, reference string) error {
	f.debits = append(f.debits, reference)
	return nil
}

type depositCall struct {
	mobile, amount, currency string
}

type fakeProvider struct {
	deposits   []depositCall
	payouts    []depositCall
	depositErr error
	payoutErr  error
}

func (f *fakeProvider) RequestDeposit(mobile, amount, currency string) (*models.Transaction, error) {
	if f.depositErr != nil {
		return nil, f.depositErr
	}
	f.deposits = append(f.deposits, depositCall{mobile, amount, currency})
	return &models.Transaction{
		Reference:    fmt.Sprintf("dep-%d", len(f.deposits)),
		MobileNumber: mobile,
		Type:         models.TxnTypeDeposit,
		Amount:       amount,
		Currency:     currency,
		USSDCode:     "*715*99#",
	}, nil
}

func (f *fakeProvider) Payout(mobile, amount, currency string) (*models.Transaction, error) {
	if f.payoutErr != nil {
		return nil, f.payoutErr
	}
	f.payouts = append(f.payouts, depositCall{mobile, amount, currency})
	return &models.Transaction{
		Reference:    fmt.Sprintf("pay-%d", len(f.payouts)),
		MobileNumber: mobile,
		Type:         models.TxnTypeWithdraw,
		Amount:       amount,
		Currency:     currency,
	}, nil
}

type identityConverter struct{}

func (identityConverter) Convert(amount float64, from, to string) (float64, error) {
	return amount, nil
}

type fakeNotifier struct {
	sms []string
}

func (f *fakeNotifier) NotifySMS(to, body string) error {
	f.sms = append(f.sms, to)
	return nil
}

// Harness

const testMobile = "+23276123456"

type botFixture struct {
	bot       *BotService
	store     *storage.MemoryStore
	messenger *fakeMessenger
	wallet    *fakeWallet
	provider  *fakeProvider
	notifier  *fakeNotifier
}

func newFixture(t *testing.T) *botFixture {
	t.Helper()
	store := storage.NewMemoryStore()
	messenger := &fakeMessenger{}
	wallet := &fakeWallet{balance: 10_000}
	provider := &fakeProvider{}
	notifier := &fakeNotifier{}
	bot := NewBotService(
		store,
		auth.NewTokenServiceWithSecret("test-secret"),
		messenger,
		wallet,
		provider,
		identityConverter{},
		notifier,
	)
	return &botFixture{bot: bot, store: store, messenger: messenger, wallet: wallet, provider: provider, notifier: notifier}
}

// onboard drives first contact and the get-started button so further
// messages land in a live start conversation.
func (f *botFixture) onboard(t *testing.T) {
	t.Helper()
	f.bot.HandleMessage(Incoming{From: testMobile, Name: "Aminata", Text: "hi"})
	f.bot.HandleMessage(Incoming{From: testMobile, ReplyID: BtnGetStarted})
	f.messenger.reset()
}

func (f *botFixture) text(body string) {
	f.bot.HandleMessage(Incoming{From: testMobile, Text: body})
}

func (f *botFixture) reply(id string) {
	f.bot.HandleMessage(Incoming{From: testMobile, ReplyID: id})
}

// liveIntent fetches the record behind the user's current session token
func (f *botFixture) liveIntent(t *testing.T) *models.BotIntent {
	t.Helper()
	user, err := f.store.GetUserByMobile(testMobile)
	require.NoError(t, err)
	intent, err := f.store.GetBotIntentBySession(user.SessionToken)
	require.NoError(t, err)
	return intent
}

// Session resolution

func TestFirstContactCreatesUserAndWelcomes(t *testing.T) {
	f := newFixture(t)

	f.bot.HandleMessage(Incoming{From: testMobile, Name: "Aminata", Text: "hello"})

	user, err := f.store.GetUserByMobile(testMobile)
	require.NoError(t, err)
	assert.Equal(t, "Aminata", user.Name)
	assert.NotEmpty(t, user.SessionToken)
	assert.NotEmpty(t, user.AuthToken)

	intent := f.liveIntent(t)
	assert.Equal(t, models.IntentStart, intent.Intent)
	assert.Equal(t, models.StepEntry, intent.Step)

	require.Len(t, f.messenger.sent, 1)
	welcome := f.messenger.sent[0]
	assert.Equal(t, MessageButtons, welcome.Type)
	require.Len(t, welcome.Buttons, 1)
	assert.Equal(t, BtnGetStarted, welcome.Buttons[0].ID)
}

func TestGetStartedButtonSendsOnboarding(t *testing.T) {
	f := newFixture(t)
	f.text("hello")
	f.messenger.reset()

	f.reply(BtnGetStarted)

	require.Len(t, f.messenger.sent, 1)
	assert.Equal(t, MessageText, f.messenger.last().Type)
	assert.Contains(t, f.messenger.last().Body, "ready")
}

func TestFreeTextFromStartShowsMenu(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.text("what can you do")

	menu := f.messenger.last()
	assert.Equal(t, MessageList, menu.Type)
	ids := make([]string, 0, len(menu.Rows))
	for _, row := range menu.Rows {
		ids = append(ids, row.ID)
	}
	assert.ElementsMatch(t, []string{MenuDeposit, MenuWithdraw, MenuSend, MenuBalance}, ids)
}

func TestTerminalIntentIsSupersededNextTurn(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.reply(MenuBalance)
	firstIntent := f.liveIntent(t)
	assert.Equal(t, models.StatusSuccess, firstIntent.Status)

	f.text("hello again")
	second := f.liveIntent(t)
	assert.NotEqual(t, firstIntent.ID, second.ID)
	assert.Equal(t, models.IntentStart, second.Intent)
	assert.Equal(t, models.StatusPending, second.Status)
}

// Deposit round-trip

func TestDepositRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.reply(MenuDeposit)
	assert.Equal(t, models.IntentDeposit, f.liveIntent(t).Intent)
	assert.Equal(t, models.StepRouting, f.liveIntent(t).Step)

	f.reply(DepositMobileMoney)
	assert.Equal(t, models.OptionMobileMoney, f.liveIntent(t).IntentOption)

	f.reply(PayerSelf)
	intent := f.liveIntent(t)
	assert.Equal(t, testMobile, intent.Number)
	assert.Equal(t, models.StepAmount, intent.Step)

	f.text("100")
	assert.Equal(t, models.StepConfirm, f.liveIntent(t).Step)

	f.reply(ConfirmYes)

	require.Len(t, f.provider.deposits, 1)
	assert.Equal(t, "100", f.provider.deposits[0].amount)
	assert.Equal(t, testMobile, f.provider.deposits[0].mobile)

	final := f.liveIntent(t)
	assert.Equal(t, models.IntentStart, final.Intent)
	assert.Equal(t, models.StepEntry, final.Step)
	assert.Empty(t, final.Amount)
	assert.Empty(t, final.Number)
	assert.Equal(t, models.StatusSuccess, final.Status)

	assert.Contains(t, f.messenger.last().Body, "*715*99#")
}

func TestDepositComingSoonOptionsReset(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.reply(MenuDeposit)
	f.reply(DepositCrypto)

	intent := f.liveIntent(t)
	assert.Equal(t, models.IntentStart, intent.Intent)
	assert.Equal(t, models.StepEntry, intent.Step)
	assert.Contains(t, f.messenger.last().Body, "isn't available")
}

func TestDepositInvalidAmountDoesNotAdvance(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.reply(MenuDeposit)
	f.reply(DepositMobileMoney)
	f.reply(PayerSelf)

	f.text("a lot")
	intent := f.liveIntent(t)
	assert.Equal(t, models.StepAmount, intent.Step)
	assert.Empty(t, intent.Amount)

	f.text("0")
	assert.Equal(t, models.StepAmount, f.liveIntent(t).Step)

	f.text("100")
	assert.Equal(t, models.StepConfirm, f.liveIntent(t).Step)
}

func TestDepositFailureResetsAndApologizes(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)
	f.provider.depositErr = fmt.Errorf("provider down")

	f.reply(MenuDeposit)
	f.reply(DepositMobileMoney)
	f.reply(PayerSelf)
	f.text("100")
	f.reply(ConfirmYes)

	intent := f.liveIntent(t)
	assert.Equal(t, models.IntentStart, intent.Intent)
	assert.Equal(t, models.StepEntry, intent.Step)
	assert.Equal(t, models.StatusPending, intent.Status)
	assert.Contains(t, f.messenger.last().Body, "No money has moved")
}
