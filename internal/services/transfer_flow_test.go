package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byn2/byn2-backend/internal/models"
)

const recipientMobile = "+23277999888"

func TestTransferRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.reply(MenuSend)
	assert.Equal(t, models.IntentTransfer, f.liveIntent(t).Intent)

	f.reply(SendLeones)
	assert.Equal(t, "SLE", f.liveIntent(t).Currency)

	f.text(recipientMobile)
	intent := f.liveIntent(t)
	assert.Equal(t, recipientMobile, intent.Number)
	assert.Equal(t, models.StepAmount, intent.Step)

	f.text("250")
	assert.Equal(t, models.StepConfirm, f.liveIntent(t).Step)

	f.reply(ConfirmYes)

	require.Len(t, f.wallet.transfers, 1)
	call := f.wallet.transfers[0]
	assert.Equal(t, testMobile, call.from)
	assert.Equal(t, recipientMobile, call.to)
	assert.Equal(t, "250", call.amount)
	assert.Equal(t, "SLE", call.currency)

	final := f.liveIntent(t)
	assert.Equal(t, models.IntentStart, final.Intent)
	assert.Equal(t, models.StepEntry, final.Step)
	assert.Equal(t, models.StatusSuccess, final.Status)

	// Recipient is not a Byn2 user: they get the SMS invite.
	require.Len(t, f.notifier.sms, 1)
	assert.Equal(t, recipientMobile, f.notifier.sms[0])
}

func TestTransferUSDCopy(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.reply(MenuSend)
	f.reply(SendDollars)

	assert.Equal(t, "USD", f.liveIntent(t).Currency)
	assert.Contains(t, f.messenger.last().Body, "Dollars")
}

func TestTransferNotifiesRecipientOnWhatsApp(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	// Recipient already has a wallet.
	_, err := f.store.CreateUser(&models.User{MobileNumber: recipientMobile, Name: "Musa"})
	require.NoError(t, err)

	f.reply(MenuSend)
	f.reply(SendLeones)
	f.text(recipientMobile)
	f.text("250")
	f.reply(ConfirmYes)

	assert.Empty(t, f.notifier.sms)
	notified := f.messenger.last()
	assert.Equal(t, recipientMobile, notified.To)
	assert.Contains(t, notified.Body, "received 250 SLE")
}

func TestTransferInvalidConfirmLeavesIntentUntouched(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.reply(MenuSend)
	f.reply(SendLeones)
	f.text(recipientMobile)
	f.text("250")
	before := f.liveIntent(t)

	f.reply("bogus_button")

	after := f.liveIntent(t)
	assert.Equal(t, before.Step, after.Step)
	assert.Equal(t, before.Amount, after.Amount)
	assert.Equal(t, before.Number, after.Number)
	assert.Equal(t, before.Status, after.Status)
	assert.Empty(t, f.wallet.transfers)
	assert.Contains(t, f.messenger.last().Body, "didn't catch that")
}

func TestGlobalCancelMidTransfer(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.reply(MenuSend)
	f.reply(SendLeones)
	f.text(recipientMobile)
	f.text("250")
	require.Equal(t, models.StepConfirm, f.liveIntent(t).Step)
	f.messenger.reset()

	f.text("cancel")

	assert.Empty(t, f.wallet.transfers, "cancel must short-circuit before flow logic")

	fresh := f.liveIntent(t)
	assert.Equal(t, models.IntentStart, fresh.Intent)
	assert.Equal(t, models.StepEntry, fresh.Step)

	require.Len(t, f.messenger.sent, 2)
	assert.Contains(t, f.messenger.sent[0].Body, "cancelled")
	assert.Equal(t, MessageList, f.messenger.sent[1].Type)
}

func TestTransferInvalidRecipientNumber(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)

	f.reply(MenuSend)
	f.reply(SendLeones)

	f.text("not a number")

	intent := f.liveIntent(t)
	assert.Equal(t, models.StepRouting, intent.Step)
	assert.Empty(t, intent.Number)
	assert.Contains(t, f.messenger.last().Body, "valid phone number")
}
