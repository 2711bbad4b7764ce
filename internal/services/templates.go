package services

import (
	"fmt"
)

// Reply IDs the interactive templates can produce. Every flow handler
// validates incoming reply IDs against these before acting on them.
const (
	BtnGetStarted = "get_started"

	MenuDeposit  = "menu_deposit"
	MenuWithdraw = "menu_withdraw"
	MenuSend     = "menu_send"
	MenuBalance  = "menu_balance"

	DepositMobileMoney  = "deposit_mobile_money"
	DepositCrypto       = "deposit_crypto"
	DepositBankTransfer = "deposit_bank_transfer"

	WithdrawMobileMoney = "withdraw_mobile_money"
	WithdrawMoneyGram   = "withdraw_moneygram"

	PayerSelf  = "payer_self"
	PayerOther = "payer_other"

	SendLeones  = "send_sle"
	SendDollars = "send_usd"

	ConfirmYes    = "confirm_yes"
	ConfirmCancel = "confirm_cancel"
)

// WelcomeMessage greets a first-time user with the get-started button
func WelcomeMessage(to, name string) Message {
	return Message{
		Type:   MessageButtons,
		To:     to,
		Header: "Welcome to Byn2! 👋",
		Body: fmt.Sprintf(`Hi %s! I'm the Byn2 wallet assistant.

I can help you deposit, withdraw, send money and check your balance — all right here on WhatsApp.`, name),
		Footer:  "Tap below to begin",
		Buttons: []Button{{ID: BtnGetStarted, Title: "Get Started"}},
	}
}

// OnboardedMessage congratulates a user who tapped Get Started
func OnboardedMessage(to, name string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: fmt.Sprintf(`🎉 You're all set, %s!

Your Byn2 wallet is ready. Type *menu* any time to see what I can do.`, name),
	}
}

// MainMenu lists the wallet operations
func MainMenu(to, name string) Message {
	body := "What would you like to do today?"
	if name != "" {
		body = fmt.Sprintf("Hi %s! What would you like to do today?", name)
	}
	return Message{
		Type:       MessageList,
		To:         to,
		Header:     "Byn2 Wallet",
		Body:       body,
		Footer:     "Type help for assistance",
		ButtonText: "Menu",
		Rows: []ListRow{
			{ID: MenuDeposit, Title: "Deposit", Description: "Add money to your wallet"},
			{ID: MenuWithdraw, Title: "Withdraw", Description: "Cash out from your wallet"},
			{ID: MenuSend, Title: "Send Money", Description: "Transfer to another wallet"},
			{ID: MenuBalance, Title: "Check Balance", Description: "See what you have"},
		},
	}
}

// SessionResetMessage confirms a restart
func SessionResetMessage(to string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: "🔄 Your session has been reset. Type *menu* to start again.",
	}
}

// CancelAckMessage acknowledges a cancellation
func CancelAckMessage(to string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: "❌ Okay, I've cancelled that for you.",
	}
}

// HelpMessage explains the available commands
func HelpMessage(to string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: `💡 *Byn2 Help*

Here's what I understand:

📥 *Deposit* - Add money via mobile money
📤 *Withdraw* - Cash out to a mobile money number
💸 *Send Money* - Transfer to another Byn2 wallet
💰 *Balance* - Check your wallet balance

You can always type:
• *menu* - Show the main menu
• *restart* - Start over
• *cancel* - Cancel what we're doing
• *balance* - Quick balance check`,
	}
}

// Deposit flow templates

func DepositMethodMessage(to string) Message {
	return Message{
		Type:       MessageList,
		To:         to,
		Header:     "Deposit",
		Body:       "How would you like to add money to your wallet?",
		ButtonText: "Choose method",
		Rows: []ListRow{
			{ID: DepositMobileMoney, Title: "Mobile Money", Description: "Orange Money, Afrimoney"},
			{ID: DepositCrypto, Title: "Crypto", Description: "Coming soon"},
			{ID: DepositBankTransfer, Title: "Bank Transfer", Description: "Coming soon"},
		},
	}
}

func DepositPayerMessage(to string) Message {
	return Message{
		Type: MessageButtons,
		To:   to,
		Body: "Whose mobile money number will the deposit come from?",
		Buttons: []Button{
			{ID: PayerSelf, Title: "My number"},
			{ID: PayerOther, Title: "Another number"},
		},
	}
}

func DepositConfirmMessage(to, amount, currency, number string) Message {
	return Message{
		Type:   MessageButtons,
		To:     to,
		Header: "Confirm Deposit",
		Body: fmt.Sprintf(`Please confirm:

💵 *Amount:* %s %s
📱 *Paying number:* %s

A payment code will be sent to that number.`, amount, currency, number),
		Buttons: []Button{
			{ID: ConfirmYes, Title: "Confirm"},
			{ID: ConfirmCancel, Title: "Cancel"},
		},
	}
}

func DepositSuccessMessage(to, ussd string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: fmt.Sprintf(`✅ *Deposit initiated!*

Dial *%s* on the paying phone to approve the payment.

Your wallet will be credited as soon as the payment clears.`, ussd),
	}
}

// Withdraw flow templates

func WithdrawMethodMessage(to string) Message {
	return Message{
		Type:       MessageList,
		To:         to,
		Header:     "Withdraw",
		Body:       "How would you like to cash out?",
		ButtonText: "Choose method",
		Rows: []ListRow{
			{ID: WithdrawMobileMoney, Title: "Mobile Money", Description: "Orange Money, Afrimoney"},
			{ID: WithdrawMoneyGram, Title: "MoneyGram", Description: "Coming soon"},
		},
	}
}

func WithdrawReceiverMessage(to string) Message {
	return Message{
		Type: MessageButtons,
		To:   to,
		Body: "Which mobile money number should receive the cash?",
		Buttons: []Button{
			{ID: PayerSelf, Title: "My number"},
			{ID: PayerOther, Title: "Another number"},
		},
	}
}

func WithdrawConfirmMessage(to, amount, currency, number string) Message {
	return Message{
		Type:   MessageButtons,
		To:     to,
		Header: "Confirm Withdrawal",
		Body: fmt.Sprintf(`Please confirm:

💵 *Amount:* %s %s
📱 *Receiving number:* %s`, amount, currency, number),
		Buttons: []Button{
			{ID: ConfirmYes, Title: "Confirm"},
			{ID: ConfirmCancel, Title: "Cancel"},
		},
	}
}

func WithdrawSuccessMessage(to, amount, currency string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: fmt.Sprintf(`✅ *Withdrawal on its way!*

%s %s is being sent to the mobile money number you chose. You'll get a confirmation from your operator shortly.`, amount, currency),
	}
}

// UnsupportedNumberMessage re-prompts after an operator we can't pay out to
func UnsupportedNumberMessage(to string) Message {
	return Message{
		Type: MessageButtons,
		To:   to,
		Body: `😞 Sorry, we can't send mobile money to that number's network yet.

Please try a different number.`,
		Buttons: []Button{
			{ID: PayerOther, Title: "Different number"},
		},
	}
}

func InsufficientBalanceMessage(to, balance, amount, currency string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: fmt.Sprintf(`😕 *Not enough balance*

You asked to withdraw %s %s but your wallet holds %s %s.

Enter a smaller amount, or type *cancel* to stop.`, amount, currency, balance, currency),
	}
}

// Transfer flow templates

func TransferCurrencyMessage(to string) Message {
	return Message{
		Type:       MessageList,
		To:         to,
		Header:     "Send Money",
		Body:       "Which currency would you like to send?",
		ButtonText: "Choose currency",
		Rows: []ListRow{
			{ID: SendLeones, Title: "Leones (SLE)", Description: "Send in local currency"},
			{ID: SendDollars, Title: "Dollars (USD)", Description: "Send in US dollars"},
		},
	}
}

func TransferNumberMessage(to, currency string) Message {
	body := "Great, we'll send Leones. 🇸🇱\n\nWhat's the recipient's Byn2 number?\n\nExample: +23276123456"
	if currency == "USD" {
		body = "Great, we'll send Dollars. 💵\n\nWhat's the recipient's Byn2 number?\n\nExample: +23276123456"
	}
	return Message{Type: MessageText, To: to, Body: body}
}

func TransferAmountMessage(to, currency string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: fmt.Sprintf("How much %s would you like to send?\n\nJust type the number (e.g. 100)", currency),
	}
}

func TransferConfirmMessage(to, amount, currency, number string) Message {
	return Message{
		Type:   MessageButtons,
		To:     to,
		Header: "Confirm Transfer",
		Body: fmt.Sprintf(`Please confirm:

💸 *Send:* %s %s
📱 *To:* %s`, amount, currency, number),
		Buttons: []Button{
			{ID: ConfirmYes, Title: "Confirm"},
			{ID: ConfirmCancel, Title: "Cancel"},
		},
	}
}

func TransferSuccessMessage(to, amount, currency, number string, received float64) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: fmt.Sprintf(`✅ *Transfer complete!*

You sent %s %s to %s.
They received %.2f %s.`, amount, currency, number, received, currency),
	}
}

// Balance template

func BalanceMessage(to string, balance float64, currency string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: fmt.Sprintf(`💰 *Your Byn2 balance*

%.2f %s

Type *menu* to deposit, withdraw or send money.`, balance, currency),
	}
}

// Shared prompts and error templates

func AskNumberMessage(to string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: "Please type the mobile money number.\n\nExample: +23276123456",
	}
}

func AskAmountMessage(to, currency string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: fmt.Sprintf("How much %s?\n\nJust type the number (e.g. 100)", currency),
	}
}

func InvalidAmountMessage(to string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: "🤔 That doesn't look like a valid amount. Please type a number between 1 and 1,000,000.\n\nExample: 250",
	}
}

func InvalidNumberMessage(to string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: "🤔 That doesn't look like a valid phone number. Please include the country code.\n\nExample: +23276123456",
	}
}

func InvalidInputMessage(to string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: "🤔 I didn't catch that. Please use the buttons above, or type *menu* to start over.",
	}
}

func ComingSoonMessage(to, feature string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: fmt.Sprintf("🚧 *%s* isn't available just yet — we're working on it!\n\nType *menu* to see what you can do today.", feature),
	}
}

func GenericErrorMessage(to string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: "😓 Something went wrong on our side. Please try again in a moment.",
	}
}

func FailedOperationMessage(to string) Message {
	return Message{
		Type: MessageText,
		To:   to,
		Body: "😓 We couldn't complete that right now. No money has moved. Please try again later.",
	}
}
