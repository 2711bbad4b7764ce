package services

import (
	"log"
	"strings"

	"github.com/byn2/byn2-backend/internal/models"
)

// GlobalCommand is a keyword the user can type at any point to escape
// or inspect the active flow.
type GlobalCommand string

const (
	CmdMenu    GlobalCommand = "menu"
	CmdRestart GlobalCommand = "restart"
	CmdHelp    GlobalCommand = "help"
	CmdCancel  GlobalCommand = "cancel"
	CmdBalance GlobalCommand = "balance"
)

// ParseGlobalCommand matches trimmed, case-insensitive text against the
// global keywords.
func ParseGlobalCommand(text string) (GlobalCommand, bool) {
	switch GlobalCommand(strings.ToLower(strings.TrimSpace(text))) {
	case CmdMenu:
		return CmdMenu, true
	case CmdRestart:
		return CmdRestart, true
	case CmdHelp:
		return CmdHelp, true
	case CmdCancel:
		return CmdCancel, true
	case CmdBalance:
		return CmdBalance, true
	}
	return "", false
}

// handleGlobalCommand runs a global keyword against the current session
// and reports whether the message was consumed. Callers check this
// before any intent-specific step logic so a user can always escape a
// stuck flow.
func (b *BotService) handleGlobalCommand(cmd GlobalCommand, user *models.User, intent *models.BotIntent) (bool, error) {
	switch cmd {
	case CmdHelp:
		// Informational only, no state change.
		return true, b.messenger.Send(HelpMessage(user.MobileNumber))

	case CmdBalance:
		// Quick balance check without disturbing the active flow.
		return true, b.sendBalance(user)

	case CmdMenu, CmdRestart:
		if _, err := b.rotateSession(user, intent); err != nil {
			return true, err
		}
		if cmd == CmdRestart {
			return true, b.messenger.Send(SessionResetMessage(user.MobileNumber))
		}
		return true, b.messenger.Send(MainMenu(user.MobileNumber, user.Name))

	case CmdCancel:
		if _, err := b.rotateSession(user, intent); err != nil {
			return true, err
		}
		if err := b.messenger.Send(CancelAckMessage(user.MobileNumber)); err != nil {
			log.Printf("⚠️ Failed to send cancel ack to %s: %v", user.MobileNumber, err)
		}
		return true, b.messenger.Send(MainMenu(user.MobileNumber, user.Name))
	}

	return false, nil
}
