package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/byn2/byn2-backend/internal/models"
	"github.com/byn2/byn2-backend/internal/storage"
)

// resolveSession determines the acting user and their live BotIntent,
// creating both on first contact. It returns handled=true when the
// inbound message was fully consumed by session bookkeeping (welcome,
// onboarding, re-authentication) and no flow dispatch should run.
//
// The branches form a state machine over
// (user exists × auth-token validity × session-token validity).
func (b *BotService) resolveSession(in Incoming) (*models.User, *models.BotIntent, bool, error) {
	user, err := b.store.GetUserByMobile(in.From)

	// Branch 1: first contact. Create the user with both tokens and a
	// fresh start intent, then welcome them.
	if errors.Is(err, storage.ErrNotFound) {
		user, intent, err := b.createUser(in.From, in.Name)
		if err != nil {
			return nil, nil, false, err
		}
		log.Printf("👤 New user onboarded: %s (%s)", user.Name, user.MobileNumber)
		return user, intent, true, b.messenger.Send(WelcomeMessage(user.MobileNumber, user.Name))
	}
	if err != nil {
		return nil, nil, false, err
	}

	auth := b.tokens.Verify(user.AuthToken)
	session := b.tokens.Verify(user.SessionToken)

	// Branch 4: the device marker aged out. Rotate both tokens, start a
	// fresh conversation and re-orient the user with the menu.
	if !auth.Valid {
		intent, err := b.reauthenticate(user)
		if err != nil {
			return nil, nil, false, err
		}
		return user, intent, true, b.messenger.Send(MainMenu(user.MobileNumber, user.Name))
	}

	// Branch 3: recognized device, conversation aged out. Rotate the
	// session silently; the current message continues against the fresh
	// start state so the user's input still lands.
	if !session.Valid {
		intent, err := b.rotateSession(user, nil)
		if err != nil {
			return nil, nil, false, err
		}
		return user, intent, false, nil
	}

	// Branch 2: live conversation.
	intent, err := b.store.GetBotIntentBySession(user.SessionToken)
	if errors.Is(err, storage.ErrNotFound) {
		// Token valid but no record behind it: recover with a fresh one.
		intent, err = b.rotateSession(user, nil)
		if err != nil {
			return nil, nil, false, err
		}
		return user, intent, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}

	// A finished record is never reused; supersede it before this turn.
	if intent.Terminal() {
		intent, err = b.rotateSession(user, nil)
		if err != nil {
			return nil, nil, false, err
		}
	}

	if in.ReplyID == BtnGetStarted {
		return user, intent, true, b.messenger.Send(OnboardedMessage(user.MobileNumber, user.Name))
	}

	return user, intent, false, nil
}

// createUser onboards a new mobile number: user row, both tokens and
// the initial start intent, committed together before any message.
func (b *BotService) createUser(mobile, name string) (*models.User, *models.BotIntent, error) {
	sessionToken, err := b.tokens.IssueSessionToken(mobile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	authToken, err := b.tokens.IssueAuthToken(mobile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue auth token: %w", err)
	}

	var user *models.User
	var intent *models.BotIntent
	err = b.store.Transaction(func(tx storage.Store) error {
		user, err = tx.CreateUser(&models.User{
			MobileNumber: mobile,
			Name:         name,
			SessionToken: sessionToken,
			AuthToken:    authToken,
		})
		if err != nil {
			return err
		}
		intent, err = tx.CreateBotIntent(&models.BotIntent{
			BotSession: sessionToken,
			Intent:     models.IntentStart,
			Status:     models.StatusPending,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return user, intent, nil
}

// rotateSession issues a fresh session token and a fresh start intent,
// superseding the old record (marked cancelled if still pending, never
// deleted). Passing the old intent is optional.
func (b *BotService) rotateSession(user *models.User, old *models.BotIntent) (*models.BotIntent, error) {
	sessionToken, err := b.tokens.IssueSessionToken(user.MobileNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	var intent *models.BotIntent
	err = b.store.Transaction(func(tx storage.Store) error {
		if old != nil && !old.Terminal() {
			if err := tx.UpdateBotIntent(old.ID, map[string]interface{}{
				"status": models.StatusCancel,
			}); err != nil {
				return err
			}
		}
		user.SessionToken = sessionToken
		if err := tx.UpdateUser(user); err != nil {
			return err
		}
		intent, err = tx.CreateBotIntent(&models.BotIntent{
			BotSession: sessionToken,
			Intent:     models.IntentStart,
			Status:     models.StatusPending,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return intent, nil
}

// reauthenticate rotates both tokens for a device whose long-lived
// marker expired, with a fresh start intent.
func (b *BotService) reauthenticate(user *models.User) (*models.BotIntent, error) {
	authToken, err := b.tokens.IssueAuthToken(user.MobileNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to issue auth token: %w", err)
	}
	user.AuthToken = authToken
	return b.rotateSession(user, nil)
}
