package jobs

import (
	"log"
	"time"

	"github.com/byn2/byn2-backend/internal/auth"
	"github.com/byn2/byn2-backend/internal/models"
	"github.com/byn2/byn2-backend/internal/storage"
)

const sweepInterval = 2 * time.Minute

// IntentSweeper cancels conversations abandoned past the session TTL,
// so a crashed or hung flow never pins a pending intent forever.
type IntentSweeper struct {
	store     storage.Store
	isRunning bool
}

// NewIntentSweeper creates a new sweeper
func NewIntentSweeper(store storage.Store) *IntentSweeper {
	return &IntentSweeper{store: store}
}

// Start begins the sweep loop
func (s *IntentSweeper) Start() {
	if s.isRunning {
		log.Println("Intent sweeper already running")
		return
	}
	s.isRunning = true
	log.Println("Starting stale-intent sweeper...")
	go s.run()
}

// Stop halts the sweep loop after the current pass
func (s *IntentSweeper) Stop() {
	s.isRunning = false
	log.Println("Stopping stale-intent sweeper...")
}

func (s *IntentSweeper) run() {
	for s.isRunning {
		time.Sleep(sweepInterval)
		if !s.isRunning {
			break
		}
		s.sweep()
	}
}

func (s *IntentSweeper) sweep() {
	cutoff := time.Now().Add(-auth.SessionTTL)
	stale, err := s.store.GetStalePendingIntents(cutoff)
	if err != nil {
		log.Printf("⚠️ Intent sweep failed: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	swept := 0
	for _, intent := range stale {
		err := s.store.UpdateBotIntent(intent.ID, map[string]interface{}{
			"status": models.StatusCancel,
		})
		if err != nil {
			log.Printf("⚠️ Failed to cancel stale intent %d: %v", intent.ID, err)
			continue
		}
		swept++
	}
	log.Printf("🧹 Swept %d stale intent(s)", swept)
}
