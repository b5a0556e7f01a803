package services

import (
	"context"
	"log"
	"time"

	"bankhub/internal/adapters/persistence/repositories"
)

// TokenJanitor runs a background goroutine that deletes expired refresh
// tokens. Revocation marks rows; this keeps the table from growing
// without bound.
type TokenJanitor struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	interval         time.Duration
	stopChan         chan struct{}
}

// NewTokenJanitor creates a new token janitor
func NewTokenJanitor(refreshTokenRepo repositories.RefreshTokenRepository) *TokenJanitor {
	return &TokenJanitor{
		refreshTokenRepo: refreshTokenRepo,
		interval:         time.Hour,
		stopChan:         make(chan struct{}),
	}
}

// Start launches the cleanup goroutine
func (j *TokenJanitor) Start() {
	log.Println("TokenJanitor started")
	go j.runCleanupLoop()
}

// Stop gracefully stops the cleanup goroutine
func (j *TokenJanitor) Stop() {
	close(j.stopChan)
	log.Println("TokenJanitor stopped")
}

func (j *TokenJanitor) runCleanupLoop() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.deleteExpiredTokens()
		case <-j.stopChan:
			return
		}
	}
}

func (j *TokenJanitor) deleteExpiredTokens() {
	if err := j.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("Expired token cleanup error: %v", err)
	}
}
