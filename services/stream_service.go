// services/stream_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/GiorgyArmani/mintw4ve-sub000/ledger"
	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// listenSession is one track-load by one listener. The embedded trigger
// decides whether a reward is still pending for this load.
type listenSession struct {
	ID       string
	Wallet   string
	Trigger  *ledger.RewardTrigger
	LastSeen time.Time
}

// StreamService handles play events and the Stream2Earn reward flow.
type StreamService struct {
	DB            *gorm.DB
	Wallets       *WalletService
	Notifications *NotificationService

	mu       sync.Mutex
	sessions map[string]*listenSession
}

func NewStreamService(db *gorm.DB, wallets *WalletService, notifications *NotificationService) *StreamService {
	return &StreamService{
		DB:            db,
		Wallets:       wallets,
		Notifications: notifications,
		sessions:      make(map[string]*listenSession),
	}
}

// RecordPlay registers a play of a track and opens a listen session.
// The play event insert is fire-and-forget from the client's view: a
// failed insert is logged and the session still opens.
func (s *StreamService) RecordPlay(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	trackID := c.Params("id")

	var track models.Track
	if err := s.DB.First(&track, "id = ? AND status = ?", trackID, "published").Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "track not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	event := models.PlayEvent{TrackID: track.ID, ListenerWallet: wallet}
	if err := s.DB.Create(&event).Error; err != nil {
		log.Printf("Failed to record play event for track %s: %v", track.ID, err)
	}

	trigger := ledger.NewRewardTrigger(wallet)
	trigger.LoadTrack(track.ID, track.ArtistWallet)

	session := &listenSession{
		ID:       uuid.NewString(),
		Wallet:   wallet,
		Trigger:  trigger,
		LastSeen: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id":               session.ID,
		"reward_threshold_seconds": int(ledger.StreamThreshold.Seconds()),
	})
}

// ReportProgress feeds observed playback time into the session's reward
// trigger. The first report at or past the threshold grants the stream
// reward; later reports for the same load are no-ops.
func (s *StreamService) ReportProgress(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	sessionID := c.Params("session_id")

	var input struct {
		ElapsedSeconds float64 `json:"elapsed_seconds"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if input.ElapsedSeconds < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "elapsed_seconds must be non-negative"})
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok && session.Wallet != wallet {
		ok = false
	}
	var outcome ledger.Outcome
	var trackID, artistWallet string
	if ok {
		session.LastSeen = time.Now()
		outcome = session.Trigger.Observe(time.Duration(input.ElapsedSeconds * float64(time.Second)))
		trackID = session.Trigger.TrackID()
		artistWallet = session.Trigger.ArtistWallet()
	}
	s.mu.Unlock()

	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listen session not found"})
	}

	switch outcome {
	case ledger.OutcomeReward:
		amount, err := s.Wallets.GrantStreamReward(wallet, trackID, artistWallet)
		if err != nil {
			log.Printf("Failed to grant stream reward (session %s): %v", sessionID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to grant reward"})
		}
		s.Notifications.Notify(wallet, models.NotificationTypeReward, "Stream reward",
			fmt.Sprintf("You earned %s $MINT for streaming", amount.String()))
		return c.JSON(fiber.Map{
			"rewarded": true,
			"amount":   amount.String(),
			"track_id": trackID,
		})

	case ledger.OutcomePreview:
		// Artist listening to their own track: fired, nothing granted
		return c.JSON(fiber.Map{
			"rewarded": false,
			"preview":  true,
			"message":  "own track — streams of your own music earn nothing",
		})

	default:
		return c.JSON(fiber.Map{"rewarded": false})
	}
}

// MintTrack grants the fixed mint reward for a track (the on-chain mint
// itself is out of scope; this records the event and credits the wallet)
func (s *StreamService) MintTrack(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	var input struct {
		TrackID string `json:"track_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.TrackID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "track_id is required"})
	}

	var track models.Track
	if err := s.DB.First(&track, "id = ?", input.TrackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "track not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	amount, err := s.Wallets.GrantMintReward(wallet, track.ID, track.ArtistWallet)
	if err != nil {
		log.Printf("Failed to grant mint reward for track %s: %v", track.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to grant mint reward"})
	}

	s.Notifications.Notify(wallet, models.NotificationTypeReward, "Mint reward",
		fmt.Sprintf("You earned %s $MINT for minting %s", amount.String(), track.Title))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"rewarded": true,
		"amount":   amount.String(),
		"track_id": track.ID,
	})
}

// SweepStaleSessions drops listen sessions idle longer than maxIdle.
// Abandoned sessions simply lose their partial progress — by the time a
// session is hours idle no reward is coming from it.
func (s *StreamService) SweepStaleSessions(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for id, session := range s.sessions {
		if session.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
