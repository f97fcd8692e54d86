// services/wallet_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/GiorgyArmani/mintw4ve-sub000/ledger"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService owns the per-wallet balance ledgers and earnings logs.
// Ledgers load lazily per address and stay cached; the mutex serializes
// mutations so the read-modify-write sequences inside the ledger package
// see a single logical writer.
type WalletService struct {
	DB    *gorm.DB
	store ledger.Store

	mu       sync.Mutex
	balances map[string]*ledger.BalanceLedger
	earnings map[string]*ledger.EarningsLog
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{
		DB:       db,
		store:    NewGormLedgerStore(db),
		balances: make(map[string]*ledger.BalanceLedger),
		earnings: make(map[string]*ledger.EarningsLog),
	}
}

// callers must hold s.mu
func (s *WalletService) balanceFor(wallet string) (*ledger.BalanceLedger, error) {
	if l, ok := s.balances[wallet]; ok {
		return l, nil
	}
	l, err := ledger.OpenBalanceLedger(s.store, "wallet:"+wallet)
	if err != nil {
		return nil, err
	}
	s.balances[wallet] = l
	return l, nil
}

// callers must hold s.mu
func (s *WalletService) earningsFor(wallet string) (*ledger.EarningsLog, error) {
	if g, ok := s.earnings[wallet]; ok {
		return g, nil
	}
	g, err := ledger.OpenEarningsLog(s.store, "earnings:"+wallet)
	if err != nil {
		return nil, err
	}
	s.earnings[wallet] = g
	return g, nil
}

// GrantStreamReward appends a stream earning to the listener's log and
// credits the listener's balance. Returns the amount granted.
func (s *WalletService) GrantStreamReward(listener, trackID, artistWallet string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.earningsFor(listener)
	if err != nil {
		return decimal.Decimal{}, err
	}
	amount, err := g.RecordStream(trackID, artistWallet)
	if err != nil {
		return decimal.Decimal{}, err
	}

	l, err := s.balanceFor(listener)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if err := l.Increase(amount.String()); err != nil {
		return decimal.Decimal{}, err
	}
	return amount, nil
}

// GrantMintReward appends a mint earning and credits the wallet.
func (s *WalletService) GrantMintReward(wallet, trackID, artistWallet string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.earningsFor(wallet)
	if err != nil {
		return decimal.Decimal{}, err
	}
	amount, err := g.RecordMint(trackID, artistWallet)
	if err != nil {
		return decimal.Decimal{}, err
	}

	l, err := s.balanceFor(wallet)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if err := l.Increase(amount.String()); err != nil {
		return decimal.Decimal{}, err
	}
	return amount, nil
}

// Purchase debits price from the wallet through the spend gate and
// returns the new balance. ledger.ErrInsufficientBalance passes through
// untouched so callers can map it to a response.
func (s *WalletService) Purchase(wallet, price string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.balanceFor(wallet)
	if err != nil {
		return "", err
	}
	if err := ledger.AttemptPurchase(l, price); err != nil {
		return "", err
	}
	return l.Balance(), nil
}

// Refund credits price back after a failed post-debit step.
func (s *WalletService) Refund(wallet, price string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.balanceFor(wallet)
	if err != nil {
		return err
	}
	return l.Increase(price)
}

// --- Handlers ---

// GetWallet returns the caller's balance and earning aggregates
func (s *WalletService) GetWallet(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.balanceFor(wallet)
	if err != nil {
		log.Printf("Ledger error for wallet %s: %v", wallet, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load wallet"})
	}
	g, err := s.earningsFor(wallet)
	if err != nil {
		log.Printf("Earnings error for wallet %s: %v", wallet, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load earnings"})
	}

	return c.JSON(fiber.Map{
		"wallet":        wallet,
		"balance":       l.Balance(),
		"total_earned":  g.Total().StringFixed(2),
		"earning_count": g.Len(),
	})
}

// ResetWallet restores the caller's balance to the seed value
func (s *WalletService) ResetWallet(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.balanceFor(wallet)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load wallet"})
	}
	if err := l.Reset(); err != nil {
		log.Printf("Failed to reset wallet %s: %v", wallet, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reset wallet"})
	}

	return c.JSON(fiber.Map{"wallet": wallet, "balance": l.Balance()})
}

// GetEarnings returns the caller's reward events, optionally filtered by
// track, in original append order
func (s *WalletService) GetEarnings(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	trackID := c.Query("track_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.earningsFor(wallet)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load earnings"})
	}

	var events []ledger.Earning
	if trackID != "" {
		events = g.ByTrack(trackID)
	} else {
		events = g.All()
	}
	if events == nil {
		events = []ledger.Earning{}
	}

	return c.JSON(fiber.Map{
		"earnings": events,
		"total":    g.Total().StringFixed(2),
	})
}

// ClearEarnings empties the caller's earnings log
func (s *WalletService) ClearEarnings(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.earningsFor(wallet)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load earnings"})
	}
	if err := g.Clear(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear earnings"})
	}

	return c.JSON(fiber.Map{"message": "earnings cleared"})
}

// errBadAmountResponse maps ledger input errors to a 400
func errBadAmountResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, ledger.ErrBadAmount) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be a non-negative decimal"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("ledger error: %v", err)})
}
