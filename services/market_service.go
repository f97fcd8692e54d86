// services/market_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/GiorgyArmani/mintw4ve-sub000/ledger"
	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MarketService struct {
	DB            *gorm.DB
	Wallets       *WalletService
	Notifications *NotificationService
}

func NewMarketService(db *gorm.DB, wallets *WalletService, notifications *NotificationService) *MarketService {
	return &MarketService{DB: db, Wallets: wallets, Notifications: notifications}
}

func (s *MarketService) createListing(c *fiber.Ctx, kind models.ListingKind) error {
	wallet := c.Locals("wallet").(string)

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Price       string `json:"price"` // budget for requests
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	price, err := ledger.ParseAmount(input.Price)
	if err != nil {
		return errBadAmountResponse(c, err)
	}

	listing := &models.Listing{
		ID:          uuid.NewString(),
		Kind:        kind,
		OwnerWallet: wallet,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       price,
		Status:      models.ListingStatusOpen,
	}

	if err := s.DB.Create(listing).Error; err != nil {
		log.Printf("DB Error creating %s listing: %v", kind, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create listing"})
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

func (s *MarketService) listByKind(c *fiber.Ctx, kind models.ListingKind) error {
	var listings []models.Listing
	if err := s.DB.
		Where("kind = ? AND status = ?", kind, models.ListingStatusOpen).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		log.Printf("DB Error fetching %s listings: %v", kind, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch listings"})
	}
	return c.JSON(listings)
}

// CreateServiceListing posts a priced offer
func (s *MarketService) CreateServiceListing(c *fiber.Ctx) error {
	return s.createListing(c, models.ListingKindService)
}

// CreateRequestListing posts a budgeted ask
func (s *MarketService) CreateRequestListing(c *fiber.Ctx) error {
	return s.createListing(c, models.ListingKindRequest)
}

// GetServiceListings returns open service listings
func (s *MarketService) GetServiceListings(c *fiber.Ctx) error {
	return s.listByKind(c, models.ListingKindService)
}

// GetRequestListings returns open request listings
func (s *MarketService) GetRequestListings(c *fiber.Ctx) error {
	return s.listByKind(c, models.ListingKindRequest)
}

// PurchaseListing gates a purchase on the buyer's balance: sufficient
// balance debits the ledger and records an order; anything less changes
// nothing.
func (s *MarketService) PurchaseListing(c *fiber.Ctx) error {
	buyer := c.Locals("wallet").(string)
	listingID := c.Params("id")

	var listing models.Listing
	if err := s.DB.First(&listing, "id = ? AND kind = ?", listingID, models.ListingKindService).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if listing.Status != models.ListingStatusOpen {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "listing is no longer open"})
	}
	if listing.OwnerWallet == buyer {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot purchase your own listing"})
	}

	price := listing.Price.StringFixed(2)
	newBalance, err := s.Wallets.Purchase(buyer, price)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "insufficient balance"})
		}
		if errors.Is(err, ledger.ErrBadAmount) {
			return errBadAmountResponse(c, err)
		}
		log.Printf("Ledger error purchasing listing %s: %v", listingID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to debit wallet"})
	}

	order := &models.Order{
		ID:           uuid.NewString(),
		ListingID:    listing.ID,
		BuyerWallet:  buyer,
		SellerWallet: listing.OwnerWallet,
		Price:        listing.Price,
	}
	if err := s.DB.Create(order).Error; err != nil {
		// Debit already happened; put the tokens back before failing.
		log.Printf("DB Error recording order for listing %s: %v", listingID, err)
		if refundErr := s.Wallets.Refund(buyer, price); refundErr != nil {
			log.Printf("❌ Refund after failed order also failed (buyer %s, price %s): %v", buyer, price, refundErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record order"})
	}

	s.Notifications.Notify(listing.OwnerWallet, models.NotificationTypePurchase, "Listing purchased",
		fmt.Sprintf("%s purchased %q for %s $MINT", buyer, listing.Title, price))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":   order,
		"balance": newBalance,
	})
}

// GetOrders returns orders where the caller is buyer or seller
func (s *MarketService) GetOrders(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	var orders []models.Order
	if err := s.DB.
		Where("buyer_wallet = ? OR seller_wallet = ?", wallet, wallet).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		log.Printf("DB Error fetching orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
	}
	return c.JSON(orders)
}

// CloseListing lets the owner withdraw an open listing
func (s *MarketService) CloseListing(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	listingID := c.Params("id")

	var listing models.Listing
	if err := s.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if listing.OwnerWallet != wallet {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your listing"})
	}

	listing.Status = models.ListingStatusClosed
	if err := s.DB.Save(&listing).Error; err != nil {
		log.Printf("DB Error closing listing %s: %v", listingID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to close listing"})
	}

	return c.JSON(fiber.Map{"message": "listing closed", "id": listing.ID})
}
