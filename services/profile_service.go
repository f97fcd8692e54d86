// services/profile_service.go
package services

import (
	"errors"
	"log"
	"strings"

	"github.com/GiorgyArmani/mintw4ve-sub000/ledger"
	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// getOrCreate loads the profile for a (lowercased) address, creating it
// on first contact. Upsert-by-address: the address is the identity.
func (s *ProfileService) getOrCreate(wallet string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.Where("wallet = ?", wallet).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = models.Profile{
		ID:          uuid.NewString(),
		Wallet:      wallet,
		Username:    shortAddress(wallet),
		LikedTracks: ledger.NewIDSet(),
		Following:   ledger.NewIDSet(),
	}
	if err := s.DB.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// shortAddress makes a default username like "0x1234…abcd"
func shortAddress(wallet string) string {
	if len(wallet) <= 10 {
		return wallet
	}
	return wallet[:6] + "…" + wallet[len(wallet)-4:]
}

// GetProfile returns the profile for :address, creating it lazily
func (s *ProfileService) GetProfile(c *fiber.Ctx) error {
	address := strings.ToLower(c.Params("address"))
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "address is required"})
	}

	profile, err := s.getOrCreate(address)
	if err != nil {
		log.Printf("DB Error fetching profile %s: %v", address, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(profile)
}

// UpdateProfile applies partial updates to the caller's own profile
func (s *ProfileService) UpdateProfile(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	var req struct {
		Username  *string `json:"username"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
		CoverURL  *string `json:"cover_url"`
		IsArtist  *bool   `json:"is_artist"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := s.getOrCreate(wallet)
	if err != nil {
		log.Printf("DB Error loading profile %s: %v", wallet, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	// Apply updates if provided
	if req.Username != nil {
		profile.Username = *req.Username
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.CoverURL != nil {
		profile.CoverURL = req.CoverURL
	}
	if req.IsArtist != nil {
		profile.IsArtist = *req.IsArtist
	}

	if err := s.DB.Save(profile).Error; err != nil {
		log.Printf("DB Error updating profile %s: %v", wallet, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(profile)
}

// ToggleFollow flips whether the caller follows :address
func (s *ProfileService) ToggleFollow(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	target := strings.ToLower(c.Params("address"))

	if target == "" || target == wallet {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid follow target"})
	}

	profile, err := s.getOrCreate(wallet)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	if profile.Following == nil {
		profile.Following = ledger.NewIDSet()
	}
	following := profile.Following.Toggle(target)

	if err := s.DB.Save(profile).Error; err != nil {
		log.Printf("DB Error saving follow state for %s: %v", wallet, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update follow state"})
	}

	return c.JSON(fiber.Map{"target": target, "following": following})
}
