// services/track_service.go
package services

import (
	"errors"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"github.com/GiorgyArmani/mintw4ve-sub000/ledger"
	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"github.com/GiorgyArmani/mintw4ve-sub000/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxAudioSize = 200 * 1024 * 1024 // 200MB

type TrackService struct {
	DB       *gorm.DB
	Profiles *ProfileService
}

func NewTrackService(db *gorm.DB, profiles *ProfileService) *TrackService {
	return &TrackService{DB: db, Profiles: profiles}
}

// MinimalTrack struct for lightweight listing
type MinimalTrack struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ArtistWallet string `json:"artist_wallet"`
	ArtistName   string `json:"artist_name"`
	CoverURL     string `json:"cover_url"`
	AudioURL     string `json:"audio_url"`
	Genre        string `json:"genre"`
	PlayCount    int64  `json:"play_count"`
	LikeCount    int64  `json:"like_count"`
}

// UploadTrack creates a new track with audio and cover pushed to R2.
// Status defaults to draft; "scheduled" requires release_at (RFC3339).
func (s *TrackService) UploadTrack(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	audioFile, err := c.FormFile("audio_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "audio_file is required"})
	}
	if audioFile.Size > maxAudioSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file too large (max 200MB)"})
	}
	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	// ✅ Audio → R2 under a sanitized, collision-free key
	audioKey := utils.ObjectKey(utils.KeyPrefixAudio, audioFile.Filename)
	audioURL, err := utils.UploadFileToR2(audioFile, audioKey)
	if err != nil {
		log.Printf("R2 upload failed for %s: %v", audioKey, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload audio"})
	}

	duration, _ := strconv.Atoi(c.FormValue("duration"))

	track := &models.Track{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  c.FormValue("description"),
		Genre:        c.FormValue("genre"),
		ArtistWallet: wallet,
		ArtistName:   c.FormValue("artist_name"),
		AudioURL:     audioURL,
		Duration:     duration,
		Status:       "draft",
	}

	// 🖼️ Cover upload → R2 (small, public asset)
	if coverFile, err := c.FormFile("cover"); err == nil && coverFile.Size > 0 {
		coverKey := utils.ObjectKey(utils.KeyPrefixCover, coverFile.Filename)
		coverURL, err := utils.UploadFileToR2(coverFile, coverKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "failed to upload cover to R2"})
		}
		track.CoverURL = coverURL
	}

	// 🎛️ Release control
	if err := applyReleaseState(track, c.FormValue("status"), c.FormValue("release_at")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Create(track).Error; err != nil {
		log.Printf("DB Error creating track: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create track"})
	}

	return c.Status(fiber.StatusCreated).JSON(track)
}

// applyReleaseState validates the draft/scheduled/published transition
func applyReleaseState(track *models.Track, status, releaseAtStr string) error {
	switch status {
	case "", "draft":
		if status != "" {
			track.Status = "draft"
			track.ReleaseAt = nil
		}
	case "published":
		track.Status = "published"
		track.ReleaseAt = nil
	case "scheduled":
		if releaseAtStr == "" {
			return errors.New("release_at required for scheduled status")
		}
		releaseAt, err := time.Parse(time.RFC3339, releaseAtStr)
		if err != nil {
			return errors.New("invalid release_at — use RFC3339 (e.g., 2026-12-31T23:00:00Z)")
		}
		track.Status = "scheduled"
		track.ReleaseAt = &releaseAt
	default:
		return errors.New("invalid status (use: draft, scheduled, published)")
	}
	return nil
}

// GetAllTracks returns published tracks with comments
func (s *TrackService) GetAllTracks(c *fiber.Ctx) error {
	query := s.DB.Preload("Comments").Where("status = ?", "published")
	if genre := c.Query("genre"); genre != "" {
		query = query.Where("genre = ?", genre)
	}

	var tracks []models.Track
	if err := query.Order("created_at DESC").Find(&tracks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch tracks"})
	}
	return c.JSON(tracks)
}

// GetMinimalTracks returns a lightweight published-track list
func (s *TrackService) GetMinimalTracks(c *fiber.Ctx) error {
	var tracks []models.Track
	if err := s.DB.Select(`
		id,
		title,
		artist_wallet,
		artist_name,
		cover_url,
		audio_url,
		genre,
		play_count,
		like_count
	`).
		Where("status = ?", "published").
		Find(&tracks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch tracks"})
	}

	var minimalTracks []MinimalTrack
	for _, track := range tracks {
		minimalTracks = append(minimalTracks, MinimalTrack{
			ID:           track.ID,
			Title:        track.Title,
			ArtistWallet: track.ArtistWallet,
			ArtistName:   track.ArtistName,
			CoverURL:     track.CoverURL,
			AudioURL:     track.AudioURL,
			Genre:        track.Genre,
			PlayCount:    track.PlayCount,
			LikeCount:    track.LikeCount,
		})
	}
	return c.JSON(minimalTracks)
}

// GetTrackByID returns a single track with comments
func (s *TrackService) GetTrackByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var track models.Track
	if err := s.DB.Preload("Comments").First(&track, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "track not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(track)
}

// UpdateTrack allows the owning artist to edit metadata and release state
func (s *TrackService) UpdateTrack(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	id := c.Params("id")

	var track models.Track
	if err := s.DB.First(&track, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "track not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if track.ArtistWallet != wallet {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your track"})
	}

	// Update scalar fields if provided
	if v := c.FormValue("title"); v != "" {
		track.Title = v
	}
	if v := c.FormValue("description"); v != "" {
		track.Description = v
	}
	if v := c.FormValue("genre"); v != "" {
		track.Genre = v
	}
	if v := c.FormValue("artist_name"); v != "" {
		track.ArtistName = v
	}

	// 🖼️ Cover (optional replacement)
	if coverFile, err := c.FormFile("cover"); err == nil && coverFile.Size > 0 {
		coverKey := utils.ObjectKey(utils.KeyPrefixCover, coverFile.Filename)
		coverURL, err := utils.UploadFileToR2(coverFile, coverKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "failed to upload updated cover to R2"})
		}
		track.CoverURL = coverURL
	}

	if err := applyReleaseState(&track, c.FormValue("status"), c.FormValue("release_at")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Save(&track).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update track"})
	}
	return c.JSON(track)
}

// DeleteTrack soft-deletes a track; dependent comments and play events
// are hard-deleted (no standalone value)
func (s *TrackService) DeleteTrack(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	id := c.Params("id")

	var track models.Track
	if err := s.DB.First(&track, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "track not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if track.ArtistWallet != wallet {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your track"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("track_id = ?", id).Delete(&models.TrackComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("track_id = ?", id).Delete(&models.PlayEvent{}).Error; err != nil {
			return err
		}
		// ✅ This does SOFT-DELETE (sets deleted_at)
		return tx.Delete(&track).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete track"})
	}

	return c.JSON(fiber.Map{
		"message": "track soft-deleted successfully",
		"id":      id,
	})
}

// RestoreTrack restores a soft-deleted track
func (s *TrackService) RestoreTrack(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	id := c.Params("id")

	var track models.Track
	// 🔍 Must use Unscoped() to find deleted record
	if err := s.DB.Unscoped().First(&track, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "track not found (even soft-deleted)"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if track.ArtistWallet != wallet {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your track"})
	}
	if track.DeletedAt.Time.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "track is not deleted"})
	}

	if err := s.DB.Unscoped().Model(&track).Update("deleted_at", nil).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to restore track"})
	}

	return c.JSON(fiber.Map{"message": "track restored", "id": track.ID})
}

// ToggleLike flips the caller's like for a track and keeps like_count
// in step with the profile's liked-track set
func (s *TrackService) ToggleLike(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	id := c.Params("id")

	var track models.Track
	if err := s.DB.First(&track, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "track not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	profile, err := s.Profiles.getOrCreate(wallet)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}
	if profile.LikedTracks == nil {
		profile.LikedTracks = ledger.NewIDSet()
	}

	liked := profile.LikedTracks.Toggle(track.ID)
	delta := -1
	if liked {
		delta = 1
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		return tx.Model(&models.Track{}).Where("id = ?", track.ID).
			Update("like_count", gorm.Expr("GREATEST(like_count + ?, 0)", delta)).Error
	})
	if err != nil {
		log.Printf("DB Error toggling like for track %s: %v", track.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update like"})
	}

	return c.JSON(fiber.Map{"track_id": track.ID, "liked": liked})
}

// ===== Comment Methods =====

// CreateComment creates a new comment on a track
func (s *TrackService) CreateComment(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	trackID := c.Params("id")

	var input struct {
		AuthorName      string `json:"author_name"`
		AuthorAvatarURL string `json:"author_avatar_url"`
		Body            string `json:"body"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if input.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
	}

	// Check if track exists
	var track models.Track
	if err := s.DB.First(&track, "id = ?", trackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "track not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	comment := &models.TrackComment{
		ID:              uuid.NewString(),
		TrackID:         trackID,
		Wallet:          wallet,
		AuthorName:      input.AuthorName,
		AuthorAvatarURL: input.AuthorAvatarURL,
		Body:            input.Body,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		// Recount so the denormalized counter can't drift
		var count int64
		if err := tx.Model(&models.TrackComment{}).Where("track_id = ?", trackID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&track).Update("comment_count", count).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create comment"})
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetCommentsByTrack returns all comments for a track, newest first
func (s *TrackService) GetCommentsByTrack(c *fiber.Ctx) error {
	trackID := c.Params("id")

	var comments []models.TrackComment
	if err := s.DB.Where("track_id = ?", trackID).Order("created_at DESC").Find(&comments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch comments"})
	}
	return c.JSON(comments)
}

// DeleteComment deletes a comment (author only) and recounts
func (s *TrackService) DeleteComment(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	commentID := c.Params("comment_id")

	var comment models.TrackComment
	if err := s.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "comment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if comment.Wallet != wallet {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your comment"})
	}

	trackID := comment.TrackID
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.TrackComment{}).Where("track_id = ?", trackID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&models.Track{}).Where("id = ?", trackID).Update("comment_count", count).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete comment"})
	}

	return c.JSON(fiber.Map{"message": "comment deleted successfully"})
}

// PresignUpload issues a signed PUT URL for direct-to-R2 uploads
func (s *TrackService) PresignUpload(c *fiber.Ctx) error {
	var input struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
		Kind        string `json:"kind"` // audio | cover | avatar
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if input.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "filename is required"})
	}

	var prefix string
	switch input.Kind {
	case "", "audio":
		prefix = utils.KeyPrefixAudio
	case "cover":
		prefix = utils.KeyPrefixCover
	case "avatar":
		prefix = utils.KeyPrefixAvatar
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid kind (use: audio, cover, avatar)"})
	}

	ext := filepath.Ext(input.Filename)
	if ext == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "filename must have an extension"})
	}

	key := utils.ObjectKey(prefix, input.Filename)
	uploadURL, publicURL, err := utils.PresignUploadURL(key, input.ContentType, 15*time.Minute)
	if err != nil {
		log.Printf("Failed to presign upload for %s: %v", key, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to presign upload"})
	}

	return c.JSON(fiber.Map{
		"key":        key,
		"upload_url": uploadURL,
		"public_url": publicURL,
		"expires_in": int((15 * time.Minute).Seconds()),
	})
}
