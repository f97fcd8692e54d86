// models/track.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GenreElectronic = "electronic"
	GenreHipHop     = "hiphop"
	GenreAmbient    = "ambient"
	GenreRock       = "rock"
	GenreOther      = "other"
)

type Track struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Genre       string `json:"genre" gorm:"index"`

	// Owning artist, wallet-style address (lowercased on write)
	ArtistWallet string `json:"artist_wallet" gorm:"index;not null"`
	ArtistName   string `json:"artist_name"`

	// 🎵 Media — public CDN URLs on R2
	AudioURL string `json:"audio_url"`
	CoverURL string `json:"cover_url"`
	Duration int    `json:"duration"` // seconds, as reported at upload

	// 📊 Counters (play count rolled up by worker from play_events)
	PlayCount    int64 `json:"play_count" gorm:"default:0"`
	LikeCount    int64 `json:"like_count" gorm:"default:0"`
	CommentCount int64 `json:"comment_count" gorm:"default:0"`

	// 🎛️ Release state
	Status    string     `json:"status" gorm:"default:'draft'"` // draft | scheduled | published
	ReleaseAt *time.Time `json:"release_at"`                    // only used if scheduled

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// 🔗 Comments
	Comments []TrackComment `json:"comments" gorm:"foreignKey:TrackID"`
}

type TrackComment struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	TrackID       string    `json:"track_id" gorm:"index;not null"`
	Wallet        string    `json:"wallet"`
	AuthorName    string    `json:"author_name"`
	AuthorAvatarURL string  `json:"author_avatar_url"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
