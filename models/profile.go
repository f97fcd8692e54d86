// models/profile.go
package models

import (
	"time"

	"github.com/GiorgyArmani/mintw4ve-sub000/ledger"
	"gorm.io/gorm"
)

// Profile maps a wallet-style address to a user record. Created lazily
// on first contact (upsert-by-address). LikedTracks and Following are
// persisted as sorted arrays of unique ids and restored to sets on load;
// membership order is not significant.
type Profile struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Wallet      string  `gorm:"uniqueIndex;not null" json:"wallet"` // lowercased, primary lookup key
	Username    string  `gorm:"index" json:"username"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
	IsArtist    bool    `gorm:"default:false" json:"is_artist"`

	LikedTracks ledger.IDSet `gorm:"serializer:json;type:jsonb" json:"liked_tracks"`
	Following   ledger.IDSet `gorm:"serializer:json;type:jsonb" json:"following"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
