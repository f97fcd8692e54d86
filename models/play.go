// models/play.go
package models

import "time"

// PlayEvent is one raw play of a track. Fire-and-forget from the
// client's perspective; the rollup worker aggregates these into
// tracks.play_count on a timer.
type PlayEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TrackID        string    `gorm:"index;not null" json:"track_id"`
	ListenerWallet string    `gorm:"index" json:"listener_wallet"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}
