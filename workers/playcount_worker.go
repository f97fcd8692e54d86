package workers

import (
	"context"
	"log"
	"time"

	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"gorm.io/gorm"
)

type playDelta struct {
	TrackID string
	Plays   int64
}

// PollPlayCounts rolls raw play_events up into tracks.play_count on an
// interval, keeping a time cursor so each event counts exactly once.
func PollPlayCounts(ctx context.Context, db *gorm.DB, pollInterval time.Duration) {
	log.Println("Starting play-count rollup (DB-backed)...")
	lastRollupTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Play-count rollup stopped.")
			return
		case <-ticker.C:
			cutoff := time.Now().UTC()

			var deltas []playDelta
			err := db.Model(&models.PlayEvent{}).
				Select("track_id, COUNT(*) AS plays").
				Where("created_at > ? AND created_at <= ?", lastRollupTime, cutoff).
				Group("track_id").
				Scan(&deltas).Error
			if err != nil {
				log.Printf("❌ Error counting play events: %v", err)
				continue
			}

			if len(deltas) == 0 {
				lastRollupTime = cutoff
				continue
			}

			log.Printf("📥 Rolling up play counts for %d track(s).", len(deltas))

			err = db.Transaction(func(tx *gorm.DB) error {
				for _, d := range deltas {
					if err := tx.Model(&models.Track{}).Where("id = ?", d.TrackID).
						Update("play_count", gorm.Expr("play_count + ?", d.Plays)).Error; err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("❌ Error updating play counts: %v", err)
				continue
			}

			lastRollupTime = cutoff
			log.Printf("✅ Play-count rollup complete (cursor → %s)", cutoff.Format(time.RFC3339))
		}
	}
}
