// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"github.com/go-co-op/gocron/v2"
)

func (s *TrackService) StartReleaseScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: publish scheduled tracks whose release time passed
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var tracks []models.Track
			now := time.Now()
			err := s.DB.Where("status = ? AND release_at <= ?", "scheduled", now).
				Find(&tracks).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, t := range tracks {
				t.Status = "published"
				t.ReleaseAt = nil
				if err := s.DB.Save(&t).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish track %s: %v", t.ID, err)
				} else {
					log.Printf("✅ Auto-published track: %s", t.Title)
				}
			}
		}),
	)
}

func (s *StreamService) StartSessionSweeper() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 10 minutes: drop listen sessions idle for over 2 hours
	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			if removed := s.SweepStaleSessions(2 * time.Hour); removed > 0 {
				log.Printf("🧹 Swept %d stale listen sessions", removed)
			}
		}),
	)
}
