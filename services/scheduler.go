// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartCloseScheduler closes requests past their close_at deadline.
// Runs every minute for the lifetime of the process.
func (s *RequestService) StartCloseScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			closed, err := s.Store.CloseExpired(time.Now())
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			if closed > 0 {
				log.Printf("✅ Auto-closed %d expired request(s)", closed)
			}
		}),
	)
}
