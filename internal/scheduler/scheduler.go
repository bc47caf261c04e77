package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Resetter receives the midnight daily challenge reset
type Resetter interface {
	ResetDailyChallenges(date string) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	resetter  Resetter
}

// New creates a new scheduler instance
func New(resetter Resetter) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		resetter:  resetter,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Daily challenges reset keyed by calendar date, at midnight UTC
	s.scheduler.Every(1).Day().At("00:00").Do(s.resetChallenges)

	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// resetChallenges rolls every user's daily challenges over to the new date
func (s *Scheduler) resetChallenges() {
	date := time.Now().UTC().Format("2006-01-02")
	if err := s.resetter.ResetDailyChallenges(date); err != nil {
		log.Printf("Error resetting daily challenges: %v", err)
		return
	}
	log.Printf("Daily challenges reset for %s", date)
}
