package runner

import (
	"fmt"
	"sync"
	"time"
)

// Statistics holds batch statistics. Safe for concurrent use: the batch loop
// writes while the tray reads.
type Statistics struct {
	StartTime    time.Time
	Games        int
	Successes    int
	Failures     int
	Aborts       int
	BestDistance float64
	BestString   string
	TotalPlay    time.Duration
	hasBest      bool
	mu           sync.RWMutex
}

// NewStatistics creates new statistics
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Add records one outcome
func (s *Statistics) Add(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Games++
	s.TotalPlay += o.Duration
	switch {
	case o.Aborted:
		s.Aborts++
	case o.Success:
		s.Successes++
	default:
		s.Failures++
	}

	if !o.Aborted && (!s.hasBest || o.Distance > s.BestDistance) {
		s.hasBest = true
		s.BestDistance = o.Distance
		s.BestString = o.ControlString
	}
}

// Counts returns games, successes, failures and aborts
func (s *Statistics) Counts() (games, successes, failures, aborts int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Games, s.Successes, s.Failures, s.Aborts
}

// Best returns the furthest non-aborted run
func (s *Statistics) Best() (distance float64, controlString string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BestDistance, s.BestString
}

// SuccessRate is successes over completed (non-aborted) games
func (s *Statistics) SuccessRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	completed := s.Games - s.Aborts
	if completed <= 0 {
		return 0
	}
	return float64(s.Successes) / float64(completed)
}

// GamesPerHour calculates games per hour of wall time
func (s *Statistics) GamesPerHour() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elapsed := time.Since(s.StartTime).Hours()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.Games) / elapsed
}

// Summary is a one-line report for logs and the tray tooltip
func (s *Statistics) Summary() string {
	games, ok, failed, aborted := s.Counts()
	best, _ := s.Best()
	return fmt.Sprintf("%d games: %d ok, %d failed, %d aborted, best %.1fm", games, ok, failed, aborted, best)
}
