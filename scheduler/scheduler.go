// scheduler/scheduler.go
package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/wfunc/powerball/game"
	"github.com/wfunc/powerball/logger"
)

// wakeInterval is how often the driver wakes up to catch up on drawings.
// High speeds are reached by batching many ticks per wakeup, not by waking
// more often.
const wakeInterval = 10 * time.Millisecond

// Metrics receives per-tick observations. A nil Metrics is allowed.
type Metrics interface {
	ObserveTickDuration(d time.Duration)
	AddDrawings(n int)
	RecordJackpot()
}

// Scheduler is the single periodic driver that invokes the session's Tick
// at the configured drawings-per-second rate. Ticks never overlap: one
// goroutine runs them all, and each batch finishes before the next wakeup
// is serviced.
type Scheduler struct {
	session *game.Session
	metrics Metrics

	closeChan chan struct{}
	stopOnce  sync.Once
}

// New creates a scheduler for the session. Call Start to begin drawing.
func New(session *game.Session, metrics Metrics) *Scheduler {
	return &Scheduler{
		session:   session,
		metrics:   metrics,
		closeChan: make(chan struct{}),
	}
}

// Start launches the drive loop in its own goroutine.
func (s *Scheduler) Start() {
	go s.loop()
}

// Stop shuts the drive loop down. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.closeChan)
	})
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(wakeInterval)
	defer ticker.Stop()

	windowStart := time.Now()
	drawsThisWindow := 0

	for {
		select {
		case <-ticker.C:
			speed := s.session.Speed()
			elapsed := time.Since(windowStart).Seconds()

			// How many drawings the current window is owed so far.
			target := int(elapsed * float64(speed))
			if target > drawsThisWindow {
				todo := target - drawsThisWindow
				if todo > speed {
					todo = speed
				}
				done, jackpot := s.runBatch(todo)
				drawsThisWindow += done

				// Log once, on the batch where the transition happened.
				if jackpot && done > 0 {
					logger.Log.Infof("Jackpot hit after %d drawings, game stopped", s.session.Snapshot().DrawCount)
				}
			}

			// Reset the pacing window every second.
			if elapsed >= 1.0 {
				windowStart = time.Now()
				drawsThisWindow = 0
			}

		case <-s.closeChan:
			return
		}
	}
}

// runBatch executes up to n ticks and reports how many ran and whether the
// batch ended on the jackpot transition.
func (s *Scheduler) runBatch(n int) (done int, jackpot bool) {
	for i := 0; i < n; i++ {
		start := time.Now()
		_, err := s.session.Tick()
		if err != nil {
			// Idle sessions simply have nothing to draw; the jackpot
			// state stops the game until an admin resumes it.
			if errors.Is(err, game.ErrJackpot) {
				return done, true
			}
			return done, false
		}
		done++
		if s.metrics != nil {
			s.metrics.ObserveTickDuration(time.Since(start))
		}
		if s.session.State() == game.StateJackpot {
			if s.metrics != nil {
				s.metrics.RecordJackpot()
			}
			jackpot = true
			break
		}
	}
	if s.metrics != nil && done > 0 {
		s.metrics.AddDrawings(done)
	}
	return done, jackpot
}
