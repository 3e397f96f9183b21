package bot

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// messageEditor is the slice of the Discord session the animation needs.
type messageEditor interface {
	EditMessage(channelID, messageID, content string) error
}

// raceRunner drives one race's animation. It owns its lanes exclusively; no
// other goroutine touches them once Run starts.
type raceRunner struct {
	raceID    int64
	channelID string
	messageID string
	lanes     []raceLane
	duration  int
	interval  time.Duration
	editor    messageEditor
}

// Run ticks once per interval, editing the race message in place with each
// frame. It stops early the moment every lane has finished, appending the
// ranking to that last frame. A failed edit is logged and skipped; it never
// aborts the loop.
func (r *raceRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	last := 0
	for _, lane := range r.lanes {
		if lane.Finish > last {
			last = lane.Finish
		}
	}

	for second := 1; second <= r.duration; second++ {
		select {
		case <-ctx.Done():
			log.WithField("raceID", r.raceID).Info("Race animation cancelled")
			return
		case <-ticker.C:
		}

		frame := renderFrame(r.lanes, second, r.duration)
		done := second >= last
		if done {
			frame += renderRanking(r.lanes)
		}

		if err := r.editor.EditMessage(r.channelID, r.messageID, frame); err != nil {
			log.WithFields(log.Fields{
				"raceID": r.raceID,
				"second": second,
				"error":  err,
			}).Warn("Failed to edit race frame")
		}

		if done {
			return
		}
	}

	// Should be unreachable given the finish assignment, but never leave a
	// race without its ranking.
	frame := renderFrame(r.lanes, r.duration, r.duration) + renderRanking(r.lanes)
	if err := r.editor.EditMessage(r.channelID, r.messageID, frame); err != nil {
		log.WithFields(log.Fields{
			"raceID": r.raceID,
			"error":  err,
		}).Warn("Failed to edit final race frame")
	}
}

// runnerRegistry tracks running animations so a race cannot be started twice
// and a force-end can cancel it.
type runnerRegistry struct {
	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
}

func newRunnerRegistry() *runnerRegistry {
	return &runnerRegistry{cancels: make(map[int64]context.CancelFunc)}
}

// acquire registers a cancel func for the race. Returns false when the race
// already has a running animation.
func (g *runnerRegistry) acquire(raceID int64, cancel context.CancelFunc) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.cancels[raceID]; exists {
		return false
	}
	g.cancels[raceID] = cancel
	return true
}

// release drops the race's registration after its runner returns.
func (g *runnerRegistry) release(raceID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.cancels, raceID)
}

// cancel stops a running animation, reporting whether one was registered.
func (g *runnerRegistry) cancel(raceID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	cancel, exists := g.cancels[raceID]
	if exists {
		cancel()
		delete(g.cancels, raceID)
	}
	return exists
}

// cancelAll stops every running animation, used on shutdown.
func (g *runnerRegistry) cancelAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for raceID, cancel := range g.cancels {
		cancel()
		delete(g.cancels, raceID)
	}
}
