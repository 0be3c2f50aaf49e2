// ABOUTME: Fixed timestep game loop driver
// ABOUTME: Runs a step function at a fixed rate and drops ticks it cannot catch up
package loop

import (
	"context"
	"log"
	"time"
)

// DefaultRate is the tick rate of the demo host
const DefaultRate = 60

// maxCatchUp bounds the steps run for a single wakeup
const maxCatchUp = 5

// Stats tracks loop metrics
type Stats struct {
	Ticks   int64
	Dropped int64
}

// Loop calls a step function at a fixed rate
type Loop struct {
	period time.Duration
	step   func()
	next   time.Time
	stats  Stats
}

// New creates a loop that runs step hz times per second
func New(hz int, step func()) *Loop {
	if hz <= 0 {
		hz = DefaultRate
	}
	return &Loop{
		period: time.Second / time.Duration(hz),
		step:   step,
	}
}

// Period returns the time between steps
func (l *Loop) Period() time.Duration {
	return l.period
}

// Advance runs every step due by now and returns how many ran. Steps more
// than maxCatchUp behind are dropped.
func (l *Loop) Advance(now time.Time) int {
	if l.next.IsZero() {
		l.next = now
	}

	ran := 0
	for !now.Before(l.next) {
		if ran == maxCatchUp {
			behind := int64(now.Sub(l.next)/l.period) + 1
			l.stats.Dropped += behind
			l.next = l.next.Add(time.Duration(behind) * l.period)
			log.Printf("Warning: game loop fell behind, dropped %d ticks", behind)
			break
		}

		l.step()
		l.stats.Ticks++
		l.next = l.next.Add(l.period)
		ran++
	}
	return ran
}

// Run steps the loop until ctx is done
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	l.Advance(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Advance(now)
		}
	}
}

// Stats returns loop statistics
func (l *Loop) Stats() Stats {
	return l.stats
}
