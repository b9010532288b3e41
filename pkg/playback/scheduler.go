// Package playback reveals synthesized stroke groups one at a time, paced
// so the presentation surface can animate "handwriting" appearing.
//
// # State machine
//
// A play runs Idle -> Running -> (Completed | Cancelled). Each group is
// appended to the sink as one atomic update, then the scheduler sleeps for a
// delay chosen by the group's weight before revealing the next. Cancellation
// stops the reveal at the next suspension point; the completion callback
// still fires exactly once so callers can clean up uniformly, and the handle
// reports Cancelled so it is distinguishable from a natural finish.
//
// No group is ever revealed twice, and no group is skipped once started.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/ink"
	"github.com/paperjot/inkwell/pkg/observability"
)

// Sink receives revealed stroke groups. Append must apply the whole group
// in one step; observers of the sink never see a partial group.
type Sink interface {
	Append(group ink.StrokeGroup)
}

// State is the lifecycle of one play.
type State int

const (
	Idle State = iota
	Running
	Completed
	Cancelled
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Handle controls and observes one play.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	state State
}

// Cancel stops the play at its next suspension point. Safe to call more
// than once and after completion.
func (h *Handle) Cancel() {
	h.cancel()
}

// Done closes when the play reaches a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Handle) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// Scheduler paces group reveals.
type Scheduler struct {
	cfg config.Playback
}

// New creates a scheduler with the given timing tunables.
func New(cfg config.Playback) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// Play starts revealing groups into the sink and returns immediately with a
// handle. onGroup (optional) fires after each group is appended; onComplete
// (optional) fires exactly once when the play completes or is cancelled.
func (s *Scheduler) Play(ctx context.Context, groups []ink.StrokeGroup, sink Sink, onGroup func(index int, group ink.StrokeGroup), onComplete func()) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
		state:  Running,
	}

	go s.run(ctx, h, groups, sink, onGroup, onComplete)
	return h
}

func (s *Scheduler) run(ctx context.Context, h *Handle, groups []ink.StrokeGroup, sink Sink, onGroup func(int, ink.StrokeGroup), onComplete func()) {
	defer close(h.done)
	defer func() {
		if onComplete != nil {
			onComplete()
		}
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()
	if !timer.Stop() {
		<-timer.C
	}

	start := time.Now()
	for i, group := range groups {
		if ctx.Err() != nil {
			h.setState(Cancelled)
			observability.Playback().OnPlaybackCancelled(ctx, i, len(groups))
			return
		}

		// The whole group lands in the sink as one update.
		sink.Append(group)
		if onGroup != nil {
			onGroup(i, group)
		}
		observability.Playback().OnGroupRevealed(ctx, i, len(groups))

		if i == len(groups)-1 {
			break
		}

		timer.Reset(s.delayFor(group))
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			h.setState(Cancelled)
			observability.Playback().OnPlaybackCancelled(ctx, i+1, len(groups))
			return
		case <-timer.C:
		}
	}

	h.setState(Completed)
	observability.Playback().OnPlaybackComplete(ctx, len(groups), time.Since(start))
}

// delayFor picks the pause after a revealed group: spaces read fast,
// stroke-heavy characters read slow.
func (s *Scheduler) delayFor(group ink.StrokeGroup) time.Duration {
	switch {
	case group.IsSpace():
		return s.cfg.SpaceDelay
	case len(group.Strokes) > s.cfg.ComplexThreshold:
		return s.cfg.ComplexDelay
	default:
		return s.cfg.GroupDelay
	}
}
