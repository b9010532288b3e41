// Package session coordinates assist cycles over a live stroke sink.
//
// A Controller watches the presentation surface's stroke sink for new user
// ink and, after a quiet debounce period, runs one writing cycle: analyze the
// canvas, ask the reasoning service for a reply, place it, synthesize it, and
// play it back onto the sink. The controller owns the per-cycle mutable state
// the engine needs:
//   - the last-seen stroke count, so only new ink triggers work
//   - the active cycle's cancellation, so new ink always wins over an
//     in-flight reasoning call
//   - a re-entrancy guard, so the controller's own playback writes are not
//     mistaken for user input
//
// All state lives on a single run loop goroutine; the surface only posts
// change notifications. At most one cycle is active at any time.
//
// # Usage
//
//	ctl := session.New(cfg.Session, runner, scheduler, sink, logger)
//	ctl.Start(ctx)
//	defer ctl.Stop()
//
//	// From the presentation surface, on every sink change:
//	ctl.NotifyChange()
//
//	// From input handling that knows a pen touched down:
//	ctl.Interrupt()
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/ink"
	"github.com/paperjot/inkwell/pkg/pipeline"
	"github.com/paperjot/inkwell/pkg/playback"
)

// Sink is the live drawing owned by the presentation surface. Reads and
// appends happen only from the controller's run loop or from an active
// playback it started, never concurrently.
type Sink interface {
	// Strokes returns the current stroke list in capture order.
	Strokes() []ink.Stroke

	// Append adds a synthesized group to the drawing.
	Append(group ink.StrokeGroup)
}

// CycleOutcome describes how a cycle ended.
type CycleOutcome int

const (
	// CycleCompleted means the reply was fully played back.
	CycleCompleted CycleOutcome = iota

	// CycleCancelled means new ink or shutdown interrupted the cycle.
	CycleCancelled

	// CycleFailed means the reasoning boundary reported an error.
	CycleFailed
)

// String returns the outcome name.
func (o CycleOutcome) String() string {
	switch o {
	case CycleCompleted:
		return "completed"
	case CycleCancelled:
		return "cancelled"
	case CycleFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// phase tracks which suspension point the active cycle is at.
type phase int

const (
	phaseIdle      phase = iota
	phaseReasoning       // pipeline running, awaiting the service
	phasePlaying         // playback mutating the sink
)

// Controller runs assist cycles against a stroke sink.
type Controller struct {
	cfg    config.Session
	runner *pipeline.Runner
	sched  *playback.Scheduler
	sink   Sink
	logger *log.Logger

	// OnCycleEnd, if set before Start, is called after every cycle with its
	// outcome. Called from the run loop; keep it fast.
	OnCycleEnd func(outcome CycleOutcome, err error)

	notify      chan struct{}
	interrupt   chan struct{}
	results     chan cycleResult
	completions chan completion
	stop        chan struct{}
	stopped     chan struct{}
	startOnce   sync.Once
	stopOnce    sync.Once

	// Run loop state. Touched only on the run loop goroutine.
	debounce    *time.Timer
	lastSeen    int
	phase       phase
	cycleBase   int
	cycleCtx    context.Context
	cycleCancel context.CancelFunc
}

// cycleResult is posted when the pipeline half of a cycle finishes.
type cycleResult struct {
	groups []ink.StrokeGroup
	err    error
}

// completion is posted when the playback half of a cycle finishes.
type completion struct {
	outcome CycleOutcome
	err     error

	// played reports that playback ran and appended strokes to the sink.
	played   bool
	appended int
}

// New creates a Controller. The runner must have a reasoning service
// configured or every cycle will fail.
func New(cfg config.Session, runner *pipeline.Runner, sched *playback.Scheduler, sink Sink, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		cfg:         cfg,
		runner:      runner,
		sched:       sched,
		sink:        sink,
		logger:      logger,
		notify:      make(chan struct{}, 1),
		interrupt:   make(chan struct{}, 1),
		results:     make(chan cycleResult),
		completions: make(chan completion),
		stop:        make(chan struct{}),
		stopped:     make(chan struct{}),
		lastSeen:    len(sink.Strokes()),
	}
}

// Start launches the run loop. Calling Start more than once has no effect.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go c.run(ctx)
	})
}

// Stop cancels any active cycle and shuts the run loop down, blocking until
// it has exited.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.stopped
}

// NotifyChange tells the controller the sink's strokes changed. Safe to call
// from the presentation surface at any time; notifications are coalesced.
// Changes made by the controller's own playback are ignored.
func (c *Controller) NotifyChange() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Interrupt cancels the active cycle even while playback is mutating the
// sink. Surfaces that can tell pen input from programmatic appends should
// call this on pen-down instead of relying on NotifyChange.
func (c *Controller) Interrupt() {
	select {
	case c.interrupt <- struct{}{}:
	default:
	}
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.stopped)

	c.debounce = time.NewTimer(c.cfg.Debounce)
	if !c.debounce.Stop() {
		<-c.debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return

		case <-c.stop:
			c.shutdown()
			return

		case <-c.notify:
			if c.phase == phasePlaying {
				// Self-triggered by our own playback appends.
				continue
			}
			c.onInk()

		case <-c.interrupt:
			c.onInk()

		case <-c.debounce.C:
			c.startCycle(ctx)

		case res := <-c.results:
			c.onPipelineDone(res)

		case done := <-c.completions:
			c.finishCycle(done)
		}
	}
}

// onInk handles new user ink: cancel whatever is in flight and re-arm the
// debounce timer so the next cycle starts after a quiet period.
func (c *Controller) onInk() {
	c.cancelActive()
	if !c.debounce.Stop() {
		select {
		case <-c.debounce.C:
		default:
		}
	}
	c.debounce.Reset(c.cfg.Debounce)
}

// startCycle kicks off the pipeline half of a cycle on its own goroutine.
// Run loop state is only touched on the loop, never on that goroutine.
func (c *Controller) startCycle(ctx context.Context) {
	if c.phase != phaseIdle {
		// A cancelled cycle has not unwound yet; try again after another
		// debounce period.
		c.debounce.Reset(c.cfg.Debounce)
		return
	}

	strokes := c.sink.Strokes()
	recent := len(strokes) - c.lastSeen
	if recent <= 0 {
		return
	}

	c.cycleCtx, c.cycleCancel = context.WithCancel(ctx)
	c.phase = phaseReasoning
	c.cycleBase = len(strokes)

	c.logger.Debug("starting assist cycle", "strokes", len(strokes), "recent", recent)

	cycleCtx := c.cycleCtx
	go func() {
		result, err := c.runner.Execute(cycleCtx, strokes, pipeline.Options{RecentCount: recent})
		if err != nil {
			c.results <- cycleResult{err: err}
			return
		}
		c.results <- cycleResult{groups: result.Groups}
	}()
}

// onPipelineDone transitions a cycle from reasoning to playback, or finishes
// it if the pipeline failed or was cancelled.
func (c *Controller) onPipelineDone(res cycleResult) {
	if res.err != nil {
		outcome := CycleFailed
		if c.cycleCtx.Err() != nil {
			outcome = CycleCancelled
		}
		c.finishCycle(completion{outcome: outcome, err: res.err})
		return
	}
	if c.cycleCtx.Err() != nil {
		c.finishCycle(completion{outcome: CycleCancelled})
		return
	}

	// The guard flips before Play so the first self-append's notification
	// already sees phasePlaying.
	c.phase = phasePlaying

	// onGroup runs sequentially on the playback goroutine; the watcher only
	// reads appended after Done() closes, which orders the accesses.
	appended := 0
	handle := c.sched.Play(c.cycleCtx, res.groups, c.sink, func(_ int, g ink.StrokeGroup) {
		appended += len(g.Strokes)
	}, nil)

	go func() {
		<-handle.Done()
		outcome := CycleCompleted
		if handle.State() == playback.Cancelled {
			outcome = CycleCancelled
		}
		c.completions <- completion{outcome: outcome, played: true, appended: appended}
	}()
}

// finishCycle absorbs a cycle result back into run loop state.
func (c *Controller) finishCycle(done completion) {
	c.phase = phaseIdle
	c.cycleCtx = nil
	c.cycleCancel = nil

	// Once playback ran, the strokes the cycle consumed and the reply
	// strokes it appended count as seen. Partially revealed groups from a
	// cancelled playback are seen too. Ink that arrived during the cycle
	// stays unseen so the re-armed debounce picks it up. A cycle that never
	// played (failed, or cancelled while reasoning) consumed nothing.
	if done.played {
		c.lastSeen = c.cycleBase + done.appended
	}

	switch done.outcome {
	case CycleCompleted:
		c.logger.Info("assist cycle completed", "seen", c.lastSeen)
	case CycleCancelled:
		c.logger.Debug("assist cycle cancelled")
	case CycleFailed:
		c.logger.Error("assist cycle failed", "err", done.err)
	}

	if c.OnCycleEnd != nil {
		c.OnCycleEnd(done.outcome, done.err)
	}
}

// cancelActive cancels the in-flight cycle, if any. The cycle's goroutine
// still posts its result, handled by the main loop or shutdown.
func (c *Controller) cancelActive() {
	if c.cycleCancel != nil {
		c.cycleCancel()
	}
}

// shutdown cancels the active cycle and waits for its pending post so the
// cycle goroutine never blocks on a dead loop.
func (c *Controller) shutdown() {
	c.cancelActive()
	switch c.phase {
	case phaseReasoning:
		res := <-c.results
		c.onPipelineDone(res)
		// A successful result flips into playback; wait that out too.
		if c.phase == phasePlaying {
			c.finishCycle(<-c.completions)
		}
	case phasePlaying:
		c.finishCycle(<-c.completions)
	}
}
