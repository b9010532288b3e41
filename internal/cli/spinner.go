package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// spinnerInterval is the frame period. Slow enough to stay calm in a
// terminal, fast enough to read as motion.
const spinnerInterval = 120 * time.Millisecond

// Spinner animates a one-line progress indicator on stderr while a
// pipeline stage runs. It shows elapsed time after the first second so
// a stalled reasoning call is visible as such.
type Spinner struct {
	label   string
	out     io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	stop    sync.Once
}

func newSpinnerWithContext(ctx context.Context, label string) *Spinner {
	inner, cancel := context.WithCancel(ctx)
	return &Spinner{
		label:   label,
		out:     os.Stderr,
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start launches the animation goroutine. Stop must be called to
// reclaim it.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		frames := []string{"◐", "◓", "◑", "◒"}
		start := time.Now()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				line := s.label
				if elapsed := time.Since(start); elapsed >= time.Second {
					line = fmt.Sprintf("%s (%ds)", s.label, int(elapsed.Seconds()))
				}
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frames[i%len(frames)]), StyleDim.Render(line))
			}
		}
	}()
}

// Stop halts the animation and clears the line. Safe to call more than
// once; waits for the goroutine to exit before returning.
func (s *Spinner) Stop() {
	s.stop.Do(s.cancel)
	<-s.stopped
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended the spinner
// rather than an explicit Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// clear erases the spinner line with an ANSI clear-to-end-of-line.
func (s *Spinner) clear() {
	fmt.Fprint(s.out, "\r\x1b[K")
}
