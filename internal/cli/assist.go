package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/paperjot/inkwell/pkg/ink"
	"github.com/paperjot/inkwell/pkg/playback"
	"github.com/paperjot/inkwell/pkg/reason"
	"github.com/paperjot/inkwell/pkg/session"
)

// assistResult is the on-disk output of one assist cycle.
type assistResult struct {
	RecognizedText string       `json:"recognized_text"`
	ResponseText   string       `json:"response_text"`
	Strokes        []ink.Stroke `json:"strokes"`
}

// assistCommand creates the assist command for running a full assist cycle.
func (c *CLI) assistCommand() *cobra.Command {
	var (
		output  string
		replies []string
	)

	cmd := &cobra.Command{
		Use:   "assist [strokes.json]",
		Short: "Run a full assist cycle with a scripted reasoner",
		Long: `Run a full assist cycle with a scripted reasoner.

The assist command feeds a stroke document into the session controller: the
canvas is analyzed, snapshotted, and sent to a scripted reasoning service,
and the scripted response is placed and written back as handwriting through
the playback scheduler. The output document holds the reply and the full
canvas, assistant strokes included.

Each --reply is served in order; when the script runs out, a fixed fallback
reply is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAssist(cmd.Context(), args[0], output, replies)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringArrayVar(&replies, "reply", nil, "scripted response text (repeatable)")

	return cmd
}

// runAssist seeds a canvas sink with the loaded strokes and drives one cycle
// through the session controller.
func (c *CLI) runAssist(ctx context.Context, input, output string, replies []string) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	strokes, err := readStrokes(input)
	if err != nil {
		return fmt.Errorf("load strokes %s: %w", input, err)
	}
	logger.Infof("Loaded %d strokes", len(strokes))

	svc := &recordingService{inner: newScriptedService(replies)}

	// Scripted replies must not be served from a previous run's cache.
	runner, err := c.newRunner(cfg, svc, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// Seed everything but the trailing strokes before the controller takes
	// its baseline, so only those count as the recent writing.
	seed := len(strokes) - cfg.Session.RecentCount
	if seed < 0 {
		seed = 0
	}
	sink := &canvasSink{strokes: append([]ink.Stroke(nil), strokes[:seed]...)}

	ends := make(chan session.CycleOutcome, 1)
	ctrl := session.New(cfg.Session, runner, playback.New(cfg.Playback), sink, c.Logger)
	ctrl.OnCycleEnd = func(outcome session.CycleOutcome, err error) {
		if err != nil {
			logger.Errorf("Cycle ended: %v", err)
		}
		select {
		case ends <- outcome:
		default:
		}
	}
	sink.notify = ctrl.NotifyChange

	printInfo("Running assist cycle with %d scripted replies", len(replies))

	ctrl.Start(ctx)
	defer ctrl.Stop()

	for _, s := range strokes[seed:] {
		sink.Append(ink.StrokeGroup{Strokes: []ink.Stroke{s}})
	}
	ctrl.NotifyChange()

	spinner := newSpinnerWithContext(ctx, "Thinking...")
	spinner.Start()

	var outcome session.CycleOutcome
	select {
	case outcome = <-ends:
	case <-ctx.Done():
		spinner.StopWithError("Interrupted")
		return ctx.Err()
	}
	spinner.Stop()

	if outcome != session.CycleCompleted {
		printWarning("Cycle ended %s", outcome)
		return nil
	}

	reply := svc.last()
	result := assistResult{
		RecognizedText: reply.RecognizedText,
		ResponseText:   reply.ResponseText,
		Strokes:        sink.Strokes(),
	}
	if err := writeJSON(result, output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if output != "" {
		printSuccess("Assist cycle complete")
		printFile(output)
	}
	printKeyValue("Recognized", reply.RecognizedText)
	printKeyValue("Response", reply.ResponseText)
	printStats(len(result.Strokes), 0, false)
	return nil
}

// newScriptedService builds a scripted reasoner from --reply values.
func newScriptedService(texts []string) *reason.Scripted {
	replies := make([]reason.Reply, len(texts))
	for i, t := range texts {
		replies[i] = reason.Reply{ResponseText: t}
	}
	return reason.NewScripted(replies...)
}

// =============================================================================
// Session Plumbing
// =============================================================================

// canvasSink is an in-memory canvas for CLI assist runs. Appends forward a
// change notification like a real capture surface would; the controller's
// playback guard filters the self-triggered ones.
type canvasSink struct {
	mu      sync.Mutex
	strokes []ink.Stroke
	notify  func()
}

func (s *canvasSink) Strokes() []ink.Stroke {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ink.Stroke(nil), s.strokes...)
}

func (s *canvasSink) Append(group ink.StrokeGroup) {
	s.mu.Lock()
	s.strokes = append(s.strokes, group.Strokes...)
	s.mu.Unlock()
	if s.notify != nil {
		s.notify()
	}
}

// recordingService remembers the last reply it served so the CLI can report
// it after the cycle finishes.
type recordingService struct {
	inner reason.Service

	mu   sync.Mutex
	most reason.Reply
}

func (r *recordingService) Respond(ctx context.Context, req reason.Request) (reason.Reply, error) {
	reply, err := r.inner.Respond(ctx, req)
	if err != nil {
		return reply, err
	}
	r.mu.Lock()
	r.most = reply
	r.mu.Unlock()
	return reply, nil
}

func (r *recordingService) last() reason.Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.most
}
