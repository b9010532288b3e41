package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
)

// recordingSink collects appended groups and asserts atomicity by counting
// one append per group.
type recordingSink struct {
	mu     sync.Mutex
	groups []ink.StrokeGroup
}

func (r *recordingSink) Append(g ink.StrokeGroup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = append(r.groups, g)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}

func fastConfig() config.Playback {
	return config.Playback{
		SpaceDelay:       time.Millisecond,
		GroupDelay:       2 * time.Millisecond,
		ComplexDelay:     3 * time.Millisecond,
		ComplexThreshold: 5,
	}
}

func group(strokes int) ink.StrokeGroup {
	g := ink.StrokeGroup{}
	for i := 0; i < strokes; i++ {
		g.Strokes = append(g.Strokes, ink.New([]ink.SamplePoint{
			{Pos: geom.Point{X: float64(i), Y: 0}},
			{Pos: geom.Point{X: float64(i), Y: 10}},
		}, ink.AssistantInk, 2))
	}
	return g
}

func TestPlayRevealsAllGroupsInOrder(t *testing.T) {
	s := New(fastConfig())
	sink := &recordingSink{}
	groups := []ink.StrokeGroup{group(1), {}, group(3)}

	var order []int
	var mu sync.Mutex
	h := s.Play(context.Background(), groups, sink, func(i int, _ ink.StrokeGroup) {
		mu.Lock()
		order = append(order, i)
		mu.Unlock()
	}, nil)

	<-h.Done()

	if h.State() != Completed {
		t.Fatalf("state = %v, want completed", h.State())
	}
	if sink.count() != 3 {
		t.Fatalf("sink got %d groups, want 3", sink.count())
	}
	mu.Lock()
	defer mu.Unlock()
	for i, idx := range order {
		if idx != i {
			t.Errorf("reveal order[%d] = %d, want %d", i, idx, i)
		}
	}
}

func TestOnCompleteFiresExactlyOnce(t *testing.T) {
	s := New(fastConfig())
	sink := &recordingSink{}

	var completions int
	var mu sync.Mutex
	h := s.Play(context.Background(), []ink.StrokeGroup{group(1), group(1)}, sink, nil, func() {
		mu.Lock()
		completions++
		mu.Unlock()
	})

	<-h.Done()
	time.Sleep(5 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if completions != 1 {
		t.Errorf("onComplete fired %d times, want 1", completions)
	}
}

func TestCancelStopsFurtherReveals(t *testing.T) {
	cfg := fastConfig()
	cfg.GroupDelay = time.Hour // park the scheduler at the first delay
	s := New(cfg)
	sink := &recordingSink{}

	completed := make(chan struct{})
	h := s.Play(context.Background(), []ink.StrokeGroup{group(1), group(1), group(1)}, sink, nil, func() {
		close(completed)
	})

	// Wait until the first group has landed.
	deadline := time.Now().Add(time.Second)
	for sink.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	h.Cancel()

	select {
	case <-completed:
	case <-time.After(time.Second):
		t.Fatal("onComplete should fire on cancellation")
	}
	<-h.Done()

	if h.State() != Cancelled {
		t.Fatalf("state = %v, want cancelled", h.State())
	}
	if sink.count() != 1 {
		t.Errorf("sink got %d groups after cancel, want 1", sink.count())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	s := New(fastConfig())
	sink := &recordingSink{}
	h := s.Play(context.Background(), []ink.StrokeGroup{group(1)}, sink, nil, nil)

	<-h.Done()
	h.Cancel()
	h.Cancel()

	// A play that finished before cancellation stays Completed.
	if h.State() != Completed {
		t.Errorf("state = %v, want completed", h.State())
	}
}

func TestParentContextCancels(t *testing.T) {
	cfg := fastConfig()
	cfg.GroupDelay = time.Hour
	s := New(cfg)
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	h := s.Play(ctx, []ink.StrokeGroup{group(1), group(1)}, sink, nil, nil)

	deadline := time.Now().Add(time.Second)
	for sink.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-h.Done()

	if h.State() != Cancelled {
		t.Errorf("state = %v, want cancelled", h.State())
	}
}

func TestDelayForClassification(t *testing.T) {
	cfg := fastConfig()
	s := New(cfg)

	if d := s.delayFor(ink.StrokeGroup{}); d != cfg.SpaceDelay {
		t.Errorf("space delay = %v, want %v", d, cfg.SpaceDelay)
	}
	if d := s.delayFor(group(2)); d != cfg.GroupDelay {
		t.Errorf("group delay = %v, want %v", d, cfg.GroupDelay)
	}
	if d := s.delayFor(group(6)); d != cfg.ComplexDelay {
		t.Errorf("complex delay = %v, want %v", d, cfg.ComplexDelay)
	}
}

func TestEmptyGroupListCompletesImmediately(t *testing.T) {
	s := New(fastConfig())
	sink := &recordingSink{}
	h := s.Play(context.Background(), nil, sink, nil, nil)

	<-h.Done()
	if h.State() != Completed {
		t.Errorf("state = %v, want completed", h.State())
	}
	if sink.count() != 0 {
		t.Errorf("sink got %d groups, want 0", sink.count())
	}
}
