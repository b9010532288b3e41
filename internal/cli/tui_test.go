package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
)

func playFixture() []ink.StrokeGroup {
	return []ink.StrokeGroup{
		{Strokes: []ink.Stroke{ink.New([]ink.SamplePoint{
			{Pos: geom.Point{X: 0, Y: 0}},
			{Pos: geom.Point{X: 10, Y: 20}},
		}, ink.AssistantInk, 2)}},
		{}, // space
		{Strokes: []ink.Stroke{ink.New([]ink.SamplePoint{
			{Pos: geom.Point{X: 40, Y: 10}},
		}, ink.AssistantInk, 2)}},
	}
}

func TestPlayModelRevealProgress(t *testing.T) {
	m := newPlayModel("ok", playFixture())

	updated, _ := m.Update(groupRevealedMsg{index: 0})
	m = updated.(playModel)
	if m.revealed != 1 {
		t.Errorf("revealed = %d, want 1", m.revealed)
	}

	// Out-of-order delivery must not move the counter backwards.
	updated, _ = m.Update(groupRevealedMsg{index: 0})
	m = updated.(playModel)
	if m.revealed != 1 {
		t.Errorf("revealed = %d after duplicate, want 1", m.revealed)
	}

	updated, _ = m.Update(groupRevealedMsg{index: 2})
	m = updated.(playModel)
	if m.revealed != 3 {
		t.Errorf("revealed = %d, want 3", m.revealed)
	}
}

func TestPlayModelDoneQuits(t *testing.T) {
	m := newPlayModel("ok", playFixture())

	updated, cmd := m.Update(playDoneMsg{})
	m = updated.(playModel)
	if !m.done {
		t.Error("model should be done after playDoneMsg")
	}
	if cmd == nil {
		t.Fatal("playDoneMsg should quit the program")
	}
}

func TestPlayModelQuitKeys(t *testing.T) {
	m := newPlayModel("ok", playFixture())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("ctrl+c should quit")
	}
}

func TestPlayModelViewShowsRevealedInk(t *testing.T) {
	m := newPlayModel("ok", playFixture())

	before := m.View()
	if strings.Contains(before, "•") {
		t.Error("nothing should be drawn before the first reveal")
	}

	updated, _ := m.Update(groupRevealedMsg{index: 0})
	m = updated.(playModel)

	after := m.View()
	if !strings.Contains(after, "•") {
		t.Error("revealed strokes should be drawn")
	}
	if !strings.Contains(after, "ok") {
		t.Error("view should show the response text")
	}
}

func TestPlayModelFrameCoversAllGroups(t *testing.T) {
	m := newPlayModel("ok", playFixture())

	if m.frame.Width < 40 {
		t.Errorf("frame width = %v, should span every group", m.frame.Width)
	}
}

func TestProgressBar(t *testing.T) {
	bar := progressBar(2, 4)
	if !strings.Contains(bar, "2/4") {
		t.Errorf("progressBar = %q, should show 2/4", bar)
	}
	if !strings.Contains(bar, "########") {
		t.Errorf("progressBar = %q, should be half filled", bar)
	}

	empty := progressBar(0, 0)
	if !strings.Contains(empty, "0/0") {
		t.Errorf("progressBar = %q, should handle zero totals", empty)
	}
}

func TestGridRowsAspect(t *testing.T) {
	rows := gridRows(geom.Rect{Width: 100, Height: 100}, 72)
	if rows < 4 || rows > 24 {
		t.Errorf("gridRows = %d, should stay within bounds", rows)
	}

	if got := gridRows(geom.Rect{}, 72); got < 4 {
		t.Errorf("gridRows on empty frame = %d, want at least 4", got)
	}
}
