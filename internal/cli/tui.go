package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
	"github.com/paperjot/inkwell/pkg/playback"
)

// =============================================================================
// Playback View
// =============================================================================

// groupRevealedMsg reports one more group appended by the scheduler.
type groupRevealedMsg struct {
	index int
}

// playDoneMsg reports that the scheduler reached a terminal state.
type playDoneMsg struct{}

// discardSink satisfies the playback sink; the view tracks reveals through
// program messages instead.
type discardSink struct{}

func (discardSink) Append(ink.StrokeGroup) {}

// playModel is the bubbletea model for terminal playback of a synthesized
// response. It rasterizes the revealed strokes into a character grid so the
// reveal pacing is visible without a canvas surface.
type playModel struct {
	text     string
	groups   []ink.StrokeGroup
	frame    geom.Rect
	revealed int
	done     bool
	width    int
}

// newPlayModel creates a playback model with a stable drawing frame covering
// every group, so the raster does not shift as groups appear.
func newPlayModel(text string, groups []ink.StrokeGroup) playModel {
	var frame geom.Rect
	for _, g := range groups {
		frame = frame.Union(g.Bounds())
	}
	return playModel{
		text:   text,
		groups: groups,
		frame:  frame,
		width:  72,
	}
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width - 4
		if m.width < 20 {
			m.width = 20
		}
	case groupRevealedMsg:
		if msg.index+1 > m.revealed {
			m.revealed = msg.index + 1
		}
	case playDoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Writing"))
	b.WriteString(" ")
	b.WriteString(StyleValue.Render(m.text))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.renderGrid())
	b.WriteString("\n")

	status := "revealing"
	if m.done {
		status = "done"
	}
	b.WriteString(StyleDim.Render(status))
	b.WriteString(StyleDim.Render(" · "))
	b.WriteString(StyleDim.Render(progressBar(m.revealed, len(m.groups))))
	b.WriteString("\n")

	return b.String()
}

// renderGrid rasterizes the revealed strokes into a character grid. The most
// recently revealed group is tinted like assistant ink so the reveal order
// reads at a glance.
func (m playModel) renderGrid() string {
	cols := m.width
	rows := gridRows(m.frame, cols)

	grid := make([][]byte, rows)
	for i := range grid {
		grid[i] = make([]byte, cols)
	}

	for gi := 0; gi < m.revealed && gi < len(m.groups); gi++ {
		mark := byte(1)
		if gi == m.revealed-1 {
			mark = 2
		}
		for _, s := range m.groups[gi].Strokes {
			for _, pt := range s.Points {
				x, y := m.cell(pt.Pos, cols, rows)
				grid[y][x] = mark
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		for _, cell := range row {
			switch cell {
			case 1:
				b.WriteString(styleUserInk.Render("•"))
			case 2:
				b.WriteString(styleAssistantInk.Render("•"))
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// cell maps a canvas point into grid coordinates, clamped to the grid.
func (m playModel) cell(p geom.Point, cols, rows int) (int, int) {
	x, y := 0, 0
	if m.frame.Width > 0 {
		x = int((p.X - m.frame.X) / m.frame.Width * float64(cols-1))
	}
	if m.frame.Height > 0 {
		y = int((p.Y - m.frame.Y) / m.frame.Height * float64(rows-1))
	}
	if x < 0 {
		x = 0
	}
	if x >= cols {
		x = cols - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= rows {
		y = rows - 1
	}
	return x, y
}

// gridRows picks a row count that roughly preserves the frame's aspect
// ratio. Terminal cells are about twice as tall as wide.
func gridRows(frame geom.Rect, cols int) int {
	rows := 8
	if frame.Width > 0 {
		rows = int(frame.Height / frame.Width * float64(cols) / 2)
	}
	if rows < 4 {
		rows = 4
	}
	if rows > 24 {
		rows = 24
	}
	return rows
}

// progressBar renders a simple reveal counter like "[####----] 4/8".
func progressBar(done, total int) string {
	const width = 16
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("#", filled), strings.Repeat("-", width-filled), done, total)
}

// =============================================================================
// Playback Driver
// =============================================================================

// playGroups reveals the groups in the terminal with the configured timing.
// The scheduler runs against a discard sink; the view observes reveals via
// program messages. Quitting the view cancels the play.
func playGroups(ctx context.Context, cfg config.Playback, text string, groups []ink.StrokeGroup) error {
	p := tea.NewProgram(newPlayModel(text, groups))

	handle := playback.New(cfg).Play(ctx, groups, discardSink{},
		func(index int, _ ink.StrokeGroup) {
			p.Send(groupRevealedMsg{index: index})
		},
		func() {
			p.Send(playDoneMsg{})
		},
	)

	_, err := p.Run()
	handle.Cancel()
	<-handle.Done()

	if err != nil {
		return err
	}
	if handle.State() == playback.Cancelled {
		printWarning("Playback interrupted")
	} else {
		printSuccess("Playback complete")
	}
	return nil
}
