package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
	"github.com/paperjot/inkwell/pkg/reason"
)

func TestCanvasSinkAppendNotifies(t *testing.T) {
	notified := 0
	sink := &canvasSink{notify: func() { notified++ }}

	sink.Append(ink.StrokeGroup{Strokes: sampleStrokes()})

	if got := len(sink.Strokes()); got != 2 {
		t.Errorf("sink holds %d strokes, want 2", got)
	}
	if notified != 1 {
		t.Errorf("notify fired %d times, want 1", notified)
	}
}

func TestCanvasSinkStrokesCopies(t *testing.T) {
	sink := &canvasSink{strokes: sampleStrokes()}

	got := sink.Strokes()
	got[0] = ink.Stroke{}

	if sink.Strokes()[0].ID == "" {
		t.Error("mutating the returned slice must not affect the sink")
	}
}

func TestRecordingServiceRemembersLastReply(t *testing.T) {
	svc := &recordingService{inner: newScriptedService([]string{"first", "second"})}

	ctx := context.Background()
	if _, err := svc.Respond(ctx, reason.Request{}); err != nil {
		t.Fatal(err)
	}
	reply, err := svc.Respond(ctx, reason.Request{})
	if err != nil {
		t.Fatal(err)
	}

	if reply.ResponseText != "second" {
		t.Errorf("reply = %q, want %q", reply.ResponseText, "second")
	}
	if svc.last().ResponseText != "second" {
		t.Errorf("last() = %q, want %q", svc.last().ResponseText, "second")
	}
}

func TestNewScriptedServiceFallback(t *testing.T) {
	svc := newScriptedService(nil)

	reply, err := svc.Respond(context.Background(), reason.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if reply.ResponseText == "" {
		t.Error("exhausted script should still serve a fallback reply")
	}
}

func TestAssistCommand(t *testing.T) {
	dir := t.TempDir()

	// Integer durations are nanoseconds; keep the cycle fast.
	cfgPath := filepath.Join(dir, "inkwell.toml")
	cfgContent := `
[session]
debounce = 20000000
recent_count = 1

[playback]
space_delay = 1000000
group_delay = 1000000
complex_delay = 1000000
`
	if err := os.WriteFile(cfgPath, []byte(cfgContent), 0o644); err != nil {
		t.Fatal(err)
	}

	strokes := filepath.Join(dir, "strokes.json")
	doc := strokeDocument{Strokes: []ink.Stroke{
		ink.New([]ink.SamplePoint{
			{Pos: geom.Point{X: 100, Y: 100}},
			{Pos: geom.Point{X: 160, Y: 120}},
		}, ink.UserInk, 2),
	}}
	if err := writeJSON(doc, strokes); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "result.json")
	err := runCommand(t, "assist", strokes, "-o", out,
		"--config", cfgPath, "--reply", "hi")
	if err != nil {
		t.Fatalf("assist failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var result assistResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("assist output invalid: %v", err)
	}
	if result.ResponseText != "hi" {
		t.Errorf("response = %q, want %q", result.ResponseText, "hi")
	}
	if len(result.Strokes) <= 1 {
		t.Error("assist output should include synthesized assistant strokes")
	}
}
