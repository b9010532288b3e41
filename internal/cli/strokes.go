package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paperjot/inkwell/pkg/ink"
)

// =============================================================================
// Stroke Exchange Format
// =============================================================================

// strokeDocument is the on-disk stroke exchange format used by the CLI.
// The engine itself never touches files; authorship colors are not stored
// and are reassigned on load (loaded strokes count as user ink).
type strokeDocument struct {
	Strokes []ink.Stroke `json:"strokes"`
}

// groupDocument is the on-disk form of a synthesized response.
type groupDocument struct {
	Text   string            `json:"text"`
	Groups []ink.StrokeGroup `json:"groups"`
}

// readStrokes loads a stroke document from path, or stdin when path is "-".
func readStrokes(path string) ([]ink.Stroke, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var doc strokeDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode strokes %s: %w", path, err)
	}
	for i := range doc.Strokes {
		doc.Strokes[i].Color = ink.UserInk
	}
	return doc.Strokes, nil
}

// writeJSON marshals v with indentation and writes it to path (stdout if empty).
func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.Write(data)
	return err
}

// =============================================================================
// Output Helpers
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
