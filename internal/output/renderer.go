package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/zuhairmahd/AutopilotLogViewer/internal/model"
)

// Renderer writes Records to an output stream.
type Renderer interface {
	Render(rec model.Record) error
}

// ---------------------------------------------------------------------------
// Text renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleInformation = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleVerbose     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleDebug       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleWarning     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow
	styleError       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleModule      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true) // cyan
)

// TextRenderer prints records with severity-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer writing colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

// NewTextRendererTo returns a TextRenderer writing to w.
func NewTextRendererTo(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(rec model.Record) error {
	tag := styleLevelTag(rec.Level)
	mod := styleModule.Render(rec.Module)
	ts := rec.Timestamp.Format("15:04:05.000")

	line := fmt.Sprintf("%s %s %s %s", ts, tag, mod, rec.Message)
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func styleLevelTag(level string) string {
	padded := fmt.Sprintf("%-11s", level)
	switch level {
	case "Error":
		return styleError.Render(padded)
	case "Warning":
		return styleWarning.Render(padded)
	case "Verbose":
		return styleVerbose.Render(padded)
	case "Debug":
		return styleDebug.Render(padded)
	default:
		return styleInformation.Render(padded)
	}
}

// ---------------------------------------------------------------------------
// JSON renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each record as one JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer writing JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

// NewJSONRendererTo returns a JSONRenderer writing to w.
func NewJSONRendererTo(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(rec model.Record) error {
	return r.enc.Encode(rec)
}
