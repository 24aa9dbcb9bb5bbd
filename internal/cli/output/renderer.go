// Package output renders command output for terminals, plain text and
// machine-readable formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Mode selects how output is rendered.
type Mode string

// Output modes.
const (
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
)

// Modes lists the accepted values of the output flag.
var Modes = []Mode{ModeAuto, ModeText, ModeJSON, ModeYAML}

// ParseMode returns the mode for s. Empty selects ModeAuto.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeAuto, nil
	}
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid output format %q (expected auto, text, json or yaml)", s)
}

// Renderer writes user-facing output. In machine-readable modes, status
// messages go to the error stream so that stdout holds only the document.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	tty    bool
	styles *Styles
}

// NewRenderer creates a renderer writing to out and errOut.
// Colors are used only in auto mode when out is a terminal and NO_COLOR is unset.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, tty bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	styles := PlainStyles()
	if tty && mode == ModeAuto && !termenv.EnvNoColor() {
		styles = DefaultStyles()
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		tty:    tty,
		styles: styles,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// EffectiveMode resolves ModeAuto to ModeText.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode == ModeAuto {
		return ModeText
	}
	return r.mode
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool {
	return r.tty
}

// Styles returns the active styles.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the document stream.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// machine reports whether stdout is reserved for a document.
func (r *Renderer) machine() bool {
	m := r.EffectiveMode()
	return m == ModeJSON || m == ModeYAML
}

func (r *Renderer) messages() io.Writer {
	if r.machine() {
		return r.errOut
	}
	return r.out
}

// Println writes a line.
func (r *Renderer) Println(msg string) {
	_, _ = fmt.Fprintln(r.messages(), msg)
}

// Printf writes formatted text.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.messages(), format, args...)
}

// Header writes a section header. Level 1 is underlined.
func (r *Renderer) Header(level int, text string) {
	w := r.messages()
	if level <= 1 {
		_, _ = fmt.Fprintln(w, r.styles.Header.Render(text))
		_, _ = fmt.Fprintln(w, r.styles.Muted.Render(strings.Repeat("=", len(text))))
		return
	}
	_, _ = fmt.Fprintln(w, r.styles.Subheader.Render(text))
}

// Progress writes "<label>: <target>" with the target highlighted.
func (r *Renderer) Progress(label, target string) {
	_, _ = fmt.Fprintln(r.messages(), r.styles.Info.Render(label+":")+" "+r.styles.ModelPath.Render(target))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	_, _ = fmt.Fprintln(r.messages(), r.styles.Success.Render(msg))
}

// Warning writes a warning message.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.messages(), r.styles.Warning.Render(msg))
}

// Error writes an error message to the error stream.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render(msg))
}

// Muted writes a de-emphasized message.
func (r *Renderer) Muted(msg string) {
	_, _ = fmt.Fprintln(r.messages(), r.styles.Muted.Render(msg))
}

// StatusLine writes "<icon> name" with an optional muted detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	var icon string
	switch status {
	case "success":
		icon = r.styles.Success.Render("✓")
	case "warning":
		icon = r.styles.Warning.Render("!")
	case "error":
		icon = r.styles.Error.Render("✗")
	default:
		icon = r.styles.Muted.Render("-")
	}
	line := icon + " " + r.styles.Bold.Render(name)
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	_, _ = fmt.Fprintln(r.messages(), line)
}

// JSON writes v as indented JSON to the document stream.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// YAML writes v as YAML to the document stream.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// Document writes v in the machine-readable mode. It reports false in text mode.
func (r *Renderer) Document(v any) (bool, error) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return true, r.JSON(v)
	case ModeYAML:
		return true, r.YAML(v)
	default:
		return false, nil
	}
}
