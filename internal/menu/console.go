package menu

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Tone selects how a line of output is styled.
type Tone int

// Output tones.
const (
	Plain Tone = iota
	Title
	Warning
	Success
	Danger
)

// Console is the operator port: one line in, styled text out.
type Console interface {
	// ReadLine returns the next input line without its line terminator.
	// Returns io.EOF when input is exhausted.
	ReadLine() (string, error)
	Print(tone Tone, text string)
	Println(tone Tone, text string)
}

// Terminal is a Console over a reader and a writer. Styling uses a lipgloss
// renderer bound to the writer, so output is plain text when the writer is
// not a colour terminal.
type Terminal struct {
	in       *bufio.Reader
	out      io.Writer
	renderer *lipgloss.Renderer
	styles   map[Tone]lipgloss.Style
}

var _ Console = (*Terminal)(nil)

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithColorProfile forces the colour profile instead of detecting it from
// the writer.
func WithColorProfile(p termenv.Profile) TerminalOption {
	return func(t *Terminal) {
		t.renderer.SetColorProfile(p)
	}
}

// NewTerminal creates a Terminal reading from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer, opts ...TerminalOption) *Terminal {
	r := lipgloss.NewRenderer(out)
	t := &Terminal{
		in:       bufio.NewReader(in),
		out:      out,
		renderer: r,
		styles: map[Tone]lipgloss.Style{
			Plain:   r.NewStyle(),
			Title:   r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
			Warning: r.NewStyle().Foreground(lipgloss.Color("3")),
			Success: r.NewStyle().Foreground(lipgloss.Color("2")),
			Danger:  r.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ReadLine reads one line. A final line without a newline is returned as
// is; io.EOF is reported only when nothing was read.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Print writes text in the given tone without a newline.
func (t *Terminal) Print(tone Tone, text string) {
	io.WriteString(t.out, t.render(tone, text))
}

// Println writes text in the given tone followed by a newline.
func (t *Terminal) Println(tone Tone, text string) {
	io.WriteString(t.out, t.render(tone, text)+"\n")
}

func (t *Terminal) render(tone Tone, text string) string {
	if text == "" || tone == Plain || t.renderer.ColorProfile() == termenv.Ascii {
		return text
	}
	return t.styles[tone].Render(text)
}
