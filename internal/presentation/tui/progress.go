package tui

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	bannerLine   = regexp.MustCompile(`^\d+-\d+/\d+\(\d+\)$`)
	progressLine = regexp.MustCompile(`^(\d+/\d+\(\d+/\d+\)) done\. (time-left=\S+)$`)
)

// ProgressWriter colours range banners and progress lines. Anything else
// passes through unchanged.
type ProgressWriter struct {
	mu      sync.Mutex
	out     *termenv.Output
	w       io.Writer
	pending []byte
}

// NewProgressWriter returns w unchanged unless it is a terminal, in which
// case lines are coloured.
func NewProgressWriter(w io.Writer) io.Writer {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return w
	}
	return NewColorWriter(w, termenv.NewOutput(f).ColorProfile())
}

// NewColorWriter colours lines for the given profile regardless of the
// underlying writer.
func NewColorWriter(w io.Writer, profile termenv.Profile) *ProgressWriter {
	return &ProgressWriter{
		out: termenv.NewOutput(w, termenv.WithProfile(profile)),
		w:   w,
	}
}

// Write buffers p and writes every complete line, coloured.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.pending = append(pw.pending, p...)
	for {
		i := bytes.IndexByte(pw.pending, '\n')
		if i < 0 {
			break
		}
		line := string(pw.pending[:i])
		pw.pending = pw.pending[i+1:]
		if _, err := io.WriteString(pw.w, pw.colorize(line)+"\n"); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

func (pw *ProgressWriter) colorize(line string) string {
	p := pw.out.ColorProfile()
	if bannerLine.MatchString(line) {
		return pw.out.String(line).Bold().Foreground(p.Color("#38bdf8")).String()
	}
	if m := progressLine.FindStringSubmatch(line); m != nil {
		return pw.out.String(m[1]).Foreground(p.Color("#34d399")).String() +
			" done. " +
			pw.out.String(m[2]).Faint().String()
	}
	return line
}
