package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the voxport banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{` __   _______  ___ __  ___  _ __| |_ `, "#34d399"},
		{` \ \ / / _ \ \/ / '_ \/ _ \| '__| __|`, "#2dd4bf"},
		{`  \ V / (_) >  <| |_) | (_) | |  | |_ `, "#22d3ee"},
		{`   \_/ \___/_/\_\ .__/ \___/|_|   \__|`, "#38bdf8"},
		{`                |_|                  `, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}
