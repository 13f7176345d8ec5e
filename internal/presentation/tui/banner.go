package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the chat banner and a one-line usage hint to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{` _   _      _        _        _           _   `, "#38bdf8"},
		{`| |_(_) ___| | _____| |_ ___| |__   __ _| |_ `, "#22d3ee"},
		{`| __| |/ __| |/ / _ \ __/ __| '_ \ / _' | __|`, "#2dd4bf"},
		{`| |_| | (__|   <  __/ || (__| | | | (_| | |_ `, "#34d399"},
		{` \__|_|\___|_|\_\___|\__\___|_| |_|\__,_|\__|`, "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	hint := termenv.String(fmt.Sprintf("  %s  ·  type 'exit' to quit", version)).Faint()
	fmt.Fprintln(w, hint)
	fmt.Fprintln(w)
}
