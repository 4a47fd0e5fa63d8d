package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the raybrush banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 _                     _     ", "#38bdf8"},
		{"  _ __ __ _ _  _| |__ _ _ _  _ ___| |_  ", "#22d3ee"},
		{" | '_/ _` | || | '_ \\ '_| || (_-<| ' \\ ", "#2dd4bf"},
		{" |_| \\__,_|\\_, |_.__/_|  \\_,_/__/|_||_|", "#34d399"},
		{"           |__/                         ", "#a3e635"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	v := strings.TrimSpace(version)
	if v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
