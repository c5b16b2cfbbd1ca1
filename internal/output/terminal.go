package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// supportsColors reports whether the terminal type can show colors.
func supportsColors() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// UseColor decides whether output to w should be colored. The no-color
// flag and NO_COLOR always win. FORCE_COLOR enables colors on non-terminal
// writers. Otherwise w must be a terminal with a color-capable TERM.
func UseColor(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return isTerminal(w) && supportsColors()
}
