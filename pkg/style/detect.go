package style

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Styled reports whether output written to f should carry ANSI styling.
// Styling is suppressed when NO_COLOR is set, when f is piped or
// redirected, and when the terminal advertises no color support.
func Styled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}

	return termenv.ColorProfile() != termenv.Ascii
}
