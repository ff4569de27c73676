// Package highlight colors generated source code for terminal output.
package highlight

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/dasolve/dmddl/config"
)

// Enabled reports whether output written to w should be highlighted under
// the given mode. In auto mode only color-capable terminals qualify.
func Enabled(mode string, w io.Writer) bool {
	switch mode {
	case config.HighlightAlways:
		return true
	case config.HighlightNever:
		return false
	}
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Lexer returns the chroma lexer for a language name, falling back to
// plain text.
func Lexer(language string) chroma.Lexer {
	l := lexers.Get(language)
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// Write tokenises code as language and writes it to w with 256-color
// terminal escapes in the named style.
func Write(w io.Writer, code, language, style string) error {
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iter, err := Lexer(language).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("tokenising %s: %w", language, err)
	}
	if err := formatter.Format(w, styles.Get(style), iter); err != nil {
		return fmt.Errorf("highlighting %s: %w", language, err)
	}
	return nil
}
