package notifications

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// =============================================================================
// ToastWriter
// =============================================================================

// ToastWriter prints short transient feedback lines. Output is styled only
// when attached to a terminal.
type ToastWriter struct {
	out   io.Writer
	isTTY bool
}

// NewToastWriter creates a toast writer for the given stream.
func NewToastWriter(out io.Writer) *ToastWriter {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return &ToastWriter{out: out, isTTY: isTTY}
}

// Show prints one toast line.
func (w *ToastWriter) Show(text string) {
	if w.isTTY {
		fmt.Fprintf(w.out, "\x1b[2m» %s\x1b[0m\n", text)
		return
	}
	fmt.Fprintf(w.out, "» %s\n", text)
}
