// Package indicator renders a sign of life on stderr while a long
// derivation is running. It is purely cosmetic and disables itself when
// stdout or stderr is not a terminal.
package indicator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Redrawing on every tick would dominate the parse, so only every
// interval-th tick touches the terminal.
const interval = 512

// Bar is a bouncing-head busy indicator. A red head travels over a row of
// green markers, reversing at the edges.
type Bar struct {
	w       io.Writer
	out     *termenv.Output
	enabled bool
	width   int
	pos     int
	dir     int
	ticks   int
	drawn   bool
}

func New() *Bar {
	return &Bar{
		w:       os.Stderr,
		out:     termenv.NewOutput(os.Stderr),
		enabled: isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stderr.Fd()),
		width:   10,
		dir:     1,
	}
}

// Run advances the indicator by one tick.
func (b *Bar) Run() {
	if !b.enabled {
		return
	}
	b.ticks++
	if b.ticks%interval != 0 {
		return
	}
	b.pos += b.dir
	if b.pos <= 0 || b.pos >= b.width-1 {
		b.dir = -b.dir
	}
	var line strings.Builder
	for i := 0; i < b.width; i++ {
		if i == b.pos {
			line.WriteString(b.out.String(" ◉ ").Foreground(termenv.ANSIRed).String())
		} else {
			line.WriteString(b.out.String(" ◯ ").Foreground(termenv.ANSIGreen).String())
		}
	}
	fmt.Fprintf(b.w, "\r%v", line.String())
	b.drawn = true
}

// Cancel erases the indicator line.
func (b *Bar) Cancel() {
	if !b.enabled || !b.drawn {
		return
	}
	fmt.Fprintf(b.w, "\r%v\r", strings.Repeat(" ", b.width*3))
	b.drawn = false
}
