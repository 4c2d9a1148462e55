package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"reel/internal/session"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// progressPrinter turns view snapshots into one status line per transition.
// Consecutive views with the same status line collapse into a single line.
type progressPrinter struct {
	out      io.Writer
	colorize bool

	mu   sync.Mutex
	last string
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, colorize: writerIsTerminal(out)}
}

func writerIsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *progressPrinter) Update(view session.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	line := view.StatusLine
	if line == "" || line == p.last {
		return
	}
	p.last = line
	fmt.Fprintln(p.out, p.paint(view.Status, "  "+line))
}

func (p *progressPrinter) paint(status session.Status, line string) string {
	if !p.colorize {
		return line
	}
	switch status {
	case session.StatusConnecting:
		return ansiBlue + line + ansiReset
	case session.StatusCompleted:
		return ansiGreen + line + ansiReset
	case session.StatusErrored:
		return ansiRed + line + ansiReset
	case session.StatusCancelled:
		return ansiYellow + line + ansiReset
	default:
		return line
	}
}
