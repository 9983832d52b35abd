package tui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/astraline/ephemerisd/internal/solver"
)

const progressWidth = 50

// Progress prints one line per probe while a solve runs, with the
// bracket rendered against the initial window. Plain text, no alt
// screen; suitable for piping.
type Progress struct {
	out    io.Writer
	window solver.Window
	birth  float64
}

func NewProgress(out io.Writer, req solver.Request) *Progress {
	return &Progress{out: out, window: req.Window, birth: req.BirthJD}
}

func (p *Progress) OnIteration(it solver.Iteration) {
	lo := p.birth - p.window.MaxDays
	span := p.window.MaxDays - p.window.MinDays
	if span <= 0 {
		return
	}
	pos := func(jd float64) int {
		x := int(math.Round((jd - lo) / span * float64(progressWidth-1)))
		if x < 0 {
			x = 0
		}
		if x > progressWidth-1 {
			x = progressWidth - 1
		}
		return x
	}

	row := []rune(strings.Repeat("-", progressWidth))
	for i := pos(it.StartJD); i <= pos(it.EndJD); i++ {
		row[i] = '='
	}
	row[pos(it.JD)] = '*'

	mark := " "
	if it.Accepted {
		mark = "+"
	}
	fmt.Fprintf(p.out, "%3d [%s]%s jd=%.6f delta=%+.6f\n", it.N, string(row), mark, it.JD, it.DeltaDeg)
}
