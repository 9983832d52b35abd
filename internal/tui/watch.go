package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astraline/ephemerisd/internal/solver"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// Trace is a recorded solve, replayable step by step.
type Trace struct {
	BirthJD      float64
	TargetDeg    float64
	ToleranceDeg float64
	Window       solver.Window
	Iterations   []solver.Iteration
	Converged    bool
	Err          error
}

// Recorder captures every probe of a solve into a Trace.
type Recorder struct {
	trace Trace
}

func NewRecorder(req solver.Request) *Recorder {
	return &Recorder{trace: Trace{
		BirthJD:      req.BirthJD,
		ToleranceDeg: req.ToleranceDeg,
		Window:       req.Window,
	}}
}

func (r *Recorder) OnIteration(it solver.Iteration) {
	r.trace.TargetDeg = it.TargetDeg
	r.trace.Iterations = append(r.trace.Iterations, it)
}

// Finish attaches the solve outcome and returns the trace.
func (r *Recorder) Finish(res *solver.Result, err error) Trace {
	r.trace.Converged = res != nil
	r.trace.Err = err
	return r.trace
}

type watchModel struct {
	trace Trace

	cursor  int
	playing bool
	speed   time.Duration

	width  int
	height int
}

// NewWatch builds the replay model for a recorded solve.
func NewWatch(trace Trace) *watchModel {
	return &watchModel{
		trace:  trace,
		speed:  400 * time.Millisecond,
		width:  80,
		height: 24,
	}
}

func (m watchModel) Init() tea.Cmd { return nil }

type advanceMsg time.Time

func advance(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(t time.Time) tea.Msg { return advanceMsg(t) })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case advanceMsg:
		if !m.playing {
			return m, nil
		}
		if m.cursor < len(m.trace.Iterations)-1 {
			m.cursor++
			return m, advance(m.speed)
		}
		m.playing = false
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "escape":
			return m, tea.Quit
		case "right", "l", "n":
			m.playing = false
			if m.cursor < len(m.trace.Iterations)-1 {
				m.cursor++
			}
		case "left", "h", "p":
			m.playing = false
			if m.cursor > 0 {
				m.cursor--
			}
		case "g", "home":
			m.playing = false
			m.cursor = 0
		case "G", "end":
			m.playing = false
			m.cursor = len(m.trace.Iterations) - 1
		case " ":
			m.playing = !m.playing
			if m.playing {
				if m.cursor == len(m.trace.Iterations)-1 {
					m.cursor = 0
				}
				return m, advance(m.speed)
			}
		case "+", "=":
			if m.speed > 50*time.Millisecond {
				m.speed /= 2
			}
		case "-", "_":
			if m.speed < 2*time.Second {
				m.speed *= 2
			}
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	if len(m.trace.Iterations) == 0 {
		return "\n   " + dim.Render("empty trace") + "\n"
	}
	it := m.trace.Iterations[m.cursor]

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("        " + cyan.Render("design-time search") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	b.WriteString(fmt.Sprintf("    %s %s   %s %s\n",
		dim.Render("birth jd"), white.Render(fmt.Sprintf("%.6f", m.trace.BirthJD)),
		dim.Render("target"), white.Render(fmt.Sprintf("%.4f°", m.trace.TargetDeg))))
	b.WriteString(fmt.Sprintf("    %s %s   %s %s\n\n",
		dim.Render("tolerance"), white.Render(fmt.Sprintf("%.4g°", m.trace.ToleranceDeg)),
		dim.Render("window"), white.Render(fmt.Sprintf("%.1f-%.1fd", m.trace.Window.MinDays, m.trace.Window.MaxDays))))

	b.WriteString(m.bracketBar(it))
	b.WriteString("\n")

	status := yellow.Render("probing")
	if it.Accepted {
		status = green.Render("accepted")
	} else if m.cursor == len(m.trace.Iterations)-1 && !m.trace.Converged {
		status = red.Render("no convergence")
	}
	b.WriteString(fmt.Sprintf("    %s %s  %s\n\n",
		cyan.Render(fmt.Sprintf("iteration %d/%d", it.N, len(m.trace.Iterations))),
		dim.Render(fmt.Sprintf("jd %.6f", it.JD)),
		status))

	b.WriteString(fmt.Sprintf("    %s %s   %s %s\n",
		dim.Render("longitude"), magenta.Render(fmt.Sprintf("%9.4f°", it.Longitude)),
		dim.Render("delta"), magenta.Render(fmt.Sprintf("%+9.4f°", it.DeltaDeg))))
	b.WriteString(fmt.Sprintf("    %s %s\n\n",
		dim.Render("bracket  "), white.Render(fmt.Sprintf("%.6f .. %.6f  (%.4g d)", it.StartJD, it.EndJD, it.EndJD-it.StartJD))))

	b.WriteString("    " + dim.Render("|delta| ") + cyan.Render(m.deltaSparkline(28)) + "\n")

	b.WriteString("\n" + dim.Render("    ←→ step  space play  ± speed  g/G ends  q quit") + "\n")
	return b.String()
}

// bracketBar renders the shrinking bracket inside the initial window.
func (m watchModel) bracketBar(it solver.Iteration) string {
	barWidth := m.width - 12
	if barWidth < 40 {
		barWidth = 40
	}
	lo := m.trace.BirthJD - m.trace.Window.MaxDays
	hi := m.trace.BirthJD - m.trace.Window.MinDays
	span := hi - lo
	if span <= 0 {
		return ""
	}
	pos := func(jd float64) int {
		p := int(math.Round((jd - lo) / span * float64(barWidth-1)))
		if p < 0 {
			p = 0
		}
		if p > barWidth-1 {
			p = barWidth - 1
		}
		return p
	}

	row := make([]rune, barWidth)
	for i := range row {
		row[i] = '─'
	}
	s, e := pos(it.StartJD), pos(it.EndJD)
	for i := s; i <= e; i++ {
		row[i] = '━'
	}
	probe := pos(it.JD)
	row[probe] = '◆'

	return "    " + dimmer.Render(string(row[:s])) +
		cyan.Render(string(row[s:probe])) +
		magenta.Render(string(row[probe:probe+1])) +
		cyan.Render(string(row[probe+1:e+1])) +
		dimmer.Render(string(row[e+1:])) + "\n"
}

// deltaSparkline shows |delta| per iteration up to the cursor, log scaled
// so late iterations stay visible.
func (m watchModel) deltaSparkline(width int) string {
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	n := m.cursor + 1
	vals := make([]float64, n)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		v := math.Log10(math.Abs(m.trace.Iterations[i].DeltaDeg) + 1e-12)
		vals[i] = v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	rang := maxV - minV
	if rang == 0 {
		rang = 1
	}
	step := n / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < n; i++ {
		idx := int((vals[i*step] - minV) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// RunWatch replays a recorded solve in an alt-screen program.
func RunWatch(trace Trace) error {
	p := tea.NewProgram(NewWatch(trace), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
