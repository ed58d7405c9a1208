package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/input"
	"github.com/san-kum/sortviz/internal/session"
)

const (
	barRows         = 16
	maxBarWidth     = 4
	statsWidth      = 44
	historyCapacity = 600
	gifCols         = 80
)

type startMsg struct{}

// frameMsg asks for the next frame of run number run. Messages for an
// older run are dropped.
type frameMsg struct{ run int }

type Options struct {
	Theme     string
	Seed      int64
	GIFPath   string
	AutoStart bool
}

// Model drives one session interactively: it steps the current run on
// driver-paced ticks and renders the bars, narration and counters.
type Model struct {
	session  *session.Session
	run      *session.Run
	runSeq   int
	bars     *Bars
	narrator *Narrator
	stats    map[string]float64
	compares []float64
	lastWait time.Duration
	spin     int

	rng       *rand.Rand
	editing   bool
	editBuf   string
	errMsg    string
	notice    string
	showHelp  bool
	autoStart bool
	width     int

	recorder *GIFRecorder
	canvas   *Canvas
	gifPath  string
}

func NewModel(s *session.Session, opts Options) Model {
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gifPath := opts.GIFPath
	if gifPath == "" {
		gifPath = "sortviz.gif"
	}
	data := s.Dataset()
	return Model{
		session:   s,
		bars:      NewBars(data),
		narrator:  NewNarrator(s.Algorithm(), data),
		stats:     make(map[string]float64),
		compares:  make([]float64, 0, historyCapacity),
		rng:       rand.New(rand.NewSource(seed)),
		autoStart: opts.AutoStart,
		width:     120,
		canvas:    NewCanvas(gifCols, barRows),
		gifPath:   gifPath,
	}
}

func (m Model) Init() tea.Cmd {
	if m.autoStart {
		return func() tea.Msg { return startMsg{} }
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case startMsg:
		return m.start()
	case frameMsg:
		return m.advance(msg)
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			if m.run != nil {
				m.run.Cancel()
			}
			return m, tea.Quit
		case "s", "enter":
			return m.start()
		case "r":
			m.reset()
		case "n":
			m.reseed(input.Random(m.rng, m.session.Algorithm()))
		case "d":
			m.reseed(input.Default(m.session.Algorithm()))
		case "e":
			if m.idle() {
				m.editing, m.editBuf, m.errMsg = true, m.session.Dataset().String(), ""
			}
		case "tab":
			m.nextAlgorithm()
		case "+", "=":
			m.session.SetSpeed(m.session.Speed() + 1)
		case "-", "_":
			m.session.SetSpeed(m.session.Speed() - 1)
		case "t":
			NextTheme()
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m Model) idle() bool { return m.session.State() != session.Running }

func (m Model) editKey(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEnter:
		values, err := input.Parse(m.editBuf)
		if err != nil {
			m.errMsg = err.Error()
			return m
		}
		m.editing, m.editBuf = false, ""
		m.reseed(values)
	case tea.KeyEsc:
		m.editing, m.editBuf = false, ""
	case tea.KeyBackspace:
		if r := []rune(m.editBuf); len(r) > 0 {
			m.editBuf = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.editBuf += " "
	case tea.KeyRunes:
		m.editBuf += string(msg.Runes)
	}
	return m
}

func (m Model) start() (tea.Model, tea.Cmd) {
	if m.session.State() != session.Idle {
		return m, nil
	}
	name := m.session.Algorithm()
	data := m.session.Dataset()
	m.bars.Reset(data)
	m.narrator = NewNarrator(name, data)
	m.compares = m.compares[:0]
	clear(m.stats)

	run, started, err := m.session.Begin(name, m.bars, m.narrator)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if !started {
		if m.session.State() == session.Completed {
			m.narrator.Complete()
		}
		return m, nil
	}
	m.run, m.errMsg, m.notice = run, "", ""
	m.runSeq++
	return m, m.tick(0)
}

func (m Model) tick(d time.Duration) tea.Cmd {
	id := m.runSeq
	if d <= 0 {
		return func() tea.Msg { return frameMsg{run: id} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return frameMsg{run: id} })
}

func (m Model) advance(msg frameMsg) (tea.Model, tea.Cmd) {
	if m.run == nil || msg.run != m.runSeq {
		return m, nil
	}

	_, delay, ok := m.run.Next()
	res := m.run.Result()
	m.stats = res.Metrics
	if !ok {
		if err := m.run.Err(); err != nil {
			m.errMsg = err.Error()
		} else {
			m.narrator.Complete()
		}
		m.run = nil
		m.capture()
		return m, nil
	}

	m.compares = append(m.compares, m.stats["compares"])
	if len(m.compares) > historyCapacity {
		m.compares = m.compares[1:]
	}
	m.spin++
	m.lastWait = delay
	m.capture()
	return m, m.tick(delay)
}

func (m *Model) reset() {
	if !m.session.Reset() {
		return
	}
	m.refresh(m.session.Dataset())
}

func (m *Model) reseed(d dataset.Dataset) {
	if !m.session.Reseed(d) {
		return
	}
	m.refresh(d)
}

func (m *Model) nextAlgorithm() {
	if err := m.session.SetAlgorithm(algorithms.Next(m.session.Algorithm())); err != nil {
		return
	}
	m.refresh(m.session.Dataset())
}

func (m *Model) refresh(d dataset.Dataset) {
	m.bars.Reset(d)
	m.narrator = NewNarrator(m.session.Algorithm(), d)
	m.compares = m.compares[:0]
	m.stats = make(map[string]float64)
	m.errMsg = ""
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewGIFRecorder()
		m.capture()
		m.notice = ""
		return
	}
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.errMsg = err.Error()
	} else {
		m.notice = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.gifPath)
	}
	m.recorder = nil
}

func (m *Model) capture() {
	if m.recorder == nil {
		return
	}
	heights := make([]int, m.bars.Len())
	for i := range heights {
		heights[i] = m.bars.Height(i, m.canvas.Height*4)
	}
	m.canvas.DrawBars(heights)
	m.recorder.Capture(m.canvas, m.lastWait)
}

func (m Model) View() string {
	alg, _ := algorithms.Lookup(m.session.Algorithm())
	theme := CurrentTheme

	var s strings.Builder
	s.WriteString(headerStyle.Render(GradientText(strings.ToUpper(alg.Title), theme.Primary, theme.Accent)) + "\n")
	s.WriteString(m.status() + "\n\n")

	stats := m.statsView(theme)
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.barsView(theme)), stats)
	s.WriteString(main + "\n")
	s.WriteString(infoStyle.Foreground(theme.Accent).Render(m.narrator.Text()) + "\n")

	if m.editing {
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("values> "+m.editBuf+"_") + "\n")
	}
	if m.errMsg != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(m.errMsg) + "\n")
	}
	if m.notice != "" {
		s.WriteString(mutedStyle.Render(m.notice) + "\n")
	}
	s.WriteString(helpStyle.Render(m.controls()))

	if m.showHelp {
		return helpOverlay + "\n\n" + s.String()
	}
	return s.String()
}

func (m Model) status() string {
	var status string
	switch m.session.State() {
	case session.Running:
		status = runningBadge.Render(spinner(m.spin) + " RUNNING")
	case session.Completed:
		status = completedBadge.Render("✓ COMPLETED")
	default:
		status = readyBadge.Render("READY")
	}
	if m.recorder != nil {
		status += "  " + recordingBadge.Render("● REC")
	}
	return status
}

func (m Model) barsView(theme Theme) string {
	n := m.bars.Len()
	if n == 0 {
		return mutedStyle.Render("(no values)")
	}

	avail := m.width - statsWidth - 6
	w := avail/n - 1
	if w > maxBarWidth {
		w = maxBarWidth
	}
	if w < 1 {
		w = 1
	}

	styles := make([]lipgloss.Style, n)
	heights := make([]int, n)
	for i := 0; i < n; i++ {
		styles[i] = lipgloss.NewStyle().Foreground(theme.Color(m.bars.Class(i)))
		heights[i] = m.bars.Height(i, barRows)
	}

	var b strings.Builder
	block, blank := strings.Repeat("█", w), strings.Repeat(" ", w)
	for row := barRows; row >= 1; row-- {
		for i := 0; i < n; i++ {
			if heights[i] >= row {
				b.WriteString(styles[i].Render(block))
			} else {
				b.WriteString(blank)
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	if w >= 2 {
		for i := 0; i < n; i++ {
			label := dataset.FormatValue(m.bars.Values[i])
			if len(label) > w {
				label = label[:w]
			}
			b.WriteString(fmt.Sprintf("%-*s ", w, label))
		}
	}
	return b.String()
}

func (m Model) statsView(theme Theme) string {
	var s strings.Builder
	speed := m.session.Speed()
	n := m.bars.Len()

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("State", m.session.State().String())
	row("Speed", fmt.Sprintf("%d/10 (%s)", speed, driver.BaseInterval(speed)))
	row("Elements", fmt.Sprintf("%d", n))
	row("Compares", fmt.Sprintf("%.0f", m.stats["compares"]))
	row("Swaps", fmt.Sprintf("%.0f", m.stats["swaps"]))
	row("Overwrites", fmt.Sprintf("%.0f", m.stats["overwrites"]))

	s.WriteString(labelStyle.Render("Sorted") + sortedBar(m.bars.SortedCount(), n, 20) + "\n")

	if len(m.compares) > 1 {
		chart := asciigraph.Plot(m.compares, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Compares"))
		s.WriteString(graphStyle.Foreground(theme.Secondary).Render(chart) + "\n")
	}
	s.WriteString(mutedStyle.Render("theme: " + theme.Name))
	return statsStyle.Width(statsWidth).Render(s.String())
}

// controls lists only the keys the current state accepts.
func (m Model) controls() string {
	var keys []string
	switch m.session.State() {
	case session.Idle:
		keys = append(keys, "S:Start", "E:Edit", "N:Random", "D:Default", "Tab:Algorithm")
	case session.Completed:
		keys = append(keys, "R:Reset", "E:Edit", "N:Random", "D:Default", "Tab:Algorithm")
	}
	keys = append(keys, "+/-:Speed", "T:Theme", "G:Record", "?:Help", "Q:Quit")
	return rule(40) + "\n" + strings.Join(keys, "  ")
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  S/Enter  - Start sorting            ║
║  R        - Reset after a run        ║
║  N        - Random values            ║
║  D        - Default values           ║
║  E        - Edit values (a, b, c)    ║
║  Tab      - Next algorithm           ║
║  +/-      - Speed up / slow down     ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the interactive program for one session.
func Run(s *session.Session, opts Options) error {
	_, err := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen()).Run()
	return err
}
