package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/session"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

var algorithmInfo = map[string]string{
	"bubble":    "adjacent swaps, largest bubbles up",
	"insertion": "shift left until the key fits",
	"selection": "pick the minimum of the rest",
	"merge":     "split, then merge halves",
	"quick":     "partition around the last element",
	"radix":     "LSD buckets, non-negative integers",
}

const (
	stateMenu = iota
	stateLive
)

// menu picks an algorithm and then hands the screen to a live Model.
type menu struct {
	state, cursor int
	names         []string
	opts          Options
	sessionOpts   []session.Option
	live          Model
	width, height int
}

func newMenu(opts Options, sessionOpts ...session.Option) menu {
	return menu{
		state:       stateMenu,
		names:       algorithms.Names(),
		opts:        opts,
		sessionOpts: sessionOpts,
		width:       80,
		height:      24,
	}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}
	if m.state == stateLive {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && !m.live.editing && m.live.idle() {
			m.state = stateMenu
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		opts := append([]session.Option{}, m.sessionOpts...)
		opts = append(opts, session.WithAlgorithm(m.names[m.cursor]))
		m.live = NewModel(session.New(opts...), m.opts)
		m.live.width = m.width
		m.state = stateLive
		return m, m.live.Init()
	}
	return m, nil
}

func (m menu) View() string {
	if m.state == stateLive {
		return m.live.View() + "\n" + dimmer.Render("esc: back to menu")
	}

	var b strings.Builder
	b.WriteString("\n  " + cyan.Bold(true).Render("SORTVIZ") + dim.Render("  sorting algorithm animations") + "\n\n")
	for i, name := range m.names {
		alg, _ := algorithms.Lookup(name)
		line := fmt.Sprintf("%-16s %s", alg.Title, dim.Render(algorithmInfo[name]))
		if i == m.cursor {
			b.WriteString("  " + cyan.Render("▸ ") + white.Bold(true).Render(line) + "\n")
		} else {
			b.WriteString("    " + dim.Render(line) + "\n")
		}
	}
	b.WriteString("\n  " + dimmer.Render("↑/↓ select · enter open · q quit") + "\n")
	return b.String()
}

// RunInteractive shows the algorithm menu. Each selection opens a fresh
// session built from sessionOpts.
func RunInteractive(opts Options, sessionOpts ...session.Option) error {
	_, err := tea.NewProgram(newMenu(opts, sessionOpts...), tea.WithAltScreen()).Run()
	return err
}
