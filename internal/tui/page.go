package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/promodeck/internal/catalog"
	"github.com/muurk/promodeck/internal/gate"
	"github.com/muurk/promodeck/internal/ui"
	"github.com/muurk/promodeck/internal/unlock"
	"github.com/muurk/promodeck/internal/view"
)

// tickMsg advances one card's checking progress. The session tag ties it to
// the Checking run that scheduled it.
type tickMsg struct {
	codeID  int
	session int
}

// settleMsg fires once the settle delay after 100% has passed
type settleMsg struct {
	codeID  int
	session int
}

// PageOptions configures a PageModel
type PageOptions struct {
	Timing unlock.Timing
	Gates  gate.Factory // nil means no gate for any code
	Theme  string       // "dark" or "light"
}

// PageModel is the interactive promo code page
type PageModel struct {
	game     *catalog.Game
	header   view.Header
	machines []*unlock.Machine
	gates    gate.Factory

	Cursor   int
	Theme    ui.Theme
	Outcomes map[int]unlock.Outcome

	// UI state
	Width    int
	Height   int
	Viewport viewport.Model
	Help     help.Model
	Keys     pageKeyMap
	ready    bool
}

// NewPageModel creates the page for game with every code locked
func NewPageModel(game *catalog.Game, opts PageOptions) PageModel {
	timing := opts.Timing
	if timing == (unlock.Timing{}) {
		timing = unlock.DefaultTiming()
	}
	gates := opts.Gates
	if gates == nil {
		gates = gate.None
	}

	machines := make([]*unlock.Machine, len(game.Codes))
	for i, c := range game.Codes {
		machines[i] = unlock.NewMachine(c.ID, timing)
	}

	return PageModel{
		game:     game,
		header:   view.DescribeGame(game),
		machines: machines,
		gates:    gates,
		Theme:    ui.NewTheme(opts.Theme),
		Outcomes: make(map[int]unlock.Outcome),
		Width:    ui.MinTerminalWidth,
		Height:   24,
		Viewport: viewport.New(ui.MinTerminalWidth, 24-chromeHeight),
		Help:     help.New(),
		Keys:     newPageKeyMap(),
	}
}

// Init implements tea.Model
func (m PageModel) Init() tea.Cmd {
	return nil
}

// Snapshot returns the unlock snapshot of the code with id
func (m PageModel) Snapshot(codeID int) (unlock.Snapshot, bool) {
	if i := m.indexOf(codeID); i >= 0 {
		return m.machines[i].Snapshot(), true
	}
	return unlock.Snapshot{}, false
}

// Cards describes every card in catalog order
func (m PageModel) Cards() []view.Card {
	cards := make([]view.Card, len(m.game.Codes))
	for i, c := range m.game.Codes {
		cards[i] = view.Describe(c, m.machines[i].Snapshot())
	}
	return cards
}

// Update implements tea.Model
func (m PageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.Viewport.Width = msg.Width - 4
		m.Viewport.Height = max(3, msg.Height-chromeHeight)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.handleTick(msg)

	case settleMsg:
		return m.handleSettle(msg)
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

func (m PageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}

	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.machines)-1 {
			m.Cursor++
		}

	case key.Matches(msg, m.Keys.Unlock):
		if len(m.machines) == 0 {
			return m, nil
		}
		machine := m.machines[m.Cursor]
		if !machine.RequestUnlock() {
			return m, nil
		}
		m.refresh()
		return m, tickCmd(machine)

	case key.Matches(msg, m.Keys.Theme):
		m.Theme = m.Theme.Toggle()

	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
	}

	m.refresh()
	return m, nil
}

func (m PageModel) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	machine := m.current(msg.codeID, msg.session)
	if machine == nil {
		return m, nil
	}

	_, done := machine.Tick()
	m.refresh()

	if done {
		return m, settleCmd(machine)
	}
	return m, tickCmd(machine)
}

func (m PageModel) handleSettle(msg settleMsg) (tea.Model, tea.Cmd) {
	machine := m.current(msg.codeID, msg.session)
	if machine == nil {
		return m, nil
	}

	if outcome, ok := machine.Complete(m.gates(msg.codeID)); ok {
		m.Outcomes[msg.codeID] = outcome
	}
	m.refresh()
	return m, nil
}

// current returns the machine a timed message belongs to, or nil when the
// message is stale
func (m PageModel) current(codeID int, session int) *unlock.Machine {
	i := m.indexOf(codeID)
	if i < 0 {
		return nil
	}
	machine := m.machines[i]
	if machine.Session() != session || machine.State() != unlock.Checking {
		return nil
	}
	return machine
}

func (m PageModel) indexOf(codeID int) int {
	for i, machine := range m.machines {
		if machine.CodeID() == codeID {
			return i
		}
	}
	return -1
}

func tickCmd(machine *unlock.Machine) tea.Cmd {
	msg := tickMsg{codeID: machine.CodeID(), session: machine.Session()}
	return tea.Tick(machine.Timing().Interval, func(time.Time) tea.Msg { return msg })
}

func settleCmd(machine *unlock.Machine) tea.Cmd {
	msg := settleMsg{codeID: machine.CodeID(), session: machine.Session()}
	return tea.Tick(machine.Timing().SettleDelay, func(time.Time) tea.Msg { return msg })
}

// refresh re-renders the scrollable body and keeps the selected card in view
func (m *PageModel) refresh() {
	width := ui.ClampWidth(m.Width - 4)

	blocks := []string{
		ui.RenderHeader(m.header, m.Theme, width),
		ui.RenderSectionTitle(m.header.SectionTitle, m.Theme),
	}
	top := lipgloss.Height(strings.Join(blocks, "\n"))

	var cardTop, cardBottom int
	for i, card := range m.Cards() {
		rendered := ui.RenderCard(card, m.Theme, width, i == m.Cursor)
		h := lipgloss.Height(rendered)
		if i == m.Cursor {
			cardTop, cardBottom = top, top+h
		}
		top += h
		blocks = append(blocks, rendered)
	}

	m.Viewport.SetContent(strings.Join(blocks, "\n"))

	if cardTop < m.Viewport.YOffset {
		m.Viewport.SetYOffset(cardTop)
	} else if cardBottom > m.Viewport.YOffset+m.Viewport.Height {
		m.Viewport.SetYOffset(cardBottom - m.Viewport.Height)
	}
}

// View implements tea.Model
func (m PageModel) View() string {
	if !m.ready {
		m.refresh()
	}
	return renderContainer(m.Viewport.View(), m.Help.View(m.Keys), m.Theme, m.Width, m.Height)
}

// Run starts the interactive page on the alternate screen
func Run(game *catalog.Game, opts PageOptions) error {
	p := tea.NewProgram(NewPageModel(game, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
