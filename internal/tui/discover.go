package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/promodeck/internal/discovery"
	"github.com/muurk/promodeck/internal/gate"
	"github.com/muurk/promodeck/internal/ui"
)

// ScanFunc finds pages on the network
type ScanFunc func(ctx context.Context) ([]*discovery.Page, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	pages []*discovery.Page
	err   error
}
type openedMsg struct {
	url string
	err error
}

// pageItem wraps a Page for use with bubbles/list
type pageItem struct {
	page *discovery.Page
}

// FilterValue implements list.Item
func (p pageItem) FilterValue() string {
	return p.page.Game() + " " + p.page.Instance + " " + p.page.IP
}

// pageDelegate renders each discovered page as a small card
type pageDelegate struct {
	theme *ui.Theme
	width int
}

func (d pageDelegate) Height() int { return 5 }

func (d pageDelegate) Spacing() int { return 1 }

func (d pageDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d pageDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(pageItem)
	if !ok {
		return
	}
	theme := *d.theme
	page := pi.page
	selected := index == m.Index()

	name := page.Game()
	if name == "" {
		name = page.Instance
	}
	if selected {
		name = ui.CursorMarker + " " + name
	} else {
		name = "  " + name
	}

	codes := page.GetMetadata("codes")
	if codes == "" {
		codes = "?"
	}

	lines := []string{
		theme.Title.Render(name),
		theme.Muted.Render(fmt.Sprintf("  %s • %s codes", page.URL(), codes)),
	}

	fmt.Fprint(w, theme.CardBorderStyle(ui.ClampWidth(d.width), selected).Render(strings.Join(lines, "\n")))
}

// DiscoverModel lists promodeck pages advertised on the local network and
// opens the chosen one in the browser
type DiscoverModel struct {
	Scanning  bool
	PageList  list.Model
	Err       error
	Opened    string
	scan      ScanFunc
	scanStart time.Time

	// UI state
	Width   int
	Height  int
	Theme   *ui.Theme
	Spinner spinner.Model
	Help    help.Model
	Keys    discoverKeyMap
}

// NewDiscoverModel creates the discover screen. A nil scan uses mDNS with
// the default timeout.
func NewDiscoverModel(theme ui.Theme, scan ScanFunc) DiscoverModel {
	if scan == nil {
		scan = func(ctx context.Context) ([]*discovery.Page, error) {
			return discovery.ScanForPages(ctx, discovery.DefaultScanTimeout)
		}
	}

	t := &theme

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Palette.Accent)

	pageList := list.New([]list.Item{}, pageDelegate{theme: t, width: ui.MinTerminalWidth}, 0, 0)
	pageList.Title = "Discovered Pages"
	pageList.SetShowStatusBar(false)
	pageList.SetShowHelp(false)
	pageList.SetFilteringEnabled(false)
	pageList.Styles.Title = theme.Section

	return DiscoverModel{
		PageList: pageList,
		scan:     scan,
		Theme:    t,
		Spinner:  s,
		Help:     help.New(),
		Keys:     newDiscoverKeyMap(),
		Width:    ui.MinTerminalWidth,
		Height:   24,
	}
}

// Init starts the first scan
func (m DiscoverModel) Init() tea.Cmd {
	return m.startScan()
}

func (m DiscoverModel) startScan() tea.Cmd {
	scan := m.scan
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			pages, err := scan(context.Background())
			return scanCompleteMsg{pages: pages, err: err}
		},
		m.Spinner.Tick,
	)
}

// Update implements tea.Model
func (m DiscoverModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.PageList.SetDelegate(pageDelegate{theme: m.Theme, width: msg.Width - 4})
		m.PageList.SetSize(msg.Width-4, max(3, msg.Height-chromeHeight))

	case scanStartMsg:
		m.Scanning = true
		m.scanStart = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.pages))
		for i, p := range msg.pages {
			items[i] = pageItem{page: p}
		}
		m.PageList.SetItems(items)

	case openedMsg:
		m.Err = msg.err
		if msg.err == nil {
			m.Opened = msg.url
		}

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m DiscoverModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Rescan):
		if m.Scanning {
			return m, nil
		}
		m.PageList.SetItems([]list.Item{})
		m.Err = nil
		m.Opened = ""
		return m, m.startScan()

	case key.Matches(msg, m.Keys.Open):
		if page := m.SelectedPage(); page != nil && !m.Scanning {
			return m, openCmd(page.URL())
		}
		return m, nil

	case key.Matches(msg, m.Keys.Up), key.Matches(msg, m.Keys.Down):
		m.PageList, cmd = m.PageList.Update(msg)
	}

	return m, cmd
}

func openCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{url: url, err: gate.Browser(url)()}
	}
}

// SelectedPage returns the highlighted page, or nil with an empty list
func (m DiscoverModel) SelectedPage() *discovery.Page {
	if item, ok := m.PageList.SelectedItem().(pageItem); ok {
		return item.page
	}
	return nil
}

// View implements tea.Model
func (m DiscoverModel) View() string {
	theme := *m.Theme
	width := ui.ClampWidth(m.Width - 4)

	var content string
	switch {
	case m.Scanning:
		elapsed := time.Since(m.scanStart).Round(time.Second)
		content = lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, lipgloss.JoinVertical(lipgloss.Center,
			"",
			theme.Title.Render(m.Spinner.View()+" SEARCHING FOR PAGES"),
			"",
			theme.Subtitle.Render(fmt.Sprintf("Browsing %s on the local network (%s)", discovery.ServiceType, elapsed)),
		))

	case m.Err != nil:
		content = ui.RenderErrorBox("Discovery", m.Err, []string{
			"Check that a promodeck server is running with --advertise",
			"Multicast DNS may be blocked by a firewall or VPN",
			"Press r to scan again",
		}, theme, width)

	case len(m.PageList.Items()) == 0:
		content = "\n" + theme.Muted.Render("  No pages found on your network. Press r to scan again.")

	default:
		content = m.PageList.View()
		if m.Opened != "" {
			content += "\n" + theme.Muted.Render("  Opened "+m.Opened)
		}
	}

	return renderContainer(content, m.Help.View(m.Keys), theme, m.Width, m.Height)
}

// RunDiscover starts the interactive discover screen
func RunDiscover(theme ui.Theme, scan ScanFunc) error {
	p := tea.NewProgram(NewDiscoverModel(theme, scan), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
