package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/egoavara/steward/internal/app"
	"github.com/egoavara/steward/internal/host"
	"github.com/egoavara/steward/internal/i18n"
	"github.com/egoavara/steward/internal/plugin"
)

// resultsMsg carries one finished dispatch
type resultsMsg plugin.Results

// outcomeMsg carries the result of an enter
type outcomeMsg plugin.Outcome

// Model is the bubbletea model for the command palette
type Model struct {
	app      *app.App
	input    textinput.Model
	results  plugin.Results
	cursor   int
	width    int
	height   int
	notices  []host.Notice
	cancel   context.CancelFunc
	initial  tea.Cmd
	quitting bool
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			MarginLeft(4)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// NewModel creates a palette model over a.
// initial pre-fills the input, as when the palette is opened with an argument.
func NewModel(a *app.App, initial string) Model {
	ti := textinput.New()
	ti.Placeholder = i18n.T("palette.placeholder", nil)
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 60
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	m := Model{
		app:   a,
		input: ti,
	}
	// Init has a value receiver, so the first dispatch and its cancel func
	// are created here where they stick to the returned model.
	m.initial = m.dispatchCmd()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initial)
}

// dispatchCmd starts a dispatch for the current input.
// The previous dispatch context is cancelled; its result, if any, is stale.
func (m *Model) dispatchCmd() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	future := m.app.Dispatcher.Dispatch(ctx, m.input.Value())
	return func() tea.Msg {
		res, err := future.Await(ctx)
		if err != nil {
			return nil
		}
		return resultsMsg(res)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case resultsMsg:
		res := plugin.Results(msg)
		if !m.app.Dispatcher.Current(res) {
			return m, nil
		}
		m.results = res
		if m.cursor >= len(res.Items) {
			m.cursor = max(0, len(res.Items)-1)
		}
		return m, nil
	case outcomeMsg:
		return m.applyOutcome(plugin.Outcome(msg))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case "esc":
		// If input has text, clear it; otherwise quit
		if m.input.Value() != "" {
			m.input.SetValue("")
			return m, m.dispatchCmd()
		}
		m.quitting = true
		return m, tea.Quit

	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.cursor < len(m.results.Items)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		return m, m.enterCmd(plugin.KeyStatus{})

	case "alt+enter":
		return m, m.enterCmd(plugin.KeyStatus{ShiftKey: true})

	case "ctrl+x":
		return m, m.enterCmd(plugin.KeyStatus{CtrlKey: true})
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.cursor = 0
	return m, tea.Batch(cmd, m.dispatchCmd())
}

// enterCmd runs the executor for the highlighted item off the UI loop
func (m Model) enterCmd(keys plugin.KeyStatus) tea.Cmd {
	var item *plugin.ResultItem
	if m.cursor < len(m.results.Items) {
		selected := m.results.Items[m.cursor]
		item = &selected
	}
	res := m.results
	executor := m.app.Executor

	return func() tea.Msg {
		return outcomeMsg(executor.Invoke(context.Background(), item, res.Match.Command, res.Match.Query, keys, res.Items))
	}
}

func (m Model) applyOutcome(out plugin.Outcome) (tea.Model, tea.Cmd) {
	m.notices = append(m.notices, m.app.Notices.Drain()...)
	if len(m.notices) > 3 {
		m.notices = m.notices[len(m.notices)-3:]
	}

	switch out.Action {
	case plugin.ActionClear:
		m.input.SetValue("")
	case plugin.ActionReplace:
		m.input.SetValue(out.Query)
		m.input.CursorEnd()
	default:
		return m, nil
	}
	m.cursor = 0
	return m, m.dispatchCmd()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(i18n.T("palette.header", nil)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	listHeight := max(5, m.height-10)
	items := m.results.Items

	if len(items) == 0 {
		if m.results.Matched {
			b.WriteString(helpStyle.Render(i18n.T("palette.noResults", nil)))
		} else {
			b.WriteString(helpStyle.Render(i18n.T("palette.idle", nil)))
		}
		b.WriteString("\n")
	}

	// Paginate if needed
	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	end := min(start+listHeight, len(items))

	for i := start; i < end; i++ {
		b.WriteString(m.renderItem(i, items[i]))
		b.WriteString("\n")
	}

	if len(m.notices) > 0 {
		b.WriteString("\n")
		for _, n := range m.notices {
			b.WriteString(renderNotice(n))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(i18n.T("palette.help", nil)))
	return b.String()
}

func (m Model) renderItem(idx int, item plugin.ResultItem) string {
	cursor := "  "
	if idx == m.cursor {
		cursor = "> "
	}

	text := cursor + item.Title
	var line string
	switch {
	case idx == m.cursor:
		line = selectedStyle.Render(text)
	case item.IsWarn:
		line = warnStyle.Render(text)
	default:
		line = normalStyle.Render(text)
	}

	if item.Desc != "" && idx == m.cursor {
		line += "\n" + descStyle.Render(item.Desc)
	}
	return line
}

func renderNotice(n host.Notice) string {
	switch n.Level {
	case host.LevelSuccess:
		return successStyle.Render("✓ " + n.Message)
	case host.LevelWarning:
		return warnStyle.Render("! " + n.Message)
	default:
		return warnStyle.Render(fmt.Sprintf("✗ %s", n.Message))
	}
}

// RunPalette launches the interactive palette
func RunPalette(a *app.App, initial string) error {
	p := tea.NewProgram(NewModel(a, initial), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
