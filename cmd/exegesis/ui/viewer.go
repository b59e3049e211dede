package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"exegesis/internal/logging"
	"exegesis/internal/study"
)

// Generate produces the study the viewer shows once it is ready.
type Generate func(ctx context.Context) (*study.Document, error)

type docMsg struct{ doc *study.Document }

type errMsg struct{ err error }

type reloadMsg struct {
	doc *study.Document
	err error
}

// Reload builds the message that swaps the study on screen, keeping the
// selected tab. A non-nil err keeps the old study and shows err in the footer.
func Reload(doc *study.Document, err error) tea.Msg { return reloadMsg{doc, err} }

// Feed pushes messages into a running viewer until ctx is done.
type Feed func(ctx context.Context, send func(tea.Msg))

type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(key.WithKeys("tab", "right", "l")),
	Prev: key.NewBinding(key.WithKeys("shift+tab", "left", "h")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

const (
	headerHeight = 4
	footerHeight = 1
)

// Model is the tabbed study viewer.
type Model struct {
	styles   Styles
	title    string
	doc      *study.Document
	tabs     []Tab
	active   int
	viewport viewport.Model
	renderer *glamour.TermRenderer
	spinner  spinner.Model
	width    int
	height   int

	generate Generate
	ctx      context.Context
	cancel   context.CancelFunc
	loading  bool
	err      error
	notice   string
}

func newModel(styles Styles) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner))
	m := Model{
		styles:   styles,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		width:    80,
		height:   20 + headerHeight + footerHeight,
	}
	m.renderer = newRenderer(styles, m.width)
	return m
}

// NewViewer shows an existing study.
func NewViewer(doc *study.Document) Model {
	m := newModel(DefaultStyles())
	m.setDocument(doc)
	return m
}

// NewLoader shows a spinner while generate runs, then the study. Quitting
// while loading cancels generate.
func NewLoader(ctx context.Context, title string, generate Generate) Model {
	m := newModel(DefaultStyles())
	m.title = title
	m.generate = generate
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.loading = true
	return m
}

func newRenderer(styles Styles, width int) *glamour.TermRenderer {
	wrap := width - 8
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.glamourStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		logging.Get(logging.CategoryUI).Warn("glamour renderer unavailable: %v", err)
		return nil
	}
	return r
}

// Init starts generation when the viewer was built as a loader.
func (m Model) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	gen, ctx := m.generate, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		doc, err := gen(ctx)
		if err != nil {
			return errMsg{err}
		}
		return docMsg{doc}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case key.Matches(msg, keys.Next):
			m.selectTab(m.active + 1)
			return m, nil
		case key.Matches(msg, keys.Prev):
			m.selectTab(m.active - 1)
			return m, nil
		}
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(m.tabs) {
				m.selectTab(i)
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-headerHeight-footerHeight)
		m.renderer = newRenderer(m.styles, msg.Width)
		m.refresh()
		return m, nil

	case docMsg:
		m.loading = false
		m.setDocument(msg.doc)
		return m, nil

	case reloadMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			logging.Get(logging.CategoryUI).Warn("reload failed: %v", msg.err)
			return m, nil
		}
		m.notice = ""
		active := m.active
		m.setDocument(msg.doc)
		m.selectTab(active)
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		logging.Get(logging.CategoryUI).Warn("generation failed: %v", msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) setDocument(doc *study.Document) {
	m.doc = doc
	m.tabs = Tabs(doc)
	m.title = doc.Meta.Reference
	m.active = 0
	m.refresh()
}

func (m *Model) selectTab(i int) {
	if len(m.tabs) == 0 {
		return
	}
	m.active = (i + len(m.tabs)) % len(m.tabs)
	m.refresh()
}

func (m *Model) refresh() {
	if len(m.tabs) == 0 {
		return
	}
	md := m.tabs[m.active].Markdown
	out := md
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			out = rendered
		}
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

// View renders the page.
func (m Model) View() string {
	if m.err != nil {
		return m.styles.Error.Render(study.UserMessage) + "\n" +
			m.styles.Footer.Render(fmt.Sprintf("%v · q para sair", m.err))
	}
	if m.loading {
		return m.styles.Content.Render(fmt.Sprintf("%s Gerando estudo de %s...", m.spinner.View(), m.title))
	}
	if m.doc == nil {
		return ""
	}

	header := m.styles.Header.Render("Estudo Exegético: "+m.doc.Meta.Reference) + "  " +
		m.styles.Subtitle.Render(string(m.doc.Meta.Translation))

	labels := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Label)
		if i == m.active {
			labels[i] = m.styles.ActiveTab.Render(label)
		} else {
			labels[i] = m.styles.Tab.Render(label)
		}
	}
	bar := m.styles.TabBar.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, labels...))

	footer := m.styles.Footer.Render(fmt.Sprintf("tab/←→ seções · ↑↓ rolar · q sair · %3.0f%%", m.viewport.ScrollPercent()*100))
	if m.notice != "" {
		footer = m.styles.Error.Render(m.notice)
	}

	return strings.Join([]string{header, bar, m.viewport.View(), footer}, "\n")
}

// Active returns the label of the tab on screen.
func (m Model) Active() string {
	if len(m.tabs) == 0 {
		return ""
	}
	return m.tabs[m.active].Label
}

// Document returns the study on screen, nil while loading or after a
// failure.
func (m Model) Document() *study.Document { return m.doc }

// Err returns the generation error, if any.
func (m Model) Err() error { return m.err }

// Notice returns the footer warning left by a failed reload.
func (m Model) Notice() string { return m.notice }

// Run starts the viewer full-screen and returns the final model. Feeds run
// alongside the program and are stopped when it exits.
func Run(m Model, feeds ...Feed) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, feed := range feeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed(ctx, p.Send)
		}()
	}

	final, err := p.Run()
	cancel()
	wg.Wait()
	if err != nil {
		return m, err
	}
	return final.(Model), nil
}
