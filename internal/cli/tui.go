package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kustodian/sunburst/pkg/capacity"
	"github.com/kustodian/sunburst/pkg/view"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowseModel - interactive tree navigation
// =============================================================================

// changedMsg signals that the view published an update.
type changedMsg struct{}

// BrowseModel is the bubbletea model driving a [view.View]. The list shows
// the children of the focused node; activating one zooms into it.
type BrowseModel struct {
	Cursor int
	Offset int
	Height int

	nav     *view.View
	update  view.Update
	changed chan struct{}
	done    chan struct{}
	stop    func()
}

// NewBrowseModel subscribes to v. Call Close when the program exits.
func NewBrowseModel(v *view.View) *BrowseModel {
	m := &BrowseModel{
		Height:  15,
		nav:     v,
		update:  v.Snapshot(),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	// Coalesce: the model re-reads the snapshot, so one pending signal is
	// enough however many updates arrive.
	m.stop = v.OnSelectionChanged(func(view.Update) {
		select {
		case m.changed <- struct{}{}:
		default:
		}
	})
	return m
}

// Close unsubscribes from the view.
func (m *BrowseModel) Close() {
	m.stop()
	close(m.done)
}

func (m *BrowseModel) waitForChange() tea.Msg {
	select {
	case <-m.changed:
		return changedMsg{}
	case <-m.done:
		return nil
	}
}

func (m *BrowseModel) Init() tea.Cmd {
	return m.waitForChange
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		prev := m.update.Path
		m.update = m.nav.Snapshot()
		if !slices.Equal(prev, m.update.Path) {
			m.Cursor, m.Offset = 0, 0
		}
		return m, m.waitForChange
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-16, 5)
	}
	return m, nil
}

func (m *BrowseModel) handleKey(key string) tea.Cmd {
	children := m.nav.Current().Children
	switch key {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.Offset = min(m.Offset, m.Cursor)
		}
	case "down", "j":
		if m.Cursor < len(children)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "enter", "right", "l":
		if m.Cursor < len(children) {
			m.nav.HandleNodeActivated(children[m.Cursor])
		}
	case "backspace", "left", "h":
		m.nav.Up()
	case "r":
		m.nav.Reset()
	}
	return nil
}

func (m *BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(formatTrail(m.update.Trail))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ zoom in  ← up  r reset  q quit"))
	b.WriteString("\n\n")

	children := m.nav.Current().Children
	if len(children) == 0 {
		b.WriteString(listDimStyle.Render("  (no children)"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.childTable(children))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(children))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatSummary(m.update.Summary))
	switch {
	case m.update.Pending:
		b.WriteString(listDimStyle.Render("  loading item details..."))
		b.WriteString("\n")
	case m.update.LookupError != "":
		b.WriteString(StyleWarning.Render("  item details unavailable"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *BrowseModel) childTable(children []*capacity.Node) string {
	end := min(m.Offset+m.Height, len(children))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := children[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := n.Label
		if n.IsEmpty() {
			label = "(empty)"
		}
		rows = append(rows, []string{
			cursor,
			label,
			fmt.Sprintf("%d/%d", n.AggregateSize, n.Capacity),
			fmt.Sprintf("%d%%", n.Percent()),
			fmt.Sprintf("%d", len(n.Children)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Label", "Contains", "Full", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(children) {
				return lipgloss.NewStyle()
			}
			switch {
			case children[idx].IsEmpty():
				return listDimStyle
			case idx == m.Cursor:
				return listSelectedStyle
			default:
				return listNormalStyle
			}
		}).
		Render()
}
