package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listMarkedStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TipPickerModel - Interactive tip selection
// =============================================================================

// TipPickerModel is the bubbletea model for picking a set of tip labels.
type TipPickerModel struct {
	Title     string
	Labels    []string
	Marked    map[int]bool
	Cursor    int
	Offset    int
	Height    int
	Confirmed bool
}

// NewTipPickerModel creates a picker over labels with nothing marked.
func NewTipPickerModel(title string, labels []string) TipPickerModel {
	return TipPickerModel{
		Title:  title,
		Labels: labels,
		Marked: make(map[int]bool),
		Height: 15,
	}
}

func (m TipPickerModel) Init() tea.Cmd {
	return nil
}

func (m TipPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Labels)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Labels) > 0 {
				m.toggle(m.Cursor)
			}
		case "a":
			all := len(m.Marked) < len(m.Labels)
			for i := range m.Labels {
				if all {
					m.Marked[i] = true
				} else {
					delete(m.Marked, i)
				}
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m TipPickerModel) toggle(i int) {
	if m.Marked[i] {
		delete(m.Marked, i)
	} else {
		m.Marked[i] = true
	}
}

// Picked returns the marked labels in list order.
func (m TipPickerModel) Picked() []string {
	var out []string
	for i, l := range m.Labels {
		if m.Marked[i] {
			out = append(out, l)
		}
	}
	return out
}

func (m TipPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space mark  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Labels))
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Marked[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, box, m.Labels[i])

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Marked[i]:
			b.WriteString(listMarkedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d marked", m.Cursor+1, len(m.Labels), len(m.Marked))))

	return b.String()
}

// pickTips runs the picker and returns the marked labels. ok is false when
// the user quit without confirming.
func pickTips(title string, labels []string) (picked []string, ok bool, err error) {
	final, err := tea.NewProgram(NewTipPickerModel(title, labels)).Run()
	if err != nil {
		return nil, false, fmt.Errorf("tip picker: %w", err)
	}
	m := final.(TipPickerModel)
	if !m.Confirmed {
		return nil, false, nil
	}
	return m.Picked(), true, nil
}
