package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/truchet/pkg/tile"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listChangedStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Key Bindings
// =============================================================================

// busynessKeyMap defines the editor's keybindings.
type busynessKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Inc  key.Binding
	Dec  key.Binding
	Set  key.Binding
	Max  key.Binding
	Save key.Binding
	Quit key.Binding
}

func defaultBusynessKeyMap() busynessKeyMap {
	return busynessKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Inc: key.NewBinding(
			key.WithKeys("right", "l", "+"),
			key.WithHelp("→/+", "busier"),
		),
		Dec: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/-", "calmer"),
		),
		Set: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "set"),
		),
		Max: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "set 10"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("⏎/s", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "discard"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k busynessKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Dec, k.Inc, k.Set, k.Save, k.Quit}
}

// FullHelp returns all bindings grouped by column.
func (k busynessKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Dec, k.Inc, k.Set, k.Max},
		{k.Save, k.Quit},
	}
}

// =============================================================================
// BusynessModel - Interactive busyness editor
// =============================================================================

// BusynessModel is the bubbletea model for editing tile busyness.
type BusynessModel struct {
	Tiles  []tile.RawTile
	Cursor int
	Height int
	Offset int
	Saved  bool

	original []int
	keys     busynessKeyMap
	help     help.Model
}

// NewBusynessModel creates an editor over a copy of tiles.
func NewBusynessModel(tiles []tile.RawTile) BusynessModel {
	m := BusynessModel{
		Tiles:    append([]tile.RawTile(nil), tiles...),
		Height:   15,
		original: make([]int, len(tiles)),
		keys:     defaultBusynessKeyMap(),
		help:     help.New(),
	}
	for i, t := range tiles {
		m.original[i] = t.Busyness
	}
	return m
}

func (m BusynessModel) Init() tea.Cmd {
	return nil
}

func (m BusynessModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Save):
			m.Saved = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case key.Matches(msg, m.keys.Down):
			if m.Cursor < len(m.Tiles)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case key.Matches(msg, m.keys.Inc):
			m.setBusyness(m.Tiles[m.Cursor].Busyness + 1)
		case key.Matches(msg, m.keys.Dec):
			m.setBusyness(m.Tiles[m.Cursor].Busyness - 1)
		case key.Matches(msg, m.keys.Max):
			m.setBusyness(tile.MaxBusyness)
		case key.Matches(msg, m.keys.Set):
			m.setBusyness(int(msg.String()[0] - '0'))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m *BusynessModel) setBusyness(b int) {
	if len(m.Tiles) == 0 {
		return
	}
	m.Tiles[m.Cursor].Busyness = tile.ClampBusyness(b)
}

// Changes returns the new busyness of every edited tile, keyed by ID.
func (m BusynessModel) Changes() map[string]int {
	out := make(map[string]int)
	for i, t := range m.Tiles {
		if t.Busyness != m.original[i] {
			out[t.ID] = t.Busyness
		}
	}
	return out
}

func (m BusynessModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tile Busyness"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("Busy tiles gather where the pattern's shape is strongest."))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Tiles))
	for i := m.Offset; i < end; i++ {
		t := m.Tiles[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		marker := " "
		if t.Busyness != m.original[i] {
			marker = listChangedStyle.Render("*")
		}

		name := t.DisplayName()
		if len(name) > 28 {
			name = name[:27] + "…"
		}
		line := fmt.Sprintf("%s%-28s %2d ", cursor, name, t.Busyness)
		b.WriteString(style.Render(line))
		b.WriteString(busynessBar(t.Busyness))
		b.WriteString(" " + marker + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d changed", m.Cursor+1, len(m.Tiles), len(m.Changes()))))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
