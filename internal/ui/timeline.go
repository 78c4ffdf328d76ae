package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/recall/internal/catalog"
	"github.com/abelbrown/recall/internal/export"
)

// Timeline is the scrolling record list. It renders the filtered view:
// indices into the catalog, newest first.
type Timeline struct {
	records  []catalog.Record
	indices  []int
	cursor   int
	width    int
	height   int
	viewport int // Index of first visible row
}

// NewTimeline creates an empty timeline.
func NewTimeline() Timeline {
	return Timeline{}
}

// SetView replaces the catalog and filtered view.
func (m *Timeline) SetView(records []catalog.Record, indices []int) {
	m.records = records
	m.indices = indices
	if m.cursor >= len(indices) {
		m.cursor = maxInt(0, len(indices)-1)
	}
	m.ensureCursorVisible()
}

// SetSize updates the view dimensions.
func (m *Timeline) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the record under the cursor.
func (m Timeline) Selected() (catalog.Record, bool) {
	if m.cursor >= 0 && m.cursor < len(m.indices) {
		return m.records[m.indices[m.cursor]], true
	}
	return catalog.Record{}, false
}

// Update implements the bubbletea update contract for the timeline.
func (m Timeline) Update(msg tea.Msg) (Timeline, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, timelineKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, timelineKeys.Down):
			if m.cursor < len(m.indices)-1 {
				m.cursor++
			}
		case key.Matches(msg, timelineKeys.PageUp):
			m.cursor = maxInt(0, m.cursor-m.visibleLines())
		case key.Matches(msg, timelineKeys.PageDown):
			m.cursor = minInt(maxInt(0, len(m.indices)-1), m.cursor+m.visibleLines())
		case key.Matches(msg, timelineKeys.Home):
			m.cursor = 0
			m.viewport = 0
		case key.Matches(msg, timelineKeys.End):
			if len(m.indices) > 0 {
				m.cursor = len(m.indices) - 1
			}
		}
	}
	m.ensureCursorVisible()
	return m, nil
}

func (m *Timeline) ensureCursorVisible() {
	visible := m.visibleLines()
	if visible <= 0 {
		return
	}
	if m.cursor < m.viewport {
		m.viewport = m.cursor
	}
	if m.cursor >= m.viewport+visible {
		m.viewport = m.cursor - visible + 1
	}
}

func (m Timeline) visibleLines() int {
	// Reserve lines for search bar and status bar
	return maxInt(1, m.height-4)
}

// View renders the visible slice of the filtered view.
func (m Timeline) View() string {
	if len(m.indices) == 0 {
		if len(m.records) == 0 {
			return HelpStyle.Render("No captures yet. Press r to start recording.")
		}
		return HelpStyle.Render("No matches.")
	}

	var b strings.Builder
	end := minInt(m.viewport+m.visibleLines(), len(m.indices))
	for row := m.viewport; row < end; row++ {
		rec := m.records[m.indices[row]]
		b.WriteString(m.renderRecord(rec, row == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Timeline) renderRecord(rec catalog.Record, selected bool) string {
	badge := TimeBadge.Render(rec.Timestamp.Format("15:04:05"))
	age := AgeStamp.Render(catalog.RelativeTime(rec.Timestamp))

	snippet := summarize(rec)
	maxLen := m.width - 26
	if maxLen < 20 {
		maxLen = 20
	}
	snippet = Truncate(snippet, maxLen)

	line := fmt.Sprintf("%s %s  %s", badge, snippet, age)
	if selected {
		return SelectedItem.Render(line)
	}
	return NormalItem.Render(line)
}

// summarize picks the most readable one-line summary of a record: caption
// first, then the first cleaned OCR line, then the bare filename date.
func summarize(rec catalog.Record) string {
	if desc := strings.TrimSpace(rec.Description); desc != "" {
		return desc
	}
	if text := export.CleanTranscript(rec.Text); text != "" {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
		return text
	}
	return rec.Timestamp.Format("2006-01-02 15:04:05")
}

// Key bindings
var timelineKeys = struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}{
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
	Home:     key.NewBinding(key.WithKeys("home", "g")),
	End:      key.NewBinding(key.WithKeys("end", "G")),
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
