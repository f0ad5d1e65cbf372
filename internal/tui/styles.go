package tui

import (
	"todoList/internal/models/task"

	"github.com/charmbracelet/lipgloss"
)

const (
	Primary   = lipgloss.Color("#fff")
	Secondary = lipgloss.Color("#888")
	Faded     = lipgloss.Color("#555")

	Blue   = lipgloss.Color("#4db7ff")
	Green  = lipgloss.Color("#00a352")
	Red    = lipgloss.Color("#c42912")
	Yellow = lipgloss.Color("#c4b810")
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(Primary).Padding(1, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(Secondary)
	focusedLabel = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(Secondary)
	helpStyle    = lipgloss.NewStyle().Foreground(Faded)
	metaStyle    = lipgloss.NewStyle().Foreground(Faded)
	cursorStyle  = lipgloss.NewStyle().Foreground(Blue).Bold(true)

	titleStyle     = lipgloss.NewStyle().Foreground(Primary)
	doneTitleStyle = lipgloss.NewStyle().Foreground(Secondary).Strikethrough(true)
)

var statusColors = map[task.Status]lipgloss.Color{
	task.StatusPending:    Yellow,
	task.StatusInProgress: Blue,
	task.StatusCompleted:  Green,
}

func statusBadge(s task.Status) string {
	color, ok := statusColors[s]
	if !ok {
		color = Secondary
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Padding(0, 1).Render(s.Icon() + " " + s.Label())
}
