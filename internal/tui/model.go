// Package tui - терминальный интерфейс списка задач на bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"todoList/internal/controller"
	"todoList/internal/models/task"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const timeLayout = "02 Jan 2006 15:04"

type focus int

const (
	focusTitle focus = iota
	focusDescription
	focusDue
	focusList
)

const focusCount = 4

type op int

const (
	opRefresh op = iota
	opSubmit
	opCycle
)

// syncedMsg приходит, когда операция контроллера завершилась
type syncedMsg struct {
	op  op
	err error
}

type Model struct {
	ctrl *controller.Controller

	inputs [3]textinput.Model
	focus  focus
	cursor int
	width  int

	// первый ответ ещё не получен
	loaded bool
	state  controller.State
}

func New(ctrl *controller.Controller) *Model {
	m := &Model{ctrl: ctrl, state: ctrl.Snapshot()}

	placeholders := [3]string{"What needs to be done?", "Details (optional)", "YYYY-MM-DD HH:MM (optional)"}
	for i := range m.inputs {
		in := textinput.NewModel()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.Width = 40
		m.inputs[i] = in
	}
	m.setFocus(focusTitle)
	return m
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m *Model) Init() tea.Cmd {
	return m.run(opRefresh, m.ctrl.Refresh)
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = inputWidth(m.width)
		}
		return m, nil
	case syncedMsg:
		m.loaded = true
		// черновик сброшен, как только задача создана, даже если обновление списка упало
		if msg.op == opSubmit && m.ctrl.Draft() == (controller.Draft{}) {
			for i := range m.inputs {
				m.inputs[i].SetValue("")
			}
			m.setFocus(focusTitle)
		}
		m.sync()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyTab:
		m.setFocus((m.focus + 1) % focusCount)
		return nil
	case tea.KeyShiftTab:
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return nil
	}

	if m.focus == focusList {
		return m.listKey(msg)
	}

	if msg.Type == tea.KeyEnter {
		m.ctrl.SetDraft(m.draft())
		return m.run(opSubmit, m.ctrl.SubmitDraft)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *Model) listKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "r":
		return m.run(opRefresh, m.ctrl.Refresh)
	case " ", "enter":
		if len(m.state.Tasks) == 0 {
			return nil
		}
		t := m.state.Tasks[m.cursor]
		return m.run(opCycle, func(ctx context.Context) error {
			return m.ctrl.CycleStatus(ctx, t)
		})
	case "esc":
		m.setFocus(focusTitle)
	}
	return nil
}

// run выполняет операцию контроллера вне цикла обновления
func (m *Model) run(o op, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return syncedMsg{op: o, err: fn(context.Background())}
	}
}

func (m *Model) sync() {
	m.state = m.ctrl.Snapshot()
	m.moveCursor(0)
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.state.Tasks) {
		m.cursor = len(m.state.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func inputWidth(total int) int {
	w := total - 16
	if w < 20 {
		return 20
	}
	return w
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	for i := range m.inputs {
		if focus(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) draft() controller.Draft {
	return controller.Draft{
		Title:       m.inputs[focusTitle].Value(),
		Description: m.inputs[focusDescription].Value(),
		DueAt:       m.inputs[focusDue].Value(),
	}
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m *Model) View() string {
	// список и ошибка из последнего syncedMsg, чтобы курсор указывал на отрисованную строку
	s := m.state
	loading := m.ctrl.Snapshot().Loading
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Tasks (%d)", len(s.Tasks))))
	b.WriteString("\n")

	labels := [3]string{"Title", "Description", "Due"}
	for i, in := range m.inputs {
		style := labelStyle
		if focus(i) == m.focus {
			style = focusedLabel
		}
		b.WriteString(style.Render(fmt.Sprintf(" %-12s", labels[i])))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.Error != "" {
		b.WriteString(errorStyle.Render(" " + s.Error))
		b.WriteString("\n")
	}

	switch {
	case loading || !m.loaded:
		b.WriteString(infoStyle.Render(" Loading tasks..."))
		b.WriteString("\n")
	case len(s.Tasks) == 0:
		b.WriteString(infoStyle.Render(" No tasks yet. Add one above."))
		b.WriteString("\n")
	}

	for i, t := range s.Tasks {
		b.WriteString(m.renderTask(t, i == m.cursor && m.focus == focusList))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" tab: switch focus • enter: add / cycle status • j/k: move • r: refresh • ctrl+c: quit"))
	return b.String()
}

func (m *Model) renderTask(t task.Task, selected bool) string {
	var b strings.Builder

	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}
	title := titleStyle
	if t.Status == task.StatusCompleted {
		title = doneTitleStyle
	}
	b.WriteString(" " + pointer + title.Render(t.Title) + statusBadge(t.Status) + "\n")

	if t.Description != "" {
		b.WriteString("     " + t.Description + "\n")
	}

	meta := "Created: " + t.CreatedAt.Local().Format(timeLayout)
	if t.HasDue() {
		meta += "  Due: " + t.DueAt.Local().Format(timeLayout)
	}
	b.WriteString("     " + metaStyle.Render(meta) + "\n")
	return b.String()
}
