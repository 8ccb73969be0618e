// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskmate-go/internal/recommend"
	"github.com/nibzard/taskmate-go/internal/todo"
	"github.com/nibzard/taskmate-go/internal/utils"
)

// Source is what the TUI reads from. *app.App satisfies it.
type Source interface {
	Path() string
	List() []todo.Task
	Recommend() recommend.Result
	Reload() error
	ClassifierReady() bool
}

// RunTUI starts the TUI over src. It requires stdout to be a terminal.
func RunTUI(ctx context.Context, src Source) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(newTUIModel(src), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	src      Source
	tasks    []todo.Task
	loadErr  error
	filter   todo.Priority // empty shows every task
	rec      *recommend.Result
	showHelp bool
}

func newTUIModel(src Source) *tuiModel {
	return &tuiModel{src: src}
}

func (m *tuiModel) Init() tea.Cmd {
	m.tasks = m.src.List()
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		res := m.src.Recommend()
		m.rec = &res
	case "R", "f5":
		m.reload()
	case "h", "?":
		m.showHelp = !m.showHelp
	case "1":
		m.filter = todo.PriorityLow
	case "2":
		m.filter = todo.PriorityMedium
	case "3":
		m.filter = todo.PriorityHigh
	case "0":
		m.filter = ""
	}
	return m, nil
}

func (m *tuiModel) reload() {
	if err := m.src.Reload(); err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.tasks = m.src.List()
	m.rec = nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}
	if m.loadErr != nil {
		b.WriteString("Error loading task file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
	}

	writeOverview(&b, m.tasks)
	writeTasks(&b, m.visible())
	if m.rec != nil {
		writeRecommendation(&b, *m.rec)
	}
	writeConfig(&b, m.src)
	writeFooter(&b)
	return b.String()
}

func (m *tuiModel) visible() []todo.Task {
	if m.filter == "" {
		return m.tasks
	}
	var out []todo.Task
	for _, t := range m.tasks {
		if strings.EqualFold(string(t.Priority), string(m.filter)) {
			out = append(out, t)
		}
	}
	return out
}

func writeTitle(b *strings.Builder) {
	title := "Taskmate"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, tasks []todo.Task) {
	counts := make(map[todo.Priority]int)
	for _, t := range tasks {
		if p, err := todo.ParsePriority(string(t.Priority)); err == nil {
			counts[p]++
		}
	}
	b.WriteString("Task Overview\n\n")
	b.WriteString(fmt.Sprintf("  Total: %d  High: %d  Medium: %d  Low: %d\n\n",
		len(tasks),
		counts[todo.PriorityHigh],
		counts[todo.PriorityMedium],
		counts[todo.PriorityLow],
	))
}

func writeTasks(b *strings.Builder, tasks []todo.Task) {
	b.WriteString("Tasks\n\n")
	if len(tasks) == 0 {
		b.WriteString("  No tasks available.\n\n")
		return
	}
	for i, t := range tasks {
		b.WriteString(formatTask(i+1, t))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeRecommendation(b *strings.Builder, res recommend.Result) {
	b.WriteString("Recommendation\n\n")
	switch res.Reason {
	case recommend.Found:
		b.WriteString(fmt.Sprintf("  %s (1 of %d high-priority)\n\n", res.Task.Description, res.Candidates))
	case recommend.NoHighPriority:
		b.WriteString("  No high-priority tasks available for recommendation.\n\n")
	default:
		b.WriteString("  No tasks available for recommendations.\n\n")
	}
}

func writeConfig(b *strings.Builder, src Source) {
	classifier := "not trained"
	if src.ClassifierReady() {
		classifier = "trained"
	}
	b.WriteString("Configuration\n\n")
	b.WriteString(fmt.Sprintf("  Task File:  %s\n", src.Path()))
	b.WriteString(fmt.Sprintf("  Classifier: %s\n\n", classifier))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r            Recommend a high-priority task\n")
	b.WriteString("  R, F5        Reload the task file\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by Low\n")
	b.WriteString("  2            Filter by Medium\n")
	b.WriteString("  3            Filter by High\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("Press h for help | r to recommend | q to quit\n")
}

func formatTask(n int, t todo.Task) string {
	marker := " "
	if t.IsHigh() {
		marker = "!"
	}
	prio := string(t.Priority)
	if prio == "" {
		prio = "?"
	}
	return fmt.Sprintf("  %s %2d. [%s] %s", marker, n, prio, utils.Truncate(t.Description, 70))
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
