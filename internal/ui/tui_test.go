package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskmate-go/internal/recommend"
	"github.com/nibzard/taskmate-go/internal/todo"
)

type fakeSource struct {
	tasks     []todo.Task
	reloadErr error
	reloads   int
}

func (f *fakeSource) Path() string          { return "/tmp/tasks.csv" }
func (f *fakeSource) List() []todo.Task     { return f.tasks }
func (f *fakeSource) ClassifierReady() bool { return len(f.tasks) > 0 }
func (f *fakeSource) Reload() error {
	f.reloads++
	return f.reloadErr
}
func (f *fakeSource) Recommend() recommend.Result {
	return recommend.New().Recommend(f.tasks)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleSource() *fakeSource {
	return &fakeSource{tasks: []todo.Task{
		{Description: "Water plants", Priority: todo.PriorityLow},
		{Description: "Ship release", Priority: todo.PriorityHigh},
		{Description: "Read paper", Priority: todo.PriorityMedium},
	}}
}

func TestViewListsTasks(t *testing.T) {
	m := newTUIModel(sampleSource())
	m.Init()
	view := m.View()

	for _, want := range []string{
		"Taskmate",
		"Total: 3  High: 1  Medium: 1  Low: 1",
		"1. [Low] Water plants",
		"! 2. [High] Ship release",
		"Task File:  /tmp/tasks.csv",
		"Classifier: trained",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestFilterKeys(t *testing.T) {
	tests := []struct {
		key    string
		show   string
		hide   string
		banner bool
	}{
		{key: "1", show: "Water plants", hide: "Ship release", banner: true},
		{key: "2", show: "Read paper", hide: "Water plants", banner: true},
		{key: "3", show: "Ship release", hide: "Read paper", banner: true},
		{key: "0", show: "Read paper", banner: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newTUIModel(sampleSource())
			m.Init()
			m.Update(key("3"))
			m.Update(key(tt.key))
			view := m.View()
			if !strings.Contains(view, tt.show) {
				t.Errorf("view missing %q", tt.show)
			}
			if tt.hide != "" && strings.Contains(view, tt.hide) {
				t.Errorf("view should not contain %q", tt.hide)
			}
			if got := strings.Contains(view, "Filter:"); got != tt.banner {
				t.Errorf("filter banner shown=%v, want %v", got, tt.banner)
			}
		})
	}
}

func TestRecommendKey(t *testing.T) {
	m := newTUIModel(sampleSource())
	m.Init()
	m.Update(key("r"))
	if view := m.View(); !strings.Contains(view, "Ship release (1 of 1 high-priority)") {
		t.Errorf("recommendation missing:\n%s", view)
	}

	empty := newTUIModel(&fakeSource{})
	empty.Init()
	empty.Update(key("r"))
	if view := empty.View(); !strings.Contains(view, "No tasks available for recommendations.") {
		t.Errorf("empty recommendation missing:\n%s", view)
	}
}

func TestReloadKey(t *testing.T) {
	src := sampleSource()
	m := newTUIModel(src)
	m.Init()

	src.tasks = src.tasks[:1]
	m.Update(key("R"))
	if src.reloads != 1 {
		t.Errorf("reloads: got %d, want 1", src.reloads)
	}
	if view := m.View(); strings.Contains(view, "Ship release") {
		t.Errorf("view not refreshed after reload:\n%s", view)
	}

	src.reloadErr = errors.New("bad row")
	m.Update(key("R"))
	if view := m.View(); !strings.Contains(view, "bad row") {
		t.Errorf("reload error not shown:\n%s", view)
	}
}

func TestHelpAndQuit(t *testing.T) {
	m := newTUIModel(sampleSource())
	m.Init()
	m.Update(key("h"))
	if view := m.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Errorf("help not shown:\n%s", view)
	}
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a TTY")
	}
}
