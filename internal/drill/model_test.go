package drill

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/vocabdrill/internal/playback"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

type fakeController struct {
	calls    []string
	startErr error
	status   playback.Status
}

func (f *fakeController) Start(entries []vocab.Entry, cfg playback.Config) error {
	f.calls = append(f.calls, "start")
	return f.startErr
}
func (f *fakeController) Toggle()                 { f.calls = append(f.calls, "toggle") }
func (f *fakeController) Next()                   { f.calls = append(f.calls, "next") }
func (f *fakeController) Previous()               { f.calls = append(f.calls, "previous") }
func (f *fakeController) Stop()                   { f.calls = append(f.calls, "stop") }
func (f *fakeController) Status() playback.Status { return f.status }

var testEntries = []vocab.Entry{
	{ID: "e1", Word: "apple", Pronunciation: "/ˈæp.əl/", Meaning: "quả táo", CategoryID: "c1", Topic: "Nouns",
		Difficulty: vocab.DifficultyEasy,
		Examples:   []vocab.Example{{Sentence: "I eat an apple.", Translation: "Tôi ăn một quả táo."}}},
	{ID: "e2", Word: "negotiate", Meaning: "đàm phán", Difficulty: vocab.DifficultyHard},
}

func newTestModel(ctrl Controller, review ReviewFunc) Model {
	names := vocab.NewCategoryIndex([]vocab.Category{{ID: "c1", Name: "Food"}})
	return NewModel(context.Background(), ctrl, testEntries, playback.DefaultConfig(), review, names)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func TestInitStartsPlayback(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(ctrl, nil)

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should return a start command")
	}
	msg := cmd()
	if len(ctrl.calls) != 1 || ctrl.calls[0] != "start" {
		t.Errorf("Expected start, got %v", ctrl.calls)
	}

	m, cmd = update(t, m, msg)
	if cmd != nil || m.Err() != nil {
		t.Errorf("Successful start should not quit: %v", m.Err())
	}
}

func TestStartFailureQuits(t *testing.T) {
	ctrl := &fakeController{startErr: errors.New("bad config")}
	m := newTestModel(ctrl, nil)

	m, cmd := update(t, m, m.Init()())
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if m.Err() == nil || !strings.Contains(m.View(), "bad config") {
		t.Errorf("Error not reported, view:\n%s", m.View())
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{" ", "toggle"},
		{"n", "next"},
		{"right", "next"},
		{"p", "previous"},
		{"left", "previous"},
	}
	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.key, func(t *testing.T) {
			ctrl := &fakeController{}
			m := newTestModel(ctrl, nil)
			m, _ = update(t, m, StatusMsg{State: playback.Playing, Total: 2})
			update(t, m, key(tt.key))
			if len(ctrl.calls) != 1 || ctrl.calls[0] != tt.want {
				t.Errorf("key %q: calls = %v, want [%s]", tt.key, ctrl.calls, tt.want)
			}
		})
	}
}

func TestQuitStopsPlayback(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		ctrl := &fakeController{}
		m := newTestModel(ctrl, nil)
		var msg tea.KeyMsg
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = key(k)
		}
		_, cmd := update(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
		if len(ctrl.calls) != 1 || ctrl.calls[0] != "stop" {
			t.Errorf("%s: calls = %v", k, ctrl.calls)
		}
	}
}

func TestSpaceRestartsFinishedRun(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(ctrl, nil)
	m, _ = update(t, m, StatusMsg{State: playback.Idle, Index: 1, Total: 2, Completed: true})
	if !strings.Contains(m.View(), "Finished") {
		t.Errorf("Expected finished view, got:\n%s", m.View())
	}

	_, cmd := update(t, m, key(" "))
	if cmd == nil {
		t.Fatal("Expected restart command")
	}
	cmd()
	if len(ctrl.calls) != 1 || ctrl.calls[0] != "start" {
		t.Errorf("calls = %v, want [start]", ctrl.calls)
	}
}

func TestMarkMastered(t *testing.T) {
	var gotID string
	var gotMastered bool
	review := func(ctx context.Context, id string, mastered bool) (vocab.Entry, error) {
		gotID, gotMastered = id, mastered
		e := testEntries[1]
		e.Mastered = mastered
		e.ReviewCount++
		return e, nil
	}
	m := newTestModel(&fakeController{}, review)
	m, _ = update(t, m, StatusMsg{State: playback.Playing, Index: 1, Total: 2, Part: playback.PartWord})

	m, cmd := update(t, m, key("m"))
	if cmd == nil {
		t.Fatal("Expected review command")
	}
	m, _ = update(t, m, cmd())

	if gotID != "e2" || !gotMastered {
		t.Errorf("review called with %q, %v", gotID, gotMastered)
	}
	if !m.entries[1].Mastered {
		t.Error("Entry not updated after review")
	}
	view := m.View()
	if !strings.Contains(view, "mastered") || !strings.Contains(view, `Marked "negotiate" as mastered`) {
		t.Errorf("Unexpected view:\n%s", view)
	}
	if testEntries[1].Mastered {
		t.Error("Model must not modify the caller's entries")
	}
}

func TestMarkMasteredError(t *testing.T) {
	review := func(ctx context.Context, id string, mastered bool) (vocab.Entry, error) {
		return vocab.Entry{}, errors.New("database locked")
	}
	m := newTestModel(&fakeController{}, review)
	m, cmd := update(t, m, key("m"))
	m, _ = update(t, m, cmd())
	if !strings.Contains(m.View(), "Review failed: database locked") {
		t.Errorf("Unexpected view:\n%s", m.View())
	}
}

func TestViewShowsCurrentEntry(t *testing.T) {
	m := newTestModel(&fakeController{}, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(t, m, StatusMsg{State: playback.Playing, Index: 0, Total: 2, Part: playback.PartMeaning})

	view := m.View()
	for _, want := range []string{"apple", "/ˈæp.əl/", "quả táo", "I eat an apple.", "Food", "Nouns", "easy", "1/2", "Playing"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}

	m, _ = update(t, m, StatusMsg{State: playback.Paused, Index: 1, Total: 2})
	view = m.View()
	if !strings.Contains(view, "negotiate") || !strings.Contains(view, "Paused") || !strings.Contains(view, "2/2") {
		t.Errorf("Unexpected paused view:\n%s", view)
	}
}

func TestViewEmptyList(t *testing.T) {
	m := NewModel(context.Background(), &fakeController{}, nil, playback.DefaultConfig(), nil, nil)
	if !strings.Contains(m.View(), "Nothing to play.") {
		t.Errorf("Unexpected view:\n%s", m.View())
	}
}
