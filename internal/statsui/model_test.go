package statsui

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/vocquiz/internal/model"
	"github.com/verte-zerg/vocquiz/internal/store"
)

func openSeededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "vocquiz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	files := []model.File{
		{ID: "f1", Name: "animals", CreatedAt: time.Unix(1, 0), Words: []model.Word{{ID: "w1", English: "dog", Japanese: "犬"}}},
		{ID: "f2", Name: "colors", CreatedAt: time.Unix(2, 0), Words: []model.Word{{ID: "w2", English: "red", Japanese: "赤"}}},
	}
	for _, f := range files {
		if err := st.AddFile(ctx, f); err != nil {
			t.Fatalf("add file: %v", err)
		}
	}
	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	records := []model.AnswerRecord{
		{FileID: "f1", WordID: "w1", Correct: false, Timestamp: day},
		{FileID: "f1", WordID: "w1", Correct: true, Timestamp: day.AddDate(0, 0, 1)},
		{FileID: "f2", WordID: "w2", Correct: true, Timestamp: day.AddDate(0, 0, 1)},
	}
	if err := st.AppendHistory(ctx, records); err != nil {
		t.Fatalf("append history: %v", err)
	}
	return st
}

func TestActiveTabIsRemembered(t *testing.T) {
	st := openSeededStore(t)
	m := NewModel(st, model.StatsConfig{}, discardLogger())
	if m.ActiveTab() != tabOverview {
		t.Fatalf("expected overview by default, got %d", m.ActiveTab())
	}
	cmd := m.moveTab(1)
	if msg, ok := cmd().(tabSavedMsg); !ok || msg.err != nil {
		t.Fatalf("expected saved tab, got %+v", msg)
	}

	again := NewModel(st, model.StatsConfig{}, discardLogger())
	if again.ActiveTab() != tabWeakWords {
		t.Fatalf("expected weak words tab to be restored, got %d", again.ActiveTab())
	}
}

func TestMoveTabWraps(t *testing.T) {
	m := NewModel(openSeededStore(t), model.StatsConfig{}, discardLogger())
	m.moveTab(-1)
	if m.ActiveTab() != tabFiles {
		t.Fatalf("expected wrap to files tab, got %d", m.ActiveTab())
	}
}

func TestViewShowsOverview(t *testing.T) {
	m := NewModel(openSeededStore(t), model.StatsConfig{}, discardLogger())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	out := m.View()
	for _, want := range []string{"Overview", "Weak Words", "Files", "Answers", "Accuracy Trend"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestFocusFileNarrowsReport(t *testing.T) {
	m := NewModel(openSeededStore(t), model.StatsConfig{}, discardLogger())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if len(m.report.Weak) != 1 {
		t.Fatalf("expected one weak word overall, got %+v", m.report.Weak)
	}
	m.moveTab(-1)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.cfg.FileID != "f1" || m.ActiveTab() != tabWeakWords {
		t.Fatalf("expected focus on f1 weak words, got %q tab %d", m.cfg.FileID, m.ActiveTab())
	}
	if len(m.report.History) != 2 {
		t.Fatalf("expected history of f1 only, got %d", len(m.report.History))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if m.cfg.FileID != "" || len(m.report.History) != 3 {
		t.Fatalf("expected all word lists again")
	}
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
