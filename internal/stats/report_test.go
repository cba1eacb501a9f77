package stats

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/vocquiz/internal/model"
	"github.com/verte-zerg/vocquiz/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "vocquiz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	animals := model.File{ID: "f1", Name: "animals", CreatedAt: time.Unix(1, 0), Words: []model.Word{
		{ID: "w1", English: "dog", Japanese: "犬"},
		{ID: "w2", English: "cat", Japanese: "猫"},
	}}
	colors := model.File{ID: "f2", Name: "colors", CreatedAt: time.Unix(2, 0), Words: []model.Word{
		{ID: "w3", English: "red", Japanese: "赤"},
	}}
	for _, f := range []model.File{animals, colors} {
		if err := st.AddFile(ctx, f); err != nil {
			t.Fatalf("add file: %v", err)
		}
	}
	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	records := []model.AnswerRecord{
		{FileID: "f1", WordID: "w1", Correct: false, Timestamp: day},
		{FileID: "f1", WordID: "w1", Correct: true, Timestamp: day},
		{FileID: "f1", WordID: "w2", Correct: true, Timestamp: day.AddDate(0, 0, 1)},
		{FileID: "f2", WordID: "w3", Correct: false, Timestamp: day.AddDate(0, 0, 1)},
	}
	if err := st.AppendHistory(ctx, records); err != nil {
		t.Fatalf("append history: %v", err)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Files) != 2 || len(report.History) != 4 {
		t.Fatalf("unexpected snapshot: %d files, %d records", len(report.Files), len(report.History))
	}
	if len(report.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(report.Days))
	}
	if len(report.Weak) != 2 || report.Weak[0].Word.ID != "w3" || report.Weak[1].Word.ID != "w1" {
		t.Fatalf("unexpected weak ranking: %+v", report.Weak)
	}

	fileReport, err := BuildReport(ctx, st, model.StatsConfig{FileID: "f1"})
	if err != nil {
		t.Fatalf("build file report: %v", err)
	}
	if len(fileReport.Files) != 1 || len(fileReport.History) != 3 {
		t.Fatalf("unexpected file report: %d files, %d records", len(fileReport.Files), len(fileReport.History))
	}
	if len(fileReport.Weak) != 1 || fileReport.Weak[0].Word.ID != "w1" {
		t.Fatalf("unexpected file weak ranking: %+v", fileReport.Weak)
	}

	if _, err := BuildReport(ctx, st, model.StatsConfig{FileID: "missing"}); !errors.Is(err, model.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestRenderOverviewWithoutHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderOverview(&buf, NewReport(nil, nil, time.UTC), 20, false); err != nil {
		t.Fatalf("render overview: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No answers recorded yet." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
