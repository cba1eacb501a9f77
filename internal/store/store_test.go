package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/vocquiz/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "vocquiz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testFile(id string, words ...string) model.File {
	f := model.File{ID: id, Name: "file " + id, CreatedAt: time.Unix(100, 0)}
	for _, w := range words {
		f.Words = append(f.Words, model.Word{ID: id + "-" + w, English: w, Japanese: "jp-" + w})
	}
	return f
}

func TestAddAndListFilesKeepsWordOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.AddFile(ctx, testFile("a", "dog", "cat", "bird")); err != nil {
		t.Fatalf("add file: %v", err)
	}
	files, err := st.ListFiles(ctx)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	got := files[0].Words
	if len(got) != 3 || got[0].English != "dog" || got[1].English != "cat" || got[2].English != "bird" {
		t.Fatalf("unexpected words: %+v", got)
	}
	if got[1].Japanese != "jp-cat" || got[1].ID != "a-cat" {
		t.Fatalf("unexpected word fields: %+v", got[1])
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	at := time.UnixMilli(1700000000123)
	records := []model.AnswerRecord{
		{FileID: "a", WordID: "a-dog", Correct: true, Timestamp: at},
		{FileID: "a", WordID: "a-cat", Correct: false, Timestamp: at.Add(time.Second)},
	}
	if err := st.AppendHistory(ctx, records); err != nil {
		t.Fatalf("append history: %v", err)
	}
	got, err := st.ListHistory(ctx)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if !got[0].Correct || got[1].Correct {
		t.Fatalf("unexpected correctness: %+v", got)
	}
	if !got[0].Timestamp.Equal(at) {
		t.Fatalf("expected timestamp %v, got %v", at, got[0].Timestamp)
	}
}

func TestDeleteFileCascadesHistory(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.AddFile(ctx, testFile("a", "dog")); err != nil {
		t.Fatalf("add file a: %v", err)
	}
	if err := st.AddFile(ctx, testFile("b", "cat")); err != nil {
		t.Fatalf("add file b: %v", err)
	}
	now := time.Now()
	if err := st.AppendHistory(ctx, []model.AnswerRecord{
		{FileID: "a", WordID: "a-dog", Correct: false, Timestamp: now},
		{FileID: "b", WordID: "b-cat", Correct: false, Timestamp: now},
		{FileID: "a", WordID: "a-dog", Correct: true, Timestamp: now},
	}); err != nil {
		t.Fatalf("append history: %v", err)
	}

	if err := st.DeleteFile(ctx, "a"); err != nil {
		t.Fatalf("delete file: %v", err)
	}
	history, err := st.ListHistory(ctx)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 || history[0].FileID != "b" {
		t.Fatalf("expected only file b history, got %+v", history)
	}
	files, err := st.ListFiles(ctx)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 1 || files[0].ID != "b" {
		t.Fatalf("expected only file b, got %+v", files)
	}
	exists, err := st.FileExists(ctx, "a")
	if err != nil {
		t.Fatalf("file exists: %v", err)
	}
	if exists {
		t.Fatalf("expected file a to be gone")
	}
}

func TestDeleteMissingFile(t *testing.T) {
	st := openTestStore(t)
	err := st.DeleteFile(context.Background(), "nope")
	if !errors.Is(err, model.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestRememberedConfig(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	cfg, err := st.LoadRememberedConfig(ctx)
	if err != nil {
		t.Fatalf("load empty config: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected no remembered config")
	}

	want := model.QuizConfig{
		Selection:         model.FileSelection("a", "b"),
		QuestionTypes:     []model.QuestionType{model.QuestionJpToEnTyping},
		NumberOfQuestions: 20,
	}
	if err := st.SaveRememberedConfig(ctx, want); err != nil {
		t.Fatalf("save config: %v", err)
	}
	got, err := st.LoadRememberedConfig(ctx)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got == nil || got.Selection.Kind != model.SelectFiles || len(got.Selection.FileIDs) != 2 ||
		got.NumberOfQuestions != 20 || got.QuestionTypes[0] != model.QuestionJpToEnTyping {
		t.Fatalf("unexpected remembered config: %+v", got)
	}
}

func TestStatsTabSetting(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.SaveStatsTab(ctx, 2); err != nil {
		t.Fatalf("save tab: %v", err)
	}
	if err := st.SaveStatsTab(ctx, 1); err != nil {
		t.Fatalf("overwrite tab: %v", err)
	}
	tab, err := st.LoadStatsTab(ctx)
	if err != nil {
		t.Fatalf("load tab: %v", err)
	}
	if tab != 1 {
		t.Fatalf("expected tab 1, got %d", tab)
	}
}

func TestConcurrentAppendHistoryKeepsEveryRecord(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	const writers, perWriter = 20, 5

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records := make([]model.AnswerRecord, perWriter)
			for j := range records {
				records[j] = model.AnswerRecord{
					FileID:    "a",
					WordID:    fmt.Sprintf("w%d-%d", i, j),
					Correct:   j%2 == 0,
					Timestamp: time.UnixMilli(int64(i*perWriter + j)),
				}
			}
			errs <- st.AppendHistory(ctx, records)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("append history: %v", err)
		}
	}

	got, err := st.ListHistory(ctx)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(got) != writers*perWriter {
		t.Fatalf("expected %d records, got %d", writers*perWriter, len(got))
	}
}
