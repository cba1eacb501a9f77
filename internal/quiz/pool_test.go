package quiz

import (
	"testing"
	"time"

	"github.com/verte-zerg/vocquiz/internal/model"
)

func file(id string, wordIDs ...string) model.File {
	f := model.File{ID: id, Name: id}
	for _, w := range wordIDs {
		f.Words = append(f.Words, model.Word{ID: w, English: "en-" + w, Japanese: "jp-" + w})
	}
	return f
}

func record(fileID, wordID string, correct bool) model.AnswerRecord {
	return model.AnswerRecord{FileID: fileID, WordID: wordID, Correct: correct, Timestamp: time.Unix(0, 0)}
}

func ids(words []model.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.ID
	}
	return out
}

func equalIDs(t *testing.T, got []model.Word, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotIDs)
		}
	}
}

func TestBuildPoolFiles(t *testing.T) {
	files := []model.File{file("f1", "a", "b"), file("f2", "c")}
	cfg := model.QuizConfig{Selection: model.FileSelection("f2", "missing", "f1", "f2")}
	equalIDs(t, BuildPool(cfg, files, nil), "c", "a", "b", "c")
}

func TestBuildPoolWeakWords(t *testing.T) {
	files := []model.File{file("f1", "a", "b"), file("f2", "c")}
	history := []model.AnswerRecord{
		record("f1", "a", true),
		record("f1", "b", false),
		record("f2", "c", false),
		record("f2", "c", true),
	}
	cfg := model.QuizConfig{Selection: model.WeakWordSelection()}
	equalIDs(t, BuildPool(cfg, files, history), "b", "c")

	if pool := BuildPool(cfg, files, nil); len(pool) != 0 {
		t.Fatalf("expected empty pool without history, got %v", ids(pool))
	}
}

func TestBuildPoolWeakWordsAfterFileDeleted(t *testing.T) {
	history := []model.AnswerRecord{record("gone", "x", false), record("f1", "a", true)}
	cfg := model.QuizConfig{Selection: model.WeakWordSelection()}
	if pool := BuildPool(cfg, []model.File{file("f1", "a")}, history); len(pool) != 0 {
		t.Fatalf("expected deleted file's words to drop out, got %v", ids(pool))
	}
}

func TestScore(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{3, 4, 75},
		{2, 3, 67},
		{1, 3, 33},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := Score(tc.correct, tc.total); got != tc.want {
			t.Fatalf("Score(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestCheckTyped(t *testing.T) {
	w := model.Word{English: "Apple"}
	cases := map[string]bool{
		"apple":    true,
		"  APPLE ": true,
		"apples":   false,
		"":         false,
	}
	for input, want := range cases {
		if got := CheckTyped(input, w); got != want {
			t.Fatalf("CheckTyped(%q) = %v, want %v", input, got, want)
		}
	}
}
