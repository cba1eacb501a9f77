package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/vocquiz/internal/model"
)

func TestSummarizeFilesAndMostPracticed(t *testing.T) {
	a := model.File{ID: "a", Name: "alpha", Words: []model.Word{{ID: "a1"}, {ID: "a2"}}}
	b := model.File{ID: "b", Name: "beta", Words: []model.Word{{ID: "b1"}}}
	now := time.Now()
	history := []model.AnswerRecord{
		{FileID: "a", WordID: "a1", Correct: false, Timestamp: now},
		{FileID: "b", WordID: "b1", Correct: true, Timestamp: now},
		{FileID: "b", WordID: "b1", Correct: true, Timestamp: now},
		{FileID: "b", WordID: "b1", Correct: false, Timestamp: now},
	}
	summaries := SummarizeFiles([]model.File{a, b}, history)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Answers != 1 || summaries[0].Correct != 0 || summaries[0].WeakCount != 1 {
		t.Fatalf("unexpected summary for a: %+v", summaries[0])
	}
	if summaries[1].Answers != 3 || summaries[1].Correct != 2 || summaries[1].WeakCount != 0 {
		t.Fatalf("unexpected summary for b: %+v", summaries[1])
	}

	top := MostPracticed(summaries, 1)
	if len(top) != 1 || top[0].File.ID != "b" {
		t.Fatalf("expected b to be most practiced, got %+v", top)
	}
}
