package generator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/vocquiz/internal/model"
)

// orderedRand never reorders and always picks the first index.
type orderedRand struct{}

func (orderedRand) Intn(int) int                { return 0 }
func (orderedRand) Shuffle(int, func(i, j int)) {}

func words(ids ...string) []model.Word {
	out := make([]model.Word, len(ids))
	for i, id := range ids {
		out[i] = model.Word{ID: id, English: "en-" + id, Japanese: "jp-" + id}
	}
	return out
}

func answered(ids ...string) []model.AnswerRecord {
	out := make([]model.AnswerRecord, len(ids))
	for i, id := range ids {
		out[i] = model.AnswerRecord{FileID: "f", WordID: id, Correct: true, Timestamp: time.Unix(0, 0)}
	}
	return out
}

func typedConfig(n int) model.QuizConfig {
	return model.QuizConfig{
		Selection:         model.FileSelection("f"),
		QuestionTypes:     []model.QuestionType{model.QuestionJpToEnTyping},
		NumberOfQuestions: n,
	}
}

func TestSequenceUnaskedFirst(t *testing.T) {
	g := NewWithRand(orderedRand{})
	got := g.Sequence(words("a", "b", "c", "d"), answered("a", "c"), typedConfig(model.AllQuestions))
	want := []string{"b", "d", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].Word.ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].Word.ID)
		}
		if len(got[i].Options) != 0 {
			t.Fatalf("typed question should not carry options")
		}
	}
}

func TestSequenceUnaskedFirstWithShuffling(t *testing.T) {
	g := NewWithRand(rand.New(rand.NewSource(7)))
	pool := words("a", "b", "c", "d", "e", "f")
	for i := 0; i < 20; i++ {
		got := g.Sequence(pool, answered("a", "b", "c"), typedConfig(model.AllQuestions))
		for j, q := range got[:3] {
			if q.Word.ID == "a" || q.Word.ID == "b" || q.Word.ID == "c" {
				t.Fatalf("asked word %s at position %d before unasked words", q.Word.ID, j)
			}
		}
	}
}

func TestSequenceTruncates(t *testing.T) {
	g := NewWithRand(rand.New(rand.NewSource(1)))
	pool := words("a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	got := g.Sequence(pool, nil, typedConfig(5))
	if len(got) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q.Word.ID] {
			t.Fatalf("word %s asked twice", q.Word.ID)
		}
		seen[q.Word.ID] = true
	}
	if got := g.Sequence(pool, nil, typedConfig(50)); len(got) != len(pool) {
		t.Fatalf("expected %d questions when asking for more, got %d", len(pool), len(got))
	}
}

func TestSequenceEmptyPool(t *testing.T) {
	if got := New().Sequence(nil, nil, typedConfig(model.AllQuestions)); len(got) != 0 {
		t.Fatalf("expected empty sequence, got %d", len(got))
	}
}

func TestSequenceOptions(t *testing.T) {
	g := NewWithRand(rand.New(rand.NewSource(3)))
	cfg := model.QuizConfig{
		Selection:     model.FileSelection("f"),
		QuestionTypes: []model.QuestionType{model.QuestionEnToJpMC, model.QuestionJpToEnMC},
	}
	pool := words("a", "b", "c", "d", "e", "f")
	for _, q := range g.Sequence(pool, nil, cfg) {
		if !q.Type.IsMultipleChoice() {
			t.Fatalf("unexpected type %s", q.Type)
		}
		if len(q.Options) != MaxOptions {
			t.Fatalf("expected %d options, got %d", MaxOptions, len(q.Options))
		}
		ids := map[string]int{}
		for _, o := range q.Options {
			ids[o.ID]++
		}
		if ids[q.Word.ID] != 1 {
			t.Fatalf("options must contain the word exactly once: %+v", q.Options)
		}
		if len(ids) != len(q.Options) {
			t.Fatalf("options must be distinct: %+v", q.Options)
		}
	}
}

func TestOptionsSmallPool(t *testing.T) {
	g := NewWithRand(rand.New(rand.NewSource(5)))
	pool := words("a", "b")
	pool = append(pool, pool[1])
	opts := g.Options(pool[0], pool)
	if len(opts) != 2 {
		t.Fatalf("expected 2 options without padding, got %+v", opts)
	}

	single := g.Options(pool[0], pool[:1])
	if len(single) != 1 || single[0].ID != "a" {
		t.Fatalf("expected the word as the only option, got %+v", single)
	}
}

// scriptedRand keeps order and returns Intn picks from a fixed script.
type scriptedRand struct {
	picks []int
}

func (r *scriptedRand) Intn(n int) int {
	pick := r.picks[0]
	r.picks = r.picks[1:]
	return pick % n
}

func (r *scriptedRand) Shuffle(int, func(i, j int)) {}

func TestSequenceDrawsTypePerWord(t *testing.T) {
	g := NewWithRand(&scriptedRand{picks: []int{0, 1, 1, 0}})
	cfg := model.QuizConfig{
		Selection:     model.FileSelection("f"),
		QuestionTypes: []model.QuestionType{model.QuestionEnToJpMC, model.QuestionJpToEnTyping},
	}
	got := g.Sequence(words("a", "b", "c", "d"), nil, cfg)
	want := []model.QuestionType{
		model.QuestionEnToJpMC,
		model.QuestionJpToEnTyping,
		model.QuestionJpToEnTyping,
		model.QuestionEnToJpMC,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(got))
	}
	for i, q := range got {
		if q.Type != want[i] {
			t.Fatalf("question %d: expected type %s, got %s", i, want[i], q.Type)
		}
		if q.Type.IsMultipleChoice() && len(q.Options) != MaxOptions {
			t.Fatalf("question %d: expected %d options, got %d", i, MaxOptions, len(q.Options))
		}
		if !q.Type.IsMultipleChoice() && len(q.Options) != 0 {
			t.Fatalf("question %d: typed question should not carry options, got %+v", i, q.Options)
		}
	}
}
