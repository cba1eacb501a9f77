// Package generator builds quiz question sequences.
package generator

import (
	"math/rand"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/vocquiz/internal/model"
)

// MaxOptions is the number of choices a multiple-choice question carries
// when the pool is large enough.
const MaxOptions = 4

// Rand is the random source used by the generator. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Generator produces randomized question sequences.
type Generator struct {
	rnd Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a Generator drawing from rnd.
func NewWithRand(rnd Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Rand exposes the generator's random source.
func (g *Generator) Rand() Rand {
	return g.rnd
}

// Sequence orders the pool into questions. Words never answered before come
// first, each group shuffled on its own, and the result is cut to the
// requested number of questions.
func (g *Generator) Sequence(pool []model.Word, history []model.AnswerRecord, cfg model.QuizConfig) []model.Question {
	if len(pool) == 0 || len(cfg.QuestionTypes) == 0 {
		return nil
	}
	answered := lo.Associate(history, func(r model.AnswerRecord) (string, struct{}) {
		return r.WordID, struct{}{}
	})
	wasAsked := func(w model.Word, _ int) bool {
		_, ok := answered[w.ID]
		return ok
	}
	unasked := lo.Reject(pool, wasAsked)
	asked := lo.Filter(pool, wasAsked)
	g.shuffleWords(unasked)
	g.shuffleWords(asked)
	ordered := append(unasked, asked...)

	n := len(ordered)
	if cfg.NumberOfQuestions != model.AllQuestions && cfg.NumberOfQuestions < n {
		n = cfg.NumberOfQuestions
	}
	distinct := lo.UniqBy(pool, func(w model.Word) string { return w.ID })

	questions := make([]model.Question, 0, n)
	for _, w := range ordered[:n] {
		q := model.Question{
			Word: w,
			Type: cfg.QuestionTypes[g.rnd.Intn(len(cfg.QuestionTypes))],
		}
		if q.Type.IsMultipleChoice() {
			q.Options = g.Options(w, distinct)
		}
		questions = append(questions, q)
	}
	return questions
}

// Options returns the word plus up to MaxOptions-1 distractors drawn without
// replacement from candidates, in random order.
func (g *Generator) Options(word model.Word, candidates []model.Word) []model.Word {
	others := lo.UniqBy(lo.Filter(candidates, func(c model.Word, _ int) bool {
		return c.ID != word.ID
	}), func(c model.Word) string { return c.ID })
	g.shuffleWords(others)
	if len(others) > MaxOptions-1 {
		others = others[:MaxOptions-1]
	}
	options := append([]model.Word{word}, others...)
	g.shuffleWords(options)
	return options
}

func (g *Generator) shuffleWords(words []model.Word) {
	g.rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}
