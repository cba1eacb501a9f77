// Package quiz holds the quiz session engine: pool building, the session
// state machine and the review loop.
package quiz

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/vocquiz/internal/model"
	"github.com/verte-zerg/vocquiz/internal/stats"
)

// BuildPool collects the candidate words for a quiz. An empty pool means the
// quiz cannot start.
func BuildPool(cfg model.QuizConfig, files []model.File, history []model.AnswerRecord) []model.Word {
	switch cfg.Selection.Kind {
	case model.SelectWeakWords:
		all := lo.FlatMap(files, func(f model.File, _ int) []model.Word { return f.Words })
		return stats.SelectWeakWords(history, all)
	case model.SelectFiles:
		byID := lo.KeyBy(files, func(f model.File) string { return f.ID })
		var pool []model.Word
		for _, id := range cfg.Selection.FileIDs {
			f, ok := byID[id]
			if !ok {
				continue
			}
			pool = append(pool, f.Words...)
		}
		return pool
	default:
		return nil
	}
}

// Score returns the rounded percentage of correct answers, 0 when total is 0.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// CheckTyped reports whether a typed answer matches the word's English,
// ignoring surrounding whitespace and case.
func CheckTyped(input string, word model.Word) bool {
	return strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(word.English))
}

// CheckChoice reports whether the chosen option is the asked word.
func CheckChoice(q model.Question, chosen model.Word) bool {
	return chosen.ID == q.Word.ID
}
