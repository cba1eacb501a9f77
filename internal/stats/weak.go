package stats

import (
	"sort"

	"github.com/samber/lo"

	"github.com/verte-zerg/vocquiz/internal/model"
)

// WeakThreshold is the incorrect-answer rate at or above which a word is weak.
const WeakThreshold = 0.5

// WeakWord is a weak word together with the numbers that made it weak.
type WeakWord struct {
	Word           model.Word
	IncorrectCount int
	IncorrectRate  float64
}

// AggregateWords counts attempts and correct answers per word id.
func AggregateWords(history []model.AnswerRecord) map[string]model.WordStats {
	out := map[string]model.WordStats{}
	for _, r := range history {
		ws := out[r.WordID]
		ws.WordID = r.WordID
		ws.Total++
		if r.Correct {
			ws.Correct++
		}
		out[r.WordID] = ws
	}
	return out
}

// IncorrectRate returns the share of incorrect attempts. ok is false without attempts.
func IncorrectRate(ws model.WordStats) (rate float64, ok bool) {
	if ws.Total <= 0 {
		return 0, false
	}
	return float64(ws.Incorrect()) / float64(ws.Total), true
}

func isWeak(ws model.WordStats) bool {
	rate, ok := IncorrectRate(ws)
	return ok && rate >= WeakThreshold && ws.Incorrect() > 0
}

// SelectWeakWords returns the known words whose history marks them as weak.
// History for words outside known is ignored. The result keeps known order
// and holds each word id once.
func SelectWeakWords(history []model.AnswerRecord, known []model.Word) []model.Word {
	if len(history) == 0 || len(known) == 0 {
		return nil
	}
	knownIDs := lo.Associate(known, func(w model.Word) (string, struct{}) {
		return w.ID, struct{}{}
	})
	relevant := lo.Filter(history, func(r model.AnswerRecord, _ int) bool {
		_, ok := knownIDs[r.WordID]
		return ok
	})
	aggs := AggregateWords(relevant)

	weak := lo.Filter(known, func(w model.Word, _ int) bool {
		ws, ok := aggs[w.ID]
		return ok && isWeak(ws)
	})
	return lo.UniqBy(weak, func(w model.Word) string { return w.ID })
}

// RankWeakWords lists the weak words of one file, worst first: by incorrect
// rate, then by incorrect count.
func RankWeakWords(history []model.AnswerRecord, file model.File) []WeakWord {
	fileHistory := lo.Filter(history, func(r model.AnswerRecord, _ int) bool {
		return r.FileID == file.ID
	})
	aggs := AggregateWords(fileHistory)
	words := lo.UniqBy(file.Words, func(w model.Word) string { return w.ID })

	var out []WeakWord
	for _, w := range words {
		ws, ok := aggs[w.ID]
		if !ok || !isWeak(ws) {
			continue
		}
		rate, _ := IncorrectRate(ws)
		out = append(out, WeakWord{Word: w, IncorrectCount: ws.Incorrect(), IncorrectRate: rate})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IncorrectRate == out[j].IncorrectRate {
			return out[i].IncorrectCount > out[j].IncorrectCount
		}
		return out[i].IncorrectRate > out[j].IncorrectRate
	})
	return out
}
