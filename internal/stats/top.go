package stats

import (
	"sort"

	"github.com/verte-zerg/vocquiz/internal/model"
)

// FileSummary describes how much a file has been practiced.
type FileSummary struct {
	File      model.File
	Answers   int
	Correct   int
	WeakCount int
}

// SummarizeFiles builds one summary per file, keeping the input order.
func SummarizeFiles(files []model.File, history []model.AnswerRecord) []FileSummary {
	byFile := map[string][]model.AnswerRecord{}
	for _, r := range history {
		byFile[r.FileID] = append(byFile[r.FileID], r)
	}
	out := make([]FileSummary, 0, len(files))
	for _, f := range files {
		records := byFile[f.ID]
		correct, _ := Overall(records)
		out = append(out, FileSummary{
			File:      f,
			Answers:   len(records),
			Correct:   correct,
			WeakCount: len(RankWeakWords(records, f)),
		})
	}
	return out
}

// MostPracticed returns up to n summaries ordered by answer count.
func MostPracticed(summaries []FileSummary, n int) []FileSummary {
	if n <= 0 || len(summaries) == 0 {
		return nil
	}
	out := append([]FileSummary(nil), summaries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Answers == out[j].Answers {
			return out[i].File.Name < out[j].File.Name
		}
		return out[i].Answers > out[j].Answers
	})
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
