package stats

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/vocquiz/internal/model"
	"github.com/verte-zerg/vocquiz/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Files     []model.File
	History   []model.AnswerRecord
	Summaries []FileSummary
	Days      []DayAccuracy
	Weak      []WeakWord
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	files, err := st.ListFiles(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list files: %w", err)
	}
	var history []model.AnswerRecord
	if cfg.FileID != "" {
		file, ok := lo.Find(files, func(f model.File) bool { return f.ID == cfg.FileID })
		if !ok {
			return Report{}, fmt.Errorf("%w: %s", model.ErrFileNotFound, cfg.FileID)
		}
		files = []model.File{file}
		history, err = st.ListHistoryForFile(ctx, cfg.FileID)
	} else {
		history, err = st.ListHistory(ctx)
	}
	if err != nil {
		return Report{}, fmt.Errorf("list history: %w", err)
	}
	return NewReport(files, history, time.Local), nil
}

// NewReport derives every stats view from a snapshot of files and history.
func NewReport(files []model.File, history []model.AnswerRecord, loc *time.Location) Report {
	return Report{
		Files:     files,
		History:   history,
		Summaries: SummarizeFiles(files, history),
		Days:      DailyAccuracy(history, loc),
		Weak:      RankAllWeakWords(files, history),
	}
}

// RankAllWeakWords merges the per-file rankings into one list, worst first.
func RankAllWeakWords(files []model.File, history []model.AnswerRecord) []WeakWord {
	var out []WeakWord
	for _, f := range files {
		out = append(out, RankWeakWords(history, f)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IncorrectRate == out[j].IncorrectRate {
			return out[i].IncorrectCount > out[j].IncorrectCount
		}
		return out[i].IncorrectRate > out[j].IncorrectRate
	})
	return out
}

// RenderOverview prints the summary followed by the accuracy trend.
func RenderOverview(w io.Writer, r Report, plotWidth int, forceColor bool) error {
	if err := RenderSummary(w, r.History); err != nil {
		return err
	}
	if len(r.History) == 0 {
		return nil
	}
	return RenderTrend(w, r.Days, plotWidth, 0, forceColor)
}
