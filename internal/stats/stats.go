// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/vocquiz/internal/model"
)

// DayAccuracy aggregates the answers given on one local calendar day.
type DayAccuracy struct {
	Date    time.Time
	Correct int
	Total   int
}

// Percent returns the rounded accuracy percentage for the day.
func (d DayAccuracy) Percent() int {
	if d.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(d.Correct) / float64(d.Total) * 100))
}

// Overall counts correct and incorrect answers across the history.
func Overall(history []model.AnswerRecord) (correct, incorrect int) {
	for _, r := range history {
		if r.Correct {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}

// Accuracy returns correct/(correct+incorrect), or 0 without answers.
func Accuracy(correct, incorrect int) float64 {
	den := correct + incorrect
	if den <= 0 {
		return 0
	}
	return float64(correct) / float64(den)
}

// DailyAccuracy buckets answers by local calendar day, oldest first.
func DailyAccuracy(history []model.AnswerRecord, loc *time.Location) []DayAccuracy {
	if loc == nil {
		loc = time.Local
	}
	buckets := map[string]*DayAccuracy{}
	for _, r := range history {
		t := r.Timestamp.In(loc)
		key := t.Format("2006-01-02")
		day, ok := buckets[key]
		if !ok {
			y, m, d := t.Date()
			day = &DayAccuracy{Date: time.Date(y, m, d, 0, 0, 0, 0, loc)}
			buckets[key] = day
		}
		day.Total++
		if r.Correct {
			day.Correct++
		}
	}
	out := make([]DayAccuracy, 0, len(buckets))
	for _, day := range buckets {
		if day.Total == 0 {
			continue
		}
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// RenderSummary prints overall answer counts and accuracy.
func RenderSummary(w io.Writer, history []model.AnswerRecord) error {
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "No answers recorded yet.")
		return err
	}
	correct, incorrect := Overall(history)
	words := len(AggregateWords(history))
	lines := []string{
		"Summary",
		fmt.Sprintf("Answers: %d", correct+incorrect),
		fmt.Sprintf("Correct: %d", correct),
		fmt.Sprintf("Incorrect: %d", incorrect),
		fmt.Sprintf("Accuracy: %.0f%%", Accuracy(correct, incorrect)*100),
		fmt.Sprintf("Words practiced: %d", words),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderWeakWords prints a ranked weak-word table.
func RenderWeakWords(w io.Writer, weak []WeakWord) error {
	if len(weak) == 0 {
		_, err := fmt.Fprintln(w, "No weak words.")
		return err
	}
	headers := []string{"English", "Japanese", "Incorrect rate", "Incorrect"}
	rows := make([][]string, 0, len(weak))
	for _, ww := range weak {
		rows = append(rows, []string{
			ww.Word.English,
			ww.Word.Japanese,
			fmt.Sprintf("%.0f%%", ww.IncorrectRate*100),
			fmt.Sprintf("%d", ww.IncorrectCount),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{2: true, 3: true})
}

// RenderFiles prints one line per file with its history summary.
func RenderFiles(w io.Writer, summaries []FileSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No word lists imported. Run: vocquiz import <file.csv>")
		return err
	}
	headers := []string{"ID", "Name", "Words", "Answers", "Accuracy", "Weak"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.File.ID,
			s.File.Name,
			fmt.Sprintf("%d", len(s.File.Words)),
			fmt.Sprintf("%d", s.Answers),
			formatAccuracy(s.Correct, s.Answers),
			fmt.Sprintf("%d", s.WeakCount),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true})
}

func formatAccuracy(correct, total int) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(correct)/float64(total)*100)
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
