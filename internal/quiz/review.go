package quiz

import (
	"github.com/verte-zerg/vocquiz/internal/generator"
	"github.com/verte-zerg/vocquiz/internal/model"
)

// Review drills a set of words until each has been answered correctly.
// Incorrectly answered words go back to the end of the queue, with no cap.
type Review struct {
	queue []model.Word
	pos   int
}

// NewReview builds a review over a shuffled copy of words.
func NewReview(words []model.Word, rnd generator.Rand) *Review {
	queue := append([]model.Word(nil), words...)
	if rnd != nil {
		rnd.Shuffle(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}
	return &Review{queue: queue}
}

// Current returns the word being asked. ok is false once the review is done.
func (r *Review) Current() (model.Word, bool) {
	if r.Done() {
		return model.Word{}, false
	}
	return r.queue[r.pos], true
}

// Answer records the answer to the current word.
func (r *Review) Answer(correct bool) {
	if r.Done() || correct {
		return
	}
	r.queue = append(r.queue, r.queue[r.pos])
}

// Next moves to the following word.
func (r *Review) Next() {
	if !r.Done() {
		r.pos++
	}
}

// Done reports whether every queued word has been asked.
func (r *Review) Done() bool {
	return r.pos >= len(r.queue)
}

// Progress returns the 1-based position and the current queue length.
func (r *Review) Progress() (current, total int) {
	return min(r.pos+1, len(r.queue)), len(r.queue)
}

func (r *Review) clone() *Review {
	if r == nil {
		return nil
	}
	return &Review{queue: append([]model.Word(nil), r.queue...), pos: r.pos}
}
