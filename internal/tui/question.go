package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/vocquiz/internal/model"
	"github.com/verte-zerg/vocquiz/internal/quiz"
)

func (m *Model) updateQuestion(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		m.log.Info("quiz interrupted")
		return m.apply(quiz.Restart{})
	}
	switch m.state.Pending {
	case quiz.PendingContinue:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace {
			return m.apply(quiz.Continue{})
		}
		return nil
	case quiz.PendingDelay:
		return nil
	}
	q, ok := m.state.CurrentQuestion()
	if !ok {
		return nil
	}
	if msg.Type == tea.KeyTab {
		cmd := m.apply(quiz.Skip{})
		if m.state.Stage == quiz.StageInProgress {
			m.skipped = &q.Word
		}
		return cmd
	}
	m.skipped = nil
	if q.Type.IsMultipleChoice() {
		idx, ok := optionIndex(msg, len(q.Options))
		if !ok {
			return nil
		}
		m.chosen = idx
		return m.apply(quiz.Answer{Correct: quiz.CheckChoice(q, q.Options[idx])})
	}
	if msg.Type == tea.KeyEnter {
		input := m.answerInput.Value()
		if strings.TrimSpace(input) == "" {
			return nil
		}
		m.lastTyped = input
		m.answerInput.Blur()
		return m.apply(quiz.Answer{Correct: quiz.CheckTyped(input, q.Word)})
	}
	var cmd tea.Cmd
	m.answerInput, cmd = m.answerInput.Update(msg)
	return cmd
}

func optionIndex(msg tea.KeyMsg, count int) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	idx := int(r - '1')
	return idx, idx < count
}

func (m *Model) updateResults(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "r":
		return m.apply(quiz.StartReview{})
	case "enter", "n", "esc":
		return m.apply(quiz.Restart{})
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *Model) updateReview(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		return m.apply(quiz.FinishReview{})
	}
	review := m.state.Review
	if review == nil || review.Done() {
		if msg.Type == tea.KeyEnter {
			return m.apply(quiz.FinishReview{})
		}
		return nil
	}
	switch m.state.Pending {
	case quiz.PendingContinue:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace {
			return m.apply(quiz.Continue{})
		}
		return nil
	case quiz.PendingDelay:
		return nil
	}
	if msg.Type == tea.KeyEnter {
		word, _ := review.Current()
		input := m.answerInput.Value()
		if strings.TrimSpace(input) == "" {
			return nil
		}
		m.lastTyped = input
		m.answerInput.Blur()
		return m.apply(quiz.ReviewAnswer{Correct: quiz.CheckTyped(input, word)})
	}
	var cmd tea.Cmd
	m.answerInput, cmd = m.answerInput.Update(msg)
	return cmd
}

func (m *Model) viewQuestion() string {
	q, ok := m.state.CurrentQuestion()
	if !ok {
		return ""
	}
	var b strings.Builder
	if m.skipped != nil && m.state.Feedback == nil {
		b.WriteString(pendingStyle.Render(fmt.Sprintf("Skipped: %s = %s", m.skipped.Japanese, m.skipped.English)))
		b.WriteString("\n\n")
	}
	b.WriteString(pendingStyle.Render(q.Type.Label()))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(questionPrompt(q)))
	b.WriteString("\n\n")
	if q.Type.IsMultipleChoice() {
		for i, opt := range q.Options {
			b.WriteString(m.optionLine(q, i, opt))
			b.WriteString("\n")
		}
	} else if m.state.Feedback != nil {
		b.WriteString(m.typedFeedback(m.state.Feedback.Word))
		b.WriteString("\n")
	} else {
		b.WriteString(m.answerInput.View())
		b.WriteString("\n")
	}
	if fb := m.state.Feedback; fb != nil {
		b.WriteString("\n")
		b.WriteString(feedbackLine(fb))
		if m.state.Pending == quiz.PendingContinue {
			b.WriteString("\n")
			b.WriteString(pendingStyle.Render("Press enter to continue"))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func questionPrompt(q model.Question) string {
	if q.Type == model.QuestionEnToJpMC {
		return q.Word.English
	}
	return q.Word.Japanese
}

func optionLabel(q model.Question, opt model.Word) string {
	if q.Type == model.QuestionEnToJpMC {
		return opt.Japanese
	}
	return opt.English
}

func (m *Model) optionLine(q model.Question, i int, opt model.Word) string {
	line := fmt.Sprintf("%d. %s", i+1, optionLabel(q, opt))
	if m.state.Feedback == nil {
		return line
	}
	switch {
	case opt.ID == q.Word.ID:
		return correctStyle.Render(line)
	case i == m.chosen:
		return incorrectStyle.Render(line)
	default:
		return pendingStyle.Render(line)
	}
}

func (m *Model) typedFeedback(word model.Word) string {
	runes := buildAnswerRunes([]rune(word.English), []rune(strings.TrimSpace(m.lastTyped)))
	answer := wrapStyledRunes(runes, max(10, m.contentWidth()-2))
	return "> " + answer
}

func feedbackLine(fb *quiz.Feedback) string {
	switch {
	case fb.Correct:
		return correctStyle.Render("Correct!")
	default:
		return incorrectStyle.Render("Incorrect. Answer: " + fb.Word.English)
	}
}

func (m *Model) viewResults() string {
	res := m.state.Result()
	var b strings.Builder
	b.WriteString(promptStyle.Render("Quiz complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Score %s  (%d/%d correct)", accentStyle.Render(fmt.Sprintf("%d%%", res.Score)), res.Correct, res.Total))
	incorrect := m.state.IncorrectWords()
	if len(incorrect) == 0 {
		b.WriteString("\n\n")
		b.WriteString(correctStyle.Render("No mistakes."))
		return b.String()
	}
	b.WriteString("\n\n")
	b.WriteString(accentStyle.Render("Words to review"))
	for _, w := range incorrect {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s  %s", w.English, pendingStyle.Render(w.Japanese)))
	}
	return b.String()
}

func (m *Model) viewReview() string {
	review := m.state.Review
	if review == nil || review.Done() {
		return promptStyle.Render("Review complete") + "\n\n" +
			"Every word was answered correctly.\n" +
			pendingStyle.Render("Press enter to start a new quiz")
	}
	word, _ := review.Current()
	if fb := m.state.Feedback; fb != nil {
		word = fb.Word
	}
	var b strings.Builder
	b.WriteString(pendingStyle.Render("Review"))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(word.Japanese))
	b.WriteString("\n\n")
	if fb := m.state.Feedback; fb != nil {
		b.WriteString(m.typedFeedback(word))
		b.WriteString("\n\n")
		b.WriteString(feedbackLine(fb))
		if m.state.Pending == quiz.PendingContinue {
			b.WriteString("\n")
			b.WriteString(pendingStyle.Render("Press enter to continue"))
		}
		return b.String()
	}
	b.WriteString(m.answerInput.View())
	return b.String()
}
