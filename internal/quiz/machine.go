package quiz

import (
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/vocquiz/internal/generator"
	"github.com/verte-zerg/vocquiz/internal/model"
)

// AdvanceDelay is how long feedback stays visible before the next question.
const AdvanceDelay = 1200 * time.Millisecond

// Stage is the phase of a quiz session.
type Stage int

// Session stages.
const (
	StageSetup Stage = iota
	StageLoading
	StageInProgress
	StageResults
	StageReview
)

func (s Stage) String() string {
	switch s {
	case StageSetup:
		return "setup"
	case StageLoading:
		return "loading"
	case StageInProgress:
		return "in-progress"
	case StageResults:
		return "results"
	case StageReview:
		return "review"
	default:
		return "unknown"
	}
}

// AnswerState is the outcome recorded for one question.
type AnswerState int

// Answer states.
const (
	AnswerUnanswered AnswerState = iota
	AnswerCorrect
	AnswerIncorrect
)

// Pending says what has to happen before the next question is shown.
type Pending int

// Pending advance kinds.
const (
	PendingNone Pending = iota
	PendingDelay
	PendingContinue
)

// Feedback describes the most recent answer.
type Feedback struct {
	Word    model.Word
	Correct bool
	Skipped bool
}

// Result summarizes a finished quiz.
type Result struct {
	Correct int
	Total   int
	Score   int
}

// State is the whole quiz session. It is owned by the caller and only
// changed through Machine.Apply.
type State struct {
	Stage Stage
	// ActiveConfig drives the running quiz and is cleared on restart.
	ActiveConfig *model.QuizConfig
	// RememberedConfig pre-fills the setup screen and survives restarts.
	RememberedConfig *model.QuizConfig
	// EmptyPool is set when the last Load found nothing to ask.
	EmptyPool bool

	Questions []model.Question
	Answers   []AnswerState
	Index     int
	Pending   Pending
	Feedback  *Feedback
	Review    *Review

	// Generation changes whenever a pending advance is scheduled or the
	// session is reset. Advance actions carrying another value are stale.
	Generation int

	files []model.File
}

// NewState returns a setup state pre-filled with a remembered configuration.
func NewState(remembered *model.QuizConfig) State {
	return State{Stage: StageSetup, RememberedConfig: remembered}
}

// CurrentQuestion returns the question being asked.
func (s State) CurrentQuestion() (model.Question, bool) {
	if s.Stage != StageInProgress || s.Index < 0 || s.Index >= len(s.Questions) {
		return model.Question{}, false
	}
	return s.Questions[s.Index], true
}

// Progress returns the 1-based question number and the question count.
func (s State) Progress() (current, total int) {
	if len(s.Questions) == 0 {
		return 0, 0
	}
	return min(s.Index+1, len(s.Questions)), len(s.Questions)
}

// Result counts correct answers over every question of the session.
func (s State) Result() Result {
	correct := lo.Count(s.Answers, AnswerCorrect)
	total := len(s.Questions)
	return Result{Correct: correct, Total: total, Score: Score(correct, total)}
}

// IncorrectWords returns the words answered incorrectly or skipped, once each.
func (s State) IncorrectWords() []model.Word {
	var out []model.Word
	for i, a := range s.Answers {
		if a == AnswerIncorrect && i < len(s.Questions) {
			out = append(out, s.Questions[i].Word)
		}
	}
	return lo.UniqBy(out, func(w model.Word) string { return w.ID })
}

// Action is an input to the state machine.
type Action interface {
	isAction()
}

// Start accepts a validated configuration and begins loading.
type Start struct{ Config model.QuizConfig }

// Load hands the machine a snapshot of files and history.
type Load struct {
	Files   []model.File
	History []model.AnswerRecord
}

// Answer records the user's answer to the current question.
type Answer struct{ Correct bool }

// Skip counts the current question as incorrect and moves on at once.
type Skip struct{}

// Advance resolves a timed pending advance scheduled under Generation.
type Advance struct{ Generation int }

// Continue resolves a pending advance that waits for the user.
type Continue struct{}

// StartReview drills the incorrectly answered words.
type StartReview struct{}

// Restart returns to setup and drops the session.
type Restart struct{}

// ReviewAnswer records the answer to the current review word.
type ReviewAnswer struct{ Correct bool }

// FinishReview leaves the review and returns to setup.
type FinishReview struct{}

func (Start) isAction()        {}
func (Load) isAction()         {}
func (Answer) isAction()       {}
func (Skip) isAction()         {}
func (Advance) isAction()      {}
func (Continue) isAction()     {}
func (StartReview) isAction()  {}
func (Restart) isAction()      {}
func (ReviewAnswer) isAction() {}
func (FinishReview) isAction() {}

// Machine applies actions to quiz states.
type Machine struct {
	Generator *generator.Generator
	Settings  model.AppSettings
	// Now stamps answer records. Defaults to time.Now.
	Now func() time.Time
	// FileExists reports whether a file still exists. When nil, the files of
	// the Load snapshot are trusted.
	FileExists func(fileID string) bool
}

// NewMachine returns a machine with a time-seeded generator.
func NewMachine(settings model.AppSettings) *Machine {
	return &Machine{Generator: generator.New(), Settings: settings, Now: time.Now}
}

// Apply returns the state that follows action together with the answer
// records to append to history. Actions that do not fit the current stage
// leave the state unchanged.
func (m *Machine) Apply(s State, action Action) (State, []model.AnswerRecord) {
	switch a := action.(type) {
	case Start:
		if s.Stage != StageSetup {
			return s, nil
		}
		active, remembered := a.Config, a.Config
		next := reset(s)
		next.Stage = StageLoading
		next.ActiveConfig = &active
		next.RememberedConfig = &remembered
		return next, nil
	case Load:
		return m.load(s, a), nil
	case Answer:
		return m.answer(s, a.Correct, false)
	case Skip:
		return m.answer(s, false, true)
	case Advance:
		if s.Pending != PendingDelay || a.Generation != s.Generation {
			return s, nil
		}
		return m.advance(s), nil
	case Continue:
		if s.Pending != PendingContinue {
			return s, nil
		}
		return m.advance(s), nil
	case StartReview:
		if s.Stage != StageResults {
			return s, nil
		}
		words := s.IncorrectWords()
		if len(words) == 0 {
			return reset(s), nil
		}
		next := s
		next.Stage = StageReview
		next.Review = NewReview(words, m.rand())
		next.Pending = PendingNone
		next.Feedback = nil
		next.Generation++
		return next, nil
	case ReviewAnswer:
		return m.reviewAnswer(s, a.Correct), nil
	case FinishReview:
		if s.Stage != StageReview {
			return s, nil
		}
		return reset(s), nil
	case Restart:
		return reset(s), nil
	default:
		return s, nil
	}
}

func (m *Machine) load(s State, a Load) State {
	if s.Stage != StageLoading || s.ActiveConfig == nil {
		return s
	}
	cfg := *s.ActiveConfig
	pool := BuildPool(cfg, a.Files, a.History)
	questions := m.generator().Sequence(pool, a.History, cfg)
	if len(questions) == 0 {
		next := reset(s)
		next.EmptyPool = true
		return next
	}
	next := s
	next.Stage = StageInProgress
	next.Questions = questions
	next.Answers = make([]AnswerState, len(questions))
	next.Index = 0
	next.Pending = PendingNone
	next.Feedback = nil
	next.files = a.Files
	return next
}

func (m *Machine) answer(s State, correct, skipped bool) (State, []model.AnswerRecord) {
	q, ok := s.CurrentQuestion()
	if !ok || s.Pending != PendingNone {
		return s, nil
	}
	next := s
	next.Answers = append([]AnswerState(nil), s.Answers...)
	next.Answers[s.Index] = AnswerIncorrect
	if correct {
		next.Answers[s.Index] = AnswerCorrect
	}
	next.Feedback = &Feedback{Word: q.Word, Correct: correct, Skipped: skipped}

	var records []model.AnswerRecord
	if fileID, ok := m.owningFile(s.files, q.Word.ID); ok {
		records = append(records, model.AnswerRecord{
			FileID:    fileID,
			WordID:    q.Word.ID,
			Correct:   correct,
			Timestamp: m.now(),
		})
	}

	if skipped {
		return m.advance(next), records
	}
	next.Generation++
	next.Pending = PendingDelay
	if !correct && !q.Type.IsMultipleChoice() && m.Settings.TapToContinueOnIncorrect {
		next.Pending = PendingContinue
	}
	return next, records
}

func (m *Machine) advance(s State) State {
	next := s
	next.Pending = PendingNone
	next.Generation++
	if s.Stage == StageReview {
		next.Review = s.Review.clone()
		if next.Review != nil {
			next.Review.Next()
		}
		next.Feedback = nil
		return next
	}
	if s.Stage != StageInProgress {
		return next
	}
	next.Feedback = nil
	if s.Index >= len(s.Questions)-1 {
		next.Stage = StageResults
		return next
	}
	next.Index = s.Index + 1
	return next
}

func (m *Machine) reviewAnswer(s State, correct bool) State {
	if s.Stage != StageReview || s.Review == nil || s.Pending != PendingNone {
		return s
	}
	word, ok := s.Review.Current()
	if !ok {
		return s
	}
	next := s
	next.Review = s.Review.clone()
	next.Review.Answer(correct)
	next.Feedback = &Feedback{Word: word, Correct: correct}
	next.Generation++
	next.Pending = PendingDelay
	if !correct && m.Settings.TapToContinueOnIncorrect {
		next.Pending = PendingContinue
	}
	return next
}

// owningFile resolves the first file of the snapshot that holds the word
// and still exists.
func (m *Machine) owningFile(files []model.File, wordID string) (string, bool) {
	for _, f := range files {
		if !f.HasWord(wordID) {
			continue
		}
		if m.FileExists != nil && !m.FileExists(f.ID) {
			continue
		}
		return f.ID, true
	}
	return "", false
}

func (m *Machine) generator() *generator.Generator {
	if m.Generator == nil {
		m.Generator = generator.New()
	}
	return m.Generator
}

func (m *Machine) rand() generator.Rand {
	return m.generator().Rand()
}

func (m *Machine) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// reset clears everything but the remembered configuration.
func reset(s State) State {
	return State{
		Stage:            StageSetup,
		RememberedConfig: s.RememberedConfig,
		Generation:       s.Generation + 1,
	}
}
