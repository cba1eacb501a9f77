// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/vocquiz/internal/model"
	"github.com/verte-zerg/vocquiz/internal/quiz"
	"github.com/verte-zerg/vocquiz/internal/stats"
)

// Store is the persistence the quiz UI needs.
type Store interface {
	ListFiles(ctx context.Context) ([]model.File, error)
	ListHistory(ctx context.Context) ([]model.AnswerRecord, error)
	AppendHistory(ctx context.Context, records []model.AnswerRecord) error
	SaveRememberedConfig(ctx context.Context, cfg model.QuizConfig) error
}

// Options configure a quiz UI model.
type Options struct {
	Store   Store
	Machine *quiz.Machine
	Logger  *logrus.Logger
	// Remembered pre-fills the setup screen.
	Remembered *model.QuizConfig
	// AutoStart skips the setup screen with an already validated config.
	AutoStart *model.QuizConfig
	// Defaults used by the setup screen when nothing is remembered.
	DefaultTypes []model.QuestionType
	DefaultCount int
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	store   Store
	machine *quiz.Machine
	log     *logrus.Logger

	state     quiz.State
	autoStart *model.QuizConfig

	setup setupForm
	files []model.File
	weak  []model.Word

	answerInput textinput.Model
	lastTyped   string
	chosen      int
	skipped     *model.Word

	notice string
	errMsg string

	tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	width  int
	height int
}

type setupDataMsg struct {
	files   []model.File
	history []model.AnswerRecord
	err     error
}

type snapshotMsg struct {
	files   []model.File
	history []model.AnswerRecord
	err     error
}

type advanceMsg struct {
	generation int
}

type savedMsg struct {
	what string
	err  error
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	accentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs a quiz TUI model.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	machine := opts.Machine
	if machine == nil {
		machine = quiz.NewMachine(model.DefaultAppSettings())
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type the English word"
	input.CharLimit = 128

	m := &Model{
		store:       opts.Store,
		machine:     machine,
		log:         logger,
		state:       quiz.NewState(opts.Remembered),
		autoStart:   opts.AutoStart,
		setup:       newSetupForm(opts.DefaultTypes, opts.DefaultCount),
		answerInput: input,
		chosen:      -1,
		tick:        tea.Tick,
	}
	m.setup.prefill(opts.Remembered)
	return m
}

// State returns the current quiz session state.
func (m *Model) State() quiz.State {
	return m.state
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.autoStart != nil {
		cfg := *m.autoStart
		m.autoStart = nil
		return m.start(cfg)
	}
	return m.loadSetupData()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.answerInput.Width = max(10, m.contentWidth()-4)
		return m, nil
	case setupDataMsg:
		return m, m.handleSetupData(msg)
	case snapshotMsg:
		return m, m.handleSnapshot(msg)
	case advanceMsg:
		return m, m.apply(quiz.Advance{Generation: msg.generation})
	case savedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Errorf("failed to save %s", msg.what)
			m.errMsg = fmt.Sprintf("Failed to save %s: %v", msg.what, msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.state.Stage {
	case quiz.StageSetup:
		return m.updateSetup(msg)
	case quiz.StageLoading:
		if msg.Type == tea.KeyEsc {
			return m.apply(quiz.Restart{})
		}
		return nil
	case quiz.StageInProgress:
		return m.updateQuestion(msg)
	case quiz.StageResults:
		return m.updateResults(msg)
	case quiz.StageReview:
		return m.updateReview(msg)
	}
	return nil
}

// apply runs an action through the machine and schedules what follows.
func (m *Model) apply(action quiz.Action) tea.Cmd {
	prev := m.state
	next, records := m.machine.Apply(prev, action)
	m.state = next

	var cmds []tea.Cmd
	if len(records) > 0 {
		cmds = append(cmds, m.appendHistory(records))
	}
	if next.Generation != prev.Generation {
		switch next.Pending {
		case quiz.PendingDelay:
			cmds = append(cmds, m.advanceAfter(next.Generation))
		case quiz.PendingNone:
			m.resetAnswer()
			if next.Stage == quiz.StageInProgress || next.Stage == quiz.StageReview {
				cmds = append(cmds, m.focusAnswer())
			}
		}
	}
	if next.Stage == quiz.StageInProgress && prev.Stage == quiz.StageLoading {
		cmds = append(cmds, m.focusAnswer())
	}
	if next.Stage != quiz.StageInProgress {
		m.skipped = nil
	}
	if next.Stage == quiz.StageSetup && prev.Stage != quiz.StageSetup {
		m.setup.prefill(next.RememberedConfig)
		if next.EmptyPool {
			m.notice = emptyPoolNotice(prev.ActiveConfig)
		}
		cmds = append(cmds, m.loadSetupData())
	}
	return tea.Batch(cmds...)
}

func (m *Model) start(cfg model.QuizConfig) tea.Cmd {
	m.notice = ""
	m.errMsg = ""
	cmd := m.apply(quiz.Start{Config: cfg})
	m.log.WithFields(logrus.Fields{
		"selection": cfg.Selection.Kind,
		"files":     len(cfg.Selection.FileIDs),
		"count":     cfg.NumberOfQuestions,
	}).Info("starting quiz")
	return tea.Batch(cmd, m.saveRemembered(cfg), m.loadSnapshot())
}

func (m *Model) handleSetupData(msg setupDataMsg) tea.Cmd {
	if msg.err != nil {
		m.log.WithError(msg.err).Error("failed to load word lists")
		m.errMsg = fmt.Sprintf("Failed to load word lists: %v", msg.err)
		return nil
	}
	m.files = msg.files
	all := make([]model.Word, 0)
	for _, f := range msg.files {
		all = append(all, f.Words...)
	}
	m.weak = stats.SelectWeakWords(msg.history, all)
	m.setup.setFiles(msg.files, len(m.weak))
	return nil
}

func (m *Model) handleSnapshot(msg snapshotMsg) tea.Cmd {
	if msg.err != nil {
		m.log.WithError(msg.err).Error("failed to load quiz data")
		m.errMsg = fmt.Sprintf("Failed to load quiz data: %v", msg.err)
		return m.apply(quiz.Restart{})
	}
	cmd := m.apply(quiz.Load{Files: msg.files, History: msg.history})
	if m.state.Stage == quiz.StageInProgress {
		_, total := m.state.Progress()
		m.log.WithField("questions", total).Debug("quiz loaded")
	}
	return cmd
}

func (m *Model) loadSetupData() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx := context.Background()
		files, err := st.ListFiles(ctx)
		if err != nil {
			return setupDataMsg{err: err}
		}
		history, err := st.ListHistory(ctx)
		if err != nil {
			return setupDataMsg{err: err}
		}
		return setupDataMsg{files: files, history: history}
	}
}

func (m *Model) loadSnapshot() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx := context.Background()
		files, err := st.ListFiles(ctx)
		if err != nil {
			return snapshotMsg{err: err}
		}
		history, err := st.ListHistory(ctx)
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{files: files, history: history}
	}
}

func (m *Model) appendHistory(records []model.AnswerRecord) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return savedMsg{what: "answer history", err: st.AppendHistory(context.Background(), records)}
	}
}

func (m *Model) saveRemembered(cfg model.QuizConfig) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return savedMsg{what: "quiz settings", err: st.SaveRememberedConfig(context.Background(), cfg)}
	}
}

func (m *Model) advanceAfter(generation int) tea.Cmd {
	return m.tick(quiz.AdvanceDelay, func(time.Time) tea.Msg {
		return advanceMsg{generation: generation}
	})
}

func (m *Model) resetAnswer() {
	m.answerInput.Reset()
	m.lastTyped = ""
	m.chosen = -1
}

func (m *Model) focusAnswer() tea.Cmd {
	if q, ok := m.state.CurrentQuestion(); ok && q.Type.IsMultipleChoice() {
		m.answerInput.Blur()
		return nil
	}
	return m.answerInput.Focus()
}

func emptyPoolNotice(cfg *model.QuizConfig) string {
	if cfg != nil && cfg.Selection.Kind == model.SelectWeakWords {
		return "No weak words right now. Pick a word list instead."
	}
	return "The selected word lists have no words."
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.state.Stage {
	case quiz.StageSetup:
		content = m.viewSetup()
	case quiz.StageLoading:
		content = pendingStyle.Render("Loading…")
	case quiz.StageInProgress:
		content = m.viewQuestion()
	case quiz.StageResults:
		content = m.viewResults()
	case quiz.StageReview:
		content = m.viewReview()
	}
	if m.errMsg != "" {
		content += "\n\n" + incorrectStyle.Render(m.errMsg)
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	content = lipgloss.NewStyle().Width(m.contentWidth()).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderFooter() string {
	var segments []string
	switch m.state.Stage {
	case quiz.StageSetup:
		segments = []string{"↑/↓ move", "space toggle", "enter start", "q quit"}
	case quiz.StageInProgress:
		cur, total := m.state.Progress()
		res := m.state.Result()
		segments = []string{fmt.Sprintf("Question %d/%d", cur, total), fmt.Sprintf("Correct %d", res.Correct)}
		switch m.state.Pending {
		case quiz.PendingContinue:
			segments = append(segments, "enter continue")
		case quiz.PendingNone:
			segments = append(segments, "tab skip", "esc quit quiz")
		}
	case quiz.StageResults:
		segments = []string{"r review mistakes", "enter new quiz", "q quit"}
	case quiz.StageReview:
		if m.state.Review != nil {
			cur, total := m.state.Review.Progress()
			segments = []string{fmt.Sprintf("Review %d/%d", cur, total)}
		}
		segments = append(segments, "esc finish review")
	default:
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}
