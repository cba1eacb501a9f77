package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/verte-zerg/vocquiz/internal/model"
)

type rowKind int

const (
	rowFile rowKind = iota
	rowWeak
	rowType
	rowCount
)

type setupRow struct {
	kind   rowKind
	fileID string
	qtype  model.QuestionType
}

// setupForm holds the quiz configuration being edited on the setup screen.
type setupForm struct {
	files     []model.File
	weakCount int

	selected map[string]bool
	weak     bool
	types    map[model.QuestionType]bool
	count    textinput.Model

	cursor int
}

func newSetupForm(defaultTypes []model.QuestionType, defaultCount int) setupForm {
	if len(defaultTypes) == 0 {
		defaultTypes = model.AllQuestionTypes
	}
	count := textinput.New()
	count.Prompt = ""
	count.CharLimit = 5
	count.Width = 6
	count.SetValue(strconv.Itoa(max(0, defaultCount)))
	f := setupForm{
		selected: map[string]bool{},
		types:    map[model.QuestionType]bool{},
		count:    count,
	}
	for _, t := range defaultTypes {
		f.types[t] = true
	}
	return f
}

// prefill copies a remembered configuration into the form.
func (f *setupForm) prefill(cfg *model.QuizConfig) {
	if cfg == nil {
		return
	}
	f.selected = map[string]bool{}
	f.weak = cfg.Selection.Kind == model.SelectWeakWords
	for _, id := range cfg.Selection.FileIDs {
		f.selected[id] = true
	}
	if len(cfg.QuestionTypes) > 0 {
		f.types = map[model.QuestionType]bool{}
		for _, t := range cfg.QuestionTypes {
			f.types[t] = true
		}
	}
	f.count.SetValue(strconv.Itoa(cfg.NumberOfQuestions))
}

func (f *setupForm) setFiles(files []model.File, weakCount int) {
	f.files = files
	f.weakCount = weakCount
	known := lo.Associate(files, func(file model.File) (string, bool) { return file.ID, true })
	for id := range f.selected {
		if !known[id] {
			delete(f.selected, id)
		}
	}
	if f.cursor >= len(f.rows()) {
		f.cursor = 0
	}
}

func (f *setupForm) rows() []setupRow {
	rows := make([]setupRow, 0, len(f.files)+len(model.AllQuestionTypes)+2)
	for _, file := range f.files {
		rows = append(rows, setupRow{kind: rowFile, fileID: file.ID})
	}
	rows = append(rows, setupRow{kind: rowWeak})
	for _, t := range model.AllQuestionTypes {
		rows = append(rows, setupRow{kind: rowType, qtype: t})
	}
	return append(rows, setupRow{kind: rowCount})
}

func (f *setupForm) current() setupRow {
	rows := f.rows()
	return rows[min(f.cursor, len(rows)-1)]
}

func (f *setupForm) move(delta int) tea.Cmd {
	rows := f.rows()
	f.cursor = (f.cursor + delta + len(rows)) % len(rows)
	if f.current().kind == rowCount {
		return f.count.Focus()
	}
	f.count.Blur()
	return nil
}

func (f *setupForm) toggle() {
	row := f.current()
	switch row.kind {
	case rowFile:
		f.selected[row.fileID] = !f.selected[row.fileID]
		if f.selected[row.fileID] {
			f.weak = false
		}
	case rowWeak:
		f.weak = !f.weak
		if f.weak {
			f.selected = map[string]bool{}
		}
	case rowType:
		f.types[row.qtype] = !f.types[row.qtype]
	}
}

// config builds and validates the quiz configuration described by the form.
func (f *setupForm) config() (model.QuizConfig, error) {
	count := 0
	if raw := strings.TrimSpace(f.count.Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return model.QuizConfig{}, fmt.Errorf("number of questions must be 0 or a positive integer")
		}
		count = parsed
	}
	cfg := model.QuizConfig{NumberOfQuestions: count}
	if f.weak {
		cfg.Selection = model.WeakWordSelection()
	} else {
		ids := lo.FilterMap(f.files, func(file model.File, _ int) (string, bool) {
			return file.ID, f.selected[file.ID]
		})
		if len(ids) == 0 {
			return model.QuizConfig{}, errors.New("select at least one word list or weak words")
		}
		cfg.Selection = model.FileSelection(ids...)
	}
	cfg.QuestionTypes = lo.Filter(model.AllQuestionTypes, func(t model.QuestionType, _ int) bool {
		return f.types[t]
	})
	if len(cfg.QuestionTypes) == 0 {
		return model.QuizConfig{}, errors.New("select at least one question type")
	}
	if err := cfg.Validate(); err != nil {
		return model.QuizConfig{}, err
	}
	return cfg, nil
}

func (m *Model) updateSetup(msg tea.KeyMsg) tea.Cmd {
	onCount := m.setup.current().kind == rowCount
	switch msg.String() {
	case "q", "esc":
		return tea.Quit
	case "up", "k", "shift+tab":
		return m.setup.move(-1)
	case "down", "j", "tab":
		return m.setup.move(1)
	case " ", "x":
		if !onCount {
			m.setup.toggle()
			m.notice = ""
		}
		return nil
	case "enter":
		if len(m.files) == 0 && m.setup.weakCount == 0 {
			return nil
		}
		cfg, err := m.setup.config()
		if err != nil {
			m.notice = err.Error()
			return nil
		}
		return m.start(cfg)
	}
	if onCount && (msg.Type == tea.KeyBackspace || msg.Type == tea.KeyDelete || isDigits(msg.Runes)) {
		var cmd tea.Cmd
		m.setup.count, cmd = m.setup.count.Update(msg)
		return cmd
	}
	return nil
}

func isDigits(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (m *Model) viewSetup() string {
	if len(m.files) == 0 && m.setup.weakCount == 0 {
		return promptStyle.Render("vocquiz") + "\n\n" +
			"No word lists imported yet.\n" +
			pendingStyle.Render("Run: vocquiz import <file.csv>")
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render("New quiz"))
	b.WriteString("\n\n")
	b.WriteString(accentStyle.Render("Words"))
	b.WriteString("\n")
	rows := m.setup.rows()
	for i, row := range rows {
		if row.kind == rowType && (i == 0 || rows[i-1].kind != rowType) {
			b.WriteString("\n")
			b.WriteString(accentStyle.Render("Question types"))
			b.WriteString("\n")
		}
		if row.kind == rowCount {
			b.WriteString("\n")
		}
		b.WriteString(m.setupLine(i, row))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) setupLine(i int, row setupRow) string {
	pointer := "  "
	if i == m.setup.cursor {
		pointer = accentStyle.Render("› ")
	}
	switch row.kind {
	case rowFile:
		file, _ := lo.Find(m.files, func(f model.File) bool { return f.ID == row.fileID })
		return pointer + checkbox(m.setup.selected[row.fileID]) + " " + fmt.Sprintf("%s (%d words)", file.Name, len(file.Words))
	case rowWeak:
		line := pointer + checkbox(m.setup.weak) + " " + fmt.Sprintf("Weak words (%d)", m.setup.weakCount)
		if m.setup.weakCount == 0 {
			return pendingStyle.Render(line)
		}
		return line
	case rowType:
		return pointer + checkbox(m.setup.types[row.qtype]) + " " + row.qtype.Label()
	default:
		return pointer + "Questions (0 = all): " + m.setup.count.View()
	}
}

func checkbox(on bool) string {
	if on {
		return correctStyle.Render("[x]")
	}
	return "[ ]"
}
