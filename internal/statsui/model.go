// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/vocquiz/internal/model"
	"github.com/verte-zerg/vocquiz/internal/stats"
	"github.com/verte-zerg/vocquiz/internal/store"
)

const (
	tabOverview = iota
	tabWeakWords
	tabFiles
)

const (
	plotHeight = 8
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig
	log   *logrus.Logger

	report stats.Report
	errMsg string

	tabs       []string
	activeTab  int
	overview   viewport.Model
	weakTable  table.Model
	filesTable table.Model
	fileIDs    []string

	width  int
	height int
}

type tabSavedMsg struct {
	err error
}

// NewModel constructs a stats UI model. The last active tab is restored
// from the store.
func NewModel(st *store.Store, cfg model.StatsConfig, logger *logrus.Logger) *Model {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	m := &Model{
		store:    st,
		cfg:      cfg,
		log:      logger,
		tabs:     []string{"Overview", "Weak Words", "Files"},
		overview: viewport.New(0, 0),
	}
	tab, err := st.LoadStatsTab(context.Background())
	if err != nil {
		m.log.WithError(err).Warn("failed to load stats tab")
	}
	if tab >= 0 && tab < len(m.tabs) {
		m.activeTab = tab
	}
	m.weakTable = newTable(weakColumns(0))
	m.filesTable = newTable(fileColumns(0))
	m.refreshReport()
	m.focusActive()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tabSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("failed to save stats tab")
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			return m, tea.Batch(m.moveTab(-1), tea.ClearScreen)
		case "right", "l":
			return m, tea.Batch(m.moveTab(1), tea.ClearScreen)
		case "enter":
			if m.activeTab == tabFiles {
				m.filterToSelectedFile()
			}
			return m, nil
		case "a", "esc":
			if m.cfg.FileID != "" {
				m.cfg.FileID = ""
				m.refreshReport()
			}
			return m, nil
		case "g", "home":
			m.gotoTop()
			return m, nil
		case "G", "end":
			m.gotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabWeakWords:
			m.weakTable, cmd = m.weakTable.Update(msg)
		case tabFiles:
			m.filesTable, cmd = m.filesTable.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// ActiveTab returns the index of the visible tab.
func (m *Model) ActiveTab() int {
	return m.activeTab
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range []*table.Model{&m.weakTable, &m.filesTable} {
		t.SetWidth(m.width)
		t.SetHeight(max(1, bodyHeight-1))
	}
	m.weakTable.SetColumns(weakColumns(m.width))
	m.filesTable.SetColumns(fileColumns(m.width))
}

func (m *Model) moveTab(delta int) tea.Cmd {
	count := len(m.tabs)
	if count == 0 {
		return nil
	}
	m.activeTab = (m.activeTab + delta + count) % count
	m.focusActive()
	st, tab := m.store, m.activeTab
	return func() tea.Msg {
		return tabSavedMsg{err: st.SaveStatsTab(context.Background(), tab)}
	}
}

func (m *Model) focusActive() {
	m.weakTable.Blur()
	m.filesTable.Blur()
	switch m.activeTab {
	case tabWeakWords:
		m.weakTable.Focus()
	case tabFiles:
		m.filesTable.Focus()
	}
}

func (m *Model) gotoTop() {
	switch m.activeTab {
	case tabWeakWords:
		m.weakTable.GotoTop()
	case tabFiles:
		m.filesTable.GotoTop()
	default:
		m.overview.GotoTop()
	}
}

func (m *Model) gotoBottom() {
	switch m.activeTab {
	case tabWeakWords:
		m.weakTable.GotoBottom()
	case tabFiles:
		m.filesTable.GotoBottom()
	default:
		m.overview.GotoBottom()
	}
}

func (m *Model) filterToSelectedFile() {
	idx := m.filesTable.Cursor()
	if idx < 0 || idx >= len(m.fileIDs) {
		return
	}
	m.cfg.FileID = m.fileIDs[idx]
	m.refreshReport()
	m.activeTab = tabWeakWords
	m.focusActive()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.log.WithError(err).Error("failed to build stats report")
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.weakTable.SetRows(weakRows(report.Weak))
	m.weakTable.GotoTop()
	if m.cfg.FileID == "" {
		m.filesTable.SetRows(fileRows(report.Summaries))
		m.fileIDs = lo.Map(report.Summaries, func(s stats.FileSummary, _ int) string { return s.File.ID })
	}
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	scope := "Scope: all word lists"
	if m.cfg.FileID != "" {
		name := m.cfg.FileID
		if len(m.report.Files) == 1 {
			name = m.report.Files[0].Name
		}
		scope = fmt.Sprintf("Scope: %s  (a: all word lists)", name)
	}
	return tabs + "\n" + padLines(headerStyle.Render(truncateLine(scope, m.width)), m.width)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"
	if m.activeTab == tabFiles {
		help = "Nav: left/right  Scroll: up/down  Focus file: enter  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabWeakWords:
		if len(m.report.Weak) == 0 {
			return "No weak words."
		}
		return tableMutedStyle.Render(m.weakTable.View())
	case tabFiles:
		if len(m.fileIDs) == 0 {
			return "No word lists imported. Run: vocquiz import <file.csv>"
		}
		return tableMutedStyle.Render(m.filesTable.View())
	default:
		return m.overview.View()
	}
}

func renderOverview(r stats.Report, width int) string {
	if len(r.History) == 0 {
		return "No answers recorded yet."
	}
	cards := renderSummaryCards(r, width)
	var buf bytes.Buffer
	if err := stats.RenderTrend(&buf, r.Days, stats.PlotWidthFor(width), plotHeight, true); err != nil {
		return cards + "\n\n" + fmt.Sprintf("Failed to render trend: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(r stats.Report, width int) string {
	correct, incorrect := stats.Overall(r.History)
	cards := []string{
		metricCard("Answers", fmt.Sprintf("%d", correct+incorrect)),
		metricCard("Correct", fmt.Sprintf("%d", correct)),
		metricCard("Incorrect", fmt.Sprintf("%d", incorrect)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", stats.Accuracy(correct, incorrect)*100)),
		metricCard("Words", fmt.Sprintf("%d", len(stats.AggregateWords(r.History)))),
		metricCard("Weak", fmt.Sprintf("%d", len(r.Weak))),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func weakColumns(width int) []table.Column {
	word := max(12, (width-30)/2)
	return []table.Column{
		{Title: "English", Width: word},
		{Title: "Japanese", Width: word},
		{Title: "Incorrect", Width: 9},
		{Title: "Rate", Width: 6},
	}
}

func fileColumns(width int) []table.Column {
	return []table.Column{
		{Title: "Name", Width: max(12, width-52)},
		{Title: "ID", Width: 8},
		{Title: "Words", Width: 6},
		{Title: "Answers", Width: 8},
		{Title: "Accuracy", Width: 9},
		{Title: "Weak", Width: 6},
	}
}

func weakRows(weak []stats.WeakWord) []table.Row {
	return lo.Map(weak, func(w stats.WeakWord, _ int) table.Row {
		return table.Row{
			w.Word.English,
			w.Word.Japanese,
			fmt.Sprintf("%d", w.IncorrectCount),
			fmt.Sprintf("%.0f%%", w.IncorrectRate*100),
		}
	})
}

func fileRows(summaries []stats.FileSummary) []table.Row {
	return lo.Map(summaries, func(s stats.FileSummary, _ int) table.Row {
		accuracy := "-"
		if s.Answers > 0 {
			accuracy = fmt.Sprintf("%.0f%%", stats.Accuracy(s.Correct, s.Answers-s.Correct)*100)
		}
		return table.Row{
			s.File.Name,
			shortID(s.File.ID),
			fmt.Sprintf("%d", len(s.File.Words)),
			fmt.Sprintf("%d", s.Answers),
			accuracy,
			fmt.Sprintf("%d", s.WeakCount),
		}
	})
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
