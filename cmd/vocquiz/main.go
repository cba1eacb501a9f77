// Package main provides the CLI entrypoint for vocquiz.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/vocquiz/internal/config"
	"github.com/verte-zerg/vocquiz/internal/logging"
	"github.com/verte-zerg/vocquiz/internal/model"
	"github.com/verte-zerg/vocquiz/internal/quiz"
	"github.com/verte-zerg/vocquiz/internal/stats"
	"github.com/verte-zerg/vocquiz/internal/statsui"
	"github.com/verte-zerg/vocquiz/internal/store"
	"github.com/verte-zerg/vocquiz/internal/tui"
	"github.com/verte-zerg/vocquiz/internal/wordlist"
)

var (
	quizFiles         []string
	quizWeak          bool
	quizTypes         []string
	quizCount         int
	quizTapToContinue bool

	importName string

	filesTop int

	weakFile string

	statsFile  string
	statsPlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vocquiz",
		Short:         "Terminal vocabulary quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runQuizCmd,
	}

	rootCmd.Flags().StringSliceVar(&quizFiles, "file", nil, "word list id or name to quiz on (repeatable)")
	rootCmd.Flags().BoolVar(&quizWeak, "weak", false, "quiz on weak words across all word lists")
	rootCmd.Flags().StringSliceVar(&quizTypes, "types", typeNames(model.AllQuestionTypes), "question types: en-to-jp-mc, jp-to-en-mc, jp-to-en-typing")
	rootCmd.Flags().IntVar(&quizCount, "count", config.DefaultCount, "number of questions (0 = all)")
	rootCmd.Flags().BoolVar(&quizTapToContinue, "tap-to-continue", true, "wait for a key after a wrong typed answer")
	rootCmd.MarkFlagsMutuallyExclusive("file", "weak")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newFilesCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newWeakCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringsConfig(cmd, "types", &quizTypes, fileCfg.Quiz.Types)
	applyIntConfig(cmd, "count", &quizCount, fileCfg.Quiz.Count)
	applyBoolConfig(cmd, "tap-to-continue", &quizTapToContinue, fileCfg.Quiz.TapToContinue)

	types, err := parseQuestionTypes(quizTypes)
	if err != nil {
		return err
	}
	if quizCount < 0 {
		return fmt.Errorf("--count must be >= 0")
	}

	logger, closer, err := logging.New(logging.OptionsFrom(fileCfg.Log, true))
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeQuietly(closer)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	ctx := context.Background()
	remembered, err := st.LoadRememberedConfig(ctx)
	if err != nil {
		logger.WithError(err).Warn("failed to load remembered quiz settings")
	}

	var autoStart *model.QuizConfig
	if len(quizFiles) > 0 || quizWeak {
		selection := model.WeakWordSelection()
		if !quizWeak {
			files, err := st.ListFiles(ctx)
			if err != nil {
				return fmt.Errorf("failed to list word lists: %w", err)
			}
			ids := make([]string, 0, len(quizFiles))
			for _, ref := range quizFiles {
				file, err := resolveFile(files, ref)
				if err != nil {
					return err
				}
				ids = append(ids, file.ID)
			}
			selection = model.FileSelection(ids...)
		}
		cfg := model.QuizConfig{Selection: selection, QuestionTypes: types, NumberOfQuestions: quizCount}
		if err := cfg.Validate(); err != nil {
			return err
		}
		autoStart = &cfg
	}

	machine := quiz.NewMachine(model.AppSettings{TapToContinueOnIncorrect: quizTapToContinue})
	machine.FileExists = func(id string) bool {
		ok, err := st.FileExists(ctx, id)
		if err != nil {
			logger.WithError(err).WithField("file_id", id).Warn("failed to check word list")
			return true
		}
		return ok
	}

	m := tui.NewModel(tui.Options{
		Store:        st,
		Machine:      machine,
		Logger:       logger,
		Remembered:   remembered,
		AutoStart:    autoStart,
		DefaultTypes: types,
		DefaultCount: quizCount,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Import a CSV or XLSX word list (english,japanese)",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importName, "name", "", "word list name (default: file name)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	logger, err := cliLogger()
	if err != nil {
		return err
	}
	file, err := wordlist.Import(args[0], importName)
	if err != nil {
		if errors.Is(err, model.ErrEmptyWordList) {
			return fmt.Errorf("%s has no english,japanese rows: %w", args[0], err)
		}
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, logger)
	if err := st.AddFile(context.Background(), file); err != nil {
		return fmt.Errorf("failed to save word list: %w", err)
	}
	logger.WithFields(logrus.Fields{"file_id": file.ID, "words": len(file.Words)}).Debug("imported word list")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %q: %d words (id %s)\n", file.Name, len(file.Words), file.ID)
	return err
}

func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List imported word lists",
		Args:  cobra.NoArgs,
		RunE:  runFilesCmd,
	}
	cmd.Flags().IntVar(&filesTop, "top", 0, "only show the N most practiced word lists")
	return cmd
}

func runFilesCmd(cmd *cobra.Command, _ []string) error {
	logger, err := cliLogger()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	report, err := stats.BuildReport(context.Background(), st, model.StatsConfig{})
	if err != nil {
		return err
	}
	summaries := report.Summaries
	if filesTop > 0 {
		summaries = stats.MostPracticed(summaries, filesTop)
	}
	return stats.RenderFiles(cmd.OutOrStdout(), summaries)
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a word list and its answer history",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCmd,
	}
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	logger, err := cliLogger()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	ctx := context.Background()
	files, err := st.ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list word lists: %w", err)
	}
	file, err := resolveFile(files, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteFile(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to delete word list: %w", err)
	}
	logger.WithField("file_id", file.ID).Debug("deleted word list")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%d words) and its history\n", file.Name, len(file.Words))
	return err
}

func newWeakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weak",
		Short: "Show weak words, worst first",
		Args:  cobra.NoArgs,
		RunE:  runWeakCmd,
	}
	cmd.Flags().StringVar(&weakFile, "file", "", "limit to one word list (id or name)")
	return cmd
}

func runWeakCmd(cmd *cobra.Command, _ []string) error {
	logger, err := cliLogger()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	cfg, err := statsConfigFor(st, weakFile)
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return err
	}
	return stats.RenderWeakWords(cmd.OutOrStdout(), report.Weak)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsFile, "file", "", "limit to one word list (id or name)")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of opening the UI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, closer, err := logging.New(logging.OptionsFrom(fileCfg.Log, !statsPlain))
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeQuietly(closer)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	cfg, err := statsConfigFor(st, statsFile)
	if err != nil {
		return err
	}
	if statsPlain {
		return writePlainStats(cmd.OutOrStdout(), st, cfg)
	}

	m := statsui.NewModel(st, cfg, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writePlainStats(w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return err
	}
	if err := stats.RenderOverview(w, report, 0, false); err != nil {
		return err
	}
	if len(report.History) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Weak Words"); err != nil {
		return err
	}
	if err := stats.RenderWeakWords(w, report.Weak); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\nWord Lists"); err != nil {
		return err
	}
	return stats.RenderFiles(w, report.Summaries)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		return fmt.Errorf("config saved but invalid: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store, logger *logrus.Logger) {
	if err := st.Close(); err != nil {
		logger.WithError(err).Warn("failed to close db")
	}
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}

// cliLogger returns a stderr logger for commands that do not take over the terminal.
func cliLogger() (*logrus.Logger, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, _, err := logging.New(logging.OptionsFrom(fileCfg.Log, false))
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, nil
}

func statsConfigFor(st *store.Store, ref string) (model.StatsConfig, error) {
	if ref == "" {
		return model.StatsConfig{}, nil
	}
	files, err := st.ListFiles(context.Background())
	if err != nil {
		return model.StatsConfig{}, fmt.Errorf("failed to list word lists: %w", err)
	}
	file, err := resolveFile(files, ref)
	if err != nil {
		return model.StatsConfig{}, err
	}
	return model.StatsConfig{FileID: file.ID}, nil
}

// resolveFile finds a word list by exact id, unique id prefix or exact name.
func resolveFile(files []model.File, ref string) (model.File, error) {
	ref = strings.TrimSpace(ref)
	var byPrefix, byName []model.File
	for _, f := range files {
		if f.ID == ref {
			return f, nil
		}
		if ref != "" && strings.HasPrefix(f.ID, ref) {
			byPrefix = append(byPrefix, f)
		}
		if f.Name == ref {
			byName = append(byName, f)
		}
	}
	switch {
	case len(byPrefix) == 1:
		return byPrefix[0], nil
	case len(byName) == 1:
		return byName[0], nil
	case len(byPrefix) > 1 || len(byName) > 1:
		return model.File{}, fmt.Errorf("%q matches more than one word list; use the full id", ref)
	default:
		return model.File{}, fmt.Errorf("%w: %s (run: vocquiz files)", model.ErrFileNotFound, ref)
	}
}

func parseQuestionTypes(names []string) ([]model.QuestionType, error) {
	types := make([]model.QuestionType, 0, len(names))
	seen := map[model.QuestionType]bool{}
	for _, name := range names {
		t, ok := model.ParseQuestionType(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown question type %q (use %s)", name, strings.Join(typeNames(model.AllQuestionTypes), ", "))
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("--types must not be empty")
	}
	return types, nil
}

func typeNames(types []model.QuestionType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

func applyStringsConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
