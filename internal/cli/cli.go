package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"msgscan/internal/compare"
	"msgscan/internal/config"
	"msgscan/internal/filewalker"
	"msgscan/internal/history"
	"msgscan/internal/parser"
	"msgscan/internal/report"
	"msgscan/internal/worker"
)

// errFindings signals that validation found problems. The reports have
// already been printed, so Execute only turns it into the exit status.
var errFindings = errors.New("validation failed")

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	setLogLevel(cfg.LogLevel)

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := optionsFromConfig(cfg)

	rootCmd := &cobra.Command{
		Use:   "msgscan",
		Short: "Validate game message (.msg) files",
		Long: `Checks {id}{sound}{text} message files for malformed records: stray or
missing braces, text outside the three fields, invalid or duplicated ids and
oversized text, and compares translations against a reference language.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCmd.SetErrPrefix("msgscan:")

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&opts.relaxed, "relaxed", opts.relaxed, "Allow ';' and '//' comments outside the outer brackets")
	flags.BoolVar(&opts.allowDuplicateZero, "allow-duplicate-zero", opts.allowDuplicateZero, "Let id 0 repeat; the last one wins")
	flags.IntVar(&opts.maxTextLen, "max-text-len", opts.maxTextLen, "Maximum text length of one message")
	flags.IntVar(&opts.maxWordLen, "max-word-len", opts.maxWordLen, "Maximum length of a single word")
	flags.StringVar(&opts.encoding, "encoding", opts.encoding, "Character set of the input files (e.g. utf-8, windows-1252)")
	flags.StringVar(&opts.reportFile, "report", opts.reportFile, "Report file, removed at start and written only when problems are found")
	flags.StringVar(&opts.reportFormat, "format", opts.reportFormat, "Report file format: text or json")
	flags.BoolVar(&opts.noExitCode, "no-exit-code", false, "Exit with status 0 even when problems are found")
	flags.BoolVar(&opts.summary, "summary", true, "Print a summary table after the reports")
	flags.IntVar(&opts.workers, "workers", opts.workers, "Number of files loaded in parallel")
	flags.StringSliceVar(&opts.include, "include", opts.include, "Glob of files to check, relative to the directory (default **/*.msg)")
	flags.StringSliceVar(&opts.exclude, "exclude", opts.exclude, "Glob of files to skip, relative to the directory")

	rootCmd.AddCommand(scanCmd(opts))
	rootCmd.AddCommand(compareCmd(opts))
	rootCmd.AddCommand(checkCmd(opts))

	return rootCmd
}

// options carries flag values into the commands.
type options struct {
	relaxed            bool
	allowDuplicateZero bool
	maxTextLen         int
	maxWordLen         int
	encoding           string
	reportFile         string
	reportFormat       string
	noExitCode         bool
	summary            bool
	workers            int
	include            []string
	exclude            []string
	databaseURL        string
}

func optionsFromConfig(cfg *config.Config) *options {
	return &options{
		relaxed:            cfg.Relaxed,
		allowDuplicateZero: cfg.AllowDuplicateZero,
		maxTextLen:         cfg.MaxTextLen,
		maxWordLen:         cfg.MaxWordLen,
		encoding:           cfg.Encoding,
		reportFile:         cfg.ReportFile,
		reportFormat:       cfg.ReportFormat,
		workers:            cfg.WorkerCount,
		include:            cfg.Include,
		exclude:            cfg.Exclude,
		databaseURL:        cfg.DatabaseURL,
	}
}

func (o *options) loader() (*parser.Loader, error) {
	return parser.NewLoader(parser.Options{
		Relaxed:            o.relaxed,
		AllowDuplicateZero: o.allowDuplicateZero,
		MaxTextLen:         o.maxTextLen,
		MaxWordLen:         o.maxWordLen,
		Encoding:           o.encoding,
	})
}

func scanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [directory]",
		Short: "Validate every message file below a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			ctx, cancel := setupContext()
			defer cancel()
			return runScan(ctx, cmd.OutOrStdout(), dir, opts)
		},
	}
}

func compareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <base-dir> <translation-dir>",
		Short: "Check a translation against a reference language",
		Long: `Loads every message file of the reference language and the file with the
same relative path in the translation directory. Reports ids missing from the
translation and messages whose emptiness differs. Text is never compared.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return runCompare(ctx, cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}
}

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate the given message files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			entries := make([]filewalker.FileEntry, len(args))
			for i, a := range args {
				entries[i] = filewalker.FileEntry{Path: a, Rel: a}
			}
			return runFiles(ctx, cmd.OutOrStdout(), "check", "", entries, opts)
		},
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// runScan handles the `scan` command.
func runScan(ctx context.Context, out io.Writer, dir string, opts *options) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("invalid directory: %s", dir)
	}

	w, err := filewalker.NewWalker(opts.include, opts.exclude)
	if err != nil {
		return err
	}
	entries, err := w.Walk(dir)
	if err != nil {
		return fmt.Errorf("walk input directory: %w", err)
	}

	log.Info().Int("files", len(entries)).Str("dir", dir).Msg("Scanning files")
	return runFiles(ctx, out, "scan", dir, entries, opts)
}

// runFiles loads entries in parallel and reports them in order.
func runFiles(ctx context.Context, out io.Writer, mode, root string, entries []filewalker.FileEntry, opts *options) error {
	started := time.Now()

	format, err := report.ParseFormat(opts.reportFormat)
	if err != nil {
		return err
	}
	loader, err := opts.loader()
	if err != nil {
		return err
	}
	if err := report.Remove(opts.reportFile); err != nil {
		return err
	}

	pool := worker.NewPool[filewalker.FileEntry, *parser.LoadResult](opts.workers,
		func(ctx context.Context, entry filewalker.FileEntry) (*parser.LoadResult, error) {
			return loader.LoadFile(entry.Path), nil
		},
	)
	results := pool.Execute(ctx, entries)
	if err := ctx.Err(); err != nil {
		return err
	}

	reports := make([]report.Entry, 0, len(results))
	for _, r := range results {
		entry := report.FromResult(r.Result)
		if entry.Failed() {
			fmt.Fprintln(out, entry.Text())
		}
		log.Debug().
			Str("file", entry.File).
			Int("records", r.Result.Store.Len()).
			Int("diagnostics", len(entry.Diagnostics)).
			Msg("File loaded")
		reports = append(reports, entry)
	}

	return finish(ctx, out, mode, root, started, reports, format, opts)
}

// runCompare handles the `compare` command.
func runCompare(ctx context.Context, out io.Writer, baseDir, translationDir string, opts *options) error {
	started := time.Now()

	format, err := report.ParseFormat(opts.reportFormat)
	if err != nil {
		return err
	}
	for _, dir := range []string{baseDir, translationDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("invalid directory: %s", dir)
		}
	}
	loader, err := opts.loader()
	if err != nil {
		return err
	}
	w, err := filewalker.NewWalker(opts.include, opts.exclude)
	if err != nil {
		return err
	}
	pairs, err := w.Pair(baseDir, translationDir)
	if err != nil {
		return fmt.Errorf("pair input directories: %w", err)
	}
	if err := report.Remove(opts.reportFile); err != nil {
		return err
	}

	log.Info().Int("files", len(pairs)).Str("base", baseDir).Str("translation", translationDir).Msg("Comparing files")

	type pairResult struct {
		base, translation *parser.LoadResult
	}
	pool := worker.NewPool[filewalker.Pair, pairResult](opts.workers,
		func(ctx context.Context, p filewalker.Pair) (pairResult, error) {
			return pairResult{
				base:        loader.LoadFile(p.Base.Path),
				translation: loader.LoadFile(p.Translation.Path),
			}, nil
		},
	)
	results := pool.Execute(ctx, pairs)
	if err := ctx.Err(); err != nil {
		return err
	}

	var reports []report.Entry
	for _, r := range results {
		base := report.FromResult(r.Result.base)
		tr := report.FromResult(r.Result.translation)
		if r.Result.base.Status == parser.StatusOK && r.Result.translation.Status == parser.StatusOK {
			tr.Mismatches = compare.Compare(r.Result.base.Store, r.Result.translation.Store, tr.File)
		}
		for _, e := range []report.Entry{base, tr} {
			if e.Failed() {
				fmt.Fprintln(out, e.Text())
			}
			reports = append(reports, e)
		}
	}

	return finish(ctx, out, "compare", baseDir, started, reports, format, opts)
}

// finish writes the report file, summary and history, then decides the exit
// status.
func finish(ctx context.Context, out io.Writer, mode, root string, started time.Time, reports []report.Entry, format report.Format, opts *options) error {
	if err := report.Write(opts.reportFile, format, reports); err != nil {
		return err
	}
	if opts.summary {
		report.Summary(out, reports)
	}
	recordHistory(ctx, opts.databaseURL, mode, root, started, reports)

	failed := len(report.Failing(reports))
	log.Info().
		Int("files", len(reports)).
		Int("failed", failed).
		Dur("took", time.Since(started)).
		Msg("Done")

	if failed > 0 && !opts.noExitCode {
		return fmt.Errorf("%d file(s) with problems: %w", failed, errFindings)
	}
	return nil
}

// recordHistory stores the run when a database is configured. Failures are
// logged and never change the outcome of the scan.
func recordHistory(ctx context.Context, databaseURL, mode, root string, started time.Time, reports []report.Entry) {
	if databaseURL == "" {
		return
	}

	pool, err := history.Connect(ctx, databaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("History disabled")
		return
	}
	defer pool.Close()

	store := history.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to prepare history schema")
		return
	}

	run := history.Run{StartedAt: started, Mode: mode, Root: root}
	for _, e := range reports {
		run.Files = append(run.Files, history.FileRecord{
			Path:        e.File,
			SHA256:      history.FileHash(e.File),
			Status:      e.Status.String(),
			Diagnostics: len(e.Diagnostics) + len(e.Mismatches),
			Failed:      e.Failed(),
		})
	}
	if _, err := store.Record(ctx, run); err != nil {
		log.Warn().Err(err).Msg("Failed to record scan history")
	}
}
