package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tinylex/corpusio/internal/batch"
	"github.com/tinylex/corpusio/internal/cache"
	"github.com/tinylex/corpusio/internal/config"
	"github.com/tinylex/corpusio/internal/document"
	"github.com/tinylex/corpusio/internal/logger"
)

var (
	cfgFile     string
	outputPath  string
	debugMode   bool
	noCache     bool
	noProgress  bool
	listFormats bool
	keepLocks   bool
)

// sessionState is what survives between runs in the cache directory.
type sessionState struct {
	LastEncoding string
}

const stateBlobName = "session.bin"

// NewRootCommand creates the corpusio root command.
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "corpusio [flags] path...",
		Short: "corpusio extracts plain paragraph text from corpus input files",
		Long: `corpusio resolves file paths, directories and glob patterns into a
verified input set and extracts plain paragraph text from txt, docx
and odt files, recovering the encoding of non-UTF-8 text files.`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args: func(cmd *cobra.Command, args []string) error {
			if listFormats {
				return nil
			}
			if len(args) < 1 {
				return fmt.Errorf("requires at least one input path, directory or glob")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if listFormats {
				printFormats(cmd.OutOrStdout())
				return nil
			}
			return run(args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default corpusio.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write extracted text to this file instead of stdout")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	rootCmd.Flags().BoolVar(&listFormats, "list-formats", false, "list supported input formats and exit")
	rootCmd.Flags().BoolVar(&keepLocks, "keep-lock-files", false, "do not drop Word lock files (~*.docx) on Windows")

	return rootCmd
}

func printFormats(w io.Writer) {
	for _, format := range document.SupportedFormats {
		fmt.Fprintln(w, format)
	}
}

func run(specs []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if debugMode {
		cfg.Debug = true
	}

	var log *zap.Logger
	if cfg.Debug {
		log = logger.NewLogger(true)
	} else {
		log = logger.NewLoggerWithLevel(cfg.LogLevel)
	}
	defer func() {
		_ = log.Sync()
	}()

	// Probe the output before doing any work, so a locked output file
	// is reported up front instead of after a long extraction. The
	// real write below remains the authoritative check.
	if outputPath != "" {
		if ok, msg := cache.CheckWritable(outputPath); !ok {
			color.Red(msg)
			return fmt.Errorf("output %s is not writable", outputPath)
		}
	}

	runner := batch.NewRunner(log)
	if keepLocks {
		runner.Verifier().SetLockFileFilter(false)
	}

	cacheDir := cfg.CacheDir
	if noCache || !cfg.UseCache {
		cacheDir = ""
	}
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			log.Warn("cannot create cache directory, caching disabled",
				zap.String("dir", cacheDir), zap.Error(err))
			cacheDir = ""
		}
	}
	runner.CacheDir = cacheDir

	statePath := ""
	if cacheDir != "" && cfg.PersistEncoding {
		statePath = filepath.Join(cacheDir, stateBlobName)
		var state sessionState
		if loaded, err := cache.LoadBlob(statePath, &state); err != nil {
			log.Warn("could not load session state", zap.Error(err))
		} else if loaded {
			runner.InitialEncoding = state.LastEncoding
		}
	}

	var bar *pterm.ProgressbarPrinter
	if !noProgress {
		runner.OnProgress = func(done, total int) {
			if bar == nil {
				bar, _ = pterm.DefaultProgressbar.WithTotal(total).WithTitle("Extracting").Start()
			}
			bar.Increment()
		}
	}

	summary, err := runner.Run(context.Background(), specs)
	if bar != nil {
		_, _ = bar.Stop()
	}
	if err != nil {
		return err
	}

	if statePath != "" && runner.LastEncoding() != "" {
		if err := cache.SaveBlob(statePath, sessionState{LastEncoding: runner.LastEncoding()}); err != nil {
			log.Warn("could not save session state", zap.Error(err))
		}
	}

	if err := writeOutput(summary); err != nil {
		return err
	}

	printSummaryTable(summary)
	return nil
}

// writeOutput concatenates the extracted texts, one document after
// another in path order, separated by a blank line.
func writeOutput(summary *batch.Summary) error {
	var sb strings.Builder
	for _, res := range summary.Results {
		if res.Skipped || res.Err != nil {
			continue
		}
		sb.WriteString(res.Text)
		if !strings.HasSuffix(res.Text, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if outputPath == "" {
		fmt.Print(sb.String())
		return nil
	}
	return os.WriteFile(outputPath, []byte(sb.String()), 0o644)
}

func printSummaryTable(summary *batch.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stderr)
	tw.AppendHeader(table.Row{"File", "Status", "Chars"})
	for _, res := range summary.Results {
		switch {
		case res.Err != nil:
			tw.AppendRow(table.Row{res.Path, "failed: " + res.Err.Error(), "-"})
		case res.Skipped:
			tw.AppendRow(table.Row{res.Path, "skipped", "-"})
		case res.FromCache:
			tw.AppendRow(table.Row{res.Path, "cached", len([]rune(res.Text))})
		default:
			tw.AppendRow(table.Row{res.Path, "extracted", len([]rune(res.Text))})
		}
	}
	tw.AppendFooter(table.Row{
		fmt.Sprintf("batch %s", summary.ID),
		fmt.Sprintf("%d ok / %d skipped / %d failed",
			summary.Extracted(), summary.Skipped(), summary.Failed()),
		"",
	})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
