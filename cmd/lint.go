package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/totality/formatter"
	"github.com/gnolang/totality/internal"
	tt "github.com/gnolang/totality/internal/types"
	"github.com/gnolang/totality/lint"
)

var (
	ignoreRules    string
	ignorePaths    string
	lintJsonOutput bool
	outPath        string
	includeTests   bool
	watch          bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Report non-exhaustive switch statements and if chains",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		engine, err := lint.New(".", cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}
		engine.SetLogger(logger)
		if includeTests {
			engine.IncludeTests(true)
		}

		for _, rule := range splitList(ignoreRules) {
			engine.IgnoreRule(rule)
		}
		for _, path := range splitList(ignorePaths) {
			engine.IgnorePath(path)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if !watch {
			runNormalLintProcess(ctx, logger, engine, args, lintJsonOutput, outPath)
			return
		}

		issues, err := lint.ProcessFiles(ctx, logger, engine, args, lint.ProcessFile)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
		}
		if err := printIssues(os.Stdout, logger, issues, lintJsonOutput, outPath); err != nil {
			logger.Error("Error printing issues", zap.Error(err))
		}
		runWatch(logger, engine, args)
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore")
	lintCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	lintCmd.Flags().BoolVar(&lintJsonOutput, "json", false, "Output issues in JSON format")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	lintCmd.Flags().BoolVar(&includeTests, "tests", false, "Include test files")
	lintCmd.Flags().BoolVar(&watch, "watch", false, "Lint again whenever a Go file changes")
}

func splitList(list string) []string {
	var items []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func runNormalLintProcess(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, isJson bool, jsonOutput string) {
	issues, err := lint.ProcessFiles(ctx, logger, engine, paths, lint.ProcessFile)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	if err := printIssues(os.Stdout, logger, issues, isJson, jsonOutput); err != nil {
		logger.Error("Error printing issues", zap.Error(err))
		os.Exit(1)
	}

	if len(issues) > 0 {
		os.Exit(1)
	}
}

// runWatch lints changed packages until interrupted.
func runWatch(logger *zap.Logger, engine *internal.Engine, paths []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dirs := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			logger.Error("Error accessing path", zap.String("path", path), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			path = filepath.Dir(path)
		}
		dirs = append(dirs, path)
	}

	logger.Info("Watching for changes", zap.Strings("dirs", dirs))
	err := engine.Watch(ctx, dirs, func(dir string, issues []tt.Issue) {
		if err := printIssues(os.Stdout, logger, issues, lintJsonOutput, outPath); err != nil {
			logger.Error("Error printing issues", zap.String("dir", dir), zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("Watch failed", zap.Error(err))
	}
}

func printIssues(w io.Writer, logger *zap.Logger, issues []tt.Issue, isJson bool, jsonOutput string) error {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	if isJson {
		d, err := json.Marshal(issuesByFile)
		if err != nil {
			return fmt.Errorf("error marshalling issues to JSON: %w", err)
		}
		if jsonOutput == "" {
			_, err = fmt.Fprintln(w, string(d))
			return err
		}
		if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
			return fmt.Errorf("error writing JSON output file: %w", err)
		}
		return nil
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		fileIssues := issuesByFile[filename]
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			continue
		}
		fmt.Fprint(w, formatter.GenerateFormattedIssue(fileIssues, sourceCode))
	}
	return nil
}
