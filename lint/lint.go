package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/gnolang/totality/internal"
	tt "github.com/gnolang/totality/internal/types"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the configuration file read when none is given.
const DefaultConfigPath = ".totality.yaml"

type LintEngine interface {
	Run(path string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// New creates an engine configured from the file at configurationPath.
// An empty path reads DefaultConfigPath if it exists.
func New(rootDir string, configurationPath string) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}

	engine, err := internal.NewEngine(rootDir, config.Rules)
	if err != nil {
		return nil, err
	}
	engine.IncludeTests(config.Tests)
	for _, path := range config.IgnorePaths {
		engine.IgnorePath(path)
	}
	return engine, nil
}

// Config represents the configuration file.
type Config struct {
	Name        string                   `yaml:"name"`
	Tests       bool                     `yaml:"tests"`
	IgnorePaths []string                 `yaml:"ignore-paths,omitempty"`
	Rules       map[string]tt.ConfigRule `yaml:"rules"`
}

// DefaultConfig is the configuration used without a configuration file.
func DefaultConfig() Config {
	return Config{
		Name: "totality",
		Rules: map[string]tt.ConfigRule{
			internal.TotalityCheck: {
				Severity: tt.SeverityError,
				Data: map[string]any{
					"switch":   true,
					"if-chain": true,
				},
			},
		},
	}
}

// LoadConfig reads the configuration file at path. A missing default file
// yields DefaultConfig; a missing explicit file is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("error opening configuration: %w", err)
	}
	defer f.Close()

	return parseConfig(f)
}

func parseConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("error parsing configuration: %w", err)
	}
	return config, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources [][]byte,
	processor func(LintEngine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath lints path. A directory is walked and every package directory
// below it is processed by a pool of workers; a Go file is processed alone.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return nil, nil
		}
		return processor(engine, path)
	}

	dirs, err := packageDirs(path)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(dirs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	defer bar.Finish()

	type result struct {
		issues []tt.Issue
		err    error
	}

	jobs := make(chan string)
	results := make(chan result, len(dirs))

	var wg sync.WaitGroup
	for range min(runtime.NumCPU(), max(len(dirs), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for dir := range jobs {
				issues, err := processor(engine, dir)
				if err != nil && logger != nil {
					logger.Error("Error processing package", zap.String("dir", dir), zap.Error(err))
				}
				results <- result{issues: issues, err: err}
				_ = bar.Add(1)
			}
		}()
	}

	var ctxErr error
dispatch:
	for _, dir := range dirs {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case jobs <- dir:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	issues := []tt.Issue{}
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		issues = append(issues, r.issues...)
	}

	if ctxErr != nil {
		return issues, ctxErr
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return issues, nil
}

// packageDirs returns every directory under root holding Go files, sorted.
func packageDirs(root string) ([]string, error) {
	seen := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if hasDesiredExtension(path) {
			seen[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine LintEngine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}

func hasDesiredExtension(path string) bool {
	return filepath.Ext(path) == ".go"
}
