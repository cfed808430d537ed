package internal

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gnolang/totality/internal/nolint"
	tt "github.com/gnolang/totality/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Engine manages the linting process.
type Engine struct {
	logger       *zap.Logger
	rootDir      string
	tests        bool
	rules        map[string]LintRule
	ignoredRules map[string]bool
	ignoredPaths []string
}

// Define the ruleConstructor type
type ruleConstructor func(tt.ConfigRule) LintRule

var allRuleConstructors = map[string]ruleConstructor{
	TotalityCheck: NewTotalityRule,
}

// NewEngine creates a new lint engine. Rules not mentioned in rules are
// registered with their defaults; a rule configured as OFF is ignored.
func NewEngine(rootDir string, rules map[string]tt.ConfigRule) (*Engine, error) {
	e := &Engine{
		logger:  zap.NewNop(),
		rootDir: rootDir,
		rules:   make(map[string]LintRule),
	}
	// unknown rules in the configuration are ignored
	for name, newRule := range allRuleConstructors {
		cfg := rules[name]
		if cfg.Severity == tt.SeverityOff {
			e.IgnoreRule(name)
			continue
		}
		e.rules[name] = newRule(cfg)
	}
	return e, nil
}

// SetLogger replaces the engine's logger. A nil logger discards.
func (e *Engine) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.logger = logger
}

// IncludeTests makes Run load test files as well.
func (e *Engine) IncludeTests(tests bool) {
	e.tests = tests
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath drops issues in files matching pattern. The pattern is matched
// against the file path and its base name, or as a directory prefix.
func (e *Engine) IgnorePath(pattern string) {
	if pattern == "" {
		return
	}
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(pattern))
}

// Run loads the package in the directory path, or the package containing
// the file path, and applies all lint rules to it. For a file, only the
// issues located in that file are returned.
func (e *Engine) Run(path string) ([]tt.Issue, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	dir, pattern := abs, abs
	if !info.IsDir() {
		dir, pattern = filepath.Dir(abs), "file="+abs
	}

	cfg := &packages.Config{
		Mode:  loadMode,
		Dir:   dir,
		Tests: e.tests,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}

	var all []tt.Issue
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			e.logger.Warn("Skipping package with errors",
				zap.String("package", p.PkgPath),
				zap.String("error", p.Errors[0].Error()))
			continue
		}
		if p.Types == nil || p.TypesInfo == nil {
			continue
		}
		issues, err := e.check(&Package{
			Fset:  p.Fset,
			Files: p.Syntax,
			Types: p.Types,
			Info:  p.TypesInfo,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, issues...)
	}

	if !info.IsDir() {
		all = issuesInFile(all, abs)
	}
	return dedupe(all), nil
}

// issuesInFile keeps the issues located in filename. The loader may report
// the file under its symlink-resolved path.
func issuesInFile(issues []tt.Issue, filename string) []tt.Issue {
	names := map[string]bool{filename: true}
	if resolved, err := filepath.EvalSymlinks(filename); err == nil {
		names[resolved] = true
	}
	out := issues[:0]
	for _, issue := range issues {
		if names[filepath.Clean(issue.Filename)] {
			out = append(out, issue)
		}
	}
	return out
}

// RunSource type-checks a single file held in memory and applies all lint
// rules to it. Imports are resolved from source.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "source.go", source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("error parsing content: %w", err)
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check(f.Name.Name, fset, []*ast.File{f}, info)
	if err != nil {
		return nil, fmt.Errorf("error type-checking content: %w", err)
	}

	return e.check(&Package{Fset: fset, Files: []*ast.File{f}, Types: pkg, Info: info})
}

func (e *Engine) check(pkg *Package) ([]tt.Issue, error) {
	nolintMgr := nolint.ParseComments(pkg.Fset, pkg.Files...)

	var (
		g   errgroup.Group
		mu  sync.Mutex
		all []tt.Issue
	)
	for _, rule := range e.rules {
		if e.ignoredRules[rule.Name()] {
			continue
		}
		g.Go(func() error {
			issues, err := rule.Check(pkg)
			if err != nil {
				return fmt.Errorf("rule %s: %w", rule.Name(), err)
			}

			mu.Lock()
			defer mu.Unlock()
			for _, issue := range issues {
				if nolintMgr.IsNolint(issue.Start, issue.Rule) || e.isIgnoredPath(issue.Filename) {
					continue
				}
				all = append(all, issue)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortIssues(all)
	return all, nil
}

func (e *Engine) isIgnoredPath(filename string) bool {
	if filename == "" {
		return false
	}
	rel := filename
	if e.rootDir != "" {
		if root, err := filepath.Abs(e.rootDir); err == nil {
			if r, err := filepath.Rel(root, filename); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
	}
	for _, pattern := range e.ignoredPaths {
		for _, candidate := range []string{filename, rel, filepath.Base(filename)} {
			if ok, _ := filepath.Match(pattern, candidate); ok {
				return true
			}
			if strings.HasPrefix(candidate, pattern+string(filepath.Separator)) {
				return true
			}
		}
	}
	return false
}

func sortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		if a.Start.Column != b.Start.Column {
			return a.Start.Column < b.Start.Column
		}
		return a.Rule < b.Rule
	})
}

// dedupe drops repeated issues. Loading with tests yields the package twice,
// once with its test files.
func dedupe(issues []tt.Issue) []tt.Issue {
	type key struct {
		rule, file, msg string
		line, col       int
	}
	seen := make(map[key]bool, len(issues))
	out := issues[:0]
	for _, issue := range issues {
		k := key{issue.Rule, issue.Filename, issue.Message, issue.Start.Line, issue.Start.Column}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, issue)
	}
	sortIssues(out)
	return out
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}
