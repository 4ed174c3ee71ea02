// Package arch_test checks structural rules across the internal packages:
// import layering, package-level state, documentation, interface placement,
// and file size.
package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
)

const internalPfx = "github.com/papapumpkin/beetcut/internal/"

// internalDirPath returns the internal/ directory, located relative to this
// source file.
func internalDirPath(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	return filepath.Dir(filepath.Dir(thisFile))
}

// repoRoot is the directory holding go.mod.
func repoRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Dir(internalDirPath(t))
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Fatalf("go.mod not found in %s: %v", root, err)
	}
	return root
}

// internalPackages returns the package directories under internal/ that hold
// Go source, excluding this one.
func internalPackages(t *testing.T) []string {
	t.Helper()

	dir := internalDirPath(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}

	var pkgs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "arch_test" {
			continue
		}
		if len(goFilesIn(t, filepath.Join(dir, e.Name()))) > 0 {
			pkgs = append(pkgs, e.Name())
		}
	}
	sort.Strings(pkgs)
	return pkgs
}

// goFilesIn returns the non-test .go files in dir.
func goFilesIn(t *testing.T, dir string) []string {
	t.Helper()
	return filesIn(t, dir, func(name string) bool {
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	})
}

// allGoFilesIn returns every .go file in dir, tests included.
func allGoFilesIn(t *testing.T, dir string) []string {
	t.Helper()
	return filesIn(t, dir, func(name string) bool {
		return strings.HasSuffix(name, ".go")
	})
}

func filesIn(t *testing.T, dir string, keep func(string) bool) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading directory %s: %v", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && keep(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}

// parseFiles parses each non-test file of pkgDir with mode.
func parseFiles(t *testing.T, pkgDir string, mode parser.Mode) []*ast.File {
	t.Helper()

	fset := token.NewFileSet()
	var parsed []*ast.File
	for _, f := range goFilesIn(t, pkgDir) {
		node, err := parser.ParseFile(fset, f, nil, mode)
		if err != nil {
			t.Fatalf("parsing %s: %v", f, err)
		}
		parsed = append(parsed, node)
	}
	return parsed
}

// importsOf returns the deduplicated internal packages imported by pkgDir.
func importsOf(t *testing.T, pkgDir string) []string {
	t.Helper()

	seen := make(map[string]bool)
	for _, node := range parseFiles(t, pkgDir, parser.ImportsOnly) {
		for _, imp := range node.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if rel, ok := strings.CutPrefix(path, internalPfx); ok {
				rel, _, _ = strings.Cut(rel, "/")
				seen[rel] = true
			}
		}
	}

	var result []string
	for pkg := range seen {
		result = append(result, pkg)
	}
	sort.Strings(result)
	return result
}

// lineCount returns the number of lines in filePath, counting an
// unterminated last line.
func lineCount(t *testing.T, filePath string) int {
	t.Helper()

	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("reading %s: %v", filePath, err)
	}
	if len(data) == 0 {
		return 0
	}
	count := strings.Count(string(data), "\n")
	if data[len(data)-1] != '\n' {
		count++
	}
	return count
}

// docText returns the text of the first non-nil comment group.
func docText(groups ...*ast.CommentGroup) string {
	for _, g := range groups {
		if g != nil {
			return g.Text()
		}
	}
	return ""
}

func TestInternalPackages(t *testing.T) {
	t.Parallel()

	pkgs := internalPackages(t)
	for _, want := range []string{"catalog", "config", "cutoff", "store", "ui"} {
		found := false
		for _, p := range pkgs {
			if p == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected package %q in internalPackages result %v", want, pkgs)
		}
	}
	for _, p := range pkgs {
		if p == "arch_test" {
			t.Error("internalPackages should exclude arch_test")
		}
	}
}

func TestImportsOf(t *testing.T) {
	t.Parallel()

	imports := importsOf(t, filepath.Join(internalDirPath(t), "cutoff"))
	if len(imports) != 1 || imports[0] != "catalog" {
		t.Errorf("internal/cutoff imports %v, want [catalog]", imports)
	}
}
