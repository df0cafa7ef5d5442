package anthropometry

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const modulePath = "github.com/dietia/dietia-backend"

// importsOf lists the non-test imports of the package in dir.
func importsOf(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatal(err)
		}
		for _, imp := range f.Imports {
			p, _ := strconv.Unquote(imp.Path.Value)
			out = append(out, p)
		}
	}
	return out
}

// The estimator is shared by the CLI and the HTTP layer; neither it nor the
// in-module packages it pulls in may depend on the web framework.
func TestNoWebDependencies(t *testing.T) {
	root := filepath.Join("..", "..", "..")
	seen := map[string]bool{}
	queue := []string{"."}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]
		if seen[dir] {
			continue
		}
		seen[dir] = true
		for _, imp := range importsOf(t, dir) {
			if strings.HasPrefix(imp, "github.com/gin-gonic/") || imp == "net/http" {
				t.Errorf("%s imports %s", dir, imp)
			}
			if rel, ok := strings.CutPrefix(imp, modulePath+"/"); ok {
				queue = append(queue, filepath.Join(root, filepath.FromSlash(rel)))
			}
		}
	}
}
