package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/boiler-labs/boiler/internal/toolexec"
)

// npmInitManifest is what `npm init -y` writes for a directory named my-app.
const npmInitManifest = `{
  "name": "my-app",
  "version": "1.0.0",
  "description": "",
  "main": "index.js",
  "scripts": {
    "test": "echo \"Error: no test specified\" && exit 1"
  },
  "keywords": [],
  "author": "",
  "license": "ISC"
}
`

// fakeRunner records commands instead of running them. `npm init` writes
// npmInitManifest into the command's directory.
type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]int // command-line prefix -> exit code
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{fail: make(map[string]int)}
}

func (f *fakeRunner) Run(_ context.Context, c toolexec.Command) toolexec.Result {
	f.mu.Lock()
	f.calls = append(f.calls, c.String())
	f.mu.Unlock()

	for prefix, code := range f.fail {
		if strings.HasPrefix(c.String(), prefix) {
			return toolexec.Exited(c, code)
		}
	}
	if c.Program == "npm" && len(c.Args) > 0 && c.Args[0] == "init" {
		if err := os.WriteFile(filepath.Join(c.Dir, "package.json"), []byte(npmInitManifest), 0644); err != nil {
			return toolexec.Failed(c, err)
		}
	}
	return toolexec.Exited(c, 0)
}

func (f *fakeRunner) Start(ctx context.Context, c toolexec.Command) (*toolexec.Handle, error) {
	return toolexec.Completed(f.Run(ctx, c)), nil
}

func (f *fakeRunner) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// enterTempDir changes into a fresh temp directory for the duration of the test.
func enterTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	return wd
}

func readGenerated(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q\n--- content ---\n%s", substr, content)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}
