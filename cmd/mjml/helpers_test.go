package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validMJML = `<mjml>
  <mj-body>
    <mj-section>
      <mj-column>
        <mj-text>Hello</mj-text>
      </mj-column>
    </mj-section>
  </mj-body>
</mjml>`

const invalidMJML = `<mjml><mj-body><mj-column></mj-column></mj-body></mjml>`

// testEnv is an Environment with captured output and a hermetic config.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv returns an environment whose MJML_CONFIG points at an empty
// config file, so the user's own config is never read. Extra KEY=value pairs
// are appended to the environment.
func newTestEnv(t *testing.T, stdin string, environ ...string) *testEnv {
	t.Helper()
	cfgPath := writeFile(t, t.TempDir(), "mjml.yaml", "log:\n  level: info\n")
	vars := append([]string{"MJML_CONFIG=" + cfgPath}, environ...)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{
		Environment: &Environment{
			Stdin:   strings.NewReader(stdin),
			Stdout:  stdout,
			Stderr:  stderr,
			Environ: func() []string { return vars },
		},
		stdout: stdout,
		stderr: stderr,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
