// Package testutil provides shared test infrastructure for the simulator's
// sub-packages: fixture files and the sample descriptor inputs.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleDescriptors is a small descriptor file in the original input format:
// a process count followed by "name size start stop ..." lines.
const SampleDescriptors = `3
A 200 0 5 10 20
B 350 0 12
C 120 3 9
`

// SampleScenario is SampleDescriptors expressed as a YAML scenario.
const SampleScenario = `strategy: best
total_cells: 1600
reserved_cells: 80
processes:
  - name: A
    size: 200
    windows:
      - {start: 0, stop: 5}
      - {start: 10, stop: 20}
  - name: B
    size: 350
    windows:
      - {start: 0, stop: 12}
  - name: C
    size: 120
    windows:
      - {start: 3, stop: 9}
`

// WriteFile writes content to name inside a fresh temp dir and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
	return path
}
