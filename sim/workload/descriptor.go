// Package workload turns external process descriptions into sim.Process values.
// Two formats are supported: the line-oriented descriptor file and a YAML scenario.
package workload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inference-sim/memsim/sim"
)

// ErrInputFormat wraps every descriptor or scenario parse failure.
var ErrInputFormat = errors.New("malformed process input")

// LoadDescriptors reads a descriptor file from disk.
func LoadDescriptors(path string) ([]*sim.Process, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor file: %w", err)
	}
	defer f.Close()
	return ParseDescriptors(f)
}

// ParseDescriptors parses the descriptor format:
//
//	<process count>
//	<name> <size> <start> <stop> [<start> <stop> ...]
//	...
//
// Blank lines are skipped. The declared count must match the number of
// process lines.
func ParseDescriptors(r io.Reader) ([]*sim.Process, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	declared := -1
	var procs []*sim.Process
	seen := make(map[string]bool)

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if declared < 0 {
			if len(fields) != 1 {
				return nil, fmt.Errorf("%w: line %d: expected process count, got %q", ErrInputFormat, lineNo, scanner.Text())
			}
			n, err := strconv.Atoi(fields[0])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: invalid process count %q", ErrInputFormat, lineNo, fields[0])
			}
			declared = n
			continue
		}
		p, err := parseDescriptorLine(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInputFormat, lineNo, err)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: line %d: duplicate process name %q", ErrInputFormat, lineNo, p.Name)
		}
		seen[p.Name] = true
		procs = append(procs, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading descriptors: %w", err)
	}
	if declared < 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInputFormat)
	}
	if declared != len(procs) {
		return nil, fmt.Errorf("%w: declared %d processes, found %d", ErrInputFormat, declared, len(procs))
	}
	return procs, nil
}

func parseDescriptorLine(fields []string) (*sim.Process, error) {
	if len(fields) < 4 {
		return nil, fmt.Errorf("expected name, size and at least one start/stop pair, got %d fields", len(fields))
	}
	name := fields[0]
	size, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("process %s: invalid size %q", name, fields[1])
	}
	times := fields[2:]
	if len(times)%2 != 0 {
		return nil, fmt.Errorf("process %s: odd number of times (%d)", name, len(times))
	}
	windows := make([]sim.Window, 0, len(times)/2)
	for i := 0; i < len(times); i += 2 {
		start, err := strconv.ParseInt(times[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("process %s: invalid start %q", name, times[i])
		}
		stop, err := strconv.ParseInt(times[i+1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("process %s: invalid stop %q", name, times[i+1])
		}
		windows = append(windows, sim.Window{Start: start, Stop: stop})
	}
	return sim.NewProcess(name, size, windows)
}
