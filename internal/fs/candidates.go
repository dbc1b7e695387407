package fs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCandidates loads suggestion candidates from a file, one per line.
func ReadCandidates(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candidates file: %w", err)
	}
	defer f.Close()

	items, err := ParseCandidates(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return items, nil
}

// ParseCandidates reads one candidate per line. Surrounding whitespace is
// trimmed, blank lines and lines starting with '#' are skipped, and repeated
// candidates keep only their first position.
func ParseCandidates(r io.Reader) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
