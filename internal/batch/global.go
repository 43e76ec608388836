package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadGlobalArgs reads one argument per line. Lines are trimmed and empty
// lines are skipped; no quoting is interpreted.
func LoadGlobalArgs(r io.Reader) ([]string, error) {
	var args []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			args = append(args, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read global options: %w", err)
	}
	return args, nil
}

// LoadGlobalArgsFile opens path and calls LoadGlobalArgs.
func LoadGlobalArgsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open global options file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return LoadGlobalArgs(f)
}
