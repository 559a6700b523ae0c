package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadLines reads input lines from a file (one entry per line). Lines
// are trimmed, blank lines and comments are skipped, and the file order
// is preserved. Duplicates are kept: each occurrence gets its own row
// in the output.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open words file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan words file: %w", err)
	}

	return lines, nil
}
