package loader

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadCodes reads product codes from a text file, one per line.
// Lines are trimmed and blank lines skipped.
func LoadCodes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open codes file: %w", err)
	}
	defer f.Close()

	var codes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if code := strings.TrimSpace(scanner.Text()); code != "" {
			codes = append(codes, code)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read codes file: %w", err)
	}
	return codes, nil
}
