package testsupport

import (
	"os"
	"strings"
)

// LoadGoldenText reads a text golden file with the trailing newline trimmed.
func LoadGoldenText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}
