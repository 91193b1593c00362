// Package script loads the clean reference script for a chapter.
//
// One non-blank line of the input file becomes one reference line. Line
// numbers are 1-based positions in the original file and stay stable across
// blank-line removal so reports point at the file the narrator worked from.
package script

import (
	"bufio"
	"os"
	"strings"

	"scriptcut/internal/services"
)

// Line is one reference script line in raw form.
type Line struct {
	Number int
	Text   string
}

// Load reads the reference text file. Blank lines are skipped; a file with
// no usable lines is an input error.
func Load(path string) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "script", "open reference text", path, err)
	}
	defer file.Close()

	var lines []Line
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	number := 0
	for scanner.Scan() {
		number++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		lines = append(lines, Line{Number: number, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrInput, "script", "read reference text", path, err)
	}
	if len(lines) == 0 {
		return nil, services.Wrap(services.ErrInput, "script", "read reference text",
			"no non-blank lines in "+path, nil)
	}
	return lines, nil
}

// TextByNumber indexes lines for the export writers.
func TextByNumber(lines []Line) map[int]string {
	byNumber := make(map[int]string, len(lines))
	for _, line := range lines {
		byNumber[line.Number] = line.Text
	}
	return byNumber
}
