package parser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zuhairmahd/AutopilotLogViewer/internal/model"
)

const (
	// sampleReadLines is how many lines Detect reads from the head of a file.
	sampleReadLines = 20
	// sampleProbeLines is how many non-blank lines are offered to CanParse.
	sampleProbeLines = 10

	// maxLineBytes bounds a single log line during scanning.
	maxLineBytes = 1024 * 1024
)

// ErrUnknownFormat is returned by Detect when no registered parser
// recognizes the file.
var ErrUnknownFormat = errors.New("log format not recognized")

// registered returns the parsers in priority order. Standard is probed
// before CMTrace: if a line could spuriously match both recognizers, the
// earlier parser wins. This ordering is deliberate.
func registered() []Parser {
	return []Parser{NewStandardParser(), NewCMTraceParser()}
}

// Detect samples the head of the file and returns the first parser whose
// recognition predicate succeeds. A missing file surfaces the open error;
// an unrecognized format surfaces ErrUnknownFormat, never a nil-safe guess.
func Detect(path string) (Parser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("detect format: %w", err)
	}
	defer f.Close()

	var sample []string
	scanner := newLineScanner(f)
	for i := 0; i < sampleReadLines && scanner.Scan(); i++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample = append(sample, line)
		if len(sample) == sampleProbeLines {
			break
		}
	}

	for _, p := range registered() {
		if p.CanParse(sample) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ParseFile streams the file line by line through the given parser and
// returns the successfully decoded Records in file order. LineNumber stays
// the 1-based original position even across skipped lines. The second
// return value counts non-blank lines the parser rejected, so callers can
// detect silent loss without changing the skip-by-default behavior.
func ParseFile(path string, p Parser) ([]model.Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", path, err)
	}
	defer f.Close()

	var (
		records []model.Record
		skipped int
		lineNo  int
	)
	scanner := newLineScanner(f)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		rec, ok := p.TryParseLine(line, lineNo)
		if !ok {
			if strings.TrimSpace(line) != "" {
				skipped++
			}
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, skipped, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, skipped, nil
}

// Load detects the file's format and parses it in one step.
func Load(path string) ([]model.Record, int, error) {
	p, err := Detect(path)
	if err != nil {
		return nil, 0, err
	}
	return ParseFile(path, p)
}

func newLineScanner(f *os.File) *bufio.Scanner {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}
