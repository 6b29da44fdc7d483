package parser

import (
	"regexp"
	"strconv"
	"time"

	"github.com/zuhairmahd/AutopilotLogViewer/internal/model"
)

// Parser recognizes and decodes one textual log encoding into Records.
// TryParseLine never panics or errors on malformed input; it just reports
// failure so the caller can skip the line.
type Parser interface {
	Name() string
	CanParse(sample []string) bool
	TryParseLine(line string, lineNumber int) (model.Record, bool)
}

// ---------------------------------------------------------------------------
// Standard parser
// ---------------------------------------------------------------------------

// StandardParser handles the bracketed layout:
// 2026-02-17 12:00:00.000 [Level] [Module] [Thread:N] [Context:C] Message
type StandardParser struct {
	re *regexp.Regexp
}

func NewStandardParser() *StandardParser {
	return &StandardParser{
		re: regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}) \[([^\]]+)\] \[([^\]]*)\] \[Thread:(\d+)\] \[Context:([^\]]*)\] (.*)$`),
	}
}

func (p *StandardParser) Name() string { return "Standard" }

func (p *StandardParser) CanParse(sample []string) bool {
	return anyMatch(p.re, sample)
}

func (p *StandardParser) TryParseLine(line string, lineNumber int) (model.Record, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return model.Record{}, false
	}

	ts, err := time.ParseInLocation("2006-01-02 15:04:05.000", m[1], time.Local)
	if err != nil {
		return model.Record{}, false
	}
	tid, _ := strconv.Atoi(m[4])

	return model.Record{
		Timestamp:  ts,
		Level:      m[2],
		Module:     m[3],
		ThreadID:   tid,
		Context:    m[5],
		Message:    m[6],
		RawLine:    line,
		LineNumber: lineNumber,
	}, true
}

// ---------------------------------------------------------------------------
// CMTrace parser
// ---------------------------------------------------------------------------

// CMTraceParser handles the XML-tag layout:
// <![LOG[Message]LOG]!><time="HH:mm:ss.fff..." date="MM-DD-YYYY" component="..." context="..." type="N" thread="Tid" file="...">
type CMTraceParser struct {
	re *regexp.Regexp
}

func NewCMTraceParser() *CMTraceParser {
	return &CMTraceParser{
		re: regexp.MustCompile(`^<!\[LOG\[(.*?)\]LOG\]!><time="(\d{2}:\d{2}:\d{2}\.\d{3})[^"]*" date="(\d{2}-\d{2}-\d{4})" component="([^"]*)" context="([^"]*)" type="(\d+)" thread="(\d+)"[^>]*>$`),
	}
}

func (p *CMTraceParser) Name() string { return "CMTrace" }

func (p *CMTraceParser) CanParse(sample []string) bool {
	return anyMatch(p.re, sample)
}

func (p *CMTraceParser) TryParseLine(line string, lineNumber int) (model.Record, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return model.Record{}, false
	}

	// Timestamp is split across the date and time attributes.
	ts, err := time.ParseInLocation("01-02-2006 15:04:05.000", m[3]+" "+m[2], time.Local)
	if err != nil {
		return model.Record{}, false
	}
	typ, _ := strconv.Atoi(m[6])
	tid, _ := strconv.Atoi(m[7])

	return model.Record{
		Timestamp:  ts,
		Level:      cmtraceLevel(typ),
		Module:     m[4],
		ThreadID:   tid,
		Context:    m[5],
		Message:    m[1],
		RawLine:    line,
		LineNumber: lineNumber,
	}, true
}

// cmtraceLevel maps the CMTrace type attribute to a severity tag.
func cmtraceLevel(typ int) string {
	switch typ {
	case 1:
		return "Information"
	case 2:
		return "Warning"
	case 3:
		return "Error"
	default:
		return "Verbose"
	}
}

// anyMatch reports whether any sample line matches the pattern.
func anyMatch(re *regexp.Regexp, sample []string) bool {
	for _, line := range sample {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
