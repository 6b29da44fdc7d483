package logger

import (
	"fmt"
	"strings"
)

// Encoding selects the on-disk line format.
type Encoding int

const (
	// Standard is the human-readable bracketed layout.
	Standard Encoding = iota
	// CMTrace is the XML-tag layout understood by CMTrace-style viewers.
	CMTrace
)

// ParseEncoding maps a configuration string to an Encoding.
// Unrecognized values fall back to Standard.
func ParseEncoding(s string) Encoding {
	if strings.EqualFold(strings.TrimSpace(s), "cmtrace") {
		return CMTrace
	}
	return Standard
}

func (e Encoding) String() string {
	if e == CMTrace {
		return "CMTrace"
	}
	return "Standard"
}

// Conventional severity tags. The set is open: unrecognized tags are carried
// verbatim and rank as Information.
const (
	LevelError       = "Error"
	LevelWarning     = "Warning"
	LevelInformation = "Information"
	LevelVerbose     = "Verbose"
	LevelDebug       = "Debug"
)

// severityRank orders levels from most severe (lowest) to most verbose.
func severityRank(level string) int {
	switch level {
	case LevelError:
		return 1
	case LevelWarning:
		return 2
	case LevelInformation:
		return 3
	case LevelVerbose:
		return 4
	case LevelDebug:
		return 5
	default:
		return 3
	}
}

// cmtraceType maps a severity tag to the CMTrace integer type.
func cmtraceType(level string) int {
	switch level {
	case LevelError:
		return 3
	case LevelWarning:
		return 2
	default:
		return 1
	}
}

// formatLine renders one request as a single line, without trailing newline.
func formatLine(e Encoding, req request) string {
	if e == CMTrace {
		return fmt.Sprintf(`<![LOG[%s]LOG]!><time="%s+000" date="%s" component="%s" context="" type="%d" thread="%d" file="">`,
			req.message,
			req.timestamp.Format("15:04:05.000"),
			req.timestamp.Format("01-02-2006"),
			req.module,
			cmtraceType(req.level),
			req.threadID,
		)
	}
	return fmt.Sprintf("%s [%s] [%s] [Thread:%d] [Context:%s] %s",
		req.timestamp.Format("2006-01-02 15:04:05.000"),
		req.level,
		req.module,
		req.threadID,
		req.context,
		req.message,
	)
}
