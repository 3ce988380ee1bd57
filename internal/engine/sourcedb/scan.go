package sourcedb

import (
	"strings"

	"go.trai.ch/shade/internal/core/domain"
)

// ParseInclude reports whether line is an include directive and returns the quoted path.
// Leading whitespace is allowed; the path may be wrapped in double or single quotes.
// Anything after the closing quote is ignored.
func ParseInclude(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimLeft(line, " \t"), domain.IncludeDirective)
	if !ok {
		return "", false
	}
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return "", false
	}

	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}
	end := strings.IndexByte(rest[1:], quote)
	if end <= 0 {
		return "", false
	}
	return rest[1 : end+1], true
}

// ScanBindings returns the names declared by lines starting with "uniform ",
// in first-seen order. The name is the third whitespace-separated token with a
// trailing semicolon removed. Lines with fewer than three tokens are skipped.
func ScanBindings(text string) []string {
	var names []string
	for _, line := range domain.SplitLines(text) {
		if !strings.HasPrefix(line, domain.UniformPrefix) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		names = append(names, strings.TrimSuffix(fields[2], ";"))
	}
	return names
}
