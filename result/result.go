// Package result defines the findings produced by the checker.
package result

import "fmt"

// Severity is how bad a finding is.
type Severity uint8

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity parses "warning" or "error".
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	}
	return Warning, fmt.Errorf("unknown severity %q", s)
}

// Result is one finding about one string of one resource.
type Result struct {
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	// Source is the source string of the pair.
	Source string `json:"source"`
	// Highlight is the offending string with <eN> markers around the problem.
	Highlight  string `json:"highlight"`
	ID         string `json:"id"`
	PathName   string `json:"pathName"`
	Key        string `json:"key,omitempty"`
	Locale     string `json:"locale,omitempty"`
	LineNumber int    `json:"lineNumber,omitempty"`
}

// Stats counts errors and warnings.
func Stats(results []Result) (errors, warnings int) {
	for _, r := range results {
		if r.Severity == Error {
			errors++
		} else {
			warnings++
		}
	}
	return
}
