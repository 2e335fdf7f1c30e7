// Package extract pulls small structured fields out of free-form completion
// text with line-oriented keyword and regex heuristics.
//
// Every function is pure and total. No match yields an empty (non-nil)
// slice, an empty Complexity, or the Duration fallback; never an error.
// Lines are taken top to bottom and truncated to a fixed cap.
package extract

import (
	"regexp"
	"strings"
)

// Caps on the number of collected lines.
const (
	MaxSuggestions = 5
	MaxPhases      = 10
	MaxApproaches  = 3
	MaxFixes       = 5
)

// DefaultDuration is returned when no numeric duration phrase is present.
const DefaultDuration = "Variable"

var (
	timeComplexity  = regexp.MustCompile(`(?i)time.*?O\(.*?\)`)
	spaceComplexity = regexp.MustCompile(`(?i)space.*?O\(.*?\)`)
	numberedLine    = regexp.MustCompile(`^\d+\.`)
	durationPhrase  = regexp.MustCompile(`(?i)\d+\s*(weeks?|months?|days?)`)
)

// Complexity holds the first time/space complexity phrases found.
type Complexity struct {
	Time  string `json:"time,omitempty"`
	Space string `json:"space,omitempty"`
}

// Empty reports whether neither phrase was found.
func (c Complexity) Empty() bool { return c.Time == "" && c.Space == "" }

// Suggestions collects trimmed lines mentioning suggestion, improve or
// consider (case-insensitive), at most MaxSuggestions.
func Suggestions(text string) []string {
	return collect(text, MaxSuggestions, true, containsFold("suggestion", "improve", "consider"))
}

// ComplexityOf matches "time ... O(...)" and "space ... O(...)" only when the
// text contains the literal "O(".
func ComplexityOf(text string) Complexity {
	var c Complexity
	if !strings.Contains(text, "O(") {
		return c
	}
	c.Time = timeComplexity.FindString(text)
	c.Space = spaceComplexity.FindString(text)
	return c
}

// Phases collects lines that start with "<digits>." or contain "Phase" or
// "Week" (case-sensitive), at most MaxPhases.
func Phases(text string) []string {
	return collect(text, MaxPhases, false, func(line string) bool {
		return numberedLine.MatchString(line) ||
			strings.Contains(line, "Phase") ||
			strings.Contains(line, "Week")
	})
}

// Duration returns the first "<n> week(s)|month(s)|day(s)" phrase, or
// DefaultDuration.
func Duration(text string) string {
	if m := durationPhrase.FindString(text); m != "" {
		return m
	}
	return DefaultDuration
}

// Approaches collects lines mentioning approach, strategy or method
// (case-insensitive), at most MaxApproaches.
func Approaches(text string) []string {
	return collect(text, MaxApproaches, false, containsFold("approach", "strategy", "method"))
}

// Fixes collects lines mentioning fix, change or replace (case-insensitive),
// at most MaxFixes.
func Fixes(text string) []string {
	return collect(text, MaxFixes, false, containsFold("fix", "change", "replace"))
}

func collect(text string, max int, trim bool, match func(string) bool) []string {
	out := make([]string, 0, max)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !match(line) {
			continue
		}
		if trim {
			line = strings.TrimSpace(line)
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}

// containsFold matches lines containing any of the lower-case keywords,
// ignoring case.
func containsFold(keywords ...string) func(string) bool {
	return func(line string) bool {
		l := strings.ToLower(line)
		for _, k := range keywords {
			if strings.Contains(l, k) {
				return true
			}
		}
		return false
	}
}
