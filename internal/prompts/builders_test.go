package prompts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tbourn/go-codementor-backend/internal/domain"
)

// assertSections checks each section occurs exactly once and in order.
func assertSections(t *testing.T, prompt string, sections ...string) {
	t.Helper()
	last := -1
	for _, s := range sections {
		if n := strings.Count(prompt, s); n != 1 {
			t.Fatalf("section %q occurs %d times; want 1\n---\n%s", s, n, prompt)
		}
		i := strings.Index(prompt, s)
		if i <= last {
			t.Fatalf("section %q out of order\n---\n%s", s, prompt)
		}
		last = i
	}
}

var twoSum = domain.Problem{
	ID:          "p1",
	Title:       "Two Sum",
	Description: "<p>Given an array <b>nums</b> &amp; a target</p>",
	Difficulty:  "easy",
}

func TestCodeReview_SectionsAndStrippedHTML(t *testing.T) {
	got := CodeReview(twoSum, "func twoSum() {}", "go")

	assertSections(t, got,
		`for the problem "Two Sum"`,
		"Problem Description:\nGiven an array nums & a target",
		"Code (go):\n```go\nfunc twoSum() {}\n```",
		"Please provide:",
		"1. Code quality assessment",
		"2. Time and space complexity analysis",
		"3. Potential bugs or edge cases",
		"4. Suggestions for improvement",
		"5. Alternative approaches",
	)
	if strings.Contains(got, "<p>") || strings.Contains(got, "&amp;") {
		t.Fatalf("markup leaked into prompt:\n%s", got)
	}
}

func TestRoadmap_SectionsAndStats(t *testing.T) {
	got := Roadmap(RoadmapInput{
		Goals:           []string{"FAANG interview", " ", "DP mastery"},
		CurrentLevel:    "intermediate",
		TimeCommitment:  "10 hours/week",
		PreferredTopics: []string{"graphs"},
	}, domain.UserStats{SolvedCount: 42, Rating: 1650})

	assertSections(t, got,
		"intermediate level programmer",
		"Goals: FAANG interview, DP mastery",
		"Time Commitment: 10 hours/week",
		"Preferred Topics: graphs",
		"Current Stats: 42 problems solved, rating: 1650",
		"1. A structured learning path with phases",
		"2. Specific topics",
		"3. Recommended practice problem progression",
		"4. Estimated timeline",
		"5. Resources and study tips",
	)
}

func TestRoadmap_EmptyInputsAreTotal(t *testing.T) {
	got := Roadmap(RoadmapInput{}, domain.UserStats{})
	assertSections(t, got,
		"Not specified level programmer",
		"Goals: Not specified",
		"Time Commitment: Not specified",
		"Preferred Topics: Not specified",
		"Current Stats: 0 problems solved, rating: 0",
	)
}

func TestHint_WithAndWithoutCurrentCode(t *testing.T) {
	with := Hint(twoSum, "x := 1", "go")
	assertSections(t, with,
		"Problem: Two Sum",
		"Description: Given an array nums & a target",
		"Difficulty: easy",
		"Current Code (go):\n```go\nx := 1\n```",
		"1. A conceptual hint",
		"2. Key insights",
		"3. Next steps",
		"4. Common pitfalls",
		"Do not reveal the full solution.",
	)

	without := Hint(twoSum, "   ", "")
	if strings.Contains(without, "Current Code") || strings.Contains(without, "```") {
		t.Fatalf("blank current code must omit the section:\n%s", without)
	}
	assertSections(t, without, "Problem: Two Sum", "Difficulty: easy", "Do not reveal the full solution.")
}

func TestDebug_OptionalProblem(t *testing.T) {
	with := Debug(&twoSum, "print(x)", "python", "NameError: x")
	assertSections(t, with,
		"Help debug the following python code",
		"Problem: Two Sum",
		"Description: Given an array nums & a target",
		"Code:\n```python\nprint(x)\n```",
		"Error:\nNameError: x",
		"1. Explanation",
		"2. Step-by-step debugging approach",
		"3. Specific fixes",
		"4. Tips to prevent",
	)

	without := Debug(nil, "print(x)", "python", "NameError: x")
	if strings.Contains(without, "Problem:") || strings.Contains(without, "Description:") {
		t.Fatalf("nil problem must omit the problem section:\n%s", without)
	}
	assertSections(t, without, "Code:", "Error:", "Please provide:")
}

func TestBuilders_Deterministic(t *testing.T) {
	if CodeReview(twoSum, "c", "go") != CodeReview(twoSum, "c", "go") {
		t.Fatalf("CodeReview not deterministic")
	}
}

func TestQueryLabels(t *testing.T) {
	cases := map[string]string{
		CodeReviewQuery("Two Sum"): "Code review for: Two Sum",
		HintQuery("Two Sum"):       "Hint for: Two Sum",
		RoadmapQuery("beginner"):   "Learning roadmap for Beginner level",
		RoadmapQuery(""):           "Learning roadmap",
		DebugQuery("rust"):         "Debug help for rust code",
		DebugQuery(""):             "Debug help",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("label = %q; want %q", got, want)
		}
	}
}

func TestQueryLabels_FitColumn(t *testing.T) {
	long := strings.Repeat("x", 300)
	wide := strings.Repeat("é", 300)
	labels := []string{
		RoadmapQuery(long),
		DebugQuery(strings.Repeat("go", 200)),
		DebugQuery(wide),
		CodeReviewQuery(strings.Repeat("t", 255)),
		HintQuery(wide),
	}
	for _, l := range labels {
		if n := utf8.RuneCountInString(l); n != MaxQueryRunes {
			t.Fatalf("label has %d runes; want %d", n, MaxQueryRunes)
		}
		if !utf8.ValidString(l) {
			t.Fatalf("label cut mid-rune: %q", l)
		}
	}
	if got := RoadmapQuery(long); !strings.HasPrefix(got, "Learning roadmap for X") {
		t.Fatalf("prefix lost: %q", got[:30])
	}
}
