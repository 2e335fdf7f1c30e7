package extract

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func lines(prefix string, n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%s %d\n", prefix, i)
	}
	return b.String()
}

func TestSuggestions_KeywordsTrimAndCap(t *testing.T) {
	text := "Intro line\n" +
		"  Suggestion: rename vars  \r\n" +
		"You could IMPROVE the loop\n" +
		"nothing here\n" +
		"Consider a hash map\n"
	want := []string{"Suggestion: rename vars", "You could IMPROVE the loop", "Consider a hash map"}
	if got := Suggestions(text); !reflect.DeepEqual(got, want) {
		t.Fatalf("Suggestions = %#v; want %#v", got, want)
	}

	got := Suggestions(lines("consider option", 9))
	if len(got) != MaxSuggestions || got[0] != "consider option 1" || got[4] != "consider option 5" {
		t.Fatalf("cap/order broken: %#v", got)
	}
}

func TestComplexityOf(t *testing.T) {
	got := ComplexityOf("Analysis:\nTime complexity: O(n log n), Space complexity: O(n)\n")
	if got.Time != "Time complexity: O(n log n)" {
		t.Fatalf("Time = %q", got.Time)
	}
	if got.Space != "Space complexity: O(n)" {
		t.Fatalf("Space = %q", got.Space)
	}

	onlyTime := ComplexityOf("runs in TIME O(1)")
	if onlyTime.Time != "TIME O(1)" || onlyTime.Space != "" {
		t.Fatalf("onlyTime = %+v", onlyTime)
	}

	// "O(" gate: descriptive text without the literal yields an empty result.
	none := ComplexityOf("Time complexity is linear and space is constant")
	if !none.Empty() {
		t.Fatalf("expected empty complexity, got %+v", none)
	}
	b, _ := json.Marshal(none)
	if string(b) != "{}" {
		t.Fatalf("empty complexity marshals to %s; want {}", b)
	}
}

func TestPhases_NumberedPhaseWeekCaseSensitiveAndCap(t *testing.T) {
	text := "Roadmap\n" +
		"1. Basics\n" +
		"  2. indented numbered is not a match\n" +
		"Phase 2: Graphs\n" +
		"phase lowercase is ignored\n" +
		"Week 5 review\n" +
		"weekly lowercase is ignored\n"
	want := []string{"1. Basics", "Phase 2: Graphs", "Week 5 review"}
	if got := Phases(text); !reflect.DeepEqual(got, want) {
		t.Fatalf("Phases = %#v; want %#v", got, want)
	}

	if got := Phases(lines("Week", 15)); len(got) != MaxPhases || got[9] != "Week 10" {
		t.Fatalf("cap broken: %#v", got)
	}
}

func TestDuration(t *testing.T) {
	if got := Duration("You can complete in about 6 weeks if consistent, or 3 months."); got != "6 weeks" {
		t.Fatalf("Duration = %q; want %q", got, "6 weeks")
	}
	if got := Duration("Roughly 1 Month of work"); got != "1 Month" {
		t.Fatalf("Duration = %q", got)
	}
	if got := Duration("30days sprint"); got != "30days" {
		t.Fatalf("Duration = %q", got)
	}
	if got := Duration("take your time"); got != DefaultDuration {
		t.Fatalf("Duration = %q; want %q", got, DefaultDuration)
	}
}

func TestApproaches_Cap(t *testing.T) {
	text := "Try a two-pointer approach\n" +
		"Greedy STRATEGY works\n" +
		"plain\n" +
		"Method: binary search\n" +
		"Another approach: DP\n"
	want := []string{"Try a two-pointer approach", "Greedy STRATEGY works", "Method: binary search"}
	if got := Approaches(text); !reflect.DeepEqual(got, want) {
		t.Fatalf("Approaches = %#v; want %#v", got, want)
	}
}

func TestFixes_VerbatimAndCap(t *testing.T) {
	text := "  Fix the off-by-one  \nChange i <= n to i < n\nReplace map with slice\nok\n"
	want := []string{"  Fix the off-by-one  ", "Change i <= n to i < n", "Replace map with slice"}
	if got := Fixes(text); !reflect.DeepEqual(got, want) {
		t.Fatalf("Fixes = %#v; want %#v", got, want)
	}
	if got := Fixes(lines("fix", 8)); len(got) != MaxFixes {
		t.Fatalf("cap broken: %d", len(got))
	}
}

func TestEmptyInput_NonNilAndDeterministic(t *testing.T) {
	for name, got := range map[string][]string{
		"suggestions": Suggestions(""),
		"phases":      Phases(""),
		"approaches":  Approaches(""),
		"fixes":       Fixes(""),
	} {
		if got == nil || len(got) != 0 {
			t.Fatalf("%s: want empty non-nil slice, got %#v", name, got)
		}
		b, _ := json.Marshal(got)
		if string(b) != "[]" {
			t.Fatalf("%s marshals to %s", name, b)
		}
	}
	if Duration("") != DefaultDuration || !ComplexityOf("").Empty() {
		t.Fatalf("empty input fallbacks broken")
	}

	text := "Phase 1\nconsider x\nfix y\n"
	if !reflect.DeepEqual(Phases(text), Phases(text)) || !reflect.DeepEqual(Fixes(text), Fixes(text)) {
		t.Fatalf("extractors must be deterministic")
	}
}
