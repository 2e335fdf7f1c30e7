// Package prompts builds the natural-language prompts sent to the completion
// service, one builder per assistance type.
//
// Builders are pure and total: empty optional inputs never fail, they only
// change what is interpolated. Section order is fixed per type. Problem
// descriptions always pass through StripHTML first.
package prompts

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-codementor-backend/internal/domain"
)

const notSpecified = "Not specified"

// RoadmapInput carries the caller-supplied roadmap preferences.
type RoadmapInput struct {
	Goals           []string
	CurrentLevel    string
	TimeCommitment  string
	PreferredTopics []string
}

// CodeReview builds the review prompt for code written against p.
func CodeReview(p domain.Problem, code, language string) string {
	var b strings.Builder
	b.WriteString("Please review the following code solution for the problem \"")
	b.WriteString(p.Title)
	b.WriteString("\":\n\n")

	b.WriteString("Problem Description:\n")
	b.WriteString(StripHTML(p.Description))
	b.WriteString("\n\n")

	b.WriteString("Code (" + language + "):\n")
	writeFence(&b, language, code)
	b.WriteString("\n")

	b.WriteString("Please provide:\n")
	b.WriteString("1. Code quality assessment\n")
	b.WriteString("2. Time and space complexity analysis\n")
	b.WriteString("3. Potential bugs or edge cases\n")
	b.WriteString("4. Suggestions for improvement\n")
	b.WriteString("5. Alternative approaches (if applicable)")
	return b.String()
}

// Roadmap builds the learning-path prompt. stats is read only.
func Roadmap(in RoadmapInput, stats domain.UserStats) string {
	var b strings.Builder
	b.WriteString("Create a personalized learning roadmap for a ")
	b.WriteString(orDefault(in.CurrentLevel))
	b.WriteString(" level programmer.\n\n")

	b.WriteString("Goals: " + joinOrDefault(in.Goals) + "\n")
	b.WriteString("Time Commitment: " + orDefault(in.TimeCommitment) + "\n")
	b.WriteString("Preferred Topics: " + joinOrDefault(in.PreferredTopics) + "\n")
	b.WriteString("Current Stats: " + strconv.Itoa(stats.SolvedCount) + " problems solved, rating: " +
		strconv.FormatFloat(stats.Rating, 'f', -1, 64) + "\n\n")

	b.WriteString("Please provide:\n")
	b.WriteString("1. A structured learning path with phases\n")
	b.WriteString("2. Specific topics to focus on in each phase\n")
	b.WriteString("3. Recommended practice problem progression\n")
	b.WriteString("4. Estimated timeline\n")
	b.WriteString("5. Resources and study tips")
	return b.String()
}

// Hint builds a hint prompt. The current-code section is omitted when
// currentCode is blank.
func Hint(p domain.Problem, currentCode, language string) string {
	var b strings.Builder
	b.WriteString("Provide a helpful hint for the following problem without giving away the complete solution:\n\n")

	b.WriteString("Problem: " + p.Title + "\n")
	b.WriteString("Description: " + StripHTML(p.Description) + "\n")
	b.WriteString("Difficulty: " + p.Difficulty + "\n\n")

	if strings.TrimSpace(currentCode) != "" {
		if language != "" {
			b.WriteString("Current Code (" + language + "):\n")
		} else {
			b.WriteString("Current Code:\n")
		}
		writeFence(&b, language, currentCode)
		b.WriteString("\n")
	}

	b.WriteString("Please provide:\n")
	b.WriteString("1. A conceptual hint about the approach\n")
	b.WriteString("2. Key insights to consider\n")
	b.WriteString("3. Next steps to take\n")
	b.WriteString("4. Common pitfalls to avoid\n\n")
	b.WriteString("Do not reveal the full solution.")
	return b.String()
}

// Debug builds a debugging prompt. A nil problem omits the problem section.
func Debug(p *domain.Problem, code, language, errText string) string {
	var b strings.Builder
	b.WriteString("Help debug the following " + language + " code:\n\n")

	if p != nil {
		b.WriteString("Problem: " + p.Title + "\n")
		b.WriteString("Description: " + StripHTML(p.Description) + "\n\n")
	}

	b.WriteString("Code:\n")
	writeFence(&b, language, code)
	b.WriteString("\n")

	b.WriteString("Error:\n")
	b.WriteString(errText)
	b.WriteString("\n\n")

	b.WriteString("Please provide:\n")
	b.WriteString("1. Explanation of what's causing the error\n")
	b.WriteString("2. Step-by-step debugging approach\n")
	b.WriteString("3. Specific fixes to apply\n")
	b.WriteString("4. Tips to prevent similar errors")
	return b.String()
}

// --- query labels (stored as Interaction.Query) ---

// MaxQueryRunes bounds a query label to the width of the interactions.query
// column. Labels interpolate caller input, so longer ones are cut.
const MaxQueryRunes = 255

// CodeReviewQuery labels a code review request.
func CodeReviewQuery(title string) string { return clip("Code review for: " + title) }

// RoadmapQuery labels a roadmap request.
func RoadmapQuery(level string) string {
	if strings.TrimSpace(level) == "" {
		return "Learning roadmap"
	}
	return clip("Learning roadmap for " + cases.Title(language.English).String(level) + " level")
}

// HintQuery labels a hint request.
func HintQuery(title string) string { return clip("Hint for: " + title) }

// DebugQuery labels a debugging request.
func DebugQuery(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return "Debug help"
	}
	return clip("Debug help for " + lang + " code")
}

// clip truncates s to MaxQueryRunes runes.
func clip(s string) string {
	if utf8.RuneCountInString(s) <= MaxQueryRunes {
		return s
	}
	r := []rune(s)
	return string(r[:MaxQueryRunes])
}

func writeFence(b *strings.Builder, lang, code string) {
	b.WriteString("```" + lang + "\n")
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("```\n")
}

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

func joinOrDefault(xs []string) string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return notSpecified
	}
	return strings.Join(out, ", ")
}
