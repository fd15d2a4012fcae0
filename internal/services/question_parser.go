package services

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MaxQuestions      = 20
	minQuestionLength = 10
)

var numberedLinePattern = regexp.MustCompile(`^\s*\d+\.\s*(.*)$`)

// Shuffler permutes n elements through swap. (*rand.Rand).Shuffle satisfies it.
type Shuffler func(n int, swap func(i, j int))

// ParseQuestions turns raw model output into the session's question list:
// numbered lines are extracted, deduplicated, filtered, capped at
// MaxQuestions, and the middle of the list is shuffled.
func ParseQuestions(text string, rng *rand.Rand) []string {
	questions := FilterQuestions(Dedupe(ExtractNumberedLines(text)))
	if len(questions) > MaxQuestions {
		questions = questions[:MaxQuestions]
	}

	var shuffle Shuffler
	if rng != nil {
		shuffle = rng.Shuffle
	}
	return ShuffleMiddle(questions, shuffle)
}

// ExtractNumberedLines returns the trimmed text after "N." on every line that
// starts with a number and a period, in source order.
func ExtractNumberedLines(text string) []string {
	var matches []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		m := numberedLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		matches = append(matches, strings.TrimSpace(m[1]))
	}
	return matches
}

// Dedupe removes exact duplicates, keeping the first occurrence.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// FilterQuestions keeps entries longer than ten characters that are not a
// bare number.
func FilterQuestions(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if utf8.RuneCountInString(trimmed) <= minQuestionLength {
			continue
		}
		if isNumeric(trimmed) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ShuffleMiddle keeps the first element and the last two in place and
// permutes everything between them. Lists of three or fewer, or a nil
// shuffler, are returned in their original order.
func ShuffleMiddle(items []string, shuffle Shuffler) []string {
	out := make([]string, len(items))
	copy(out, items)
	if len(out) <= 3 || shuffle == nil {
		return out
	}

	middle := out[1 : len(out)-2]
	shuffle(len(middle), func(i, j int) {
		middle[i], middle[j] = middle[j], middle[i]
	})
	return out
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
