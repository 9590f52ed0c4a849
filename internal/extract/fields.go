// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// agePatterns are tried in priority order; the first one that matches
// decides the outcome.
var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)[\s-]year[\s-]old`),
	regexp.MustCompile(`(?i)aged?\s+(\d+)`),
	regexp.MustCompile(`(?i)(\d+)[\s-]y/?o\b`),
	regexp.MustCompile(`(?i)age[:\s]+(\d+)`),
	regexp.MustCompile(`(?i)\b(\d+)\s*years?\s+of\s+age`),
}

// FindAge extracts the patient age from presentation text. Only ages in
// the open interval (0, 120) are accepted; anything else yields the empty
// string.
func FindAge(text string) string {
	for _, pat := range agePatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 && n < 120 {
			return strconv.Itoa(n)
		}
		return ""
	}
	return ""
}

// Gendered token sets counted against each other. The surrounding spaces
// keep " he " from matching inside words like "the".
var (
	maleTokens   = []string{"male patient", " man ", " boy ", " he ", " his "}
	femaleTokens = []string{"female patient", " woman ", " girl ", " she ", " her "}
)

// FindGender assigns "Male" or "Female" by a case-insensitive majority
// count of gendered tokens in the presentation text. A tie, or no token at
// all, yields the empty string. This is a majority heuristic, not proof of
// stated sex.
func FindGender(text string) string {
	lower := strings.ToLower(text)

	male := 0
	for _, tok := range maleTokens {
		male += strings.Count(lower, tok)
	}
	female := 0
	for _, tok := range femaleTokens {
		female += strings.Count(lower, tok)
	}

	switch {
	case male > female && male > 0:
		return "Male"
	case female > male && female > 0:
		return "Female"
	default:
		return ""
	}
}
