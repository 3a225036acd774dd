package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	displayMathRe = regexp.MustCompile(`\\\[([\s\S]*?)\\\]`)
	inlineMathRe  = regexp.MustCompile(`\\\(([\s\S]*?)\\\)`)
	manyDollarsRe = regexp.MustCompile(`\${3,}`)
	spacesRe      = regexp.MustCompile(`\s+`)

	// Pandoc-style underline markup occasionally survives conversion:
	// [B]{.underline} means the letter B was underlined in the source.
	mdUnderlineRe = regexp.MustCompile(`\[([A-Da-d])\]\{\.underline\}`)
)

// normalizeText canonicalizes one paragraph's concatenated run text:
// Unicode NFC (Vietnamese diacritics arrive in both composed and decomposed
// form), LaTeX bracket delimiters rewritten to dollar delimiters, runs of
// dollars and whitespace collapsed.
func normalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(strings.TrimSpace(s))
	s = displayMathRe.ReplaceAllString(s, `$$$$${1}$$$$`)
	s = inlineMathRe.ReplaceAllString(s, `$$${1}$$`)
	s = manyDollarsRe.ReplaceAllLiteralString(s, "$$")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// extractMarkdownUnderlines pulls [X]{.underline} letters out of normalized
// text, returning the cleaned text (markup replaced by the bare letter) and
// the underlined letters found.
func extractMarkdownUnderlines(s string) (string, []string) {
	var letters []string
	for _, m := range mdUnderlineRe.FindAllStringSubmatch(s, -1) {
		letters = append(letters, m[1])
	}
	if letters == nil {
		return s, nil
	}
	return mdUnderlineRe.ReplaceAllString(s, "$1"), letters
}
