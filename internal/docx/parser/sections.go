package parser

import "regexp"

// Header patterns for the three recognized exam sections. Exam authors are
// inconsistent with numbering style (PHẦN 1 vs PHẦN I) and sometimes skip
// the PHẦN prefix entirely, so each section carries an ordered pattern list.
var (
	part1Patterns = compileAll(
		`PHẦN\s*1`,
		`PH[ẦAÀ]N\s*1`,
		`PHẦN\s+I[.\s]`,
		`Phần\s*1`,
		`I\.\s*TR[ẮAĂ]C\s*NGHI[ỆEÊ]M`,
	)
	part2Patterns = compileAll(
		`PHẦN\s*2`,
		`PH[ẦAÀ]N\s*2`,
		`PHẦN\s+II[.\s]`,
		`Phần\s*2`,
		`II\.\s*[ĐD][ÚU]NG\s*SAI`,
		`ĐÚNG\s*SAI`,
	)
	part3Patterns = compileAll(
		`PHẦN\s*3`,
		`PH[ẦAÀ]N\s*3`,
		`PHẦN\s+III[.\s]`,
		`Phần\s*3`,
		`III\.\s*TR[ẢAẢ]\s*L[ỜOỞ]I`,
		`TRẢ\s*LỜI\s*NG[ẮAĂ]N`,
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// SectionBounds holds the paragraph start index of each section. The three
// half-open ranges are [Part1, Part2), [Part2, Part3), [Part3, len).
type SectionBounds struct {
	Part1 int
	Part2 int
	Part3 int
}

// DetectSections scans paragraphs in order for the first match of each
// section's header patterns. Section 2 is only looked for after section 1's
// start, section 3 after both. A section whose header never appears
// defaults to index 0 (section 1) or past-the-end (sections 2 and 3),
// meaning it contributes no questions.
func DetectSections(paragraphs []Paragraph) SectionBounds {
	p1, p2, p3 := -1, -1, -1

	for i, para := range paragraphs {
		switch {
		case p1 == -1 && matchesAny(part1Patterns, para.Text):
			p1 = i
		case p2 == -1 && i > p1 && matchesAny(part2Patterns, para.Text):
			p2 = i
		case p3 == -1 && i > p1 && i > p2 && matchesAny(part3Patterns, para.Text):
			p3 = i
		}
	}

	if p1 == -1 {
		p1 = 0
	}
	if p2 == -1 {
		p2 = len(paragraphs)
	}
	if p3 == -1 {
		p3 = len(paragraphs)
	}
	return SectionBounds{Part1: p1, Part2: p2, Part3: p3}
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	if text == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
