package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
)

// ParsedQuestion is the intermediate question record built while scanning
// one section's paragraph slice. It is converted to the public model once
// the whole section is parsed.
type ParsedQuestion struct {
	Section       int // 1, 2, 3
	Number        int // in-section number, as printed in the document
	Type          exam.QuestionType
	Text          string
	Options       []exam.QuestionOption
	CorrectAnswer string
	Solution      string
	Images        []exam.ImageRecord
}

var (
	questionRe = regexp.MustCompile(`(?i)^C[âaÂA][uU]\s*(\d+)\s*[.:]\s*(.*)`)
	solutionRe = regexp.MustCompile(`(?i)^L[ờơ]i\s*gi[ảa]i`)
	figureRe   = regexp.MustCompile(`(?i)^H[ìi]nh\s*\d+`)
	headerRe   = regexp.MustCompile(`(?i)PHẦN\s*\d`)

	mcOptionRe     = regexp.MustCompile(`(?i)^([A-D])[.\)]\s*(.*)`)
	mcChooseRe     = regexp.MustCompile(`(?i)Ch[oọ]n\s*([A-D])`)
	tfStatementRe  = regexp.MustCompile(`(?i)^([a-d])\)\s*(.*)`)
	saAnswerRe     = regexp.MustCompile(`(?i)^[*\s]*[ĐD][áa]p\s*[áa]n[:\s]*(.+)`)
	singleLetterRe = regexp.MustCompile(`(?i)^[A-D]$`)
	mcSkipRe       = regexp.MustCompile(`(?i)Trắc\s*nghiệm`)
)

// variant is the per-section configuration of the shared state machine.
// The three section parsers differ only in these knobs.
type variant struct {
	section  int
	qtype    exam.QuestionType
	optionRe *regexp.Regexp // lettered option / statement lines
	skipRe   *regexp.Regexp // extra header lines to ignore, beyond PHẦN n

	// choose matches an explicit "Chọn X" statement; highest-priority
	// answer signal, last occurrence wins (multiple choice only).
	chooseRe *regexp.Regexp
	// answerRe matches an explicit "Đáp án: ..." line (short answer only).
	answerRe *regexp.Regexp
	// underlineFallback enables reading underlined option letters as the
	// answer when no explicit statement was seen (multiple choice only).
	underlineFallback bool
}

var (
	multipleChoiceVariant = variant{
		section:           1,
		qtype:             exam.TypeMultipleChoice,
		optionRe:          mcOptionRe,
		skipRe:            mcSkipRe,
		chooseRe:          mcChooseRe,
		underlineFallback: true,
	}
	trueFalseVariant = variant{
		section:  2,
		qtype:    exam.TypeTrueFalse,
		optionRe: tfStatementRe,
	}
	shortAnswerVariant = variant{
		section:  3,
		qtype:    exam.TypeShortAnswer,
		answerRe: saAnswerRe,
	}
)

// Extracted holds each section's questions, sorted by in-section number.
type Extracted struct {
	MultipleChoice []ParsedQuestion
	TrueFalse      []ParsedQuestion
	ShortAnswer    []ParsedQuestion
}

// ExtractQuestions detects section boundaries and runs the state machine
// once per section over its paragraph slice.
func ExtractQuestions(paragraphs []Paragraph, images []exam.ImageRecord) Extracted {
	b := DetectSections(paragraphs)
	return Extracted{
		MultipleChoice: parseSection(paragraphs, b.Part1, b.Part2, multipleChoiceVariant, images),
		TrueFalse:      parseSection(paragraphs, b.Part2, b.Part3, trueFalseVariant, images),
		ShortAnswer:    parseSection(paragraphs, b.Part3, len(paragraphs), shortAnswerVariant, images),
	}
}

// parseSection is the shared finite-state walk: idle until the first
// question marker, then collecting-body, with a Lời giải block switching
// (per question) into in-solution until the next marker.
func parseSection(paragraphs []Paragraph, start, end int, v variant, images []exam.ImageRecord) []ParsedQuestion {
	if start < 0 || start >= len(paragraphs) || end <= start {
		return nil
	}
	if end > len(paragraphs) {
		end = len(paragraphs)
	}

	var (
		questions  []ParsedQuestion
		cur        *ParsedQuestion
		body       []string
		inSolution bool
		// one ordered list of candidate underline signals per question;
		// explicit statements always beat it
		underlineCandidates []string
	)

	finalize := func() {
		if cur == nil {
			return
		}
		if len(body) > 0 && cur.Text == "" {
			cur.Text = strings.TrimSpace(strings.Join(body, " "))
		}
		if v.underlineFallback && cur.CorrectAnswer == "" {
			for _, seg := range underlineCandidates {
				if singleLetterRe.MatchString(seg) {
					cur.CorrectAnswer = strings.ToUpper(seg)
					break
				}
			}
		}
		if cur.Text != "" {
			questions = append(questions, *cur)
		}
	}

	for i := start; i < end; i++ {
		para := paragraphs[i]
		text := para.Text
		if text == "" && len(para.ImageRelIDs) == 0 {
			continue
		}
		if headerRe.MatchString(text) || (v.skipRe != nil && v.skipRe.MatchString(text)) {
			continue
		}

		if m := questionRe.FindStringSubmatch(text); m != nil {
			finalize()
			num, _ := strconv.Atoi(m[1])
			cur = &ParsedQuestion{
				Section: v.section,
				Number:  num,
				Type:    v.qtype,
			}
			body = nil
			inSolution = false
			underlineCandidates = nil
			if rest := strings.TrimSpace(m[2]); rest != "" {
				body = append(body, rest)
			}
			if para.HasUnderline {
				underlineCandidates = append(underlineCandidates, para.UnderlinedSegments...)
			}
			attachImages(cur, para.ImageRelIDs, images)
			continue
		}
		if cur == nil {
			continue
		}

		if solutionRe.MatchString(text) {
			if len(body) > 0 && cur.Text == "" {
				cur.Text = strings.TrimSpace(strings.Join(body, " "))
				body = nil
			}
			inSolution = true
			continue
		}

		// "Chọn X" may appear inside the solution block; it is scanned
		// regardless of state and the last occurrence wins
		if v.chooseRe != nil {
			if m := v.chooseRe.FindStringSubmatch(text); m != nil {
				cur.CorrectAnswer = strings.ToUpper(m[1])
				continue
			}
		}
		if v.answerRe != nil {
			if m := v.answerRe.FindStringSubmatch(text); m != nil {
				cur.CorrectAnswer = strings.TrimSpace(m[1])
				continue
			}
		}

		if v.optionRe != nil && !inSolution {
			if m := v.optionRe.FindStringSubmatch(text); m != nil {
				if len(cur.Options) == 0 && len(body) > 0 {
					cur.Text = strings.TrimSpace(strings.Join(body, " "))
					body = nil
				}
				letter := m[1]
				if v.qtype == exam.TypeMultipleChoice {
					letter = strings.ToUpper(letter)
				} else {
					letter = strings.ToLower(letter)
				}
				cur.Options = append(cur.Options, exam.QuestionOption{
					Letter: letter,
					Text:   strings.TrimSpace(m[2]),
				})
				if para.HasUnderline && optionUnderlined(para.UnderlinedSegments, letter) {
					underlineCandidates = append(underlineCandidates, letter)
				}
				attachImages(cur, para.ImageRelIDs, images)
				continue
			}
		}

		if !inSolution && text != "" {
			if figureRe.MatchString(text) {
				// figure captions carry images, not body text
				attachImages(cur, para.ImageRelIDs, images)
				continue
			}
			body = append(body, text)
			if para.HasUnderline {
				underlineCandidates = append(underlineCandidates, para.UnderlinedSegments...)
			}
		}
		if !inSolution {
			attachImages(cur, para.ImageRelIDs, images)
		}
	}
	finalize()

	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Number < questions[j].Number
	})
	return questions
}

// optionUnderlined reports whether an underlined segment on an option line
// marks the option's letter itself.
func optionUnderlined(segments []string, letter string) bool {
	for _, seg := range segments {
		if strings.EqualFold(seg, letter) || strings.Contains(seg, letter) {
			return true
		}
	}
	return false
}

// attachImages resolves relationship IDs against the extracted image set,
// first by exact rId, then by filename substring, deduplicating by image ID.
func attachImages(q *ParsedQuestion, relIDs []string, images []exam.ImageRecord) {
	if len(relIDs) == 0 {
		return
	}
	for _, rid := range relIDs {
		var found *exam.ImageRecord
		for i := range images {
			if images[i].RelID == rid {
				found = &images[i]
				break
			}
		}
		if found == nil {
			for i := range images {
				if images[i].Filename != "" && strings.Contains(rid, images[i].Filename) {
					found = &images[i]
					break
				}
			}
		}
		if found == nil {
			continue
		}
		dup := false
		for _, img := range q.Images {
			if img.ID == found.ID {
				dup = true
				break
			}
		}
		if !dup {
			q.Images = append(q.Images, *found)
		}
	}
}
