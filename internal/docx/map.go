// Package docx turns an uploaded word-processing container into the public
// exam model: container → paragraphs → per-section questions → exam.Exam.
package docx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/docx/parser"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
)

// DefaultTimeLimitMin is applied when the document does not state one.
const DefaultTimeLimitMin = 90

// Import parses raw .docx bytes into an Exam. The only fatal condition is
// a container without its main document part; everything else degrades
// into empty fields surfaced later by Validate.
func Import(raw []byte, title string) (exam.Exam, error) {
	c, err := parser.Open(raw)
	if err != nil {
		return exam.Exam{}, err
	}
	paragraphs := parser.Segment(c.DocumentXML)
	extracted := parser.ExtractQuestions(paragraphs, c.Images)

	e := buildExam(extracted)
	e.Title = strings.TrimSuffix(title, ".docx")
	e.Images = c.Images
	return e, nil
}

var sectionMeta = map[int]struct {
	name        string
	description string
	qtype       exam.QuestionType
}{
	1: {"PHẦN 1. Trắc nghiệm nhiều lựa chọn", "Thí sinh chọn một phương án đúng A, B, C hoặc D", exam.TypeMultipleChoice},
	2: {"PHẦN 2. Trắc nghiệm đúng sai", "Thí sinh chọn Đúng hoặc Sai cho mỗi ý a), b), c), d)", exam.TypeTrueFalse},
	3: {"PHẦN 3. Trắc nghiệm trả lời ngắn", "Thí sinh điền đáp án số vào ô trống", exam.TypeShortAnswer},
}

func sectionName(section int) string {
	switch section {
	case 1:
		return "Trắc nghiệm nhiều lựa chọn"
	case 2:
		return "Trắc nghiệm đúng sai"
	case 3:
		return "Trắc nghiệm trả lời ngắn"
	}
	return ""
}

func buildExam(ext parser.Extracted) exam.Exam {
	e := exam.Exam{
		TimeLimitMin: DefaultTimeLimitMin,
		AnswerKey:    map[int]string{},
	}
	for _, group := range []struct {
		section int
		parsed  []parser.ParsedQuestion
	}{
		{1, ext.MultipleChoice},
		{2, ext.TrueFalse},
		{3, ext.ShortAnswer},
	} {
		if len(group.parsed) == 0 {
			continue
		}
		meta := sectionMeta[group.section]
		sec := exam.ExamSection{
			Name:        meta.name,
			Description: meta.description,
			Type:        meta.qtype,
		}
		for _, pq := range group.parsed {
			q := ConvertQuestion(pq)
			sec.Questions = append(sec.Questions, q)
			e.Questions = append(e.Questions, q)
			// true/false correctness is structural (per-letter), so the
			// flat key map only carries the other two types
			if q.CorrectAnswer != "" && q.Type != exam.TypeTrueFalse {
				e.AnswerKey[q.Number] = q.CorrectAnswer
			}
		}
		e.Sections = append(e.Sections, sec)
	}
	return e
}

// ConvertQuestion produces the public question: a globally unique number
// encoding the section, display-safe text and section metadata.
func ConvertQuestion(pq parser.ParsedQuestion) exam.Question {
	opts := make([]exam.QuestionOption, len(pq.Options))
	for i, o := range pq.Options {
		opts[i] = exam.QuestionOption{Letter: o.Letter, Text: EscapeHTMLPreserveMath(o.Text)}
	}
	return exam.Question{
		Number:        pq.Section*100 + pq.Number,
		Text:          EscapeHTMLPreserveMath(pq.Text),
		Type:          pq.Type,
		Options:       opts,
		CorrectAnswer: pq.CorrectAnswer,
		Solution:      pq.Solution,
		Images:        pq.Images,
		Section: exam.SectionInfo{
			Number: pq.Section,
			Name:   sectionName(pq.Section),
		},
	}
}

var (
	displaySpanRe = regexp.MustCompile(`\$\$[^$]*\$\$`)
	inlineSpanRe  = regexp.MustCompile(`\$[^$]*\$`)
)

// EscapeHTMLPreserveMath escapes &, < and > for safe rendering while
// leaving $...$ and $$...$$ math spans byte-for-byte intact. Spans are
// swapped for placeholder tokens, the rest is escaped, then the spans are
// restored verbatim.
func EscapeHTMLPreserveMath(s string) string {
	if s == "" {
		return ""
	}
	var spans []string
	protect := func(m string) string {
		spans = append(spans, m)
		return fmt.Sprintf("\x00MATH%d\x00", len(spans)-1)
	}
	s = displaySpanRe.ReplaceAllStringFunc(s, protect)
	s = inlineSpanRe.ReplaceAllStringFunc(s, protect)

	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")

	for i, span := range spans {
		s = strings.Replace(s, fmt.Sprintf("\x00MATH%d\x00", i), span, 1)
	}
	return s
}
