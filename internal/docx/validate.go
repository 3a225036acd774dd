package docx

import (
	"fmt"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
)

// ValidationResult is the import-time quality report. Errors block the
// upload; warnings and tallies are diagnostic only.
type ValidationResult struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	// per-section question counts and answer-key coverage
	SectionCounts map[int]int `json:"section_counts"`
	WithAnswer    int         `json:"with_answer"`
	WithoutAnswer int         `json:"without_answer"`
}

func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Validate inspects an imported exam. An exam with zero extracted
// questions is the single blocking condition; a question missing body text
// only warns.
func Validate(e exam.Exam) ValidationResult {
	res := ValidationResult{SectionCounts: map[int]int{}}

	if len(e.Questions) == 0 {
		res.Errors = append(res.Errors, "không tìm thấy câu hỏi nào trong file")
		return res
	}

	for _, q := range e.Questions {
		if q.Text == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("câu %d: thiếu nội dung câu hỏi", q.Number))
		}
		res.SectionCounts[exam.SectionOf(q.Number)]++
		if q.CorrectAnswer != "" {
			res.WithAnswer++
		} else {
			res.WithoutAnswer++
		}
	}
	return res
}
