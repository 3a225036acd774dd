// Package grading computes submission scores from an exam's answer key.
// Scoring is a pure function of (answers, exam): no shared state, safe to
// call concurrently, and recomputed wholesale on every submission.
package grading

import (
	"math"
	"strings"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
)

// Fixed per-question point values. A standard exam composition (12 MC,
// 4 TF, 6 SA) totals exactly 10 when everything is answered correctly.
const (
	MultipleChoicePoints = 0.25
	TrueFalseMaxPoints   = 1.0
	ShortAnswerPoints    = 0.5
)

// Score grades a sparse answer map (question number -> raw answer string)
// against an exam. True/false questions read their key from the exam's
// flat AnswerKey map, where an authoring step may have stored a comma list
// of the true letters; questions without a key simply score zero.
func Score(answers map[int]string, e exam.Exam) exam.ScoreBreakdown {
	b := exam.ScoreBreakdown{TrueFalseDetails: map[int]exam.TrueFalseDetail{}}

	for _, q := range e.Questions {
		submitted := answers[q.Number]
		key := q.CorrectAnswer
		if key == "" {
			key = e.AnswerKey[q.Number]
		}

		switch q.Type {
		case exam.TypeMultipleChoice:
			b.MultipleChoice.Total++
			if submitted != "" && key != "" && strings.EqualFold(submitted, key) {
				b.MultipleChoice.Correct++
				b.MultipleChoice.Points += MultipleChoicePoints
			}

		case exam.TypeTrueFalse:
			b.TrueFalse.Total++
			if submitted == "" || key == "" || len(q.Options) == 0 {
				continue
			}
			agree := agreementCount(submitted, key)
			pts := TrueFalsePoints(agree)
			b.TrueFalse.Points += pts
			b.TrueFalseDetails[q.Number] = exam.TrueFalseDetail{CorrectCount: agree, Points: pts}
			switch {
			case agree == 4:
				b.TrueFalse.Correct++
			case agree > 0:
				b.TrueFalse.Partial++
			}

		case exam.TypeShortAnswer, exam.TypeWriting:
			b.ShortAnswer.Total++
			if submitted != "" && key != "" &&
				normalizeAnswer(submitted) == normalizeAnswer(key) {
				b.ShortAnswer.Correct++
				b.ShortAnswer.Points += ShortAnswerPoints
			}
		}
	}

	b.TotalScore = b.MultipleChoice.Points + b.TrueFalse.Points + b.ShortAnswer.Points

	maxScore := float64(b.MultipleChoice.Total)*MultipleChoicePoints +
		float64(b.TrueFalse.Total)*TrueFalseMaxPoints +
		float64(b.ShortAnswer.Total)*ShortAnswerPoints
	if maxScore > 0 {
		b.Percentage = int(math.Round(b.TotalScore / maxScore * 100))
	}
	return b
}

// TrueFalsePoints maps the number of agreeing sub-statements (0–4) to the
// points awarded for one true/false question.
func TrueFalsePoints(agreeing int) float64 {
	switch agreeing {
	case 4:
		return 1.0
	case 3:
		return 0.5
	case 2:
		return 0.25
	case 1:
		return 0.1
	default:
		return 0
	}
}

// normalizeAnswer makes short answers comparable: lowercase, whitespace
// stripped, commas treated as decimal points ("1,5" matches "1.5").
func normalizeAnswer(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), "")
	return strings.ReplaceAll(s, ",", ".")
}

// TotalCorrect counts fully correct questions across all sections.
func TotalCorrect(b exam.ScoreBreakdown) int {
	return b.MultipleChoice.Correct + b.TrueFalse.Correct + b.ShortAnswer.Correct
}
