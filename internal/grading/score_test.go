package grading

import (
	"reflect"
	"testing"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
)

// threeSectionExam is one question of each type, keys in the same places
// the importer leaves them: multiple choice and short answer carry their
// own CorrectAnswer (mirrored into AnswerKey), true/false reads from the
// flat key map where an author stored the comma list of true letters.
func threeSectionExam() exam.Exam {
	return exam.Exam{
		Questions: []exam.Question{
			{
				Number: 101, Type: exam.TypeMultipleChoice, CorrectAnswer: "B",
				Options: []exam.QuestionOption{{Letter: "A"}, {Letter: "B"}, {Letter: "C"}, {Letter: "D"}},
			},
			{
				Number: 201, Type: exam.TypeTrueFalse,
				Options: []exam.QuestionOption{{Letter: "a"}, {Letter: "b"}, {Letter: "c"}, {Letter: "d"}},
			},
			{Number: 301, Type: exam.TypeShortAnswer, CorrectAnswer: "3,14"},
		},
		AnswerKey: map[int]string{101: "B", 201: "a,b", 301: "3,14"},
	}
}

func TestScoreAllCorrect(t *testing.T) {
	e := threeSectionExam()
	b := Score(map[int]string{101: "B", 201: "a,b", 301: "3,14"}, e)

	if b.MultipleChoice.Correct != 1 || b.MultipleChoice.Points != 0.25 {
		t.Errorf("multiple choice: %+v", b.MultipleChoice)
	}
	if b.TrueFalse.Correct != 1 || b.TrueFalse.Points != 1.0 {
		t.Errorf("true/false: %+v", b.TrueFalse)
	}
	if d := b.TrueFalseDetails[201]; d.CorrectCount != 4 || d.Points != 1.0 {
		t.Errorf("true/false detail: %+v", d)
	}
	if b.ShortAnswer.Correct != 1 || b.ShortAnswer.Points != 0.5 {
		t.Errorf("short answer: %+v", b.ShortAnswer)
	}
	if b.TotalScore != 1.75 {
		t.Errorf("total = %v, want 1.75", b.TotalScore)
	}
	if b.Percentage != 100 {
		t.Errorf("percentage = %d, want 100", b.Percentage)
	}
	if TotalCorrect(b) != 3 {
		t.Errorf("TotalCorrect = %d, want 3", TotalCorrect(b))
	}
}

func TestScoreCaseAndDecimalTolerance(t *testing.T) {
	e := threeSectionExam()
	b := Score(map[int]string{101: "b", 301: " 3.14 "}, e)
	if b.MultipleChoice.Correct != 1 {
		t.Error("lowercase letter should match")
	}
	if b.ShortAnswer.Correct != 1 {
		t.Error("3.14 with spaces should match key 3,14")
	}
}

func TestScoreUnansweredAndUnknownKeys(t *testing.T) {
	e := threeSectionExam()
	b := Score(map[int]string{999: "B"}, e)
	if b.TotalScore != 0 {
		t.Errorf("total = %v, want 0", b.TotalScore)
	}
	if b.MultipleChoice.Total != 1 || b.TrueFalse.Total != 1 || b.ShortAnswer.Total != 1 {
		t.Errorf("totals: %+v %+v %+v", b.MultipleChoice, b.TrueFalse, b.ShortAnswer)
	}
	if b.Percentage != 0 {
		t.Errorf("percentage = %d, want 0", b.Percentage)
	}
}

func TestScoreEmptyExam(t *testing.T) {
	b := Score(map[int]string{101: "A"}, exam.Exam{})
	if b.TotalScore != 0 || b.Percentage != 0 {
		t.Errorf("empty exam: total=%v percentage=%d", b.TotalScore, b.Percentage)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	e := threeSectionExam()
	answers := map[int]string{101: "B", 201: `{"a":true,"c":true}`, 301: "sai"}
	first := Score(answers, e)
	second := Score(answers, e)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated grading differs:\n%+v\n%+v", first, second)
	}
}

func TestScoreWritingGradedAsShortAnswer(t *testing.T) {
	e := exam.Exam{
		Questions: []exam.Question{
			{Number: 401, Type: exam.TypeWriting, CorrectAnswer: "Chứng minh xong"},
		},
	}
	b := Score(map[int]string{401: "chứng minh xong"}, e)
	if b.ShortAnswer.Correct != 1 || b.ShortAnswer.Points != 0.5 {
		t.Errorf("writing answer: %+v", b.ShortAnswer)
	}
}

func TestTrueFalsePoints(t *testing.T) {
	cases := map[int]float64{4: 1.0, 3: 0.5, 2: 0.25, 1: 0.1, 0: 0}
	for agree, want := range cases {
		if got := TrueFalsePoints(agree); got != want {
			t.Errorf("TrueFalsePoints(%d) = %v, want %v", agree, got, want)
		}
	}
}

func TestLabelFor(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{10, "A+"}, {9.0, "A+"}, {8.5, "A"}, {7.25, "B+"},
		{6.0, "B"}, {5.0, "C"}, {4.0, "D"}, {3.9, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		if got := LabelFor(tc.score); got.Grade != tc.want {
			t.Errorf("LabelFor(%v) = %q, want %q", tc.score, got.Grade, tc.want)
		}
	}
}
