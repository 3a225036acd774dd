package exam_test

import (
	"errors"
	"testing"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/grading"
)

func testExam() exam.Exam {
	mc := exam.Question{
		Number: 101, Type: exam.TypeMultipleChoice, Text: "q", CorrectAnswer: "B",
		Solution: "vì B đúng",
		Options:  []exam.QuestionOption{{Letter: "A"}, {Letter: "B"}},
	}
	sa := exam.Question{Number: 301, Type: exam.TypeShortAnswer, Text: "q", CorrectAnswer: "7"}
	return exam.Exam{
		ID:        "exam-1",
		Title:     "Đề thi thử",
		CreatedBy: "teacher-1",
		Questions: []exam.Question{mc, sa},
		Sections: []exam.ExamSection{
			{Name: "PHẦN 1", Type: exam.TypeMultipleChoice, Questions: []exam.Question{mc}},
			{Name: "PHẦN 3", Type: exam.TypeShortAnswer, Questions: []exam.Question{sa}},
		},
		AnswerKey: map[int]string{101: "B", 301: "7"},
	}
}

func newStore(t *testing.T) exam.Store {
	t.Helper()
	s := exam.NewInMemoryStore(grading.NewEngine())
	if err := s.PutExam(testExam()); err != nil {
		t.Fatalf("PutExam: %v", err)
	}
	return s
}

func TestGetExamStripsAnswers(t *testing.T) {
	s := newStore(t)

	e, err := s.GetExam("exam-1")
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if e.AnswerKey != nil {
		t.Error("student view leaked the answer key map")
	}
	for _, q := range e.Questions {
		if q.CorrectAnswer != "" || q.Solution != "" {
			t.Errorf("question %d leaked answer or solution", q.Number)
		}
	}
	for _, sec := range e.Sections {
		for _, q := range sec.Questions {
			if q.CorrectAnswer != "" {
				t.Errorf("section copy of question %d leaked answer", q.Number)
			}
		}
	}

	full, err := s.GetExamFull("exam-1")
	if err != nil {
		t.Fatalf("GetExamFull: %v", err)
	}
	if full.Questions[0].CorrectAnswer != "B" || full.AnswerKey[301] != "7" {
		t.Error("full view should keep answers")
	}
}

func TestListExamsFiltersAndSummarizes(t *testing.T) {
	s := newStore(t)
	other := testExam()
	other.ID, other.CreatedBy = "exam-2", "teacher-2"
	if err := s.PutExam(other); err != nil {
		t.Fatalf("PutExam: %v", err)
	}

	mine, err := s.ListExams("teacher-1")
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "exam-1" {
		t.Fatalf("filtered list = %+v", mine)
	}
	if mine[0].Questions != nil || mine[0].AnswerKey != nil {
		t.Error("listing should drop question bodies and keys")
	}

	all, err := s.ListExams("")
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered list = %d entries, want 2", len(all))
	}
}

func TestRoomLifecycle(t *testing.T) {
	s := newStore(t)

	room := exam.Room{ID: "room-1", ExamID: "exam-1", Code: "ABC123", Status: "waiting"}
	if err := s.PutRoom(room); err != nil {
		t.Fatalf("PutRoom: %v", err)
	}
	if err := s.PutRoom(exam.Room{ID: "room-x", ExamID: "missing"}); !errors.Is(err, exam.ErrExamNotFound) {
		t.Errorf("PutRoom with unknown exam: %v", err)
	}

	byCode, err := s.GetRoomByCode("ABC123")
	if err != nil || byCode.ID != "room-1" {
		t.Fatalf("GetRoomByCode: %v %+v", err, byCode)
	}

	if err := s.SetRoomStatus("room-1", "active"); err != nil {
		t.Fatalf("SetRoomStatus: %v", err)
	}
	r, _ := s.GetRoom("room-1")
	if r.Status != "active" {
		t.Errorf("status = %q", r.Status)
	}

	if err := s.DeleteRoom("room-1"); err != nil {
		t.Fatalf("DeleteRoom: %v", err)
	}
	if _, err := s.GetRoom("room-1"); !errors.Is(err, exam.ErrRoomNotFound) {
		t.Errorf("after delete: %v", err)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	s := newStore(t)
	if err := s.PutRoom(exam.Room{ID: "room-1", ExamID: "exam-1", Code: "ABC123", Status: "active"}); err != nil {
		t.Fatalf("PutRoom: %v", err)
	}

	sub, err := s.NewSubmission("room-1", "sv01", "Nguyễn Văn A")
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	if sub.Status != "in_progress" || sub.ExamID != "exam-1" {
		t.Fatalf("new submission: %+v", sub)
	}

	if _, err := s.SaveAnswers(sub.ID, map[int]string{101: "B"}); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}
	// later saves merge with earlier ones
	if _, err := s.SaveAnswers(sub.ID, map[int]string{301: "7"}); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}

	graded, err := s.Submit(sub.ID, false)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if graded.Status != "submitted" || graded.Breakdown == nil {
		t.Fatalf("graded submission: %+v", graded)
	}
	if graded.TotalScore != 0.75 || graded.Percentage != 100 {
		t.Errorf("score = %v (%d%%), want 0.75 (100%%)", graded.TotalScore, graded.Percentage)
	}
	if graded.CorrectCount != 2 || graded.WrongCount != 0 {
		t.Errorf("counts = %d/%d", graded.CorrectCount, graded.WrongCount)
	}

	// frozen after grading
	if _, err := s.SaveAnswers(sub.ID, map[int]string{101: "A"}); !errors.Is(err, exam.ErrAlreadySubmitted) {
		t.Errorf("SaveAnswers after submit: %v", err)
	}
	again, err := s.Submit(sub.ID, true)
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if again.AutoSubmitted {
		t.Error("second submit must not regrade or reflag")
	}

	list, err := s.ListSubmissions("room-1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListSubmissions: %v, %d entries", err, len(list))
	}
}

func TestSubmissionClosedRoom(t *testing.T) {
	s := newStore(t)
	if err := s.PutRoom(exam.Room{ID: "room-1", ExamID: "exam-1", Status: "closed"}); err != nil {
		t.Fatalf("PutRoom: %v", err)
	}
	if _, err := s.NewSubmission("room-1", "sv01", "A"); !errors.Is(err, exam.ErrRoomClosed) {
		t.Errorf("join closed room: %v", err)
	}
}

func TestRecordTabSwitch(t *testing.T) {
	s := newStore(t)
	if err := s.PutRoom(exam.Room{ID: "room-1", ExamID: "exam-1", Status: "active"}); err != nil {
		t.Fatalf("PutRoom: %v", err)
	}
	sub, err := s.NewSubmission("room-1", "sv01", "A")
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	for i := 1; i <= 3; i++ {
		got, err := s.RecordTabSwitch(sub.ID)
		if err != nil {
			t.Fatalf("RecordTabSwitch: %v", err)
		}
		if got.TabSwitchCount != i {
			t.Errorf("count = %d, want %d", got.TabSwitchCount, i)
		}
	}
}
