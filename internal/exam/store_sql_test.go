package exam_test

import (
	"context"
	"errors"
	"testing"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/db"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/grading"
)

func newSQLStore(t *testing.T) *exam.SQLStore {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.TempDir()+"/test.db")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return exam.NewSQLStore(dbh, grading.NewEngine())
}

func TestSQLStoreExamRoundTrip(t *testing.T) {
	s := newSQLStore(t)
	if err := s.PutExam(testExam()); err != nil {
		t.Fatalf("PutExam: %v", err)
	}

	full, err := s.GetExamFull("exam-1")
	if err != nil {
		t.Fatalf("GetExamFull: %v", err)
	}
	if full.Title != "Đề thi thử" || len(full.Questions) != 2 || len(full.Sections) != 2 {
		t.Fatalf("round trip lost data: %+v", full)
	}
	if full.AnswerKey[101] != "B" || full.AnswerKey[301] != "7" {
		t.Errorf("answer key = %v", full.AnswerKey)
	}

	student, err := s.GetExam("exam-1")
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if student.AnswerKey != nil || student.Questions[0].CorrectAnswer != "" {
		t.Error("student view leaked answers")
	}

	if _, err := s.GetExamFull("missing"); !errors.Is(err, exam.ErrExamNotFound) {
		t.Errorf("missing exam: %v", err)
	}
}

func TestSQLStorePutExamIsIdempotent(t *testing.T) {
	s := newSQLStore(t)
	e := testExam()
	if err := s.PutExam(e); err != nil {
		t.Fatalf("first PutExam: %v", err)
	}
	e.Title = "Đề thi thử (sửa)"
	if err := s.PutExam(e); err != nil {
		t.Fatalf("second PutExam: %v", err)
	}
	got, err := s.GetExamFull("exam-1")
	if err != nil {
		t.Fatalf("GetExamFull: %v", err)
	}
	if got.Title != "Đề thi thử (sửa)" {
		t.Errorf("title = %q, want updated", got.Title)
	}
}

func TestSQLStoreSubmissionFlow(t *testing.T) {
	s := newSQLStore(t)
	if err := s.PutExam(testExam()); err != nil {
		t.Fatalf("PutExam: %v", err)
	}
	if err := s.PutRoom(exam.Room{ID: "room-1", Code: "XYZ789", ExamID: "exam-1", Status: "active"}); err != nil {
		t.Fatalf("PutRoom: %v", err)
	}

	sub, err := s.NewSubmission("room-1", "sv01", "Trần Thị B")
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	if _, err := s.SaveAnswers(sub.ID, map[int]string{101: "b", 301: "7"}); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}

	graded, err := s.Submit(sub.ID, false)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if graded.TotalScore != 0.75 || graded.Percentage != 100 || graded.Status != "submitted" {
		t.Fatalf("graded = %+v", graded)
	}

	// round trip the graded record, breakdown included
	got, err := s.GetSubmission(sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if got.Breakdown == nil || got.Breakdown.TotalScore != 0.75 {
		t.Fatalf("persisted breakdown: %+v", got.Breakdown)
	}
	if got.Answers[101] != "b" {
		t.Errorf("answers = %v", got.Answers)
	}

	if _, err := s.SaveAnswers(sub.ID, map[int]string{101: "A"}); !errors.Is(err, exam.ErrAlreadySubmitted) {
		t.Errorf("SaveAnswers after submit: %v", err)
	}

	list, err := s.ListSubmissions("room-1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListSubmissions: %v, %d entries", err, len(list))
	}

	if _, err := s.RecordTabSwitch(sub.ID); err != nil {
		t.Fatalf("RecordTabSwitch: %v", err)
	}
	got, _ = s.GetSubmission(sub.ID)
	if got.TabSwitchCount != 1 {
		t.Errorf("tab switches = %d", got.TabSwitchCount)
	}
}

func TestSQLStoreRoomConstraints(t *testing.T) {
	s := newSQLStore(t)
	if err := s.PutRoom(exam.Room{ID: "room-1", ExamID: "missing"}); !errors.Is(err, exam.ErrExamNotFound) {
		t.Errorf("room for unknown exam: %v", err)
	}

	if err := s.PutExam(testExam()); err != nil {
		t.Fatalf("PutExam: %v", err)
	}
	if err := s.PutRoom(exam.Room{ID: "room-1", Code: "AAAAAA", ExamID: "exam-1", Status: "closed"}); err != nil {
		t.Fatalf("PutRoom: %v", err)
	}
	if _, err := s.NewSubmission("room-1", "sv01", "A"); !errors.Is(err, exam.ErrRoomClosed) {
		t.Errorf("join closed room: %v", err)
	}

	byCode, err := s.GetRoomByCode("AAAAAA")
	if err != nil || byCode.ID != "room-1" {
		t.Fatalf("GetRoomByCode: %v %+v", err, byCode)
	}
	if err := s.SetRoomStatus("room-1", "active"); err != nil {
		t.Fatalf("SetRoomStatus: %v", err)
	}
	if err := s.DeleteRoom("room-1"); err != nil {
		t.Fatalf("DeleteRoom: %v", err)
	}
	if err := s.SetRoomStatus("room-1", "active"); !errors.Is(err, exam.ErrRoomNotFound) {
		t.Errorf("status on deleted room: %v", err)
	}
}

func TestNewRoomCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code := exam.NewRoomCode()
		if len(code) != 6 {
			t.Fatalf("code %q length %d", code, len(code))
		}
		for _, c := range code {
			if c == '0' || c == 'O' || c == '1' || c == 'I' {
				t.Errorf("code %q contains ambiguous character %q", code, c)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("room codes look constant")
	}
}
