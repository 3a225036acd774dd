package exam

import "errors"

var (
	ErrExamNotFound       = errors.New("exam not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadySubmitted   = errors.New("submission already graded")
	ErrRoomClosed         = errors.New("room is closed")
)

// Grader scores a sparse answer map against an exam. Implemented by the
// grading package; injected so stores stay free of scoring rules.
type Grader interface {
	Score(answers map[int]string, e Exam) ScoreBreakdown
}

// Store is the persistence boundary for exams, rooms and submissions.
// Exams are read-only once written, except for deletion.
type Store interface {
	PutExam(e Exam) error
	// GetExam is the student-safe view: answer keys stripped.
	GetExam(id string) (Exam, error)
	// GetExamFull keeps answer keys, for teachers and grading.
	GetExamFull(id string) (Exam, error)
	ListExams(teacherID string) ([]Exam, error)
	DeleteExam(id string) error

	PutRoom(r Room) error
	GetRoom(id string) (Room, error)
	GetRoomByCode(code string) (Room, error)
	SetRoomStatus(id, status string) error
	DeleteRoom(id string) error

	NewSubmission(roomID, studentID, studentName string) (Submission, error)
	SaveAnswers(id string, answers map[int]string) (Submission, error)
	// Submit grades the submission against its exam and freezes it.
	// autoSubmitted marks forced submissions (anti-cheat).
	Submit(id string, autoSubmitted bool) (Submission, error)
	GetSubmission(id string) (Submission, error)
	ListSubmissions(roomID string) ([]Submission, error)
	RecordTabSwitch(id string) (Submission, error)
}

// stripKeys blanks every answer-bearing field for the student view.
func stripKeys(e Exam) Exam {
	e.AnswerKey = nil
	qs := make([]Question, len(e.Questions))
	for i, q := range e.Questions {
		q.CorrectAnswer = ""
		q.Solution = ""
		qs[i] = q
	}
	e.Questions = qs
	secs := make([]ExamSection, len(e.Sections))
	for i, s := range e.Sections {
		sq := make([]Question, len(s.Questions))
		for j, q := range s.Questions {
			q.CorrectAnswer = ""
			q.Solution = ""
			sq[j] = q
		}
		s.Questions = sq
		secs[i] = s
	}
	e.Sections = secs
	return e
}

// gradeInto applies a grading result to a submission record.
func gradeInto(sub *Submission, b ScoreBreakdown, totalQuestions int, autoSubmitted bool, now int64) {
	sub.Breakdown = &b
	sub.TotalScore = b.TotalScore
	sub.Percentage = b.Percentage
	sub.CorrectCount = b.MultipleChoice.Correct + b.TrueFalse.Correct + b.ShortAnswer.Correct
	sub.WrongCount = totalQuestions - sub.CorrectCount
	sub.AutoSubmitted = autoSubmitted
	sub.Status = "submitted"
	sub.SubmittedAt = now
}
