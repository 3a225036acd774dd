package exam

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SQLStore persists exams, rooms and submissions with JSON columns for the
// nested structures. Works against sqlite (modernc) and postgres (pgx).
type SQLStore struct {
	db     *sql.DB
	grader Grader
}

func NewSQLStore(db *sql.DB, g Grader) *SQLStore {
	return &SQLStore{db: db, grader: g}
}

func (s *SQLStore) PutExam(e Exam) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	sj, err := json.Marshal(e.Sections)
	if err != nil {
		return err
	}
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	kj, err := json.Marshal(e.AnswerKey)
	if err != nil {
		return err
	}
	ij, err := json.Marshal(e.Images)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO exams (id,title,time_limit_min,sections_json,questions_json,answer_key_json,images_json,created_by,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title`,
		e.ID, e.Title, e.TimeLimitMin, string(sj), string(qj), string(kj), string(ij), e.CreatedBy, e.CreatedAt)
	return err
}

func (s *SQLStore) GetExam(id string) (Exam, error) {
	e, err := s.GetExamFull(id)
	if err != nil {
		return Exam{}, err
	}
	return stripKeys(e), nil
}

func (s *SQLStore) GetExamFull(id string) (Exam, error) {
	row := s.db.QueryRow(`SELECT id,title,time_limit_min,sections_json,questions_json,answer_key_json,images_json,created_by,created_at
		FROM exams WHERE id=$1`, id)
	var e Exam
	var sj, qj, kj, ij string
	if err := row.Scan(&e.ID, &e.Title, &e.TimeLimitMin, &sj, &qj, &kj, &ij, &e.CreatedBy, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrExamNotFound
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(sj), &e.Sections); err != nil {
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(qj), &e.Questions); err != nil {
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(kj), &e.AnswerKey); err != nil {
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(ij), &e.Images); err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *SQLStore) ListExams(teacherID string) ([]Exam, error) {
	rows, err := s.db.Query(`SELECT id,title,time_limit_min,created_by,created_at FROM exams
		WHERE ($1 = '' OR created_by = $1) ORDER BY created_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Exam
	for rows.Next() {
		var e Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.TimeLimitMin, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteExam(id string) error {
	res, err := s.db.Exec(`DELETE FROM exams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrExamNotFound
	}
	return nil
}

func (s *SQLStore) PutRoom(r Room) error {
	if _, err := s.GetExamFull(r.ExamID); err != nil {
		return err
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.Exec(`INSERT INTO rooms (id,code,exam_id,exam_title,teacher_id,status,time_limit_min,allow_late_join,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		r.ID, r.Code, r.ExamID, r.ExamTitle, r.TeacherID, r.Status, r.TimeLimitMin, r.AllowLateJoin, r.CreatedAt)
	return err
}

func (s *SQLStore) GetRoom(id string) (Room, error) {
	return s.roomBy(`id=$1`, id)
}

func (s *SQLStore) GetRoomByCode(code string) (Room, error) {
	return s.roomBy(`code=$1`, code)
}

func (s *SQLStore) roomBy(where, arg string) (Room, error) {
	row := s.db.QueryRow(`SELECT id,code,exam_id,exam_title,teacher_id,status,time_limit_min,allow_late_join,created_at
		FROM rooms WHERE `+where, arg)
	var r Room
	if err := row.Scan(&r.ID, &r.Code, &r.ExamID, &r.ExamTitle, &r.TeacherID, &r.Status, &r.TimeLimitMin, &r.AllowLateJoin, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Room{}, ErrRoomNotFound
		}
		return Room{}, err
	}
	return r, nil
}

func (s *SQLStore) SetRoomStatus(id, status string) error {
	res, err := s.db.Exec(`UPDATE rooms SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *SQLStore) DeleteRoom(id string) error {
	res, err := s.db.Exec(`DELETE FROM rooms WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *SQLStore) NewSubmission(roomID, studentID, studentName string) (Submission, error) {
	r, err := s.GetRoom(roomID)
	if err != nil {
		return Submission{}, err
	}
	if r.Status == "closed" {
		return Submission{}, ErrRoomClosed
	}
	sub := Submission{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		ExamID:      r.ExamID,
		StudentID:   studentID,
		StudentName: studentName,
		Answers:     map[int]string{},
		Status:      "in_progress",
		StartedAt:   time.Now().Unix(),
	}
	aj, _ := json.Marshal(sub.Answers)
	_, err = s.db.Exec(`INSERT INTO submissions (id,room_id,exam_id,student_id,student_name,status,answers_json,started_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		sub.ID, sub.RoomID, sub.ExamID, sub.StudentID, sub.StudentName, sub.Status, string(aj), sub.StartedAt)
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) SaveAnswers(id string, answers map[int]string) (Submission, error) {
	sub, err := s.GetSubmission(id)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status == "submitted" {
		return Submission{}, ErrAlreadySubmitted
	}
	if sub.Answers == nil {
		sub.Answers = map[int]string{}
	}
	for k, v := range answers {
		sub.Answers[k] = v
	}
	aj, _ := json.Marshal(sub.Answers)
	if _, err := s.db.Exec(`UPDATE submissions SET answers_json=$1 WHERE id=$2`, string(aj), id); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) Submit(id string, autoSubmitted bool) (Submission, error) {
	sub, err := s.GetSubmission(id)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status == "submitted" {
		return sub, nil
	}
	e, err := s.GetExamFull(sub.ExamID)
	if err != nil {
		return Submission{}, err
	}
	b := s.grader.Score(sub.Answers, e)
	gradeInto(&sub, b, len(e.Questions), autoSubmitted, time.Now().Unix())

	bj, _ := json.Marshal(sub.Breakdown)
	_, err = s.db.Exec(`UPDATE submissions SET status='submitted', breakdown_json=$1, total_score=$2,
		percentage=$3, correct_count=$4, wrong_count=$5, auto_submitted=$6, submitted_at=$7 WHERE id=$8`,
		string(bj), sub.TotalScore, sub.Percentage, sub.CorrectCount, sub.WrongCount, sub.AutoSubmitted, sub.SubmittedAt, id)
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) GetSubmission(id string) (Submission, error) {
	row := s.db.QueryRow(`SELECT id,room_id,exam_id,student_id,student_name,status,answers_json,breakdown_json,
		total_score,percentage,correct_count,wrong_count,tab_switch_count,auto_submitted,started_at,submitted_at
		FROM submissions WHERE id=$1`, id)
	return scanSubmission(row)
}

func (s *SQLStore) ListSubmissions(roomID string) ([]Submission, error) {
	rows, err := s.db.Query(`SELECT id,room_id,exam_id,student_id,student_name,status,answers_json,breakdown_json,
		total_score,percentage,correct_count,wrong_count,tab_switch_count,auto_submitted,started_at,submitted_at
		FROM submissions WHERE room_id=$1 ORDER BY started_at`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) RecordTabSwitch(id string) (Submission, error) {
	res, err := s.db.Exec(`UPDATE submissions SET tab_switch_count=tab_switch_count+1 WHERE id=$1`, id)
	if err != nil {
		return Submission{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Submission{}, ErrSubmissionNotFound
	}
	return s.GetSubmission(id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var (
		sub         Submission
		aj          string
		bj          sql.NullString
		submittedAt sql.NullInt64
	)
	err := row.Scan(&sub.ID, &sub.RoomID, &sub.ExamID, &sub.StudentID, &sub.StudentName, &sub.Status,
		&aj, &bj, &sub.TotalScore, &sub.Percentage, &sub.CorrectCount, &sub.WrongCount,
		&sub.TabSwitchCount, &sub.AutoSubmitted, &sub.StartedAt, &submittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrSubmissionNotFound
		}
		return Submission{}, err
	}
	if err := json.Unmarshal([]byte(aj), &sub.Answers); err != nil {
		sub.Answers = map[int]string{}
	}
	if bj.Valid && bj.String != "" {
		var b ScoreBreakdown
		if err := json.Unmarshal([]byte(bj.String), &b); err == nil {
			sub.Breakdown = &b
		}
	}
	sub.SubmittedAt = submittedAt.Int64
	return sub, nil
}

// NewRoomCode generates the 6-character join code printed on the board.
func NewRoomCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	id := uuid.New()
	code := make([]byte, 6)
	for i := range code {
		code[i] = alphabet[int(id[i])%len(alphabet)]
	}
	return string(code)
}
