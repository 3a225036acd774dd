package exam

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore backs tests and offline single-user runs.
type memoryStore struct {
	mu          sync.RWMutex
	grader      Grader
	exams       map[string]Exam
	rooms       map[string]Room
	submissions map[string]Submission
}

func NewInMemoryStore(g Grader) Store {
	return &memoryStore{
		grader:      g,
		exams:       map[string]Exam{},
		rooms:       map[string]Room{},
		submissions: map[string]Submission{},
	}
}

func (m *memoryStore) PutExam(e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	m.exams[e.ID] = e
	return nil
}

func (m *memoryStore) GetExam(id string) (Exam, error) {
	e, err := m.GetExamFull(id)
	if err != nil {
		return Exam{}, err
	}
	return stripKeys(e), nil
}

func (m *memoryStore) GetExamFull(id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	return e, nil
}

func (m *memoryStore) ListExams(teacherID string) ([]Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Exam
	for _, e := range m.exams {
		if teacherID != "" && e.CreatedBy != teacherID {
			continue
		}
		e.Questions = nil
		e.Sections = nil
		e.AnswerKey = nil
		e.Images = nil
		out = append(out, e)
	}
	return out, nil
}

func (m *memoryStore) DeleteExam(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[id]; !ok {
		return ErrExamNotFound
	}
	delete(m.exams, id)
	return nil
}

func (m *memoryStore) PutRoom(r Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[r.ExamID]; !ok {
		return ErrExamNotFound
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}
	m.rooms[r.ID] = r
	return nil
}

func (m *memoryStore) GetRoom(id string) (Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return r, nil
}

func (m *memoryStore) GetRoomByCode(code string) (Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rooms {
		if r.Code == code {
			return r, nil
		}
	}
	return Room{}, ErrRoomNotFound
}

func (m *memoryStore) SetRoomStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	r.Status = status
	m.rooms[id] = r
	return nil
}

func (m *memoryStore) DeleteRoom(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return ErrRoomNotFound
	}
	delete(m.rooms, id)
	return nil
}

func (m *memoryStore) NewSubmission(roomID, studentID, studentName string) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return Submission{}, ErrRoomNotFound
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
	m.submissions[sub.ID] = sub
	return sub, nil
}

func (m *memoryStore) SaveAnswers(id string, answers map[int]string) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	if sub.Status == "submitted" {
		return Submission{}, ErrAlreadySubmitted
	}
	for k, v := range answers {
		sub.Answers[k] = v
	}
	m.submissions[id] = sub
	return sub, nil
}

func (m *memoryStore) Submit(id string, autoSubmitted bool) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	if sub.Status == "submitted" {
		return sub, nil
	}
	e, ok := m.exams[sub.ExamID]
	if !ok {
		return Submission{}, ErrExamNotFound
	}
	b := m.grader.Score(sub.Answers, e)
	gradeInto(&sub, b, len(e.Questions), autoSubmitted, time.Now().Unix())
	m.submissions[id] = sub
	return sub, nil
}

func (m *memoryStore) GetSubmission(id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	return sub, nil
}

func (m *memoryStore) ListSubmissions(roomID string) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Submission
	for _, s := range m.submissions {
		if s.RoomID == roomID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) RecordTabSwitch(id string) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	sub.TabSwitchCount++
	m.submissions[id] = sub
	return sub, nil
}
