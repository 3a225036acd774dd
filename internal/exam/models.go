package exam

// QuestionType discriminates the three exam sections plus the legacy
// "writing" type some older English exams used for free-form answers.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice" // PHẦN 1
	TypeTrueFalse      QuestionType = "true_false"      // PHẦN 2
	TypeShortAnswer    QuestionType = "short_answer"    // PHẦN 3
	TypeWriting        QuestionType = "writing"
	TypeUnknown        QuestionType = "unknown"
)

// ImageRecord is one embedded media file pulled out of the document
// container. The payload travels base64-encoded so the record is JSON-safe.
type ImageRecord struct {
	ID          string `json:"id"`       // img_0, img_1, ...
	Filename    string `json:"filename"` // image1.png etc.
	Base64      string `json:"base64"`
	ContentType string `json:"content_type"`
	RelID       string `json:"rel_id,omitempty"` // rId4, rId5, ... empty when unresolved
}

// QuestionOption is one lettered choice (A–D) or true/false statement (a–d).
type QuestionOption struct {
	Letter string `json:"letter"`
	Text   string `json:"text"` // may contain LaTeX spans
}

// SectionInfo is the per-question view of the section it belongs to.
type SectionInfo struct {
	Number int    `json:"number"` // 1, 2, 3
	Name   string `json:"name"`
}

// Question is the public, persisted question model. Number encodes the
// section: section*100 + in-section number, so 1xx is multiple choice,
// 2xx true/false, 3xx short answer.
type Question struct {
	Number        int              `json:"number"`
	Text          string           `json:"text"` // HTML-escaped, math spans preserved
	Type          QuestionType     `json:"type"`
	Options       []QuestionOption `json:"options,omitempty"`
	CorrectAnswer string           `json:"correct_answer,omitempty"`
	Section       SectionInfo      `json:"section"`
	Images        []ImageRecord    `json:"images,omitempty"`
	Solution      string           `json:"solution,omitempty"`
}

// SectionOf recovers the section number from an encoded question number.
func SectionOf(number int) int { return number / 100 }

// ExamSection groups the questions of one populated section type.
type ExamSection struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        QuestionType `json:"type"`
	Questions   []Question   `json:"questions"`
}

// Exam is the sole public artifact of a document import. Read-only after
// creation except for deletion.
type Exam struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	TimeLimitMin int           `json:"time_limit_min"`
	Sections     []ExamSection `json:"sections"`
	Questions    []Question    `json:"questions"`
	// AnswerKey maps question number to correct-answer string. Only
	// multiple-choice and short-answer questions get entries here;
	// true/false keys (comma lists of true letters) come from a separate
	// authoring step, if at all.
	AnswerKey map[int]string `json:"answer_key"`
	Images    []ImageRecord  `json:"images,omitempty"`
	CreatedBy string         `json:"created_by,omitempty"`
	CreatedAt int64          `json:"created_at,omitempty"`
}

// Room is a code-joinable exam session.
type Room struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	ExamID        string `json:"exam_id"`
	ExamTitle     string `json:"exam_title"`
	TeacherID     string `json:"teacher_id"`
	Status        string `json:"status"` // waiting|active|closed
	TimeLimitMin  int    `json:"time_limit_min"`
	AllowLateJoin bool   `json:"allow_late_join"`
	CreatedAt     int64  `json:"created_at,omitempty"`
}

// Submission is one student's answer sheet for a room, graded on submit.
type Submission struct {
	ID          string         `json:"id"`
	RoomID      string         `json:"room_id"`
	ExamID      string         `json:"exam_id"`
	StudentID   string         `json:"student_id"`
	StudentName string         `json:"student_name,omitempty"`
	Answers     map[int]string `json:"answers"` // question number -> raw answer
	Status      string         `json:"status"`  // in_progress|submitted

	Breakdown    *ScoreBreakdown `json:"score_breakdown,omitempty"`
	TotalScore   float64         `json:"total_score"`
	Percentage   int             `json:"percentage"`
	CorrectCount int             `json:"correct_count"`
	WrongCount   int             `json:"wrong_count"`

	TabSwitchCount int   `json:"tab_switch_count"`
	AutoSubmitted  bool  `json:"auto_submitted"`
	StartedAt      int64 `json:"started_at,omitempty"`
	SubmittedAt    int64 `json:"submitted_at,omitempty"`
}

// SectionScore is a per-section tally inside a ScoreBreakdown.
type SectionScore struct {
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
	Partial int     `json:"partial,omitempty"`
	Points  float64 `json:"points"`
}

// TrueFalseDetail records how one true/false question was scored.
type TrueFalseDetail struct {
	CorrectCount int     `json:"correct_count"` // agreeing sub-statements, 0–4
	Points       float64 `json:"points"`
}

// ScoreBreakdown is recomputed wholesale on every grading call.
type ScoreBreakdown struct {
	MultipleChoice   SectionScore            `json:"multiple_choice"`
	TrueFalse        SectionScore            `json:"true_false"`
	TrueFalseDetails map[int]TrueFalseDetail `json:"true_false_details"`
	ShortAnswer      SectionScore            `json:"short_answer"`
	TotalScore       float64                 `json:"total_score"` // 0–10 scale
	Percentage       int                     `json:"percentage"`
}
