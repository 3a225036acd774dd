package grading

// GradeLabel buckets a 0–10 score into the letter grades teachers print on
// result sheets.
type GradeLabel struct {
	Grade string `json:"grade"`
	Label string `json:"label"`
}

func LabelFor(score float64) GradeLabel {
	switch {
	case score >= 9.0:
		return GradeLabel{"A+", "Xuất sắc"}
	case score >= 8.0:
		return GradeLabel{"A", "Giỏi"}
	case score >= 7.0:
		return GradeLabel{"B+", "Khá"}
	case score >= 6.0:
		return GradeLabel{"B", "Trung bình khá"}
	case score >= 5.0:
		return GradeLabel{"C", "Trung bình"}
	case score >= 4.0:
		return GradeLabel{"D", "Yếu"}
	default:
		return GradeLabel{"F", "Kém"}
	}
}
