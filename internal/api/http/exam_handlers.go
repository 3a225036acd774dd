package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/slowsoftst-star/dethitoan2026thuan201/internal/auth/middleware"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/rbac"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/storage"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, exam.ErrExamNotFound),
		errors.Is(err, exam.ErrRoomNotFound),
		errors.Is(err, exam.ErrSubmissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, exam.ErrAlreadySubmitted),
		errors.Is(err, exam.ErrRoomClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GET /exams — teachers see their own exams, admins everything.
func ListExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID := auth.SubjectFromContext(r.Context())
		if rbac.RoleFromContext(r.Context()) == "admin" {
			teacherID = ""
		}
		exams, err := store.ListExams(teacherID)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(exams)
	}
}

// GET /exams/{examID} — student-safe view, answer keys stripped.
func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.GetExam(chi.URLParam(r, "examID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(e)
	}
}

// GET /exams/{examID}/full — with answer keys, for teachers.
func GetExamFullHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.GetExamFull(chi.URLParam(r, "examID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(e)
	}
}

// DELETE /exams/{examID} — also drops the exam's stored media.
func DeleteExamHandler(store exam.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		if err := store.DeleteExam(id); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		if bs != nil {
			_ = bs.DeletePrefix("exams/" + id)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
