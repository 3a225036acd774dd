package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/anticheat"
	auth "github.com/slowsoftst-star/dethitoan2026thuan201/internal/auth/middleware"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/grading"
	evlog "github.com/slowsoftst-star/dethitoan2026thuan201/internal/sync"
)

// POST /rooms/{roomID}/join  { "student_name": "..." }
func JoinRoomHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentName string `json:"student_name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		sub, err := store.NewSubmission(
			chi.URLParam(r, "roomID"),
			auth.SubjectFromContext(r.Context()),
			req.StudentName,
		)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(sub)
	}
}

// POST /submissions/{submissionID}/answers  { "101": "B", "201": "a,c", ... }
func SaveAnswersHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var answers map[int]string
		if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		sub, err := store.SaveAnswers(chi.URLParam(r, "submissionID"), answers)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(sub)
	}
}

// POST /submissions/{submissionID}/submit
func SubmitHandler(store exam.Store, watcher *anticheat.Watcher, events *evlog.EventLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		sub, err := store.Submit(id, false)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		if watcher != nil {
			watcher.Forget(id)
		}
		if events != nil {
			_ = events.Append(r.Context(), evlog.EventSubmissionGraded, id, map[string]any{
				"total_score": sub.TotalScore, "percentage": sub.Percentage,
			})
		}
		_ = json.NewEncoder(w).Encode(struct {
			exam.Submission
			Grade grading.GradeLabel `json:"grade"`
		}{sub, grading.LabelFor(sub.TotalScore)})
	}
}

// POST /submissions/{submissionID}/tab-switch
//
// The client reports focus loss; the watcher decides when the allowance
// is used up, at which point the submission is force-graded.
func TabSwitchHandler(store exam.Store, watcher *anticheat.Watcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		sub, err := store.RecordTabSwitch(id)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_, autoSubmit := watcher.Record(id)
		if autoSubmit && sub.Status != "submitted" {
			if sub, err = store.Submit(id, true); err != nil {
				http.Error(w, err.Error(), statusFor(err))
				return
			}
			watcher.Forget(id)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tab_switch_count": sub.TabSwitchCount,
			"auto_submitted":   sub.AutoSubmitted,
		})
	}
}

// GET /submissions/{submissionID}
func GetSubmissionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := store.GetSubmission(chi.URLParam(r, "submissionID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(sub)
	}
}

// GET /rooms/{roomID}/submissions — the teacher's result board.
func ListSubmissionsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := store.ListSubmissions(chi.URLParam(r, "roomID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(subs)
	}
}
