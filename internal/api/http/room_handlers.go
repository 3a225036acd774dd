package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	auth "github.com/slowsoftst-star/dethitoan2026thuan201/internal/auth/middleware"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
	evlog "github.com/slowsoftst-star/dethitoan2026thuan201/internal/sync"
)

// POST /rooms  { "exam_id": "...", "allow_late_join": true }
func CreateRoomHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamID        string `json:"exam_id"`
			AllowLateJoin bool   `json:"allow_late_join"`
			TimeLimitMin  int    `json:"time_limit_min"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.ExamID == "" {
			http.Error(w, "exam_id required", http.StatusBadRequest)
			return
		}
		e, err := store.GetExamFull(req.ExamID)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		limit := req.TimeLimitMin
		if limit <= 0 {
			limit = e.TimeLimitMin
		}
		room := exam.Room{
			ID:            uuid.NewString(),
			Code:          exam.NewRoomCode(),
			ExamID:        e.ID,
			ExamTitle:     e.Title,
			TeacherID:     auth.SubjectFromContext(r.Context()),
			Status:        "waiting",
			TimeLimitMin:  limit,
			AllowLateJoin: req.AllowLateJoin,
		}
		if err := store.PutRoom(room); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(room)
	}
}

// GET /rooms/{roomID}
func GetRoomHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, err := store.GetRoom(chi.URLParam(r, "roomID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(room)
	}
}

// GET /rooms/code/{code} — students look rooms up by join code.
func GetRoomByCodeHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, err := store.GetRoomByCode(chi.URLParam(r, "code"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(room)
	}
}

// POST /rooms/{roomID}/status  { "status": "waiting|active|closed" }
func SetRoomStatusHandler(store exam.Store, events *evlog.EventLog) http.HandlerFunc {
	valid := map[string]bool{"waiting": true, "active": true, "closed": true}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "roomID")
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !valid[req.Status] {
			http.Error(w, "status must be waiting|active|closed", http.StatusBadRequest)
			return
		}
		if err := store.SetRoomStatus(id, req.Status); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		if events != nil {
			_ = events.Append(r.Context(), evlog.EventRoomStatus, id, map[string]string{"status": req.Status})
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /rooms/{roomID}
func DeleteRoomHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteRoom(chi.URLParam(r, "roomID")); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
