package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	auth "github.com/slowsoftst-star/dethitoan2026thuan201/internal/auth/middleware"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/docx"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/docx/parser"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/storage"
	evlog "github.com/slowsoftst-star/dethitoan2026thuan201/internal/sync"
)

const maxUploadBytes = 32 << 20

// POST /exams/import (multipart: file=de-thi.docx)
//
// Parses the uploaded document into an exam. A malformed container or a
// document yielding zero questions rejects the upload; per-question
// warnings ride along in the response either way.
func ImportExamHandler(store exam.Store, bs storage.BlobStore, events *evlog.EventLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		raw, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
			return
		}

		e, err := docx.Import(raw, hdr.Filename)
		if err != nil {
			// document-level trouble (no word/document.xml) is 422; anything
			// else means the upload itself was unreadable
			status := http.StatusUnprocessableEntity
			if !errors.Is(err, parser.ErrNoDocument) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}

		res := docx.Validate(e)
		if !res.Valid() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{"validation": res})
			return
		}

		e.ID = "exam-" + uuid.NewString()
		e.CreatedBy = auth.SubjectFromContext(r.Context())
		if err := store.PutExam(e); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		storeImages(bs, e)

		if events != nil {
			_ = events.Append(r.Context(), evlog.EventExamImported, e.ID, map[string]any{
				"title": e.Title, "questions": len(e.Questions),
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"exam_id":    e.ID,
			"title":      e.Title,
			"validation": res,
		})
	}
}

// storeImages mirrors each extracted image into the blob store so the
// assets route can serve it. Failures degrade: the exam already carries
// the payloads inline.
func storeImages(bs storage.BlobStore, e exam.Exam) {
	if bs == nil {
		return
	}
	for _, img := range e.Images {
		data, err := base64.StdEncoding.DecodeString(img.Base64)
		if err != nil {
			log.Printf("import: image %s payload undecodable: %v", img.ID, err)
			continue
		}
		key := "exams/" + e.ID + "/" + img.Filename
		if _, err := bs.Put(key, bytes.NewReader(data)); err != nil {
			log.Printf("import: store image %s: %v", key, err)
		}
	}
}
