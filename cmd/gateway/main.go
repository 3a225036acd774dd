package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/anticheat"
	api "github.com/slowsoftst-star/dethitoan2026thuan201/internal/api/http"
	auth "github.com/slowsoftst-star/dethitoan2026thuan201/internal/auth/middleware"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/config"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/db"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/grading"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/rbac"
	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/storage"
	evlog "github.com/slowsoftst-star/dethitoan2026thuan201/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := exam.NewSQLStore(dbh, grading.NewEngine())
	events := evlog.NewEventLog(dbh)
	watcher := anticheat.NewWatcher(cfg.TabSwitchLimit)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})

		// Teacher: import and manage exams
		pr.With(rbac.Require("exam:import")).
			Post("/exams/import", api.ImportExamHandler(store, bs, events))
		pr.With(rbac.Require("exam:view-full")).
			Get("/exams", api.ListExamsHandler(store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}", api.GetExamHandler(store))
		pr.With(rbac.Require("exam:view-full")).
			Get("/exams/{examID}/full", api.GetExamFullHandler(store))
		pr.With(rbac.Require("exam:delete")).
			Delete("/exams/{examID}", api.DeleteExamHandler(store, bs))

		// Rooms
		pr.With(rbac.Require("room:create")).
			Post("/rooms", api.CreateRoomHandler(store))
		pr.With(rbac.RequireAny("room:view", "room:join")).
			Get("/rooms/{roomID}", api.GetRoomHandler(store))
		pr.With(rbac.Require("room:join")).
			Get("/rooms/code/{code}", api.GetRoomByCodeHandler(store))
		pr.With(rbac.Require("room:manage")).
			Post("/rooms/{roomID}/status", api.SetRoomStatusHandler(store, events))
		pr.With(rbac.Require("room:delete")).
			Delete("/rooms/{roomID}", api.DeleteRoomHandler(store))

		// Student flow
		pr.With(rbac.Require("submission:create")).
			Post("/rooms/{roomID}/join", api.JoinRoomHandler(store))
		pr.With(rbac.Require("submission:save")).
			Post("/submissions/{submissionID}/answers", api.SaveAnswersHandler(store))
		pr.With(rbac.Require("submission:submit")).
			Post("/submissions/{submissionID}/submit", api.SubmitHandler(store, watcher, events))
		pr.With(rbac.Require("submission:save")).
			Post("/submissions/{submissionID}/tab-switch", api.TabSwitchHandler(store, watcher))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/submissions/{submissionID}", api.GetSubmissionHandler(store))
		pr.With(rbac.Require("submission:view-all")).
			Get("/rooms/{roomID}/submissions", api.ListSubmissionsHandler(store))
	})

	log.Printf("gateway listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
