package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"omnidoc/internal/agent"
	"omnidoc/internal/auth"
	"omnidoc/internal/config"
	"omnidoc/internal/interview"
	"omnidoc/internal/metrics"
	"omnidoc/internal/patient"
	"omnidoc/internal/platform/email"
	"omnidoc/internal/report"
	"omnidoc/internal/session"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if cfg.LLM.APIKey == "" {
		log.Println("Warning: GROQ_API_KEY is not set. Interview questions will use fallback text.")
	}

	// 2. Infrastructure
	var db *sql.DB
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			break
		}
		log.Printf("Waiting for DB... (%d/10)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Could not connect to DB: %v", err)
	}
	log.Println("Connected to database.")

	m, err := migrate.New("file://migrations", cfg.Database.URL)
	if err != nil {
		log.Printf("Migration init failed: %v", err)
	} else if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Printf("Migration up failed: %v", err)
	} else {
		log.Println("Migrations applied.")
	}

	// 3. Collaborator clients
	llmClient := agent.NewCompletionClient(cfg.LLM)
	summarizer := agent.NewSummarizer(llmClient)
	ttsClient := agent.NewElevenLabsClient(cfg.TTS)
	sttClient := agent.NewWhisperClient(cfg.STT)
	emailClient := email.NewClient(cfg.SMTP)

	// 4. Repositories and services
	patientRepo := patient.NewRepository(db)
	sessionRepo := session.NewRepository(db)
	reportRepo := report.NewRepository(db)

	reportSvc := report.NewService(reportRepo, sessionRepo)
	interviewSvc := interview.NewService(interview.NewMemoryStore(), summarizer, interview.DefaultCatalog)

	patientHandler := patient.NewHandler(patientRepo)
	sessionHandler := session.NewHandler(sessionRepo, reportRepo)
	reportHandler := report.NewHandler(reportRepo, reportSvc)
	interviewHandler := interview.NewHandler(interviewSvc, reportSvc, ttsClient, sttClient)
	emailHandler := email.NewHandler(emailClient)

	// 5. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// CORS for the frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// Patient-facing interview flow; reached through the session link,
		// no clinician auth.
		interview.RegisterRoutes(r, interviewHandler)

		// Clinician-facing routes.
		r.Group(func(r chi.Router) {
			if cfg.Auth.Enabled {
				r.Use(auth.Middleware(cfg.Auth.JWTSecret))
			}
			patient.RegisterRoutes(r, patientHandler)
			session.RegisterRoutes(r, sessionHandler)
			report.RegisterRoutes(r, reportHandler)
			email.RegisterRoutes(r, emailHandler)
		})
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on %s...", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
