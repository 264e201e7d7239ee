package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"medical-intake-engine/internal/config"
	"medical-intake-engine/internal/conversation"
	"medical-intake-engine/internal/generator"
	"medical-intake-engine/internal/intake"
	"medical-intake-engine/internal/platform/telegram"
	"medical-intake-engine/internal/report"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file (optional)")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	// 1. Storage
	var store conversation.Store
	if cfg.Database.URL != "" {
		db, err := openDB(cfg.Database.URL, logger)
		if err != nil {
			logger.Fatalf("database: %v", err)
		}
		runMigrations(cfg.Database.MigrationsPath, cfg.Database.URL, logger)
		store = conversation.NewPostgresStore(db)
	} else {
		logger.Println("No DATABASE_URL set, using in-memory session store.")
		store = conversation.NewInMemoryStore()
	}

	// 2. Response generation
	var gen generator.Generator
	if cfg.Generator.URL != "" {
		gen = generator.NewHTTPClient(cfg.Generator.URL, cfg.Generator.APIKey, cfg.Generator.Timeout)
	} else {
		logger.Println("No GENERATOR_URL set, using the built-in local generator.")
		gen = generator.NewLocal()
	}

	// 3. Clinician messaging (optional)
	var notifier intake.ClinicianNotifier
	var reports intake.ReportRenderer
	if cfg.Telegram.BotToken != "" {
		tgClient := telegram.NewClient(cfg.Telegram.BotToken)
		reportSvc := report.NewService(tgClient, cfg.Telegram.ClinicianChatID)
		notifier = reportSvc
		reports = reportSvc
	} else {
		logger.Println("Warning: TELEGRAM_BOT_TOKEN is not set. Escalation alerts will not be delivered.")
		reports = report.NewService(nil, 0)
	}

	// 4. Services
	stages := conversation.NewStageController(logger)
	intakeSvc := intake.NewService(store, gen, stages, notifier, cfg.Intake.FallbackMessage, logger)
	intakeHandler := intake.NewHandler(intakeSvc, reports)

	// 5. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		intake.RegisterRoutes(r, intakeHandler)
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("Server starting on port %d...\n", cfg.Server.Port)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal(err)
	}
}

func openDB(connStr string, logger *log.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			return db, nil
		}
		logger.Printf("Waiting for DB... (%d/10)", i+1)
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

func runMigrations(sourceURL, dbURL string, logger *log.Logger) {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		logger.Printf("Migration init failed: %v", err)
		return
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Printf("Migration up failed: %v", err)
		return
	}
	logger.Println("Migrations applied successfully!")
}
