package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/resumelens/resumelens/internal/application"
	appanalyses "github.com/resumelens/resumelens/internal/application/analyses"
	"github.com/resumelens/resumelens/internal/config"
	domain "github.com/resumelens/resumelens/internal/domain/analyses"
	"github.com/resumelens/resumelens/internal/domain/sessions"
	"github.com/resumelens/resumelens/internal/infra/analyzer/httpclient"
	aiopenai "github.com/resumelens/resumelens/internal/infra/analyzer/openai"
	mysqldb "github.com/resumelens/resumelens/internal/infra/db/mysql"
	postgresdb "github.com/resumelens/resumelens/internal/infra/db/postgres"
	"github.com/resumelens/resumelens/internal/infra/httpserver"
	"github.com/resumelens/resumelens/internal/infra/identity"
	minioStore "github.com/resumelens/resumelens/internal/infra/storage"
	"github.com/resumelens/resumelens/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect record store
	var (
		db   *sql.DB
		repo domain.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		if err := postgresdb.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("postgres schema error: %v", err)
		}
		repo = postgresdb.NewAnalysisRepository(db)
	default:
		db, err = mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		if err := mysqldb.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("mysql schema error: %v", err)
		}
		repo = mysqldb.NewAnalysisRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init analyzer backend
	var analyzer domain.Analyzer
	switch cfg.Analyzer.Mode {
	case "openai":
		analyzer = aiopenai.NewClient(cfg.Analyzer.OpenAI.APIKey, cfg.Analyzer.OpenAI.Model)
	default:
		analyzer = httpclient.New(cfg.Analyzer.BaseURL)
	}

	// init session provider
	tokens := make(map[string]sessions.Session, len(cfg.Auth.Tokens))
	for token, u := range cfg.Auth.Tokens {
		tokens[token] = sessions.Session{UID: u.UID, DisplayName: u.DisplayName}
	}
	provider := identity.New(tokens, db, cfg.Database.Driver)

	// init service
	svc := &appanalyses.Service{
		Analyzer:  analyzer,
		Artifacts: store,
		Repo:      repo,
		Clock:     application.SystemClock{},
	}

	// init router
	handler := httpserver.NewRouter(svc, provider, map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s (analyzer=%s db=%s)", addr, cfg.Analyzer.Mode, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
