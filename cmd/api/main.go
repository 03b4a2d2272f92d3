package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cabinet-ia/patrimoine/backend/internal/config"
	"github.com/cabinet-ia/patrimoine/backend/internal/handler"
	"github.com/cabinet-ia/patrimoine/backend/internal/model/profile"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/ai"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/search"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/session"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/title"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/turn"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Missing model credentials are a configuration error: nothing can
	// proceed without the generation collaborator.
	if !cfg.AI.Enabled() {
		log.Fatal("model credentials missing: set ARK_API_KEY (or ARK_ACCESS_KEY/ARK_SECRET_KEY) and ARK_MODEL")
	}

	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}
	log.Println("AI service initialized successfully")

	profileStore := profile.NewMemoryStore(profile.Seed())
	sessionService := session.NewService(profileStore)
	titleService := title.NewService(aiService)
	searchClient := search.NewClient(cfg.Search.Endpoint, cfg.Search.Timeout, cfg.Search.MaxResults)
	orchestrator := turn.New(aiService, titleService, searchClient)

	router := handler.NewRouter(handler.Config{
		Profiles:       profileStore,
		Sessions:       sessionService,
		Orchestrator:   orchestrator,
		MaxUploadBytes: cfg.Upload.MaxDocumentBytes,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Cabinet Patrimoine backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
