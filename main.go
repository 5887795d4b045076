package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/cache"
	"github.com/formforge/formforge/internal/config"
	"github.com/formforge/formforge/internal/docstore"
	"github.com/formforge/formforge/internal/editor"
	"github.com/formforge/formforge/internal/gelf"
	"github.com/formforge/formforge/internal/handler"
	"github.com/formforge/formforge/internal/media"
	"github.com/formforge/formforge/internal/repository"
	"github.com/formforge/formforge/internal/router"
	"github.com/formforge/formforge/internal/service"
	"github.com/formforge/formforge/internal/session"
)

func main() {
	cfg := config.Load()

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr, "formforge")
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	// Document store: a remote TCP store in production, in-memory for local
	// development and tests.
	var store docstore.Store
	if cfg.MemoryStore {
		store = docstore.NewMemStore()
		log.Printf("Document store: in-memory")
	} else {
		pool, err := docstore.NewPool(cfg.DocStoreHost, cfg.DocStorePort, cfg.PoolSize)
		if err != nil {
			log.Fatalf("Failed to connect to document store: %v", err)
		}
		defer pool.Close()
		store = docstore.NewTCPStore(pool)
		log.Printf("Document store: %s:%d (pool size: %d)", cfg.DocStoreHost, cfg.DocStorePort, cfg.PoolSize)
	}

	// Refresh sessions in Redis
	sessions, err := session.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer sessions.Close()

	// Media storage
	var storage media.Storage = media.Disabled{}
	if cfg.MinioEndpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s, err := media.NewMinioStorage(ctx, media.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			BaseURL:   cfg.MediaBaseURL,
		})
		cancel()
		if err != nil {
			log.Printf("Warning: media storage init failed, uploads disabled: %v", err)
		} else {
			storage = s
			log.Printf("Media storage: %s/%s", cfg.MinioEndpoint, cfg.MinioBucket)
		}
	}

	// Repositories
	userRepo := repository.NewUserRepo(store)
	workspaceRepo := repository.NewWorkspaceRepo(store)
	formRepo := repository.NewFormRepo(store)
	subRepo := repository.NewSubmissionRepo(store)

	// Cache coordinator, wired to drop everything when the user changes.
	coord := cache.New(auth.ContextIdentity{}, cfg.FormsTTL, cfg.WorkspacesTTL)
	notifier := auth.NewNotifier()
	notifier.Subscribe(func(ev auth.Event, userID string) {
		coord.Reset()
	})

	// Services
	wsSvc := service.NewWorkspaceService(workspaceRepo, formRepo, coord)
	formSvc := service.NewFormService(formRepo, workspaceRepo, coord)
	authSvc := service.NewAuthService(userRepo, wsSvc, sessions, notifier, cfg.JWTSecret)
	subSvc := service.NewSubmissionService(subRepo, formRepo, coord)
	mediaSvc := service.NewMediaService(storage, formRepo)
	dashSvc := service.NewDashboardService(formRepo, subRepo, workspaceRepo)

	// Editor sessions over the debounced write pipeline.
	pipeline := editor.NewPipeline(cfg.DebounceInterval, formSvc.SaveSnapshot)
	manager := editor.NewManager(pipeline)

	// Handlers
	h := router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Workspace:  handler.NewWorkspaceHandler(wsSvc),
		Form:       handler.NewFormHandler(formSvc),
		Editor:     handler.NewEditorHandler(manager, formSvc, cfg.PreviewSample),
		Submission: handler.NewSubmissionHandler(subSvc, formSvc),
		Media:      handler.NewMediaHandler(mediaSvc),
		Dashboard:  handler.NewDashboardHandler(dashSvc),
		Health:     handler.NewHealthHandler(store, sessions),
	}
	r := router.New(cfg.JWTSecret, cfg.CORSOrigin, h)

	// Index creation and admin seeding run in background so slow index
	// builds never block the first requests.
	go func() {
		ctx := context.Background()
		log.Printf("Background init: starting")
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			log.Printf("Warning: user indexes: %v", err)
		}
		if err := workspaceRepo.EnsureIndexes(ctx); err != nil {
			log.Printf("Warning: workspace indexes: %v", err)
		}
		if err := formRepo.EnsureIndexes(ctx); err != nil {
			log.Printf("Warning: form indexes: %v", err)
		}
		if err := subRepo.EnsureIndexes(ctx); err != nil {
			log.Printf("Warning: submission indexes: %v", err)
		}
		if err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPass); err != nil {
			log.Printf("Warning: failed to seed admin: %v", err)
		}
		log.Printf("Background init: done")
	}()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("FormForge server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// Editor sessions first: their flush must land before the store pool
	// goes away.
	log.Printf("Shutting down, flushing editor sessions")
	manager.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Warning: shutdown: %v", err)
	}
	log.Printf("Server stopped")
}
