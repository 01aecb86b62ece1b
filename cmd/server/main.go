package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"archimap/internal/config"
	"archimap/internal/handler"
	"archimap/internal/hub"
	"archimap/internal/repository/sqlite"
	"archimap/internal/service"
	"archimap/internal/watcher"
)

func main() {
	// Command line flags override the config file
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite snapshot library path")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting archimap server...")

	var (
		cfg     *config.Config
		cfgFrom string
		err     error
	)
	if *configPath != "" {
		cfg, cfgFrom, err = config.LoadFromPath(*configPath)
	} else {
		cfg, cfgFrom, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgFrom != "" {
		log.Printf("Config loaded from %s", cfgFrom)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	// Initialize SQLite snapshot library
	repo, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Store.Path)

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Initialize SSE hub
	sseHub := hub.New()
	go sseHub.Run()

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(event)
		}
	}()

	// Audit log, if configured
	if cfg.Audit.Path != "" {
		audit, err := service.OpenAudit(cfg.Audit.Path)
		if err != nil {
			log.Fatalf("Failed to open audit log: %v", err)
		}
		defer audit.Close()

		auditChan := make(chan service.Event, 100)
		eventBus.Subscribe(auditChan)
		go func() {
			for event := range auditChan {
				if err := audit.Record(event); err != nil {
					log.Printf("Failed to write audit record: %v", err)
				}
			}
		}()
		log.Printf("Audit log: %s", cfg.Audit.Path)
	}

	// Initialize model service
	modelSvc := service.NewModelService(repo, eventBus, cfg.Model.Language)

	// Load the configured model file, if any
	if cfg.Model.Path != "" {
		res, err := modelSvc.OpenHierarchical(cfg.Model.Path)
		if err != nil {
			log.Printf("Warning: failed to open model %s: %v", cfg.Model.Path, err)
		} else {
			log.Printf("Model opened: %s (%d entries skipped)", cfg.Model.Path, len(res.Skipped))
		}
	}

	// Reload on external edits when watching is enabled
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Model.Watch && cfg.Model.Path != "" {
		w := watcher.New(cfg.Model.Path, func() {
			if _, err := modelSvc.OpenHierarchical(cfg.Model.Path); err != nil {
				log.Printf("Failed to reload model: %v", err)
			}
		})
		go func() {
			if err := w.Watch(watchCtx); err != nil && err != context.Canceled {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
	}

	// Initialize HTTP handlers
	modelHandler := handler.NewModelHandler(modelSvc)

	// Setup routes
	mux := http.NewServeMux()

	// Model lifecycle endpoints
	mux.HandleFunc("GET /api/model", modelHandler.GetModel)
	mux.HandleFunc("POST /api/model", modelHandler.NewModel)
	mux.HandleFunc("POST /api/model/open", modelHandler.OpenModel)
	mux.HandleFunc("POST /api/model/save", modelHandler.SaveModel)

	// Exchange dialect import/export
	mux.HandleFunc("POST /api/import/exchange", modelHandler.ImportExchange)
	mux.HandleFunc("GET /api/export/exchange", modelHandler.ExportExchange)

	// Element endpoints
	mux.HandleFunc("POST /api/elements", modelHandler.CreateElement)
	mux.HandleFunc("PUT /api/elements/{id}", modelHandler.UpdateElement)
	mux.HandleFunc("DELETE /api/elements/{id}", modelHandler.DeleteElement)

	// Relationship endpoints
	mux.HandleFunc("POST /api/relationships", modelHandler.CreateRelationship)
	mux.HandleFunc("DELETE /api/relationships/{id}", modelHandler.DeleteRelationship)

	// Taxonomy and validation endpoints
	mux.HandleFunc("GET /api/kinds", modelHandler.ListKinds)
	mux.HandleFunc("POST /api/validate", modelHandler.Validate)
	mux.HandleFunc("GET /api/validate/kinds", modelHandler.ListValidKinds)
	mux.HandleFunc("GET /api/validate/targets", modelHandler.ListTargets)

	// Diagram endpoints
	mux.HandleFunc("POST /api/diagrams", modelHandler.CreateDiagram)
	mux.HandleFunc("POST /api/diagrams/{id}/objects", modelHandler.AddDiagramObject)
	mux.HandleFunc("POST /api/diagrams/{id}/connections", modelHandler.AddDiagramConnection)
	mux.HandleFunc("GET /api/diagrams/{id}/graph", modelHandler.GetDiagramGraph)
	mux.HandleFunc("GET /api/diagrams/{id}/mermaid", modelHandler.GetDiagramMermaid)
	mux.HandleFunc("GET /api/diagrams/{id}/svg", modelHandler.GetDiagramSVG)

	// Snapshot library endpoints
	mux.HandleFunc("GET /api/library", modelHandler.ListLibrary)
	mux.HandleFunc("POST /api/library", modelHandler.SaveToLibrary)
	mux.HandleFunc("POST /api/library/{id}/load", modelHandler.LoadFromLibrary)
	mux.HandleFunc("DELETE /api/library/{id}", modelHandler.DeleteFromLibrary)

	// SSE events endpoint
	mux.Handle("GET /events", sseHub)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	// Create server
	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	watchCancel()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
