package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joelkehle/docintake/internal/aiextract"
	"github.com/joelkehle/docintake/internal/extraction"
	"github.com/joelkehle/docintake/internal/fieldscan"
	"github.com/joelkehle/docintake/internal/httpapi"
	"github.com/joelkehle/docintake/internal/record"
	"github.com/joelkehle/docintake/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "docintake.db", "path to SQLite database file")
	aiTimeout := flag.Duration("ai-timeout", 60*time.Second, "per-request model call timeout")
	flag.Parse()

	if port := os.Getenv("PORT"); port != "" {
		*addr = ":" + port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Init(ctx, "docintake-server")
	if err != nil {
		log.Fatalf("init telemetry: %v", err)
	}
	defer shutdownTracing(context.Background())

	var ai extraction.Extractor
	caller, err := aiextract.NewAnthropicCallerFromEnv()
	switch {
	case err == nil:
		ai = aiextract.NewExtractor(caller)
		log.Printf("model-backed extraction enabled")
	case errors.Is(err, aiextract.ErrNoCredential):
		log.Printf("ANTHROPIC_API_KEY not set, ai mode will fall back to regex")
	default:
		log.Fatalf("init model caller: %v", err)
	}

	store, err := record.Open(*dbPath)
	if err != nil {
		log.Fatalf("open record store (%s): %v", *dbPath, err)
	}
	defer store.Close()

	orch := extraction.NewOrchestrator(ai, fieldscan.NewEngine(fieldscan.DefaultConfig()), *aiTimeout)
	srv := &http.Server{
		Addr:    *addr,
		Handler: httpapi.NewServer(orch, store),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("docintake server listening on %s (db=%s)", *addr, *dbPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
