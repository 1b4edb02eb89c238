package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JoseGzz/car-accident-clusters/internal/analysis"
	"github.com/JoseGzz/car-accident-clusters/internal/api"
	"github.com/JoseGzz/car-accident-clusters/internal/config"
	"github.com/JoseGzz/car-accident-clusters/internal/records"
	"github.com/JoseGzz/car-accident-clusters/internal/timeutil"
	"github.com/JoseGzz/car-accident-clusters/internal/version"
)

var (
	listen     = flag.String("listen", envOr("ACCIDENTS_LISTEN", ":8080"), "Listen address")
	dataFile   = flag.String("data", envOr("ACCIDENTS_DATA", "accidents.csv"), "Path to the accidents CSV file")
	dbDSN      = flag.String("db", envOr("ACCIDENTS_DB", ""), "Database DSN; when set, records load from SQL instead of CSV")
	dbDriver   = flag.String("db-driver", envOr("ACCIDENTS_DB_DRIVER", "sqlite"), "Database driver: sqlite or pgx")
	configFile = flag.String("config", envOr("ACCIDENTS_CONFIG", ""), "Optional analysis defaults JSON file")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newStore() (*records.Store, error) {
	if *dbDSN != "" {
		return records.NewFromSQL(*dbDriver, *dbDSN)
	}
	return records.NewFromCSV(*dataFile)
}

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	log.Printf("car-accident-clusters %s starting", version.Version)

	cfg := config.EmptyAnalysis()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	store, err := newStore()
	if err != nil {
		log.Fatalf("failed to load records: %v", err)
	}
	log.Printf("loaded %d records from %s", store.Len(), store.Source())

	analyzer := analysis.New(store, cfg, timeutil.RealClock{})

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(store, analyzer, cfg).ServeMux()

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("graceful shutdown complete")
}
