// Command routeguardd is the Routeguard platform service.
// It serves the analysis and trip REST API, the disruption webhook
// endpoint, and a health check.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/quantara/routeguard/internal/analysis"
	"github.com/quantara/routeguard/internal/api"
	"github.com/quantara/routeguard/internal/cache"
	"github.com/quantara/routeguard/internal/disrupt"
	"github.com/quantara/routeguard/internal/platform"
	"github.com/quantara/routeguard/internal/trip"
	"github.com/quantara/routeguard/pkg/config"
)

type serverConfig struct {
	Port           string
	DatabaseURL    string
	WebhookSecret  string
	APIKey         string
	StorageBackend string
	ConfigPath     string
}

func loadServerConfig() serverConfig {
	return serverConfig{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		APIKey:         os.Getenv("API_KEY"),
		StorageBackend: envOrDefault("STORAGE_BACKEND", "local"),
		ConfigPath:     os.Getenv("ROUTEGUARD_CONFIG"),
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}

	srvCfg := loadServerConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scoringCfg := loadScoringConfig(srvCfg.ConfigPath)

	// DATABASE_URL is optional. Without it the service still scores and
	// compares, but trip persistence endpoints return 503.
	var db *sql.DB
	var tripSvc *trip.Service
	if srvCfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", srvCfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatalf("ping database: %v", err)
		}
		if err := platform.AutoMigrate(db); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		tripSvc = trip.NewService(db)
	} else {
		log.Println("DATABASE_URL not set; trip persistence disabled")
	}

	storage, err := buildStorage(ctx, srvCfg.StorageBackend)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	routes := cache.NewRouteCache(
		scoringCfg.Cache.MaxEntries,
		time.Duration(scoringCfg.Cache.TTLMinutes)*time.Minute,
	)
	var source analysis.RouteSource
	if dir := os.Getenv("CANDIDATE_DIR"); dir != "" {
		source = analysis.NewDirectorySource(dir)
	} else {
		log.Println("CANDIDATE_DIR not set; analyze requests will require cached results")
	}

	analysisSvc := analysis.NewService(db, storage, source, nil, routes, scoringCfg)

	apiHandler := api.NewHandler(db, tripSvc, analysisSvc)
	disruptHandler := disrupt.NewHandler([]byte(srvCfg.WebhookSecret), routes, tripSvc, analysisSvc)

	mux := http.NewServeMux()
	apiHandler.RegisterRoutes(mux)
	mux.Handle("POST /v1/webhooks/disruptions", disruptHandler)
	mux.HandleFunc("GET /healthz", healthHandler(db))

	srv := &http.Server{
		Addr:    ":" + srvCfg.Port,
		Handler: api.CORS(api.APIKeyAuth(srvCfg.APIKey)(mux)),
	}

	go func() {
		log.Printf("starting routeguardd on :%s", srvCfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func loadScoringConfig(path string) *config.Config {
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(cwd)
		}
	}
	if path == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("warning: loading %s: %v; using defaults", path, err)
		return config.DefaultConfig()
	}
	return cfg
}

func buildStorage(ctx context.Context, backend string) (analysis.StorageClient, error) {
	switch backend {
	case "s3":
		return analysis.NewS3Storage(ctx, analysis.S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    envOrDefault("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		})
	case "gcs":
		return analysis.NewGCSStorage(ctx, os.Getenv("GCS_BUCKET"))
	default:
		return analysis.NewLocalStorage(envOrDefault("LOCAL_STORAGE_PATH", "/tmp/routeguard-data")), nil
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
