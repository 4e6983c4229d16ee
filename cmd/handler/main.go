package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rocjay1/jars-ledger/internal/config"
	"github.com/rocjay1/jars-ledger/internal/handler"
	"github.com/rocjay1/jars-ledger/internal/ledger"
	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/rocjay1/jars-ledger/internal/services"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := newStore(cfg)
	if err != nil {
		slog.Error("Failed to init ledger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &handler.Dependencies{
		Store:     store,
		UserEmail: cfg.UserEmail,
	}
	initServices(ctx, cfg, deps)

	// Router
	mux := http.NewServeMux()
	deps.RegisterRoutes(mux)

	// Month close
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.MonthCloseSchedule, func() {
		if _, err := deps.RunMonthClose(ctx); err != nil {
			slog.Error("Scheduled month close failed", "error", err)
		}
	}); err != nil {
		slog.Error("Failed to schedule month close", "schedule", cfg.MonthCloseSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	slog.Info("Month close scheduled", "schedule", cfg.MonthCloseSchedule)

	// The Functions host assigns the port when running as a custom handler.
	port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT")
	if port == "" {
		port = cfg.Port
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           loggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down")
		<-scheduler.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting server", "port", port, "base_currency", cfg.BaseCurrency)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level, format string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func newStore(cfg *config.Config) (*ledger.Store, error) {
	members, err := cfg.Members()
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = ledger.DefaultMembers()
	}

	rates := models.DefaultExchangeRates()
	rates[models.CurrencyUSD] = cfg.USDRate
	rates[models.CurrencyEUR] = cfg.EURRate

	store, err := ledger.NewStore(ledger.Options{
		BaseCurrency: models.CurrencyCode(cfg.BaseCurrency),
		Rates:        rates,
		Members:      members,
		Descriptions: ledger.DefaultDescriptions,
	})
	if err != nil {
		return nil, err
	}

	if cfg.SeedDemo {
		if err := store.SeedDemo(members[0].ID); err != nil {
			return nil, err
		}
		slog.Info("Loaded demo data", "user_id", members[0].ID)
	}
	return store, nil
}

// initServices wires the optional integrations. Each one that is not
// configured or fails to start is left nil and its endpoints report it.
func initServices(ctx context.Context, cfg *config.Config, deps *handler.Dependencies) {
	cred, err := services.NewCredential(cfg.BlobServiceURL, cfg.QueueServiceURL, cfg.TableServiceURL, cfg.CommunicationServicesEndpoint)
	if err != nil {
		slog.Warn("Failed to init Azure credential (continuing anyway)", "error", err)
	}

	if cfg.BlobServiceURL != "" {
		if blob, err := services.NewBlobService(cfg.BlobServiceURL, cred); err != nil {
			slog.Warn("Failed to init BlobService (continuing anyway)", "error", err)
		} else {
			deps.Blob = blob
		}
	} else {
		slog.Warn("BLOB_SERVICE_URL is not set; CSV import is disabled")
	}

	if cfg.QueueServiceURL != "" {
		if queue, err := services.NewQueueService(cfg.QueueServiceURL, cred); err != nil {
			slog.Warn("Failed to init QueueService (continuing anyway)", "error", err)
		} else {
			deps.Queue = queue
		}
	} else {
		slog.Warn("QUEUE_SERVICE_URL is not set; CSV import is disabled")
	}

	if cfg.TableServiceURL != "" {
		if archive, err := services.NewArchiveService(ctx, cfg.TableServiceURL, cfg.ArchiveTable, cred); err != nil {
			slog.Warn("Failed to init ArchiveService (continuing anyway)", "error", err)
		} else {
			deps.Archive = archive
		}
	} else {
		slog.Warn("TABLE_SERVICE_URL is not set; closed months are not archived")
	}

	if cfg.CommunicationServicesEndpoint != "" {
		if email, err := services.NewEmailService(cfg.CommunicationServicesEndpoint, cfg.SenderEmail, cred); err != nil {
			slog.Warn("Failed to init EmailService (continuing anyway)", "error", err)
		} else {
			deps.Email = email
		}
	}

	if cfg.AdviceAPIKey != "" {
		if advice, err := services.NewAdviceService(ctx, cfg.AdviceAPIURL, cfg.AdviceAPIKey, cfg.AdviceModel); err != nil {
			slog.Warn("Failed to init AdviceService (continuing anyway)", "error", err)
		} else {
			deps.Advice = advice
		}
	} else {
		slog.Warn("ADVICE_API_KEY is not set; advice returns the fallback message")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

const maxBodyPreview = 512

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Read body for logging (and restore it)
		var bodyBytes []byte
		if r.Body != nil && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			bodyBytes, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}
		preview := bodyBytes
		if len(preview) > maxBodyPreview {
			preview = preview[:maxBodyPreview]
		}

		slog.Debug("incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"content_type", r.Header.Get("Content-Type"),
			"content_length", r.ContentLength,
			"body_preview", string(preview),
		)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		slog.Info("request completed", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", duration)
	})
}
