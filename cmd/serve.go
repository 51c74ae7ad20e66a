package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siimots/sadamad-data/internal/model"
	"github.com/siimots/sadamad-data/internal/monitoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the output directory over HTTP",
	Long:  "Serves the output directory with CORS, /health, /ports/{id}, and /metrics. /metrics includes the last scrape's metrics when metrics.textfile is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(cfg.Output.Dir, cfg.Output.CompactFile, serveGatherer(reg, cfg.Metrics.Textfile)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.String("dir", cfg.Output.Dir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// serveGatherer adds the scrape metrics from textfile, when set, to reg.
func serveGatherer(reg *prometheus.Registry, textfile string) prometheus.Gatherer {
	if textfile == "" {
		return reg
	}
	return prometheus.Gatherers{reg, monitoring.TextfileGatherer(textfile)}
}

// buildRouter serves the published files under dir, single ports from
// dataFile, health, and metrics.
func buildRouter(dir, dataFile string, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/ports/{id}", func(w http.ResponseWriter, r *http.Request) {
		fc, err := loadCollection(filepath.Join(dir, dataFile))
		if err != nil {
			zap.L().Warn("serve: load collection", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "data not available"})
			return
		}
		f, ok := fc.Find(model.PortID(chi.URLParam(r, "id")))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "port not found"})
			return
		}
		writeJSON(w, http.StatusOK, f)
	})

	r.Handle("/*", http.FileServer(http.Dir(dir)))
	return r
}

func loadCollection(path string) (model.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FeatureCollection{}, eris.Wrapf(err, "serve: read %s", path)
	}
	var fc model.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return model.FeatureCollection{}, eris.Wrapf(err, "serve: decode %s", path)
	}
	return fc, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
