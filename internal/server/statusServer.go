// Package server exposes the migration's progress while a long run is
// going: prometheus metrics on /metrics and a JSON summary on /progress.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicops/migrator/internal/config"
	"github.com/clinicops/migrator/internal/domain/recordModel"
	"github.com/clinicops/migrator/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ProgressFunc func() recordModel.Summary

var _logger *logger_i.Logger

func CreateStatusServer(listenAddr string, progress ProgressFunc) {
	_logger = logger_i.NewLogger("StatusServer")

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/progress", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(progress()); err != nil {
			_logger.Error("Could not encode progress", "error", err)
		}
	})

	server := &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Status server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Status server crashed", "error", err.Error(), "addr", listenAddr)
	}
}
