// Package http serves the JSON API over records, reports and exchange rates.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"spese/internal/log"
	"spese/internal/rates"
	"spese/internal/services"
)

// Options wires a Server. Records and Rates are required.
type Options struct {
	Records *services.RecordService
	Rates   *rates.Provider

	// DisplayCurrency is used when a request names no currency.
	DisplayCurrency string

	// Ready reports backend readiness for /readyz. Nil means always ready.
	Ready func(ctx context.Context) error

	// WriteLimit is the number of non-GET requests a client may make per
	// minute. Zero means 60.
	WriteLimit int

	Logger *log.Logger
}

type Server struct {
	http.Server
	records  *services.RecordService
	rates    *rates.Provider
	currency string
	ready    func(ctx context.Context) error
	logger   *log.Logger

	rateLimiter *rateLimiter
	metrics     securityMetrics

	stopCleanup  context.CancelFunc
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, opts Options) *Server {
	limit := opts.WriteLimit
	if limit <= 0 {
		limit = 60
	}
	currency := opts.DisplayCurrency
	if currency == "" {
		currency = opts.Records.BaseCurrency()
	}

	s := &Server{
		records:     opts.Records,
		rates:       opts.Rates,
		currency:    currency,
		ready:       opts.Ready,
		logger:      log.OrDefault(opts.Logger, log.ComponentHTTP),
		rateLimiter: newRateLimiter(limit, time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	mux.HandleFunc("PUT /api/records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("DELETE /api/records", s.handleClearRecords)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("GET /api/export", s.handleExport)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/calendar", s.handleCalendar)
	mux.HandleFunc("GET /api/report", s.handleReport)

	mux.HandleFunc("GET /api/rates", s.handleRates)
	mux.HandleFunc("POST /api/rates/refresh", s.handleRefreshRates)
	mux.HandleFunc("GET /api/convert", s.handleConvert)

	mux.HandleFunc("GET /api/categories", handleCategories)
	mux.HandleFunc("GET /api/categories/normalize", s.handleNormalize)

	var handler http.Handler = mux
	handler = s.withSecurity(handler)
	handler = log.AccessLog(handler)
	handler = log.RequestIDMiddleware(requestID)(handler)
	handler = log.Middleware(s.logger)(handler)

	ctx, cancel := context.WithCancel(context.Background())
	s.stopCleanup = cancel
	go s.rateLimiter.run(ctx)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Shutdown stops background cleanup and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.stopCleanup()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
