package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/pfrederiksen/expat-events/internal/logger"
	"github.com/pfrederiksen/expat-events/internal/metrics"
	"github.com/pfrederiksen/expat-events/internal/pipeline"
	"github.com/pfrederiksen/expat-events/internal/storage"
)

// DefaultSchedule refreshes calendars every six hours.
const DefaultSchedule = "0 */6 * * *"

// ErrRunInProgress is returned by Refresh while another run holds the lock.
var ErrRunInProgress = errors.New("run already in progress")

// Runner performs one pipeline run.
type Runner func(ctx context.Context) (*pipeline.Report, error)

// Options configures a Server.
type Options struct {
	Run Runner
	// OutDir is the directory calendars are exported to and served from.
	OutDir string
	// Schedule is a standard five-field cron expression; empty disables scheduled runs.
	Schedule string
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
	// AccessLog receives one line per request; nil discards them.
	AccessLog io.Writer
}

// Server owns the refresh schedule and the HTTP routes.
type Server struct {
	run     Runner
	out     *storage.Storage
	metrics *metrics.Metrics
	log     *logger.Logger
	cron    *cron.Cron
	engine  *gin.Engine

	runMu sync.Mutex

	mu   sync.RWMutex
	last runState
}

// runState is the outcome of the most recent run.
type runState struct {
	report *pipeline.Report
	err    error
	at     time.Time
}

// New validates opts and builds the router and scheduler. Nothing runs until Start.
func New(opts Options) (*Server, error) {
	if opts.Run == nil {
		return nil, errors.New("server: Run is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.AccessLog == nil {
		opts.AccessLog = io.Discard
	}

	out, err := storage.New(opts.OutDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		run:     opts.Run,
		out:     out,
		metrics: opts.Metrics,
		log:     opts.Logger,
		cron:    cron.New(),
	}

	if opts.Schedule != "" {
		if _, err := s.cron.AddFunc(opts.Schedule, s.scheduledRun); err != nil {
			return nil, fmt.Errorf("parsing refresh schedule %q: %w", opts.Schedule, err)
		}
	}

	s.engine = newRouter(s, opts.AccessLog)
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Refresh runs the pipeline unless a run is already in progress.
func (s *Server) Refresh(ctx context.Context) (*pipeline.Report, error) {
	if !s.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	report, err := s.run(ctx)

	s.mu.Lock()
	s.last = runState{report: report, err: err, at: time.Now().UTC()}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("refresh failed", nil, err)
	} else if report != nil {
		s.log.Info("refresh completed", logger.Fields{"events": report.TotalEvents()})
	}
	return report, err
}

func (s *Server) scheduledRun() {
	if _, err := s.Refresh(context.Background()); errors.Is(err, ErrRunInProgress) {
		s.log.Warn("scheduled refresh skipped, previous run still active", nil)
	}
}

func (s *Server) status() runState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Start runs the pipeline once, starts the schedule and serves addr until ctx is
// canceled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrRunInProgress) {
			s.log.Warn("initial refresh failed, serving existing files", logger.Fields{"error": err.Error()})
		}
	}()
	s.cron.Start()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", logger.Fields{"addr": addr, "out_dir": s.out.Dir()})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		<-s.cron.Stop().Done()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	<-s.cron.Stop().Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http: %w", err)
	}
	return nil
}
