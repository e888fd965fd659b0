package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kjannette/pulse-backend/internal/market"
	"github.com/kjannette/pulse-backend/internal/models"
)

// Refresher is the part of the market service the warmer drives.
type Refresher interface {
	AllMovers(ctx context.Context) (market.MoversReport, error)
	ForexHeatmap(ctx context.Context) (models.Heatmap, error)
	CryptoHeatmap(ctx context.Context) (models.Heatmap, error)
}

type Notifier interface {
	Send(ctx context.Context, msg string) error
	Enabled() bool
}

type WarmerConfig struct {
	Schedule         string        // standard 5-field cron spec or "@every 2m"
	ThresholdPercent float64       // alert when |rawPercent| reaches this
	AlertCooldown    time.Duration // per symbol, default 1h
	RunTimeout       time.Duration // per warm run, default 2m
	Now              func() time.Time
}

// Warmer refreshes the slow endpoints on a cron schedule so user requests
// hit a warm cache, and alerts on large movers.
type Warmer struct {
	svc    Refresher
	notify Notifier
	cfg    WarmerConfig
	logger *slog.Logger

	mu       sync.Mutex
	cron     *cron.Cron
	running  bool
	alerted  map[string]time.Time
	lastRun  time.Time
	lastErrs int
}

func NewWarmer(svc Refresher, notify Notifier, cfg WarmerConfig, logger *slog.Logger) *Warmer {
	if cfg.ThresholdPercent <= 0 {
		cfg.ThresholdPercent = 5
	}
	if cfg.AlertCooldown <= 0 {
		cfg.AlertCooldown = time.Hour
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 2 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Warmer{
		svc:     svc,
		notify:  notify,
		cfg:     cfg,
		logger:  logger.With("component", "scheduler"),
		alerted: make(map[string]time.Time),
	}
}

// Start registers the schedule. An empty schedule leaves the warmer off.
func (w *Warmer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		w.logger.Info("warmer already running")
		return nil
	}
	if w.cfg.Schedule == "" {
		w.logger.Info("warmer disabled, no schedule")
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{w.logger})))
	if _, err := c.AddFunc(w.cfg.Schedule, w.tick); err != nil {
		return fmt.Errorf("register warm schedule %q: %w", w.cfg.Schedule, err)
	}
	c.Start()

	w.cron = c
	w.running = true
	w.logger.Info("warmer started", "schedule", w.cfg.Schedule)
	return nil
}

// Stop halts the schedule and waits for a running warm to finish.
func (w *Warmer) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.running = false
	w.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	w.logger.Info("warmer stopped")
}

func (w *Warmer) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// LastRun returns when the last warm finished and how many endpoints failed.
func (w *Warmer) LastRun() (time.Time, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun, w.lastErrs
}

func (w *Warmer) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.RunTimeout)
	defer cancel()
	if err := w.RunNow(ctx); err != nil {
		w.logger.Warn("warm run finished with errors", "error", err)
	}
}

// RunNow warms every endpoint once and sends alerts for large movers.
func (w *Warmer) RunNow(ctx context.Context) error {
	started := w.cfg.Now()
	var errs []error

	report, err := w.svc.AllMovers(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("all-movers: %w", err))
	} else {
		w.alert(ctx, report.Movers)
	}
	if _, err := w.svc.ForexHeatmap(ctx); err != nil {
		errs = append(errs, fmt.Errorf("forex-heatmap: %w", err))
	}
	if _, err := w.svc.CryptoHeatmap(ctx); err != nil {
		errs = append(errs, fmt.Errorf("crypto-heatmap: %w", err))
	}

	w.mu.Lock()
	w.lastRun = w.cfg.Now()
	w.lastErrs = len(errs)
	w.mu.Unlock()

	w.logger.Info("cache warmed", "took", w.cfg.Now().Sub(started), "errors", len(errs))
	return errors.Join(errs...)
}

// BigMovers returns movers at or above threshold in absolute percent.
func BigMovers(movers []models.Mover, threshold float64) []models.Mover {
	var out []models.Mover
	for _, m := range movers {
		if m.AbsPercent() >= threshold {
			out = append(out, m)
		}
	}
	return out
}

func (w *Warmer) alert(ctx context.Context, movers []models.Mover) {
	if w.notify == nil || !w.notify.Enabled() {
		return
	}

	now := w.cfg.Now()
	var lines []string

	w.mu.Lock()
	for _, m := range BigMovers(movers, w.cfg.ThresholdPercent) {
		key := m.Symbol + "|" + string(m.Trend)
		if last, ok := w.alerted[key]; ok && now.Sub(last) < w.cfg.AlertCooldown {
			continue
		}
		w.alerted[key] = now
		lines = append(lines, fmt.Sprintf("%s (%s, %s) %s", m.Name, m.Symbol, m.AssetType, m.Change))
	}
	w.mu.Unlock()

	if len(lines) == 0 {
		return
	}
	msg := fmt.Sprintf("Big movers (>= %.1f%%):\n%s", w.cfg.ThresholdPercent, strings.Join(lines, "\n"))
	if err := w.notify.Send(ctx, msg); err != nil {
		w.logger.Error("mover alert failed", "error", err)
	}
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
