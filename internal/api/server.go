package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kjannette/pulse-backend/internal/cache"
	"github.com/kjannette/pulse-backend/internal/market"
	"github.com/kjannette/pulse-backend/internal/models"
)

const maxQueryLimit = 100

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// MarketService is everything the routes read from.
type MarketService interface {
	News(ctx context.Context) (json.RawMessage, error)
	Indices(ctx context.Context) ([]models.MarketQuote, error)
	Forex(ctx context.Context) ([]models.ForexRate, error)
	Crypto(ctx context.Context) ([]models.MarketQuote, error)
	Commodities(ctx context.Context) ([]models.MarketQuote, error)
	ForexStrength(ctx context.Context) (map[string]models.Strength, error)
	AllMovers(ctx context.Context) (market.MoversReport, error)
	ForexHeatmap(ctx context.Context) (models.Heatmap, error)
	CryptoHeatmap(ctx context.Context) (models.Heatmap, error)
	EconomicCalendar(ctx context.Context) ([]models.CalendarEvent, error)
	JSEStocks(ctx context.Context) ([]models.RegionalStock, error)
	USStocks(ctx context.Context) ([]models.RegionalStock, error)
	SAMarkets(ctx context.Context) (models.SAMarkets, error)
	CacheStatus(ctx context.Context) []cache.EntryStatus
	CacheBackend(ctx context.Context) (string, error)
}

type Server struct {
	market     MarketService
	httpServer *http.Server
	logger     *slog.Logger
	startedAt  time.Time
}

func NewServer(svc MarketService, port int, corsOrigin string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		market:    svc,
		logger:    logger.With("component", "api"),
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()

	// Pass-through
	mux.HandleFunc("GET /api/news", s.handleNews)

	// Per-class quotes
	mux.HandleFunc("GET /api/indices", serve(s, "indices", svc.Indices))
	mux.HandleFunc("GET /api/forex", serve(s, "forex rates", svc.Forex))
	mux.HandleFunc("GET /api/crypto", serve(s, "crypto prices", svc.Crypto))
	mux.HandleFunc("GET /api/commodities", serve(s, "commodities", svc.Commodities))
	mux.HandleFunc("GET /api/forex-strength", serve(s, "forex strength", svc.ForexStrength))

	// Cross-asset
	mux.HandleFunc("GET /api/all-movers", s.handleAllMovers)
	mux.HandleFunc("GET /api/forex-heatmap", serve(s, "forex heatmap", svc.ForexHeatmap))
	mux.HandleFunc("GET /api/crypto-heatmap", serve(s, "crypto heatmap", svc.CryptoHeatmap))
	mux.HandleFunc("GET /api/economic-calendar", s.handleEconomicCalendar)

	// Regional
	mux.HandleFunc("GET /api/jse-stocks", serve(s, "JSE stocks", svc.JSEStocks))
	mux.HandleFunc("GET /api/us-stocks", serve(s, "US stocks", svc.USStocks))
	mux.HandleFunc("GET /api/sa-markets", serve(s, "SA markets", svc.SAMarkets))

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           requestIDMiddleware(s.accessLog(corsMiddleware(mux, corsOrigin))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Cold heatmap builds pace dozens of provider calls.
		WriteTimeout: 90 * time.Second,
	}

	return s
}

// Handler exposes the full middleware stack, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	s.logger.Info("REST API server started", "addr", "http://localhost"+s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// serve adapts a cached service read into a JSON GET handler.
func serve[T any](s *Server, what string, load func(context.Context) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := load(r.Context())
		if err != nil {
			s.logger.Error("request failed", "path", r.URL.Path, "requestId", requestID(r.Context()), "error", err)
			writeError(w, http.StatusInternalServerError, "failed to fetch "+what)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// --- middleware ---

type ctxKey struct{}

const requestIDHeader = "X-Request-ID"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(start),
			"requestId", requestID(r.Context()))
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", requestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// parseLimit reads ?limit=, clamped to 1..maxQueryLimit. A non-numeric value
// means defaultLimit.
func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultLimit
	}
	return min(max(n, 1), maxQueryLimit)
}

func parseBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
