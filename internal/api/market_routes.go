package api

import (
	"net/http"

	"github.com/kjannette/pulse-backend/internal/models"
)

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	raw, err := s.market.News(r.Context())
	if err != nil {
		s.logger.Error("news fetch failed", "requestId", requestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch news")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// handleAllMovers serves the ranked feed; ?debug=true adds skip reasons.
func (s *Server) handleAllMovers(w http.ResponseWriter, r *http.Request) {
	report, err := s.market.AllMovers(r.Context())
	if err != nil {
		s.logger.Error("all-movers failed", "requestId", requestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch movers")
		return
	}
	if parseBool(r, "debug") {
		writeJSON(w, http.StatusOK, report)
		return
	}
	writeJSON(w, http.StatusOK, report.Movers)
}

// handleEconomicCalendar supports ?date=YYYY-MM-DD, ?importance= and ?limit=.
func (s *Server) handleEconomicCalendar(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !validateDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}
	importance := models.Importance(r.URL.Query().Get("importance"))
	switch importance {
	case "", models.ImportanceHigh, models.ImportanceMedium, models.ImportanceLow:
	default:
		writeError(w, http.StatusBadRequest, "importance must be High, Medium or Low")
		return
	}

	events, err := s.market.EconomicCalendar(r.Context())
	if err != nil {
		s.logger.Error("economic calendar failed", "requestId", requestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch economic calendar")
		return
	}

	limit := parseLimit(r, maxQueryLimit)
	out := make([]models.CalendarEvent, 0, min(len(events), limit))
	for _, ev := range events {
		if len(out) == limit {
			break
		}
		if date != "" && ev.Date != date {
			continue
		}
		if importance != "" && ev.Importance != importance {
			continue
		}
		out = append(out, ev)
	}
	writeJSON(w, http.StatusOK, out)
}
