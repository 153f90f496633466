package http

import (
	"fmt"
	"net/http"

	"timesheet/internal/report"
)

func (s *Server) handleMonthStats(w http.ResponseWriter, r *http.Request) {
	year, month, err := pathYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s.svc.Stats.MonthlyStats(r.Context(), year, month))
}

func (s *Server) handleMonthReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := pathYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	source, err := report.Month(s.svc.Stats.MonthlyStats(r.Context(), year, month))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeReport(w, r, fmt.Sprintf("%s %d", month, year), source)
}

func (s *Server) handleYearStats(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s.svc.Stats.YearStats(r.Context(), year))
}

func (s *Server) handleYearAccounts(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s.svc.Stats.AccountSummary(r.Context(), year))
}

func (s *Server) handleYearReport(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()
	source, err := report.Year(s.svc.Stats.YearStats(ctx, year), s.svc.Stats.AccountSummary(ctx, year))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeReport(w, r, fmt.Sprintf("%d in review", year), source)
}
