package http

import (
	"errors"
	"net/http"

	"timesheet/internal/core"
	"timesheet/internal/report"
)

// handleWeek returns the calendar view of a week. Viewing a week with
// entries moves it from not-started to in-progress.
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	week, err := pathWeek(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.svc.Timesheet.ObserveWeek(r.Context(), week.ID()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s.svc.Stats.Overview(r.Context(), week))
}

func (s *Server) handleAssignSlot(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Timesheet.AssignSlot(r.Context(), r.PathValue("week"), r.PathValue("slot"), p.Get("accountId"))
	if errors.Is(err, core.ErrAccountNotFound) {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerWeekChanged(a.WeekID).JSON(a).Write(w)
}

func (s *Server) handleClearSlot(w http.ResponseWriter, r *http.Request) {
	week, err := pathWeek(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Timesheet.ClearSlot(r.Context(), week.ID(), r.PathValue("slot")); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).TriggerWeekChanged(week.ID()).Write(w)
}

func (s *Server) handleClearWeek(w http.ResponseWriter, r *http.Request) {
	week, err := pathWeek(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := s.svc.Timesheet.ClearWeek(r.Context(), week.ID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().
		TriggerWeekChanged(week.ID()).
		TriggerSuccessNotification("Week cleared").
		JSON(map[string]any{"weekId": week.ID(), "removed": n, "status": core.StatusNotStarted}).
		Write(w)
}

func (s *Server) handleCompleteWeek(w http.ResponseWriter, r *http.Request) {
	week, err := pathWeek(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Timesheet.CompleteWeek(r.Context(), week.ID()); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().
		TriggerWeekChanged(week.ID()).
		TriggerSuccessNotification("Week completed").
		JSON(map[string]any{"weekId": week.ID(), "status": core.StatusCompleted}).
		Write(w)
}

func (s *Server) handleWeekStats(w http.ResponseWriter, r *http.Request) {
	week, err := pathWeek(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s.svc.Stats.WeekStats(r.Context(), week))
}

func (s *Server) handleAccountHours(w http.ResponseWriter, r *http.Request) {
	week, err := pathWeek(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s.svc.Stats.HoursForAccount(r.Context(), week, r.PathValue("id")))
}

// handleWeekReport renders the week as an HTML page, or as markdown with
// ?format=md.
func (s *Server) handleWeekReport(w http.ResponseWriter, r *http.Request) {
	week, err := pathWeek(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	note, err := s.svc.Career.WeekNote(r.Context(), week.ID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	source, err := report.Week(s.svc.Stats.Overview(r.Context(), week), note.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeReport(w, r, "Week of "+week.ID(), source)
}

func (s *Server) handleGetWeekNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.svc.Career.WeekNote(r.Context(), r.PathValue("week"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, note)
}

func (s *Server) handleSaveWeekNote(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	note, err := s.svc.Career.SaveWeekNote(r.Context(), r.PathValue("week"), p.Get("notes"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(note).Write(w)
}

// writeReport answers with the HTML page of a markdown report, or the
// markdown itself when ?format=md.
func (s *Server) writeReport(w http.ResponseWriter, r *http.Request, title, source string) {
	if r.URL.Query().Get("format") == "md" {
		NewResponse().Body("text/markdown; charset=utf-8", []byte(source)).Write(w)
		return
	}
	page, err := report.Page(title, source)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Body("text/html; charset=utf-8", page).Write(w)
}
