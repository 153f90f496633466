package http

import (
	"net/http"

	"timesheet/internal/core"
)

// Goals

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Career.ListGoals(r.Context()))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Career.GetGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, g)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.SmartGoal
	if err := decodeJSON(r, &g); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Career.CreateGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).TriggerCareerChanged("goals").JSON(created).Write(w)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, err := s.svc.Career.GetGoal(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(r, &g); err != nil {
		writeError(w, r, err)
		return
	}
	g.ID = id
	updated, err := s.svc.Career.UpdateGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerCareerChanged("goals").JSON(updated).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Career.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).TriggerCareerChanged("goals").Write(w)
}

func (s *Server) handleToggleAction(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Career.ToggleAction(r.Context(), r.PathValue("id"), r.PathValue("item"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerCareerChanged("goals").JSON(g).Write(w)
}

func (s *Server) handleToggleMilestone(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Career.ToggleMilestone(r.Context(), r.PathValue("id"), r.PathValue("item"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerCareerChanged("goals").JSON(g).Write(w)
}

// Events

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Career.ListEvents(r.Context()))
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var e core.Event
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Career.AddEvent(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).TriggerCareerChanged("events").JSON(created).Write(w)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Career.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).TriggerCareerChanged("events").Write(w)
}

// Traffic light

type categoryItems struct {
	Role     string                  `json:"role"`
	Category string                  `json:"category"`
	Progress int                     `json:"progress"`
	Items    []core.TrafficLightItem `json:"items"`
}

func (s *Server) categoryItems(r *http.Request) categoryItems {
	role, category := r.PathValue("role"), r.PathValue("category")
	return categoryItems{
		Role:     role,
		Category: category,
		Progress: s.svc.Career.CategoryProgress(r.Context(), role, category),
		Items:    s.svc.Career.ListItems(r.Context(), role, category),
	}
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.categoryItems(r))
}

// handleInitCategory seeds an empty category with the default texts in the
// body ("defaults"). A category that already has items is left alone.
func (s *Server) handleInitCategory(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.svc.Career.InitializeCategory(r.Context(), r.PathValue("role"), r.PathValue("category"), p.GetStrings("defaults")); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerCareerChanged("traffic-light").JSON(s.categoryItems(r)).Write(w)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var item core.TrafficLightItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	item.Role, item.Category = r.PathValue("role"), r.PathValue("category")
	created, err := s.svc.Career.AddItem(r.Context(), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).TriggerCareerChanged("traffic-light").JSON(created).Write(w)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var item core.TrafficLightItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	item.ID = r.PathValue("id")
	updated, err := s.svc.Career.UpdateItem(r.Context(), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerCareerChanged("traffic-light").JSON(updated).Write(w)
}

// handleRateItem sets the rating; sending the current rating again clears it.
func (s *Server) handleRateItem(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	rating, err := p.GetInt("rating")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := s.svc.Career.RateItem(r.Context(), r.PathValue("id"), rating)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerCareerChanged("traffic-light").JSON(item).Write(w)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Career.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).TriggerCareerChanged("traffic-light").Write(w)
}

// Resources

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Career.ListResources(r.Context()))
}

func (s *Server) handleAddResource(w http.ResponseWriter, r *http.Request) {
	var res core.Resource
	if err := decodeJSON(r, &res); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Career.AddResource(r.Context(), res)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).TriggerCareerChanged("resources").JSON(created).Write(w)
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	var res core.Resource
	if err := decodeJSON(r, &res); err != nil {
		writeError(w, r, err)
		return
	}
	res.ID = r.PathValue("id")
	updated, err := s.svc.Career.UpdateResource(r.Context(), res)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerCareerChanged("resources").JSON(updated).Write(w)
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Career.DeleteResource(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).TriggerCareerChanged("resources").Write(w)
}

// Profile

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Career.Profile(r.Context()))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p core.Profile
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.svc.Career.UpdateProfile(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerCareerChanged("profile").JSON(updated).Write(w)
}
