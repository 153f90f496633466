package http

import (
	"net/http"

	"timesheet/internal/core"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Accounts.List(r.Context()))
}

func (s *Server) handleActiveAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Accounts.Active(r.Context()))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a core.Account
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Accounts.Create(r.Context(), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/accounts/"+created.ID).
		TriggerAccountsChanged().
		TriggerSuccessNotification("Account created").
		JSON(created).
		Write(w)
}

// handleUpdateAccount applies the fields present in the body on top of the
// stored account.
func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, err := s.svc.Accounts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	a.ID = id
	updated, err := s.svc.Accounts.Update(r.Context(), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerAccountsChanged().JSON(updated).Write(w)
}

func (s *Server) handleMoveAccount(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Accounts.Move(r.Context(), r.PathValue("id"), core.Group(p.Get("group")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerAccountsChanged().JSON(a).Write(w)
}

func (s *Server) handleSetAccountActive(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	if !p.Has("active") {
		UnprocessableEntityError("active is required").Write(w)
		return
	}
	active, err := p.GetBool("active", true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Accounts.SetActive(r.Context(), r.PathValue("id"), active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().TriggerAccountsChanged().JSON(a).Write(w)
}

// handleDeleteAccount removes the account, or deactivates it when the
// calendar still references it.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deactivated, err := s.svc.Accounts.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	msg := "Account deleted"
	if deactivated {
		msg = "Account is in use and was deactivated"
	}
	NewResponse().
		TriggerAccountsChanged().
		TriggerSuccessNotification(msg).
		JSON(map[string]any{"id": id, "deactivated": deactivated}).
		Write(w)
}
