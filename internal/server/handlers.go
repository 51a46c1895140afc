// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/IT2357/catalog-engine/internal/aggregate"
	"github.com/IT2357/catalog-engine/internal/logger"
	"github.com/IT2357/catalog-engine/internal/selection"
	"github.com/IT2357/catalog-engine/pkg/types"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// catalogResponse answers GET /catalog.
type catalogResponse struct {
	Plan       types.SelectionPlan `json:"plan"`
	Items      []types.CatalogItem `json:"items"`
	Categories []types.Category    `json:"categories"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeSelectionError maps selection errors onto HTTP statuses.
func writeSelectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, selection.ErrUnknownPlan), errors.Is(err, selection.ErrUnknownItem):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, selection.ErrNotEligible), errors.Is(err, selection.ErrEmptySelection):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, selection.ErrInvalidStay):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	pub, err := s.search.Search(r.Context(), q)
	if errors.Is(err, aggregate.ErrQueryTooShort) {
		writeError(w, http.StatusBadRequest, "query_too_short", err.Error())
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("search failed", zap.String("query", q), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "search failed")
		return
	}
	writeJSON(w, http.StatusOK, pub)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	f := selection.Filter{
		Term:       params.Get("term"),
		CategoryID: params.Get("category"),
		PlanID:     params.Get("plan"),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.engine.Filtered(f)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	categories, err := s.engine.AvailableCategories(f.PlanID)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	plan := s.engine.Plan()
	for _, p := range s.engine.Plans() {
		if p.ID == f.PlanID {
			plan = p
		}
	}
	if items == nil {
		items = []types.CatalogItem{}
	}
	if categories == nil {
		categories = []types.Category{}
	}
	writeJSON(w, http.StatusOK, catalogResponse{Plan: plan, Items: items, Categories: categories})
}

// stayParams reads nights and guests, defaulting each to 1.
func stayParams(r *http.Request) (nights, guests int, ok bool) {
	nights, guests = 1, 1
	params := r.URL.Query()
	if v := params.Get("nights"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		nights = n
	}
	if v := params.Get("guests"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		guests = n
	}
	return nights, guests, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	nights, guests, ok := stayParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "nights and guests must be integers")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	summary, err := s.engine.Summary(nights, guests)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSetPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.SetPlan(chi.URLParam(r, "planID")); err != nil {
		writeSelectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Plan())
}

func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Increment(itemID); err != nil {
		writeSelectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"quantity": s.engine.Quantity(itemID)})
}

// handleDecrement removes one unit, or the whole line with ?all=true.
func (s *Server) handleDecrement(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	s.mu.Lock()
	defer s.mu.Unlock()

	if all {
		s.engine.RemoveAll(itemID)
	} else {
		s.engine.Decrement(itemID)
	}
	writeJSON(w, http.StatusOK, map[string]int{"quantity": s.engine.Quantity(itemID)})
}

func (s *Server) handleConfirm(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.engine.Confirm()
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": s.engine.Session(), "lines": lines})
}
