package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/pathfinder/internal/assessment"
	"github.com/jonathan/pathfinder/internal/discover"
	"github.com/jonathan/pathfinder/internal/route"
	"github.com/jonathan/pathfinder/internal/server/middleware"
	"github.com/jonathan/pathfinder/internal/types"
)

// navigationState is the response body for resolved navigation requests.
type navigationState struct {
	Tab        route.Tab       `json:"tab"`
	SubTab     route.SubTab    `json:"subtab,omitempty"`
	View       *discover.View  `json:"view,omitempty"`
	Views      []discover.View `json:"views,omitempty"`
	Completion any             `json:"completion"`
}

// coordinator resolves the authenticated user's coordinator, building and
// restoring it on first touch.
func (s *Server) coordinator(w http.ResponseWriter, r *http.Request) (*discover.Coordinator, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	c, err := s.registry.Get(r.Context(), userID)
	if err != nil {
		log.Printf("[discover] failed to restore coordinator for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load assessment state")
		return nil, false
	}

	// Request contexts die with the request; the schema stamp outlives it.
	s.syncAgent.InitAsync(context.Background(), userID)
	return c, true
}

// subTabKind maps the {subtab} path segment to an assessment kind.
func subTabKind(r *http.Request) (assessment.Kind, bool) {
	sub := route.SubTab(r.PathValue("subtab"))
	return sub.AssessmentKind()
}

// handleNavigate resolves an app path to navigation state. Canonicalizing
// redirects answer with Location and an X-History header carrying the
// history mode, so the client knows whether to grow its history stack.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinator(w, r)
	if !ok {
		return
	}

	res := route.Resolve(r.URL.Path, c.Flags().DefaultTab, c.CompletionFlags())
	for _, action := range res.Actions {
		switch action.Type {
		case route.ActionRedirect:
			w.Header().Set("X-History", string(action.Mode))
			w.Header().Set("Location", action.Path)
			w.WriteHeader(http.StatusFound)
			return
		case route.ActionRestoreResults:
			c.RestoreResultsView(action.Kind)
		}
	}

	state := navigationState{
		Tab:        res.Tab,
		SubTab:     res.SubTab,
		Completion: c.CompletionFlags(),
	}
	if kind, ok := res.SubTab.AssessmentKind(); ok {
		v := c.View(kind)
		state.View = &v
	} else if res.SubTab == route.Overview {
		for _, kind := range assessment.Kinds {
			state.Views = append(state.Views, c.View(kind))
		}
	}

	s.jsonResponse(w, http.StatusOK, state)
}

// handleStart begins an assessment from its intro stage.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinator(w, r)
	if !ok {
		return
	}
	kind, ok := subTabKind(r)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Unknown assessment")
		return
	}

	if err := c.Start(r.Context(), kind); err != nil {
		s.assessmentError(w, err)
		return
	}

	view := c.View(kind)
	s.jsonResponse(w, http.StatusOK, view)
}

// handleAnswer records one answer for the current question.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinator(w, r)
	if !ok {
		return
	}
	kind, ok := subTabKind(r)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Unknown assessment")
		return
	}

	var req types.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := c.Answer(r.Context(), kind, req.Value); err != nil {
		s.assessmentError(w, err)
		return
	}

	view := c.View(kind)
	s.jsonResponse(w, http.StatusOK, view)
}

// handleRetake clears a completed assessment and returns to its questions.
func (s *Server) handleRetake(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinator(w, r)
	if !ok {
		return
	}
	kind, ok := subTabKind(r)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Unknown assessment")
		return
	}

	if err := c.Retake(r.Context(), kind); err != nil {
		s.assessmentError(w, err)
		return
	}

	view := c.View(kind)
	s.jsonResponse(w, http.StatusOK, view)
}

// handleCancel steps back to the intro, preserving recorded answers.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinator(w, r)
	if !ok {
		return
	}
	kind, ok := subTabKind(r)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Unknown assessment")
		return
	}

	if err := c.Cancel(kind); err != nil {
		s.assessmentError(w, err)
		return
	}

	view := c.View(kind)
	s.jsonResponse(w, http.StatusOK, view)
}

// handleMatches returns career matches for the interests profile.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinator(w, r)
	if !ok {
		return
	}

	matches := c.Matches()
	if matches == nil {
		matches = []assessment.CareerMatch{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"matches": matches})
}

// handleCareerDetails returns one career's details by code.
func (s *Server) handleCareerDetails(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	details, err := s.provider.CareerDetails(r.Context(), code)
	if err != nil {
		log.Printf("[careers] failed to fetch career %s: %v", code, err)
		s.errorResponse(w, http.StatusBadGateway, "Career data unavailable")
		return
	}
	if details == nil {
		s.errorResponse(w, http.StatusNotFound, "Career not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, details)
}

// handleTheme returns the current theme tokens.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinator(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, c.Theme())
}

// handleFlags returns the feature flags.
func (s *Server) handleFlags(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinator(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, c.Flags())
}

// handleEvents streams assessment events over SSE. Today that is the
// one-shot all-complete celebration.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	c, ok := s.coordinator(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	events, cancel := c.Subscribe()
	defer cancel()

	sse.WriteEvent("completion", c.CompletionFlags()) //nolint:errcheck

	for {
		select {
		case <-r.Context().Done():
			return
		case <-events:
			sse.WriteAllComplete()
		}
	}
}

// assessmentError maps engine failures to HTTP statuses: illegal stage
// transitions are conflicts, anything else is a provider-side failure.
func (s *Server) assessmentError(w http.ResponseWriter, err error) {
	if errors.Is(err, assessment.ErrInvalidTransition) {
		s.errorResponse(w, http.StatusConflict, err.Error())
		return
	}
	if errors.Is(err, assessment.ErrInvalidAnswer) {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.errorResponse(w, http.StatusBadGateway, err.Error())
}
