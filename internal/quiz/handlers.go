package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/quizville/quizville/internal/identity"
	"github.com/quizville/quizville/internal/question"
	httperrors "github.com/quizville/quizville/pkg/http/errors"
)

type questionLoader interface {
	Load(ctx context.Context) ([]question.Question, error)
}

// HTTPHandlers provides REST endpoints for quiz navigation.
type HTTPHandlers struct {
	questions questionLoader
	state     StateManager
	logger    zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for quiz-session endpoints.
func NewHTTPHandlers(questions questionLoader, state StateManager, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{questions: questions, state: state, logger: logger}
}

// stateView is what clients render: current question without the answer,
// the flag grid, and position counters.
type stateView struct {
	SessionID      string             `json:"session_id"`
	CurrentIndex   int                `json:"current_index"`
	QuestionNumber int                `json:"question_number"`
	Total          int                `json:"total"`
	Question       *question.Question `json:"question,omitempty"`
	Flagged        map[string]bool    `json:"flagged"`
	CurrentFlagged bool               `json:"current_flagged"`
}

func viewOf(s *Session) stateView {
	view := stateView{
		SessionID:      s.ID,
		CurrentIndex:   s.CurrentIndex,
		QuestionNumber: s.CurrentIndex + 1,
		Total:          len(s.Questions),
		Flagged:        s.Flagged,
	}
	if q, ok := s.Current(); ok {
		q.Answer = ""
		view.Question = &q
		view.CurrentFlagged = s.IsFlagged(q.ID)
	}
	return view
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}

func (h *HTTPHandlers) userID(r *http.Request) (string, bool) {
	claims, ok := identity.ClaimsFromContext(r.Context())
	if !ok || claims == nil {
		return "", false
	}
	return claims.UserID, true
}

// Start handles POST /v1/quiz/session. A new session always starts at the
// first question with nothing flagged; any previous sitting is discarded.
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(r)
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	questions, err := h.questions.Load(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("load questions failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeSessionStartFailed, "Failed to load questions")
		return
	}
	if len(questions) == 0 {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "No questions available")
		return
	}

	session := NewSession(userID, questions)
	if err := h.state.Save(r.Context(), session); err != nil {
		h.logger.Error().Err(err).Msg("save session failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeSessionStartFailed, "Failed to start session")
		return
	}

	h.respondJSON(w, http.StatusCreated, viewOf(session))
}

// Get handles GET /v1/quiz/session
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, viewOf(session))
}

// Next handles POST /v1/quiz/session/next. At the last question this is a
// no-op, not an error.
func (h *HTTPHandlers) Next(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(s *Session) error {
		s.Next()
		return nil
	})
}

// Previous handles POST /v1/quiz/session/previous. At the first question
// this is a no-op, not an error.
func (h *HTTPHandlers) Previous(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(s *Session) error {
		s.Previous()
		return nil
	})
}

// Jump handles POST /v1/quiz/session/jump
func (h *HTTPHandlers) Jump(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	h.transition(w, r, func(s *Session) error {
		return s.JumpTo(req.Index)
	})
}

// Flag handles POST /v1/quiz/session/flag
func (h *HTTPHandlers) Flag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID string `json:"question_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.QuestionID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "Question id required", "question_id")
		return
	}

	h.transition(w, r, func(s *Session) error {
		s.ToggleFlag(req.QuestionID)
		return nil
	})
}

func (h *HTTPHandlers) transition(w http.ResponseWriter, r *http.Request, apply func(*Session) error) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if err := apply(session); err != nil {
		if errors.Is(err, ErrIndexOutOfRange) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeIndexOutOfRange, "Question index out of range")
			return
		}
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeSessionUpdateFailed, "Failed to update session")
		return
	}

	if err := h.state.Save(r.Context(), session); err != nil {
		h.logger.Error().Err(err).Msg("save session failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeSessionUpdateFailed, "Failed to update session")
		return
	}

	h.respondJSON(w, http.StatusOK, viewOf(session))
}

func (h *HTTPHandlers) loadSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	userID, ok := h.userID(r)
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return nil, false
	}

	session, err := h.state.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "No active quiz session")
			return nil, false
		}
		h.logger.Error().Err(err).Msg("load session failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeSessionUpdateFailed, "Failed to load session")
		return nil, false
	}
	return session, true
}
