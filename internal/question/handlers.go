package question

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/quizville/quizville/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for question access and bulk import.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for question endpoints.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}

// List handles GET /v1/questions. Answers are stripped; students see
// content only.
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.svc.Load(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("load questions failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeQuestionFetchFailed, "Failed to load questions")
		return
	}

	sanitized := make([]Question, 0, len(questions))
	for _, q := range questions {
		q.Answer = ""
		sanitized = append(sanitized, q)
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"questions": sanitized,
		"total":     len(sanitized),
	})
}

// Review handles GET /v1/questions/review, serving the formatted review
// sheet as plain text.
func (h *HTTPHandlers) Review(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.FormatReview(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("format review failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeQuestionFetchFailed, "Failed to load questions")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

// Import handles POST /v1/admin/questions/import.
func (h *HTTPHandlers) Import(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	questions, err := h.svc.Import(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, ErrNothingFound) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeImportEmpty, "No questions found in import text")
			return
		}
		h.logger.Error().Err(err).Msg("import failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeImportFailed, "Failed to import questions")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"imported":  len(questions),
		"questions": questions,
	})
}
