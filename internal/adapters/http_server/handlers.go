// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_curator/internal/adapters/observability"
	"hotel_curator/internal/app"
	"hotel_curator/internal/domain"
)

type Handlers struct {
	Q        *app.QueryService
	R        *app.ReviewService
	L        *app.FeedbackLearner
	Sessions *app.Sessions
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Post("/v1/hotels/{id}/draft", h.draft)
	s.mux.Post("/v1/hotels/{id}/decision", h.decide)
	s.mux.Get("/v1/hotels/{id}/review", h.getReview)
	s.mux.Delete("/v1/hotels/{id}/review", h.deleteReview)
	s.mux.Get("/v1/learning", h.learning)
	s.mux.Post("/v1/reset", h.reset)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l < 0 || l > 1000 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 0 and 1000")
			return
		}
		limit = l
	}
	items, err := h.Q.ListHotels(r.Context(), limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not list hotels")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	nh, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}

	etag, body := calcETagAndBody(nh)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

type draftResponse struct {
	HotelID      int64                  `json:"hotel_id"`
	Hotel        domain.NormalizedHotel `json:"hotel"`
	DraftSummary string                 `json:"draft_summary"`
	Critique     *domain.Critique       `json:"critique"`
	Stage        string                 `json:"stage"`
}

func (h *Handlers) draft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	st, err := h.R.StartReview(r.Context(), id, h.L.Context())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyReviewed):
		writeProblem(w, http.StatusConflict, "Already Reviewed", "delete the existing review before re-reviewing")
		return
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	case errors.Is(err, domain.ErrGenerationFailed):
		writeProblem(w, http.StatusBadGateway, "Generation Failed", err.Error())
		return
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "draft failed")
		return
	}

	h.Sessions.Put(st)
	writeJSON(w, http.StatusOK, draftResponse{
		HotelID:      st.HotelID,
		Hotel:        st.Hotel,
		DraftSummary: st.DraftSummary,
		Critique:     st.Critique,
		Stage:        st.Stage.String(),
	})
}

type decisionRequest struct {
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
}

func (h *Handlers) decide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "expected JSON {action, text}")
		return
	}

	st, ok := h.Sessions.Take(id)
	if !ok {
		writeProblem(w, http.StatusConflict, "No Pending Draft", "draft the hotel before deciding")
		return
	}

	action := domain.Action(req.Action)
	if err := h.R.CompleteReview(r.Context(), st, action, req.Text); err != nil {
		// The state is still at the gate on failure; put it back so the
		// reviewer can retry with a corrected decision.
		h.Sessions.Put(st)
		if errors.Is(err, domain.ErrContractViolation) {
			writeProblem(w, http.StatusConflict, "Contract Violation", err.Error())
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "decision failed")
		return
	}

	observability.ObserveDecision(string(action))
	writeJSON(w, http.StatusOK, map[string]any{
		"hotel_id":      st.HotelID,
		"stage":         st.Stage.String(),
		"final_summary": st.FinalSummary,
		"stored":        st.Stage == domain.StageStored,
	})
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	rec, err := h.Q.GetReviewed(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "no review for this hotel")
		return
	}

	etag, body := calcETagAndBody(rec)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getReview body")
	}
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	if err := h.R.DeleteReview(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no review for this hotel")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) learning(w http.ResponseWriter, r *http.Request) {
	progress, err := h.Q.Progress(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "progress unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"learned_context": h.L.Context(),
		"completed":       h.L.Completed(),
		"progress":        progress,
	})
}

func (h *Handlers) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.R.Reset(r.Context()); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "reset failed")
		return
	}
	h.Sessions.Clear()
	writeJSON(w, http.StatusOK, map[string]any{"reset": true})
}
