package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/junipergrey/veil-oracle/internal/app/journey"
	"github.com/junipergrey/veil-oracle/internal/domain"
)

type Server struct {
	svc *journey.Service
}

func NewServer(svc *journey.Service) http.Handler {
	s := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(withLogging)
	r.Use(withCORS)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/oracle", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Post("/riddle-answer", s.handleRiddleAnswer)
		r.Post("/sigil-selection", s.handleSigilSelection)
		r.Post("/complete", s.handleComplete)
		r.Get("/session/{sessionID}", s.handleGetSession)
		r.Get("/recent", s.handleRecent)
		r.Get("/deck", s.handleDeck)
	})

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type startResponse struct {
	SessionID string   `json:"sessionId"`
	Riddle    string   `json:"riddle"`
	Answers   []string `json:"answers"`
}

type riddleAnswerRequest struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
}

type riddleAnswerResponse struct {
	Sigils []string `json:"sigils"`
}

type sigilSelectionRequest struct {
	SessionID string `json:"sessionId"`
	Sigil     string `json:"sigil"`
}

type sigilSelectionResponse struct {
	Success bool `json:"success"`
}

type completeRequest struct {
	SessionID string `json:"sessionId"`
	CardValue string `json:"cardValue"`
}

type soundSpecResponse struct {
	Instrument string   `json:"instrument"`
	Scale      string   `json:"scale"`
	Pattern    []string `json:"pattern"`
	TempoBPM   int      `json:"tempoBpm"`
	Mood       string   `json:"mood,omitempty"`
}

type completeResponse struct {
	SessionID     string             `json:"sessionId"`
	RiddleAnswer  string             `json:"riddleAnswer"`
	SelectedSigil string             `json:"selectedSigil"`
	CardValue     string             `json:"cardValue"`
	Mantra        string             `json:"mantra"`
	Poem          string             `json:"poem,omitempty"`
	SongPrompt    string             `json:"songPrompt,omitempty"`
	CardArtwork   string             `json:"cardArtwork,omitempty"`
	ASCIIArt      string             `json:"asciiArt,omitempty"`
	SoundSpec     *soundSpecResponse `json:"soundSpec,omitempty"`
}

type sessionResponse struct {
	SessionID            string             `json:"sessionId"`
	RiddleText           string             `json:"riddleText"`
	RiddleAnswers        []string           `json:"riddleAnswers"`
	SelectedRiddleAnswer string             `json:"selectedRiddleAnswer,omitempty"`
	SigilChoices         []string           `json:"sigilChoices,omitempty"`
	SelectedSigil        string             `json:"selectedSigil,omitempty"`
	CardValue            string             `json:"cardValue,omitempty"`
	Mantra               string             `json:"mantra,omitempty"`
	Poem                 string             `json:"poem,omitempty"`
	SongPrompt           string             `json:"songPrompt,omitempty"`
	CardArtwork          string             `json:"cardArtwork,omitempty"`
	ASCIIArt             string             `json:"asciiArt,omitempty"`
	SoundSpec            *soundSpecResponse `json:"soundSpec,omitempty"`
	Completed            bool               `json:"completed"`
	CreatedAt            time.Time          `json:"createdAt"`
}

type recentSessionResponse struct {
	SessionID string    `json:"sessionId"`
	CardValue string    `json:"cardValue"`
	Mantra    string    `json:"mantra"`
	CreatedAt time.Time `json:"createdAt"`
}

type deckResponse struct {
	Cards []string `json:"cards"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Start(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, startResponse{
		SessionID: string(out.Session.ID),
		Riddle:    out.Session.RiddleText,
		Answers:   out.Session.RiddleAnswers,
	})
}

func (s *Server) handleRiddleAnswer(w http.ResponseWriter, r *http.Request) {
	var req riddleAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "sessionId is required")
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		badRequest(w, "answer is required")
		return
	}

	out, err := s.svc.AnswerRiddle(r.Context(), journey.AnswerRiddleInput{
		SessionID: domain.SessionID(req.SessionID),
		Answer:    req.Answer,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, riddleAnswerResponse{Sigils: out.Sigils[:]})
}

func (s *Server) handleSigilSelection(w http.ResponseWriter, r *http.Request) {
	var req sigilSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "sessionId is required")
		return
	}
	if strings.TrimSpace(req.Sigil) == "" {
		badRequest(w, "sigil is required")
		return
	}

	err := s.svc.ChooseSigil(r.Context(), journey.ChooseSigilInput{
		SessionID: domain.SessionID(req.SessionID),
		Sigil:     req.Sigil,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sigilSelectionResponse{Success: true})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "sessionId is required")
		return
	}
	if strings.TrimSpace(req.CardValue) == "" {
		badRequest(w, "cardValue is required")
		return
	}

	out, err := s.svc.Complete(r.Context(), journey.CompleteInput{
		SessionID: domain.SessionID(req.SessionID),
		CardValue: req.CardValue,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	sess := out.Session
	writeJSON(w, http.StatusOK, completeResponse{
		SessionID:     string(sess.ID),
		RiddleAnswer:  sess.SelectedRiddleAnswer,
		SelectedSigil: sess.SelectedSigil,
		CardValue:     sess.CardValue,
		Mantra:        sess.Mantra,
		Poem:          sess.Poem,
		SongPrompt:    sess.SongPrompt,
		CardArtwork:   sess.CardArtwork,
		ASCIIArt:      sess.ASCIIArt,
		SoundSpec:     toSoundSpecResponse(sess.Sound),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	session, err := s.svc.GetSession(r.Context(), domain.SessionID(id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	sessions, err := s.svc.ListRecentCompleted(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]recentSessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, recentSessionResponse{
			SessionID: string(sess.ID),
			CardValue: sess.CardValue,
			Mantra:    sess.Mantra,
			CreatedAt: sess.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, deckResponse{Cards: domain.Deck()})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toSoundSpecResponse(spec *domain.SoundSpec) *soundSpecResponse {
	if spec == nil {
		return nil
	}
	return &soundSpecResponse{
		Instrument: string(spec.Instrument),
		Scale:      string(spec.Scale),
		Pattern:    spec.Pattern,
		TempoBPM:   spec.TempoBPM,
		Mood:       spec.Mood,
	}
}

func toSessionResponse(sess *domain.Session) sessionResponse {
	return sessionResponse{
		SessionID:            string(sess.ID),
		RiddleText:           sess.RiddleText,
		RiddleAnswers:        sess.RiddleAnswers,
		SelectedRiddleAnswer: sess.SelectedRiddleAnswer,
		SigilChoices:         sess.SigilChoices,
		SelectedSigil:        sess.SelectedSigil,
		CardValue:            sess.CardValue,
		Mantra:               sess.Mantra,
		Poem:                 sess.Poem,
		SongPrompt:           sess.SongPrompt,
		CardArtwork:          sess.CardArtwork,
		ASCIIArt:             sess.ASCIIArt,
		SoundSpec:            toSoundSpecResponse(sess.Sound),
		Completed:            sess.Completed,
		CreatedAt:            sess.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "session not found",
		})
	case errors.Is(err, domain.ErrIncompleteSession):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "incomplete session, please complete all previous steps",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}
