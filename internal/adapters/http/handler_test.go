package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/junipergrey/veil-oracle/internal/adapters/http"
	"github.com/junipergrey/veil-oracle/internal/adapters/llm"
	"github.com/junipergrey/veil-oracle/internal/adapters/storage/memory"
	"github.com/junipergrey/veil-oracle/internal/app/journey"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	generator := llm.NewResilient(llm.NewMockGenerator())
	store := memory.NewSessionStore()
	svc := journey.NewService(generator, store)

	return httpadapter.NewServer(svc)
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFullJourneyOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/oracle/start", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	start := decode[struct {
		SessionID string   `json:"sessionId"`
		Riddle    string   `json:"riddle"`
		Answers   []string `json:"answers"`
	}](t, w)
	assert.NotEmpty(t, start.SessionID)
	assert.NotEmpty(t, start.Riddle)
	require.Len(t, start.Answers, 2)

	w = doJSON(t, srv, http.MethodPost, "/api/oracle/riddle-answer", map[string]string{
		"sessionId": start.SessionID,
		"answer":    start.Answers[0],
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	answered := decode[struct {
		Sigils []string `json:"sigils"`
	}](t, w)
	require.Len(t, answered.Sigils, 2)

	w = doJSON(t, srv, http.MethodPost, "/api/oracle/sigil-selection", map[string]string{
		"sessionId": start.SessionID,
		"sigil":     answered.Sigils[1],
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	chosen := decode[struct {
		Success bool `json:"success"`
	}](t, w)
	assert.True(t, chosen.Success)

	w = doJSON(t, srv, http.MethodPost, "/api/oracle/complete", map[string]string{
		"sessionId": start.SessionID,
		"cardValue": "QH",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bundle := decode[struct {
		SessionID    string `json:"sessionId"`
		RiddleAnswer string `json:"riddleAnswer"`
		CardValue    string `json:"cardValue"`
		Mantra       string `json:"mantra"`
		SoundSpec    *struct {
			Instrument string `json:"instrument"`
		} `json:"soundSpec"`
	}](t, w)
	assert.Equal(t, start.SessionID, bundle.SessionID)
	assert.Equal(t, start.Answers[0], bundle.RiddleAnswer)
	assert.Equal(t, "QH", bundle.CardValue)
	assert.NotEmpty(t, bundle.Mantra)
	require.NotNil(t, bundle.SoundSpec)
	assert.NotEmpty(t, bundle.SoundSpec.Instrument)

	w = doJSON(t, srv, http.MethodGet, "/api/oracle/session/"+start.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[struct {
		Completed bool   `json:"completed"`
		CardValue string `json:"cardValue"`
	}](t, w)
	assert.True(t, session.Completed)
	assert.Equal(t, "QH", session.CardValue)

	w = doJSON(t, srv, http.MethodGet, "/api/oracle/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recent := decode[[]struct {
		SessionID string `json:"sessionId"`
	}](t, w)
	require.Len(t, recent, 1)
	assert.Equal(t, start.SessionID, recent[0].SessionID)
}

func TestSkippingStepsIsRejected(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/oracle/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	start := decode[struct {
		SessionID string `json:"sessionId"`
	}](t, w)

	w = doJSON(t, srv, http.MethodPost, "/api/oracle/complete", map[string]string{
		"sessionId": start.SessionID,
		"cardValue": "QH",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/oracle/riddle-answer", map[string]string{"sessionId": "nope", "answer": "x"}},
		{http.MethodPost, "/api/oracle/sigil-selection", map[string]string{"sessionId": "nope", "sigil": "x"}},
		{http.MethodPost, "/api/oracle/complete", map[string]string{"sessionId": "nope", "cardValue": "QH"}},
		{http.MethodGet, "/api/oracle/session/nope", nil},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := doJSON(t, srv, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
		})
	}
}

func TestMissingFieldsAre400(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/oracle/riddle-answer", map[string]string{
		"sessionId": "s",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/oracle/sigil-selection", map[string]string{
		"sigil": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/oracle/complete", map[string]string{
		"sessionId": "s",
		"cardValue": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecentLimitValidation(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/oracle/recent?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/oracle/recent?limit=%d", 5), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeckEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/oracle/deck", nil)
	require.Equal(t, http.StatusOK, w.Code)
	deck := decode[struct {
		Cards []string `json:"cards"`
	}](t, w)
	require.Len(t, deck.Cards, 52)
	assert.Contains(t, deck.Cards, "AH")
	assert.Contains(t, deck.Cards, "10S")
}
