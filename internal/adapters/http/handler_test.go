package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/tarotchat/internal/adapters/decks"
	httpadapter "github.com/randomtoy/tarotchat/internal/adapters/http"
	"github.com/randomtoy/tarotchat/internal/adapters/memstore"
	"github.com/randomtoy/tarotchat/internal/app"
	"github.com/randomtoy/tarotchat/internal/domain"
	"github.com/randomtoy/tarotchat/internal/ports"
)

type scriptedStreamer struct {
	fragments []string
	err       error
}

func (s *scriptedStreamer) StreamChat(_ context.Context, _ []ports.ChatMessage, emit ports.FragmentFunc) error {
	for _, f := range s.fragments {
		if err := emit(f); err != nil {
			return err
		}
	}
	return s.err
}

type stdRNG struct{}

func (stdRNG) Intn(n int) int { return n - 1 }

type fixture struct {
	e     *echo.Echo
	store *memstore.Store
}

func newFixture(streamer ports.Streamer) fixture {
	store := memstore.New()
	svc := app.NewChatService(store, streamer, decks.NewStore(""), stdRNG{}, slog.Default())

	e := echo.New()
	httpadapter.NewHandler(svc).Register(e)
	return fixture{e: e, store: store}
}

func doJSON(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(&scriptedStreamer{})

	rec := doJSON(t, f.e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK   bool   `json:"ok"`
		Time string `json:"time"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.NotEmpty(t, resp.Time)
}

func TestSessions_CreateAndListNewestFirst(t *testing.T) {
	f := newFixture(&scriptedStreamer{})

	rec := doJSON(t, f.e, http.MethodPost, "/api/sessions", `{"name":"first"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, f.e, http.MethodPost, "/api/sessions", `{"name":"second"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, f.e, http.MethodGet, "/api/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
	assert.Equal(t, "second", sessions[0].Name)
	assert.Equal(t, "first", sessions[1].Name)
}

func TestGetMessages_UnknownSessionIsEmptyList(t *testing.T) {
	f := newFixture(&scriptedStreamer{})

	rec := doJSON(t, f.e, http.MethodGet, "/api/messages?session_id=missing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestDraw_UnknownSpread(t *testing.T) {
	f := newFixture(&scriptedStreamer{})

	rec := doJSON(t, f.e, http.MethodPost, "/api/tarot/draw?spread=bogus", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httpadapter.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "unknown spread")
}

func TestDraw_SeededIsReproducible(t *testing.T) {
	f := newFixture(&scriptedStreamer{})

	first := doJSON(t, f.e, http.MethodPost, "/api/tarot/draw?spread=three&seed=abc", "")
	require.Equal(t, http.StatusOK, first.Code)
	second := doJSON(t, f.e, http.MethodPost, "/api/tarot/draw?spread=three&seed=abc", "")
	require.Equal(t, http.StatusOK, second.Code)

	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var resp httpadapter.DrawResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))
	assert.Equal(t, "three", resp.Spread)
	require.Len(t, resp.Cards, 3)
	assert.Equal(t, "past", resp.Cards[0].Slot)
}

func TestStreamChat_MissingSessionID(t *testing.T) {
	f := newFixture(&scriptedStreamer{fragments: []string{"never"}})

	rec := doJSON(t, f.e, http.MethodPost, "/api/chat/stream", `{"user_message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"session_id is required"}`, rec.Body.String())

	// No store mutation and no stream bytes beyond the error body.
	sessions, err := f.store.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestStreamChat_FullEventSequence(t *testing.T) {
	f := newFixture(&scriptedStreamer{fragments: []string{"Hello"}})

	rec := doJSON(t, f.e, http.MethodPost, "/api/chat/stream",
		`{"session_id":"s1","user_message":"hi","mode":"chat"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	want := "data: {\"type\":\"start\"}\n\n" +
		"data: Hello\n\n" +
		"data: {\"type\":\"end\"}\n\n" +
		"event: close\ndata: done\n\n"
	assert.Equal(t, want, rec.Body.String())

	msgs, err := f.store.Messages(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "Hello", msgs[1].Content)
}

func TestStreamChat_UpstreamErrorKeepsTerminalMarkers(t *testing.T) {
	f := newFixture(&scriptedStreamer{fragments: []string{"part"}, err: assert.AnError})

	rec := doJSON(t, f.e, http.MethodPost, "/api/chat/stream",
		`{"session_id":"s1","user_message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "data: {\"type\":\"start\"}\n\n")
	assert.Contains(t, body, "data: part\n\n")
	assert.Contains(t, body, "[model error]")
	assert.Contains(t, body, "data: {\"type\":\"end\"}\n\n")
	assert.True(t, strings.HasSuffix(body, "event: close\ndata: done\n\n"))
}

func TestStreamChat_TarotMeta(t *testing.T) {
	f := newFixture(&scriptedStreamer{fragments: []string{"reading"}})

	body := `{"session_id":"s1","mode":"tarot","meta":{"topic":"career","spread":"three","cards":[{"slot":"past","id":"0","name":"The Fool","cn":"愚者","upright":true,"meanings":["beginnings"]}]}}`
	rec := doJSON(t, f.e, http.MethodPost, "/api/chat/stream", body)
	require.Equal(t, http.StatusOK, rec.Code)

	msgs, err := f.store.Messages(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	// Empty user message falls back to the reading topic.
	assert.Equal(t, "career", msgs[0].Content)
	assert.Equal(t, "reading", msgs[1].Content)
}
