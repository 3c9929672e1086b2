package wargame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/fogwar/internal/domain"
	"github.com/nfrund/fogwar/internal/game/engine"
	"github.com/nfrund/fogwar/internal/handlers"
	"github.com/nfrund/fogwar/internal/storage"
	"github.com/nfrund/fogwar/internal/testutils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGame returns a canned result and records the request it received.
type fakeGame struct {
	resp    *engine.Response
	err     error
	got     engine.Request
	called  bool
	metrics engine.Metrics
}

func (f *fakeGame) Handle(ctx context.Context, req engine.Request) (*engine.Response, error) {
	f.called = true
	f.got = req
	return f.resp, f.err
}

func (f *fakeGame) Status() engine.Status {
	return engine.Status{GameStarted: true, TurnOwner: "Blufor", TurnTime: 60000}
}

func (f *fakeGame) Metrics() *engine.Metrics {
	return &f.metrics
}

func newTestEcho(game Game) *echo.Echo {
	e := echo.New()
	e.Validator = handlers.NewValidator()
	h := NewHandler(game)
	e.POST("/api/game", h.GamePost)
	e.GET("/metrics", h.MetricsGet)
	e.GET("/status", h.StatusGet)
	return e
}

func postGame(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/game", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestGamePost_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"wrong password", domain.ErrInvalidCredentials, http.StatusOK, "Wrong password"},
		{"admin move", fmt.Errorf("sync: %w", domain.ErrAdminOnly), http.StatusOK, "Error: User attempted admin move"},
		{"unknown request", fmt.Errorf("%w: %q", domain.ErrUnknownRequest, "x"), http.StatusBadRequest, `unknown request type: "x"`},
		{"persistence", fmt.Errorf("%w: disk full", domain.ErrPersistence), http.StatusInternalServerError, msgPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &fakeGame{err: tt.err}
			rec := postGame(newTestEcho(game), `{"requestType":"sync","username":"Blufor","password":"blue"}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
		})
	}
}

func TestGamePost_UnmappedErrorGoesToErrorHandler(t *testing.T) {
	game := &fakeGame{err: errors.New("boom")}
	rec := postGame(newTestEcho(game), `{"requestType":"sync","username":"Blufor","password":"blue"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGamePost_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"requestType":`},
		{"missing username", `{"requestType":"sync","password":"blue"}`},
		{"unknown request type", `{"requestType":"surrender","username":"Blufor"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &fakeGame{}
			rec := postGame(newTestEcho(game), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec))
			assert.False(t, game.called, "the engine must not see invalid requests")
		})
	}
}

func TestGamePost_PassesRequestThrough(t *testing.T) {
	game := &fakeGame{resp: &engine.Response{IsCorrectTurn: true, TurnTime: 60000, NextTurnChange: 123}}
	rec := postGame(newTestEcho(game), `{
		"requestType":"turnChange","username":"Blufor","password":"blue",
		"changes":[{"type":"move","unitId":3,"newLocation":[1.5,2.5]}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, engine.RequestTurnChange, game.got.RequestType)
	require.Len(t, game.got.Changes, 1)
	assert.Equal(t, 3, *game.got.Changes[0].UnitID)

	var resp engine.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsCorrectTurn)
	assert.Equal(t, int64(123), resp.NextTurnChange)
}

func TestMetricsAndStatus(t *testing.T) {
	game := &fakeGame{}
	e := newTestEcho(game)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var metrics map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Contains(t, metrics, "requests")
	assert.Contains(t, metrics, "persist_failures")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"turnOwner":"Blufor"`)
}

// newTestGame builds a real engine on an in-memory filesystem.
func newTestGame(t *testing.T) *engine.Game {
	t.Helper()
	fs := afero.NewMemMapFs()
	snaps := storage.NewSnapshots(storage.NewAferoStore(fs), storage.SnapshotConfig{
		Slot:            "data/state.json",
		DefaultSlot:     "data/default-map.json",
		BackupDir:       "data/backups",
		DefaultTurnTime: 60000,
	})
	roster, err := engine.NewRoster(testutils.Roster())
	require.NoError(t, err)

	clock := testutils.NewClock()
	game, err := engine.New(context.Background(), engine.Config{
		Roster:          roster,
		Catalog:         testutils.Catalog(),
		Snapshots:       snaps,
		DefaultTurnTime: 60000,
		Now:             clock.Now,
		Dice:            testutils.Dice(50),
	})
	require.NoError(t, err)
	return game
}

func TestGamePost_WithEngine(t *testing.T) {
	e := newTestEcho(newTestGame(t))

	t.Run("admin sync", func(t *testing.T) {
		rec := postGame(e, `{"requestType":"sync","username":"admin","password":"referee","firstSync":true}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp engine.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.UnitTypes)
		assert.NotNil(t, resp.StatsData)
		assert.Equal(t, int64(60000), resp.TurnTime)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postGame(e, `{"requestType":"sync","username":"Blufor","password":"nope"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Wrong password", decodeError(t, rec))
	})

	t.Run("player sending changes on sync", func(t *testing.T) {
		rec := postGame(e, `{"requestType":"sync","username":"Blufor","password":"blue","changes":[{"type":"startTurnChanging"}]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Error: User attempted admin move", decodeError(t, rec))
	})
}
