package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/jeopardy/internal/controller"
	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/history"
	"github.com/robalobadob/jeopardy/internal/metrics"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

// flakyProvider serves the embedded fixture until down is set.
type flakyProvider struct {
	*trivia.Fixture
	down atomic.Bool
}

func (p *flakyProvider) Categories(ctx context.Context, count int) ([]trivia.CategorySummary, error) {
	if p.down.Load() {
		return nil, fmt.Errorf("%w: down", game.ErrProviderUnavailable)
	}
	return p.Fixture.Categories(ctx, count)
}

type testEnv struct {
	srv      *Server
	ctrl     *controller.Controller
	provider *flakyProvider
}

func newTestEnv(t *testing.T, hist *history.Store) *testEnv {
	t.Helper()
	provider := &flakyProvider{Fixture: trivia.DefaultFixture()}
	reg := prometheus.NewRegistry()

	opts := controller.Options{
		Selector: trivia.NewSelector(provider, trivia.DefaultPoolSize, rand.New(rand.NewPCG(1, 2))),
		Loader:   trivia.NewLoader(provider, trivia.DefaultConcurrency),
		Metrics:  metrics.New("test", reg),
	}
	srvOpts := Options{Gatherer: reg, ClientOrigin: "http://example.test"}
	if hist != nil {
		opts.Recorder = hist
		srvOpts.History = hist
	}
	ctrl := controller.New(opts)
	srvOpts.Controller = ctrl

	srv, err := New(srvOpts)
	require.NoError(t, err)
	return &testEnv{srv: srv, ctrl: ctrl, provider: provider}
}

func (e *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestBoardBeforeFirstDeal(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/board")
	require.Equal(t, http.StatusOK, rec.Code)

	v := decode[controller.View](t, rec)
	assert.Empty(t, v.CycleID)
	assert.Empty(t, v.Titles)
	assert.Empty(t, v.Rows)
}

func TestRestartThenBoard(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/restart")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dealt := decode[controller.View](t, rec)
	assert.NotEmpty(t, dealt.CycleID)

	rec = env.do(t, http.MethodGet, "/api/board")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[controller.View](t, rec)
	assert.Equal(t, dealt.CycleID, v.CycleID)
	require.Len(t, v.Titles, game.NumCategories)
	require.Len(t, v.Rows, game.NumQuestionsPerCat)
	for _, row := range v.Rows {
		require.Len(t, row, game.NumCategories)
		for _, c := range row {
			assert.Equal(t, controller.Cell{Text: game.HiddenGlyph, State: "hidden", Clickable: true}, c)
		}
	}
}

func TestRevealFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.ctrl.Start(context.Background()))
	cycle := env.ctrl.View().CycleID
	path := fmt.Sprintf("/api/clues/%s/1/2/reveal", cycle)

	rec := env.do(t, http.MethodPost, path)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	question := decode[revealRes](t, rec)
	assert.Equal(t, "question", question.State)
	assert.NotEqual(t, game.HiddenGlyph, question.Text)
	assert.Equal(t, controller.Cell{Text: question.Text, State: "question", Clickable: true}, env.ctrl.View().Rows[1][2])

	rec = env.do(t, http.MethodPost, path)
	require.Equal(t, http.StatusOK, rec.Code)
	answer := decode[revealRes](t, rec)
	assert.Equal(t, "answer", answer.State)
	assert.NotEqual(t, question.Text, answer.Text)
	assert.NotContains(t, answer.Text, "<i>")

	rec = env.do(t, http.MethodPost, path)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, answer, decode[revealRes](t, rec))

	v := env.ctrl.View()
	assert.Equal(t, answer.Text, v.Rows[1][2].Text)
	assert.Equal(t, game.HiddenGlyph, v.Rows[1][3].Text)
}

func TestRevealErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.ctrl.Start(context.Background()))
	cycle := env.ctrl.View().CycleID

	cases := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"stale cycle", "/api/clues/not-the-cycle/0/0/reveal", http.StatusConflict, "stale_cycle"},
		{"row out of range", "/api/clues/" + cycle + "/5/0/reveal", http.StatusNotFound, "no_cell"},
		{"col out of range", "/api/clues/" + cycle + "/0/6/reveal", http.StatusNotFound, "no_cell"},
		{"negative", "/api/clues/" + cycle + "/-1/0/reveal", http.StatusNotFound, "no_cell"},
		{"not a number", "/api/clues/" + cycle + "/x/0/reveal", http.StatusBadRequest, "bad_position"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tc.path)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decode[errorRes](t, rec).Error)
		})
	}
}

func TestRevealAfterRestartIsStale(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.ctrl.Start(context.Background()))
	old := env.ctrl.View().CycleID

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/restart").Code)

	rec := env.do(t, http.MethodPost, "/api/clues/"+old+"/0/0/reveal")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, game.HiddenGlyph, env.ctrl.View().Rows[0][0].Text)
}

func TestFailedRestartKeepsBoard(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.ctrl.Start(context.Background()))
	before := env.ctrl.View()

	env.provider.down.Store(true)
	rec := env.do(t, http.MethodPost, "/api/restart")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "provider_unavailable", decode[errorRes](t, rec).Error)
	assert.Equal(t, before, env.ctrl.View())
}

func TestHistoryDisabled(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/history")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "history_disabled", decode[errorRes](t, rec).Error)
}

func TestHistoryLists(t *testing.T) {
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = hist.Close() })

	env := newTestEnv(t, hist)
	require.NoError(t, env.ctrl.Start(context.Background()))
	time.Sleep(time.Millisecond)
	require.NoError(t, env.ctrl.Restart(context.Background()))
	latest := env.ctrl.View()

	rec := env.do(t, http.MethodGet, "/api/history?limit=1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	deals := decode[[]history.Deal](t, rec)
	require.Len(t, deals, 1)
	assert.Equal(t, latest.CycleID, deals[0].CycleID)
	assert.Equal(t, latest.Titles, deals[0].Titles)

	rec = env.do(t, http.MethodGet, "/api/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]history.Deal](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/api/history?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBoardPage(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.ctrl.Start(context.Background()))
	v := env.ctrl.View()

	rec := env.do(t, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `data-cycle="`+v.CycleID+`"`)
	for _, title := range v.Titles {
		assert.Contains(t, body, "<th>"+title+"</th>")
	}
	assert.Equal(t, game.NumCategories*game.NumQuestionsPerCat, strings.Count(body, `class="clue"`))
}

func TestStaticScript(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/static/board.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/restart")
	assert.NotContains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.ctrl.Start(context.Background()))

	rec := env.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_deal_cycles_total{outcome="ok"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodOptions, "/api/restart")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorRes](t, rec).Error)
}
