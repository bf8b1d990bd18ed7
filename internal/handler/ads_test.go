package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/metrics"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/scoring"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/service"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/testutils"
)

func newTestApp(t *testing.T, entries ...models.AdEntry) (*fiber.App, *testutils.MemRepo) {
	t.Helper()

	reg := prometheus.NewRegistry()
	repo := testutils.NewMemRepo(entries...)
	svc := service.NewAdService(repo, service.Options{Metrics: metrics.New(reg)})

	app := NewApp(AppConfig{
		CORSOrigins:       "http://localhost:5173",
		Gatherer:          reg,
		DisableRequestLog: true,
	}, NewAdHandler(svc))
	return app, repo
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestRootAndHealth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","message":"Ads Reach Analyzer API is running"}`, string(body))

	resp, body = do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestCreateAdComputesClampedScore(t *testing.T) {
	app, repo := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/ads",
		`{"project_name":"Project Alpha 1","project_id":"PROJ-1000","source":"Google","click_count":100,"cost":10}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var ad models.AdEntry
	require.NoError(t, json.Unmarshal(body, &ad))
	assert.Equal(t, int64(1), ad.ID)
	assert.Equal(t, 10.0, ad.Score)
	assert.Equal(t, models.AdTypeOnline, ad.Type)
	assert.Equal(t, 10.0, repo.Ads[1].Score)
}

func TestCreateAdKeepsSuppliedScore(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/ads",
		`{"project_name":"Project Beta 2","project_id":"PROJ-2000","source":"Flyers","click_count":33,"cost":7,"score":6.5,"type":"offline"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var ad models.AdEntry
	require.NoError(t, json.Unmarshal(body, &ad))
	assert.Equal(t, 6.5, ad.Score)
	assert.Equal(t, models.AdTypeOffline, ad.Type)
}

func TestCreateAdRejectsInvalidInput(t *testing.T) {
	app, repo := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"project_name":`},
		{"negative cost", `{"project_name":"P","project_id":"PROJ-1","source":"X","click_count":1,"cost":-5}`},
		{"negative clicks", `{"project_name":"P","project_id":"PROJ-1","source":"X","click_count":-1,"cost":5}`},
		{"score out of range", `{"project_name":"P","project_id":"PROJ-1","source":"X","click_count":1,"cost":5,"score":12}`},
		{"missing source", `{"project_name":"P","project_id":"PROJ-1","click_count":1,"cost":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, http.MethodPost, "/api/ads", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var payload map[string]string
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.NotEmpty(t, payload["error"])
		})
	}

	assert.Empty(t, repo.Ads)
}

func TestListAds(t *testing.T) {
	app, _ := newTestApp(t,
		models.AdEntry{ProjectID: "PROJ-1001", Source: "X"},
		models.AdEntry{ProjectID: "PROJ-1002", Source: "Google"},
		models.AdEntry{ProjectID: "PROJ-1003", Source: "TikTok"},
	)

	resp, body := do(t, app, http.MethodGet, "/api/ads?skip=1&limit=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ads []models.AdEntry
	require.NoError(t, json.Unmarshal(body, &ads))
	require.Len(t, ads, 1)
	assert.Equal(t, "PROJ-1002", ads[0].ProjectID)

	resp, body = do(t, app, http.MethodGet, "/api/ads", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &ads))
	assert.Len(t, ads, 3)

	resp, body = do(t, app, http.MethodGet, "/api/ads?limit=0", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = do(t, app, http.MethodGet, "/api/ads?skip=-1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, query := range []string{"skip=abc", "limit=ten", "limit=1.5"} {
		resp, body = do(t, app, http.MethodGet, "/api/ads?"+query, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
		assert.Contains(t, string(body), "must be an integer", query)
	}
}

func TestGetUpdateDeleteAd(t *testing.T) {
	app, repo := newTestApp(t, models.AdEntry{ProjectName: "Project Delta 3", ProjectID: "PROJ-3000", Source: "X", Type: models.AdTypeOnline})

	resp, body := do(t, app, http.MethodGet, "/api/ads/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ad models.AdEntry
	require.NoError(t, json.Unmarshal(body, &ad))
	assert.Equal(t, "PROJ-3000", ad.ProjectID)

	resp, _ = do(t, app, http.MethodGet, "/api/ads/99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/ads/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, http.MethodPut, "/api/ads/1",
		`{"project_name":"Project Delta 3","project_id":"PROJ-3000","source":"Billboard","click_count":1,"cost":4}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &ad))
	assert.Equal(t, 2.0, ad.Score)
	assert.Equal(t, "Billboard", repo.Ads[1].Source)

	resp, _ = do(t, app, http.MethodPut, "/api/ads/42",
		`{"project_name":"P","project_id":"PROJ-1","source":"X","click_count":1,"cost":4}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, "/api/ads/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, repo.Ads)

	resp, _ = do(t, app, http.MethodDelete, "/api/ads/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboard(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		app, _ := newTestApp(t)

		resp, body := do(t, app, http.MethodGet, "/api/dashboard", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"total_projects":0,"total_clicks":0,"total_cost":0,"average_score":0}`, string(body))
	})

	t.Run("aggregates", func(t *testing.T) {
		app, _ := newTestApp(t,
			models.AdEntry{ClickCount: 10, Cost: 5, Score: 2.0},
			models.AdEntry{ClickCount: 20, Cost: 5, Score: 4.0},
		)

		resp, body := do(t, app, http.MethodGet, "/api/dashboard", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"total_projects":2,"total_clicks":30,"total_cost":10,"average_score":3}`, string(body))
	})

	t.Run("storage failure is a 500 without details", func(t *testing.T) {
		app, repo := newTestApp(t)
		repo.Err = errors.New("pq: password authentication failed")

		resp, body := do(t, app, http.MethodGet, "/api/dashboard", "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.NotContains(t, string(body), "password")
	})
}

func TestRescore(t *testing.T) {
	app, repo := newTestApp(t,
		models.AdEntry{ClickCount: 100, Cost: 10, Source: "Google", Score: 1},
		models.AdEntry{ClickCount: 3, Cost: 100, Source: "Facebook", Score: 0.36},
	)

	resp, body := do(t, app, http.MethodPost, "/api/ads/rescore", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"updated":1}`, string(body))
	assert.Equal(t, 10.0, repo.Ads[1].Score)
}

func TestListSources(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/api/sources", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sources []scoring.SourceWeight
	require.NoError(t, json.Unmarshal(body, &sources))
	assert.Equal(t, scoring.Sources(), sources)
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, http.MethodPost, "/api/ads",
		`{"project_name":"P","project_id":"PROJ-1","source":"TikTok","click_count":5,"cost":50}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `ads_reach_ads_created_total{score_origin="computed"} 1`)
}

func TestCORS(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/ads", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
