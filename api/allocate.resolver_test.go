package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"streamalloc/internal/app"
	l1_service "streamalloc/internal/service/l1"
	l2_service "streamalloc/internal/service/l2"
	l3_service "streamalloc/internal/service/l3"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tables := l1_service.DefaultEngineTables()
	genres := l1_service.NewGenreService(tables)
	features := l1_service.NewFeatureService(tables, genres)
	log := zap.NewNop().Sugar()

	handler := ApiHandler{
		AllocationHandler: app.AllocationHandler{
			Optimizer:   l3_service.NewOptimizerService(genres, features, l2_service.NewPredictorService(), log),
			Validator:   l3_service.NewValidatorService(),
			Projections: l3_service.NewProjectionService(),
		},
		Log: log,
	}

	router := gin.New()
	router.POST("/allocate", handler.allocate)
	router.POST("/validate", handler.validate)
	router.POST("/projections", handler.projections)
	return router
}

func TestAllocateResolver(t *testing.T) {
	router := newTestRouter(t)

	t.Run("malformed json returns 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/allocate", strings.NewReader("{nope"))
		router.ServeHTTP(w, req)
		require.Equal(t, 400, w.Code)
	})

	t.Run("happy path returns the allocation envelope", func(t *testing.T) {
		body := `{
			"playlists": [
				{"id": "p1", "vendorId": "v1", "name": "Techno Bunker", "genres": ["techno"], "avgDailyStreams": 10000}
			],
			"goal": 50000,
			"vendorCaps": {"v1": 70000},
			"targetGenre": "techno",
			"durationDays": 7
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/allocate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code)

		var resp allocateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.False(t, resp.MLOptimized)
		require.Len(t, resp.Allocations, 1)
		require.Equal(t, int64(50000), resp.Allocations[0].Streams)
		require.Equal(t, "v1", resp.Allocations[0].VendorID)
		require.Len(t, resp.GenreMatches, 1)
		require.Equal(t, "strong", resp.GenreMatches[0].Strength)
		require.GreaterOrEqual(t, resp.Insights.ConfidenceScore, 0.4)
	})

	t.Run("zero vendor cap on the wire means unlimited", func(t *testing.T) {
		body := `{
			"playlists": [
				{"id": "p1", "vendorId": "v1", "genres": ["techno"], "avgDailyStreams": 10000}
			],
			"goal": 60000,
			"vendorCaps": {"v1": 0},
			"targetGenre": "techno",
			"durationDays": 7
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/allocate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code)

		var resp allocateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, int64(60000), resp.Allocations[0].Streams)
	})
}

func TestValidateResolver(t *testing.T) {
	router := newTestRouter(t)

	t.Run("reports violations without erroring", func(t *testing.T) {
		body := `{
			"allocations": [
				{"playlistId": "ghost", "vendorId": "v1", "streams": 100}
			],
			"vendorCaps": {},
			"playlists": [
				{"id": "p1", "vendorId": "v1", "avgDailyStreams": 1000}
			],
			"durationDays": 7
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code)

		var resp validateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.False(t, resp.IsValid)
		require.Len(t, resp.Errors, 1)
	})
}

func TestProjectionsResolver(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"allocations": [
			{"playlistId": "p1", "vendorId": "v1", "streams": 1000},
			{"playlistId": "p2", "vendorId": "v2", "streams": 500}
		],
		"playlists": [
			{"id": "p1", "vendorId": "v1"},
			{"id": "p2", "vendorId": "v2"}
		],
		"directVendorAllocations": [
			{"vendorId": "v1", "streams": 250}
		]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projections", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)

	var resp projectionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(1750), resp.TotalStreams)
	require.Equal(t, int64(1250), resp.ByVendor["v1"])
	require.Equal(t, int64(500), resp.ByVendor["v2"])
	require.Equal(t, int64(1000), resp.ByPlaylist["p1"])
}
