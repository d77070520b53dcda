package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizorhq/vizor-core/internal/viz"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

func newCatalogRouter(t *testing.T, opts ...viz.Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("error")
	h := NewCatalogHandler(viz.NewEngine(log, opts...), "", log)

	r := gin.New()
	r.GET("/charts/kinds", h.GetChartKinds)
	r.GET("/palettes", h.GetPalettes)
	r.GET("/lexicons", h.GetLexicons)
	return r
}

func getJSON(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, decodeEnvelope(t, w)
}

func TestCatalogHandler_GetChartKinds(t *testing.T) {
	r := newCatalogRouter(t)

	w, out := getJSON(t, r, "/charts/kinds")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", out["status"])

	data := out["data"].(map[string]any)
	kinds := data["kinds"].([]any)
	assert.EqualValues(t, len(kinds), data["total"])

	names := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		names[k.(map[string]any)["kind"].(string)] = true
	}
	for _, want := range []string{"bar", "line", "pie", "scatter", "heatmap", "funnel", "radar", "table"} {
		assert.True(t, names[want], "missing kind %s", want)
	}
}

func TestCatalogHandler_GetPalettes(t *testing.T) {
	r := newCatalogRouter(t, viz.WithPalettes(map[string][]string{
		"brand": {"#102030", "#405060"},
	}))

	w, out := getJSON(t, r, "/palettes")
	assert.Equal(t, http.StatusOK, w.Code)

	data := out["data"].(map[string]any)
	palettes := data["palettes"].([]any)
	require.NotEmpty(t, palettes)

	var sawBrand, sawBuiltin bool
	for _, p := range palettes {
		entry := p.(map[string]any)
		if entry["name"] == "brand" {
			sawBrand = true
			assert.Equal(t, false, entry["builtin"])
		}
		if entry["builtin"] == true {
			sawBuiltin = true
		}
	}
	assert.True(t, sawBrand)
	assert.True(t, sawBuiltin)
}

func TestCatalogHandler_GetLexicons(t *testing.T) {
	r := newCatalogRouter(t)

	w, out := getJSON(t, r, "/lexicons")
	assert.Equal(t, http.StatusOK, w.Code)

	data := out["data"].(map[string]any)
	assert.Equal(t, "builtin", data["source"])
	assert.NotEmpty(t, data["date_keywords"])
	assert.NotEmpty(t, data["funnel_stages"])
}
