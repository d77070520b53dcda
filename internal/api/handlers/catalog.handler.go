package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/internal/models"
	"github.com/vizorhq/vizor-core/internal/viz"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

// CatalogHandler serves the static capability endpoints: supported chart
// kinds, named palettes, and the active keyword tables.
type CatalogHandler struct {
	engine        *viz.Engine
	lexiconSource string
	logger        logger.Logger
}

func NewCatalogHandler(engine *viz.Engine, lexiconSource string, log logger.Logger) *CatalogHandler {
	if lexiconSource == "" {
		lexiconSource = "builtin"
	}
	return &CatalogHandler{
		engine:        engine,
		lexiconSource: lexiconSource,
		logger:        log,
	}
}

// GET /api/v1/charts/kinds - Supported chart kinds with their requirements
func (h *CatalogHandler) GetChartKinds(c *gin.Context) {
	kinds := viz.KindRequirements()

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"kinds": kinds,
			"total": len(kinds),
		},
	})
}

// GET /api/v1/palettes - Built-in and custom palettes
func (h *CatalogHandler) GetPalettes(c *gin.Context) {
	builtin := viz.BuiltinPalettes()
	custom := h.engine.Palettes()

	palettes := make([]models.PaletteInfo, 0, len(builtin)+len(custom))
	for name, colors := range builtin {
		palettes = append(palettes, models.PaletteInfo{Name: name, Colors: colors, Builtin: true})
	}
	for name, colors := range custom {
		palettes = append(palettes, models.PaletteInfo{Name: name, Colors: colors, Builtin: false})
	}
	sort.Slice(palettes, func(i, j int) bool { return palettes[i].Name < palettes[j].Name })

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"palettes": palettes,
			"total":    len(palettes),
		},
	})
}

// GET /api/v1/lexicons - Active keyword tables driving type detection
func (h *CatalogHandler) GetLexicons(c *gin.Context) {
	lex := h.engine.Lexicons()

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": models.LexiconInfo{
			DateKeywords: lex.DateKeywords,
			FunnelStages: lex.FunnelStages,
			Source:       h.lexiconSource,
		},
	})
}
