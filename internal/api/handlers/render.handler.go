package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/internal/models"
	"github.com/vizorhq/vizor-core/internal/services"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

// RenderHandler serves the render pipeline endpoints.
type RenderHandler struct {
	service *services.RenderService
	logger  logger.Logger
}

func NewRenderHandler(service *services.RenderService, log logger.Logger) *RenderHandler {
	return &RenderHandler{
		service: service,
		logger:  log,
	}
}

// POST /api/v1/render - Full pipeline: normalize, analyze, recommend, build
func (h *RenderHandler) Render(c *gin.Context) {
	var req models.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "invalid render payload",
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	resp, err := h.service.Render(c.Request.Context(), &req, bypassCache(c))
	if err != nil {
		h.logger.Error("Render failed", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "render failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   resp,
	})
}

// POST /api/v1/recommend - Cascade decision only, no spec construction
func (h *RenderHandler) Recommend(c *gin.Context) {
	var req models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "invalid recommend payload",
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	resp, err := h.service.Recommend(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Recommend failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "recommend failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   resp,
	})
}

// POST /api/v1/analyze - Column type profiles for a raw payload
func (h *RenderHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "invalid analyze payload",
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	resp, err := h.service.Analyze(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Analyze failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "analyze failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   resp,
	})
}

// POST /api/v1/normalize - Canonical dataset for a raw payload
func (h *RenderHandler) Normalize(c *gin.Context) {
	var req models.NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "invalid normalize payload",
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	resp, err := h.service.Normalize(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Normalize failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "normalize failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   resp,
	})
}

// POST /api/v1/export - Render and download the spec, dataset, or CSV
func (h *RenderHandler) Export(c *gin.Context) {
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "invalid export payload",
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	contentType, body, err := h.service.Export(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	filename := "render.json"
	if contentType == "text/csv" {
		filename = "dataset.csv"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

// bypassCache honors Cache-Control: no-cache on render requests.
func bypassCache(c *gin.Context) bool {
	cc := c.Request.Header.Get("Cache-Control")
	return strings.Contains(strings.ToLower(cc), "no-cache")
}
