package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type generateSelectionRequest struct {
	WeekStart   string `json:"week_start"`
	GeneratedBy string `json:"generated_by" binding:"required"`
	Count       int    `json:"count"`
}

func (s *Server) handleGenerateSelection(c *gin.Context) {
	var req generateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	if req.Count < 0 {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "count must not be negative")
		return
	}

	var weekStart *time.Time
	if req.WeekStart != "" {
		parsed, err := time.Parse("2006-01-02", req.WeekStart)
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "week_start must be YYYY-MM-DD")
			return
		}
		weekStart = &parsed
	}

	batch, items, err := s.selector.GenerateBatch(c.Request.Context(), weekStart, req.GeneratedBy, req.Count)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, selectionBatchResponse(batch, items))
}

func (s *Server) handleActiveSelection(c *gin.Context) {
	batch, items, err := s.selector.ActiveBatch(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, selectionBatchResponse(batch, items))
}
