package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/ai"
	"book-catalog/internal/core/apperr"
	"book-catalog/internal/transport/http/response"
)

type RecommendHandler struct {
	svc *ai.Service
	log *zap.Logger
}

func NewRecommendHandler(svc *ai.Service, log *zap.Logger) *RecommendHandler {
	return &RecommendHandler{svc: svc, log: log}
}

// Recommend POST /api/ai/book-recommendation
// 入参 {genres:[...], authors:[...]}，至少一个非空；
// 出参 {success, recommendations, message}
func (h *RecommendHandler) Recommend(c *gin.Context) {
	if !strings.Contains(c.ContentType(), "application/json") {
		response.Err(c, h.log, apperr.Validation("Request must be JSON"))
		return
	}

	var prefs ai.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		response.Err(c, h.log, apperr.Validation("genres and authors must be arrays"))
		return
	}

	recs, err := h.svc.Recommend(c.Request.Context(), prefs)
	if err != nil {
		response.Err(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"success":         true,
		"recommendations": recs,
		"message":         fmt.Sprintf("Generated %d recommendations", len(recs)),
	})
}
