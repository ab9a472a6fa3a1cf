// Package response API 响应写出：状态码与 body 按接口契约走真实 HTTP 语义。
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/core/apperr"
)

func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Err 统一错误出口：业务错误取映射状态码，500 类只给通用文案，细节进日志
func Err(c *gin.Context, log *zap.Logger, err error) {
	ae := apperr.As(err)
	if ae.StatusCode() >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(ae.StatusCode(), gin.H{"error": ae.Public()})
}
