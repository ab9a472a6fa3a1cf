package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"book-catalog/internal/core/auth"
	"book-catalog/internal/session"
	"book-catalog/internal/transport/http/response"
)

const (
	KeyUserID   = "userID"
	KeyUsername = "username"
	KeyJTI      = "jti"

	// SessionCookie 页面端会话 cookie；API 端走 Authorization: Bearer
	SessionCookie = "session"
)

// AuthAPI 未认证返回 401 JSON
func AuthAPI(j *auth.JWTer, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, j, sessions) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		}
	}
}

// Identity 尽力识别登录用户、写入 context，但从不拦截。
// 公共页面（首页/关于/联系）靠它渲染登录态。
func Identity(j *auth.JWTer, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, j, sessions)
	}
}

// AuthWeb 未认证跳转登录页
func AuthWeb(j *auth.JWTer, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, j, sessions) {
			response.Flash(c, "Please log in to access this page.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
	}
}

// authenticate 解析 token 并校验 Redis 会话记录；登出后的 token 立即失效
func authenticate(c *gin.Context, j *auth.JWTer, sessions session.Store) bool {
	token := bearerToken(c)
	if token == "" {
		if v, err := c.Cookie(SessionCookie); err == nil {
			token = v
		}
	}
	if token == "" {
		return false
	}

	claims, err := j.Parse(token)
	if err != nil {
		return false
	}
	ok, err := sessions.Valid(c.Request.Context(), claims.ID)
	if err != nil || !ok {
		return false
	}

	c.Set(KeyUserID, claims.UID)
	c.Set(KeyUsername, claims.Username)
	c.Set(KeyJTI, claims.ID)
	return true
}

func bearerToken(c *gin.Context) string {
	ah := c.GetHeader("Authorization")
	if strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	return ""
}

// CurrentUserID 读取认证后的用户 id
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(KeyUserID)
	if !ok {
		return 0, false
	}
	uid, ok := v.(uint)
	return uid, ok
}
