package response

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"
	flashCtxKey = "flashMsg"
)

// Flash 写一次性提示消息（下一次页面渲染时取出并清除）。
// 同时落在 context 里，同一请求内 flash 后立即渲染也能取到。
func Flash(c *gin.Context, msg string) {
	c.Set(flashCtxKey, msg)
	c.SetCookie(flashCookie, url.QueryEscape(msg), 60, "/", "", false, true)
}

// TakeFlash 取出并清除 flash
func TakeFlash(c *gin.Context) string {
	// 同一请求刚写入：直接消费，撤掉刚种下的 cookie（后写的 Set-Cookie 覆盖前者）
	if v, ok := c.Get(flashCtxKey); ok {
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
		if msg, ok := v.(string); ok {
			return msg
		}
		return ""
	}

	v, err := c.Cookie(flashCookie)
	if err != nil || v == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	msg, err := url.QueryUnescape(v)
	if err != nil {
		return ""
	}
	return msg
}

// FlashRedirect flash + 302
func FlashRedirect(c *gin.Context, msg, location string) {
	Flash(c, msg)
	c.Redirect(http.StatusFound, location)
}
