package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"book-catalog/internal/ai"
	"book-catalog/internal/core/auth"
	"book-catalog/internal/service"
	"book-catalog/internal/session"
	"book-catalog/internal/transport/http/handler"
	mdw "book-catalog/internal/transport/http/middleware"
)

type Deps struct {
	JWTer     *auth.JWTer
	Sessions  session.Store
	Accounts  *service.AccountService
	Books     *service.BookService
	Recommend *ai.Service
}

// NewEngine 组装两个访问面：页面（表单 + flash + 重定向）与 JSON API。
// 书目操作的归属检查走同一个 service，两个面行为一致。
func NewEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(handler.Templates())

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	web := handler.NewWebHandler(d.Accounts, d.Books, d.JWTer, l)

	// 公共页面：不强制登录，但识别已登录用户（导航栏渲染登录态）
	public := r.Group("", mdw.Identity(d.JWTer, d.Sessions))
	{
		public.GET("/", web.Home)
		public.GET("/about", web.About)
		public.GET("/contact", web.ContactForm)
		public.POST("/contact", web.ContactSubmit)
		public.GET("/register", web.RegisterForm)
		public.POST("/register", web.RegisterSubmit)
		public.GET("/login", web.LoginForm)
		public.POST("/login", web.LoginSubmit)
	}

	// 登录后页面
	pages := r.Group("")
	pages.Use(mdw.AuthWeb(d.JWTer, d.Sessions))
	{
		pages.GET("/logout", web.Logout)
		pages.GET("/books", web.BookList)
		pages.GET("/books/add", web.BookAddForm)
		pages.POST("/books/add", web.BookAddSubmit)
		pages.GET("/books/edit/:id", web.BookEditForm)
		pages.POST("/books/edit/:id", web.BookEditSubmit)
		pages.GET("/books/delete/:id", web.BookDelete)
	}

	// JSON API（全部要求认证）
	api := r.Group("/api")
	api.Use(mdw.AuthAPI(d.JWTer, d.Sessions))
	{
		bookAPI := handler.NewBookAPIHandler(d.Books, l)
		books := api.Group("/books")
		books.GET("/", bookAPI.List)
		books.POST("/", bookAPI.Create)
		books.GET("/:id", bookAPI.Get)
		books.PUT("/:id", bookAPI.Update)
		books.DELETE("/:id", bookAPI.Delete)

		recAPI := handler.NewRecommendHandler(d.Recommend, l)
		// 上游调用昂贵：每 IP 5 次/分钟
		api.POST("/ai/book-recommendation",
			mdw.RateLimitPerIP(rate.Every(12*time.Second), 5),
			recAPI.Recommend,
		)
	}

	return r
}
