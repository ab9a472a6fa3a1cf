package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/core/apperr"
	"book-catalog/internal/core/auth"
	"book-catalog/internal/service"
	"book-catalog/internal/transport/http/middleware"
	"book-catalog/internal/transport/http/response"
)

// WebHandler 页面端：表单提交 + flash + 重定向
type WebHandler struct {
	accounts *service.AccountService
	books    *service.BookService
	jwter    *auth.JWTer
	log      *zap.Logger
}

func NewWebHandler(
	accounts *service.AccountService,
	books *service.BookService,
	jwter *auth.JWTer,
	log *zap.Logger,
) *WebHandler {
	return &WebHandler{accounts: accounts, books: books, jwter: jwter, log: log}
}

func (h *WebHandler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = response.TakeFlash(c)
	data["Username"] = c.GetString(middleware.KeyUsername)
	c.HTML(status, name, data)
}

func (h *WebHandler) errorPage(c *gin.Context, err error) {
	ae := apperr.As(err)
	if ae.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("page request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	h.render(c, ae.StatusCode(), "error.html", gin.H{"Message": ae.Public()})
}

func (h *WebHandler) Home(c *gin.Context)  { h.render(c, http.StatusOK, "home.html", nil) }
func (h *WebHandler) About(c *gin.Context) { h.render(c, http.StatusOK, "about.html", nil) }

// ---------- 联系表单 ----------

func (h *WebHandler) ContactForm(c *gin.Context) {
	h.render(c, http.StatusOK, "contact.html", nil)
}

func (h *WebHandler) ContactSubmit(c *gin.Context) {
	err := h.accounts.SubmitContact(c.Request.Context(),
		c.PostForm("name"), c.PostForm("email"), c.PostForm("message"))
	if err != nil {
		h.log.Warn("contact form error", zap.Error(err))
		response.Flash(c, "Sorry, there was an error sending your message. Please try again.")
		h.render(c, http.StatusOK, "contact.html", nil)
		return
	}
	response.FlashRedirect(c, "Thank you for your message! We will respond soon.", "/contact")
}

// ---------- 注册 / 登录 / 登出 ----------

func (h *WebHandler) RegisterForm(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "register.html", nil)
}

func (h *WebHandler) RegisterSubmit(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	_, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Username:        c.PostForm("username"),
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirm_password"),
	})
	if err != nil {
		response.FlashRedirect(c, apperr.As(err).Public(), "/register")
		return
	}
	response.FlashRedirect(c, "Registration successful! Check your email for confirmation.", "/login")
}

func (h *WebHandler) LoginForm(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "login.html", nil)
}

func (h *WebHandler) LoginSubmit(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	token, _, err := h.accounts.Login(c.Request.Context(),
		c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		// 统一文案，不区分用户不存在/密码错误
		response.Flash(c, "Invalid username or password")
		h.render(c, http.StatusOK, "login.html", nil)
		return
	}
	c.SetCookie(middleware.SessionCookie, token, int(h.jwter.TTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *WebHandler) Logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), c.GetString(middleware.KeyJTI)); err != nil {
		h.log.Warn("logout failed", zap.Error(err))
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	response.FlashRedirect(c, "You have been successfully logged out.", "/")
}

// ---------- 书目页面 ----------

func (h *WebHandler) BookList(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	books, err := h.books.List(c.Request.Context(), uid)
	if err != nil {
		h.errorPage(c, err)
		return
	}
	h.render(c, http.StatusOK, "book_list.html", gin.H{"Books": books})
}

func (h *WebHandler) BookAddForm(c *gin.Context) {
	h.render(c, http.StatusOK, "book_add.html", nil)
}

func (h *WebHandler) BookAddSubmit(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	if _, err := h.books.Create(c.Request.Context(), uid, formBookInput(c)); err != nil {
		if apperr.IsKind(err, apperr.KindDuplicateISBN) {
			flashRedirectConflict(c, "A book with this ISBN already exists", "/books/add")
			return
		}
		response.FlashRedirect(c, "Error adding book", "/books/add")
		return
	}
	c.Redirect(http.StatusFound, "/books")
}

func (h *WebHandler) BookEditForm(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.errorPage(c, apperr.NotFound("book not found"))
		return
	}
	book, err := h.books.Get(c.Request.Context(), uint(id), uid)
	if err != nil {
		h.errorPage(c, err)
		return
	}
	h.render(c, http.StatusOK, "book_edit.html", gin.H{"Book": book})
}

func (h *WebHandler) BookEditSubmit(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.errorPage(c, apperr.NotFound("book not found"))
		return
	}
	if _, err := h.books.Update(c.Request.Context(), uint(id), uid, formBookInput(c)); err != nil {
		if apperr.IsKind(err, apperr.KindDuplicateISBN) {
			flashRedirectConflict(c, "A book with this ISBN already exists", c.Request.URL.Path)
			return
		}
		h.errorPage(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/books")
}

func (h *WebHandler) BookDelete(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.errorPage(c, apperr.NotFound("book not found"))
		return
	}
	if err := h.books.Delete(c.Request.Context(), uint(id), uid); err != nil {
		h.errorPage(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/books")
}

func formBookInput(c *gin.Context) service.BookInput {
	year, _ := strconv.Atoi(c.PostForm("year"))
	return service.BookInput{
		Title:  c.PostForm("title"),
		Author: c.PostForm("author"),
		Year:   year,
		Genre:  c.PostForm("genre"),
		ISBN:   c.PostForm("isbn"),
	}
}

// flashRedirectConflict ISBN 冲突：flash + Location，但状态给 400（接口契约如此）
func flashRedirectConflict(c *gin.Context, msg, location string) {
	response.Flash(c, msg)
	c.Header("Location", location)
	c.Status(http.StatusBadRequest)
}
