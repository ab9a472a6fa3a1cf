package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/core/apperr"
	"book-catalog/internal/service"
	"book-catalog/internal/transport/http/middleware"
	"book-catalog/internal/transport/http/response"
)

type BookAPIHandler struct {
	books *service.BookService
	log   *zap.Logger
}

func NewBookAPIHandler(books *service.BookService, log *zap.Logger) *BookAPIHandler {
	return &BookAPIHandler{books: books, log: log}
}

// bookJSON API 入参（两个书写面共用 service 校验）
type bookJSON struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Year   int    `json:"year"`
	Genre  string `json:"genre"`
}

func (b bookJSON) input() service.BookInput {
	return service.BookInput{
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
		Genre:  b.Genre,
		ISBN:   b.ISBN,
	}
}

// GET /api/books/
func (h *BookAPIHandler) List(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	books, err := h.books.List(c.Request.Context(), uid)
	if err != nil {
		response.Err(c, h.log, err)
		return
	}
	response.JSON(c, http.StatusOK, books)
}

// POST /api/books/ → 201 + 创建后的表示
func (h *BookAPIHandler) Create(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	var in bookJSON
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Err(c, h.log, apperr.Validation("invalid request body: "+err.Error()))
		return
	}
	book, err := h.books.Create(c.Request.Context(), uid, in.input())
	if err != nil {
		response.Err(c, h.log, err)
		return
	}
	response.Created(c, book)
}

// GET /api/books/:id
func (h *BookAPIHandler) Get(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	id, ok := bookID(c, h.log)
	if !ok {
		return
	}
	book, err := h.books.Get(c.Request.Context(), id, uid)
	if err != nil {
		response.Err(c, h.log, err)
		return
	}
	response.JSON(c, http.StatusOK, book)
}

// PUT /api/books/:id
func (h *BookAPIHandler) Update(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	id, ok := bookID(c, h.log)
	if !ok {
		return
	}
	var in bookJSON
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Err(c, h.log, apperr.Validation("invalid request body: "+err.Error()))
		return
	}
	book, err := h.books.Update(c.Request.Context(), id, uid, in.input())
	if err != nil {
		response.Err(c, h.log, err)
		return
	}
	response.JSON(c, http.StatusOK, book)
}

// DELETE /api/books/:id → 204 无 body
func (h *BookAPIHandler) Delete(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	id, ok := bookID(c, h.log)
	if !ok {
		return
	}
	if err := h.books.Delete(c.Request.Context(), id, uid); err != nil {
		response.Err(c, h.log, err)
		return
	}
	response.NoContent(c)
}

func bookID(c *gin.Context, log *zap.Logger) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Err(c, log, apperr.Validation("invalid book id"))
		return 0, false
	}
	return uint(id), true
}
