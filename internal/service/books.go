package service

import (
	"context"
	"strings"
	"time"

	"book-catalog/internal/core/apperr"
	"book-catalog/internal/domain"
)

type BookService struct {
	books domain.BookRepository
}

func NewBookService(books domain.BookRepository) *BookService {
	return &BookService{books: books}
}

type BookInput struct {
	Title  string
	Author string
	Year   int
	Genre  string
	ISBN   string // 空串视为未填
}

func (in *BookInput) validate() error {
	title := strings.TrimSpace(in.Title)
	author := strings.TrimSpace(in.Author)
	switch {
	case title == "":
		return apperr.Validation("title is required")
	case len(title) > 100:
		return apperr.Validation("title must be at most 100 characters")
	case author == "":
		return apperr.Validation("author is required")
	case len(author) > 100:
		return apperr.Validation("author must be at most 100 characters")
	case len(in.Genre) > 50:
		return apperr.Validation("genre must be at most 50 characters")
	case len(in.ISBN) > 13:
		return apperr.Validation("isbn must be at most 13 characters")
	}
	in.Title = title
	in.Author = author
	return nil
}

func (in *BookInput) isbnPtr() *string {
	isbn := strings.TrimSpace(in.ISBN)
	if isbn == "" {
		return nil
	}
	return &isbn
}

// Create 新建书目；ISBN 在同一 owner 下查重（不同用户可各自收录同一 ISBN）
func (s *BookService) Create(ctx context.Context, ownerID uint, in BookInput) (*domain.Book, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	isbn := in.isbnPtr()
	if isbn != nil {
		existing, err := s.books.FindByOwnerAndISBN(ctx, ownerID, *isbn)
		if err != nil {
			return nil, apperr.Internal("check isbn", err)
		}
		if existing != nil {
			return nil, apperr.DuplicateISBN("a book with this ISBN already exists for this user")
		}
	}

	b := &domain.Book{
		Title:     in.Title,
		Author:    in.Author,
		Year:      in.Year,
		Genre:     in.Genre,
		ISBN:      isbn,
		UserID:    ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.books.Create(ctx, b); err != nil {
		if apperr.IsKind(err, apperr.KindDuplicateISBN) {
			return nil, err
		}
		return nil, apperr.Internal("create book", err)
	}
	return b, nil
}

// List 只返回 owner 自己的书目，按录入顺序
func (s *BookService) List(ctx context.Context, ownerID uint) ([]domain.Book, error) {
	books, err := s.books.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("list books", err)
	}
	if books == nil {
		// 空列表序列化为 []，不是 null
		books = []domain.Book{}
	}
	return books, nil
}

// Get 先判存在、再判归属：非 owner 探测不存在的 id 得到 404 而非 403
func (s *BookService) Get(ctx context.Context, id, ownerID uint) (*domain.Book, error) {
	b, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("find book", err)
	}
	if b == nil {
		return nil, apperr.NotFound("book not found")
	}
	if b.UserID != ownerID {
		return nil, apperr.Forbidden("not authorized to access this book")
	}
	return b, nil
}

func (s *BookService) Update(ctx context.Context, id, ownerID uint, in BookInput) (*domain.Book, error) {
	b, err := s.Get(ctx, id, ownerID) // 存在性、归属检查顺序在这里统一
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	isbn := in.isbnPtr()
	if isbn != nil && (b.ISBN == nil || *b.ISBN != *isbn) {
		existing, err := s.books.FindByOwnerAndISBN(ctx, ownerID, *isbn)
		if err != nil {
			return nil, apperr.Internal("check isbn", err)
		}
		if existing != nil && existing.ID != id {
			return nil, apperr.DuplicateISBN("a book with this ISBN already exists for this user")
		}
	}

	b.Title = in.Title
	b.Author = in.Author
	b.Year = in.Year
	b.Genre = in.Genre
	b.ISBN = isbn

	if err := s.books.Update(ctx, b); err != nil {
		if apperr.IsKind(err, apperr.KindDuplicateISBN) {
			return nil, err
		}
		return nil, apperr.Internal("update book", err)
	}
	return b, nil
}

func (s *BookService) Delete(ctx context.Context, id, ownerID uint) error {
	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.books.Delete(ctx, id); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return err
		}
		return apperr.Internal("delete book", err)
	}
	return nil
}
