package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"book-catalog/internal/core/apperr"
	"book-catalog/internal/domain"
)

// 内存版仓储/会话/队列，签名与真实实现一致，测试无须数据库

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, e := range r.users {
		if e.Username == u.Username || e.Email == u.Email {
			return errors.New("UNIQUE constraint failed")
		}
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username { // 区分大小写
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

type fakeBookRepo struct {
	books  map[uint]*domain.Book
	nextID uint
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[uint]*domain.Book{}, nextID: 1}
}

func (r *fakeBookRepo) Create(_ context.Context, b *domain.Book) error {
	if b.ISBN != nil {
		for _, e := range r.books {
			if e.UserID == b.UserID && e.ISBN != nil && *e.ISBN == *b.ISBN {
				return apperr.DuplicateISBN("a book with this ISBN already exists for this user")
			}
		}
	}
	b.ID = r.nextID
	r.nextID++
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *fakeBookRepo) ListByOwner(_ context.Context, ownerID uint) ([]domain.Book, error) {
	var out []domain.Book
	for _, b := range r.books {
		if b.UserID == ownerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id uint) (*domain.Book, error) {
	if b, ok := r.books[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeBookRepo) FindByOwnerAndISBN(_ context.Context, ownerID uint, isbn string) (*domain.Book, error) {
	for _, b := range r.books {
		if b.UserID == ownerID && b.ISBN != nil && *b.ISBN == isbn {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBookRepo) Update(_ context.Context, b *domain.Book) error {
	if _, ok := r.books[b.ID]; !ok {
		return apperr.NotFound("book not found")
	}
	if b.ISBN != nil {
		for _, e := range r.books {
			if e.ID != b.ID && e.UserID == b.UserID && e.ISBN != nil && *e.ISBN == *b.ISBN {
				return apperr.DuplicateISBN("a book with this ISBN already exists for this user")
			}
		}
	}
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.books[id]; !ok {
		return apperr.NotFound("book not found")
	}
	delete(r.books, id)
	return nil
}

type fakeSessions struct {
	saved map[string]uint
}

func newFakeSessions() *fakeSessions { return &fakeSessions{saved: map[string]uint{}} }

func (s *fakeSessions) Save(_ context.Context, jti string, uid uint, _ time.Duration) error {
	s.saved[jti] = uid
	return nil
}

func (s *fakeSessions) Valid(_ context.Context, jti string) (bool, error) {
	_, ok := s.saved[jti]
	return ok, nil
}

func (s *fakeSessions) Revoke(_ context.Context, jti string) error {
	delete(s.saved, jti)
	return nil
}

type fakeEnqueuer struct {
	kinds []string
	fail  bool
}

func (e *fakeEnqueuer) Enqueue(_ context.Context, kind string, _ any) (string, error) {
	if e.fail {
		return "", errors.New("queue unavailable")
	}
	e.kinds = append(e.kinds, kind)
	return "job-1", nil
}
