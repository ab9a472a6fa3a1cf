package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"book-catalog/internal/core/apperr"
	"book-catalog/internal/domain"
)

type BookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

func (r *BookRepo) Create(ctx context.Context, b *domain.Book) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(b).Error
	})
	if isDupKey(err) {
		// (user_id, isbn) 组合唯一索引兜底并发写
		return apperr.DuplicateISBN("a book with this ISBN already exists for this user")
	}
	return err
}

func (r *BookRepo) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Book, error) {
	books := make([]domain.Book, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("id ASC"). // 录入顺序
		Find(&books).Error
	return books, err
}

func (r *BookRepo) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	var b domain.Book
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &b, err
}

func (r *BookRepo) FindByOwnerAndISBN(ctx context.Context, ownerID uint, isbn string) (*domain.Book, error) {
	var b domain.Book
	err := r.db.WithContext(ctx).
		First(&b, "user_id = ? AND isbn = ?", ownerID, isbn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &b, err
}

func (r *BookRepo) Update(ctx context.Context, b *domain.Book) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Save 全字段写；ISBN 为 nil 时也要落 NULL，不能用 Updates 的零值跳过
		return tx.Save(b).Error
	})
	if isDupKey(err) {
		return apperr.DuplicateISBN("a book with this ISBN already exists for this user")
	}
	return err
}

func (r *BookRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Book{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("book not found")
		}
		return nil
	})
}
