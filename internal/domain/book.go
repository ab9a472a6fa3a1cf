package domain

import (
	"context"
	"time"
)

type Book struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"size:100;not null" json:"title"`
	Author string `gorm:"size:100;not null" json:"author"`
	Year   int    `json:"year"`
	Genre  string `gorm:"size:50" json:"genre"`

	// ISBN 同一用户内唯一；不同用户可收录同一 ISBN。NULL 不参与唯一约束
	ISBN *string `gorm:"size:13;uniqueIndex:idx_books_owner_isbn" json:"isbn"`

	UserID    uint      `gorm:"not null;uniqueIndex:idx_books_owner_isbn" json:"user_id"`
	CreatedAt time.Time `json:"created_at"` // 创建后不再变更
}

func (Book) TableName() string { return "books" }

type BookRepository interface {
	// Create 单事务写入；(user_id, isbn) 冲突返回 apperr.DuplicateISBN
	Create(ctx context.Context, b *Book) error
	ListByOwner(ctx context.Context, ownerID uint) ([]Book, error)
	FindByID(ctx context.Context, id uint) (*Book, error)
	FindByOwnerAndISBN(ctx context.Context, ownerID uint, isbn string) (*Book, error)
	// Update 全字段原子更新，冲突语义同 Create
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id uint) error
}
