package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-catalog/internal/core/apperr"
)

func sampleBook() BookInput {
	return BookInput{
		Title:  "The Go Programming Language",
		Author: "Donovan & Kernighan",
		Year:   2015,
		Genre:  "Programming",
		ISBN:   "9780134190440",
	}
}

func TestBookCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc := NewBookService(newFakeBookRepo())
		b, err := svc.Create(ctx, 1, sampleBook())
		require.NoError(t, err)
		assert.NotZero(t, b.ID)
		assert.Equal(t, uint(1), b.UserID)
		require.NotNil(t, b.ISBN)
		assert.Equal(t, "9780134190440", *b.ISBN)
	})

	t.Run("duplicate ISBN for same owner rejected", func(t *testing.T) {
		svc := NewBookService(newFakeBookRepo())
		_, err := svc.Create(ctx, 1, sampleBook())
		require.NoError(t, err)

		in := sampleBook()
		in.Title = "Another Title"
		_, err = svc.Create(ctx, 1, in)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindDuplicateISBN))
	})

	t.Run("same ISBN allowed for different owners", func(t *testing.T) {
		svc := NewBookService(newFakeBookRepo())
		_, err := svc.Create(ctx, 1, sampleBook())
		require.NoError(t, err)
		_, err = svc.Create(ctx, 2, sampleBook())
		require.NoError(t, err)
	})

	t.Run("multiple books without ISBN allowed", func(t *testing.T) {
		svc := NewBookService(newFakeBookRepo())
		in := sampleBook()
		in.ISBN = ""
		b1, err := svc.Create(ctx, 1, in)
		require.NoError(t, err)
		assert.Nil(t, b1.ISBN)

		in.Title = "Second Untracked Book"
		_, err = svc.Create(ctx, 1, in)
		require.NoError(t, err)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewBookService(newFakeBookRepo())
		cases := []struct {
			name   string
			mutate func(*BookInput)
		}{
			{"missing title", func(in *BookInput) { in.Title = "  " }},
			{"missing author", func(in *BookInput) { in.Author = "" }},
			{"isbn too long", func(in *BookInput) { in.ISBN = "97801341904401" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				in := sampleBook()
				tc.mutate(&in)
				_, err := svc.Create(ctx, 1, in)
				require.Error(t, err)
				assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			})
		}
	})
}

func TestBookList(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(newFakeBookRepo())

	in := sampleBook()
	_, err := svc.Create(ctx, 1, in)
	require.NoError(t, err)

	in2 := sampleBook()
	in2.Title, in2.ISBN = "Second", ""
	_, err = svc.Create(ctx, 1, in2)
	require.NoError(t, err)

	other := sampleBook()
	_, err = svc.Create(ctx, 2, other)
	require.NoError(t, err)

	books, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, books, 2)
	// 按录入顺序
	assert.Equal(t, "The Go Programming Language", books[0].Title)
	assert.Equal(t, "Second", books[1].Title)

	// 读操作不改变状态
	again, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, books, again)

	// 无书用户：空切片而非 nil（JSON 序列化为 [] 而非 null）
	empty, err := svc.List(ctx, 99)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestBookGet(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(newFakeBookRepo())
	b, err := svc.Create(ctx, 1, sampleBook())
	require.NoError(t, err)

	t.Run("owner reads own book", func(t *testing.T) {
		got, err := svc.Get(ctx, b.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	})

	t.Run("missing id is not found even for non-owner", func(t *testing.T) {
		_, err := svc.Get(ctx, 9999, 2)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("existing book of another owner is forbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, b.ID, 2)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}

func TestBookUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("success, including clearing ISBN", func(t *testing.T) {
		svc := NewBookService(newFakeBookRepo())
		b, err := svc.Create(ctx, 1, sampleBook())
		require.NoError(t, err)

		in := sampleBook()
		in.Title, in.ISBN = "Renamed", ""
		got, err := svc.Update(ctx, b.ID, 1, in)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Nil(t, got.ISBN)
	})

	t.Run("keeping own ISBN is not a conflict", func(t *testing.T) {
		svc := NewBookService(newFakeBookRepo())
		b, err := svc.Create(ctx, 1, sampleBook())
		require.NoError(t, err)

		in := sampleBook()
		in.Year = 2016
		got, err := svc.Update(ctx, b.ID, 1, in)
		require.NoError(t, err)
		assert.Equal(t, 2016, got.Year)
	})

	t.Run("changing ISBN onto a sibling conflicts", func(t *testing.T) {
		svc := NewBookService(newFakeBookRepo())
		_, err := svc.Create(ctx, 1, sampleBook())
		require.NoError(t, err)

		in2 := sampleBook()
		in2.Title, in2.ISBN = "Other", "9999999999999"
		b2, err := svc.Create(ctx, 1, in2)
		require.NoError(t, err)

		in2.ISBN = "9780134190440"
		_, err = svc.Update(ctx, b2.ID, 1, in2)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindDuplicateISBN))
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		svc := NewBookService(newFakeBookRepo())
		b, err := svc.Create(ctx, 1, sampleBook())
		require.NoError(t, err)

		_, err = svc.Update(ctx, b.ID, 2, sampleBook())
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}

func TestBookDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(newFakeBookRepo())
	b, err := svc.Create(ctx, 1, sampleBook())
	require.NoError(t, err)

	err = svc.Delete(ctx, b.ID, 2)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, svc.Delete(ctx, b.ID, 1))

	err = svc.Delete(ctx, b.ID, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	books, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, books)
}
