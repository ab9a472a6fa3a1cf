package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"book-catalog/internal/core/apperr"
	"book-catalog/internal/core/auth"
	"book-catalog/internal/notify"
	"book-catalog/pkg/utils"
)

func newAccountService(users *fakeUserRepo, sessions *fakeSessions, mail *fakeEnqueuer) *AccountService {
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "book-catalog", TTL: time.Hour}
	return NewAccountService(users, sessions, jwter, mail, zap.NewNop())
}

func validRegister() RegisterInput {
	return RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "Valid123!",
		ConfirmPassword: "Valid123!",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores hash and enqueues welcome email", func(t *testing.T) {
		users, mail := newFakeUserRepo(), &fakeEnqueuer{}
		svc := newAccountService(users, newFakeSessions(), mail)

		u, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.NotZero(t, u.ID)

		// 明文不落库
		assert.NotEqual(t, "Valid123!", u.PasswordHash)
		assert.True(t, utils.CheckPassword("Valid123!", u.PasswordHash))

		assert.Equal(t, []string{notify.KindRegistrationEmail}, mail.kinds)
	})

	t.Run("enqueue failure does not fail registration", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := newAccountService(users, newFakeSessions(), &fakeEnqueuer{fail: true})

		u, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)
		assert.NotNil(t, u)

		got, err := users.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc := newAccountService(newFakeUserRepo(), newFakeSessions(), &fakeEnqueuer{})
		_, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)

		in := validRegister()
		in.Email = "other@example.com"
		_, err = svc.Register(ctx, in)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Contains(t, err.Error(), "Username already exists")
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := newAccountService(newFakeUserRepo(), newFakeSessions(), &fakeEnqueuer{})
		_, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)

		in := validRegister()
		in.Username = "bob"
		_, err = svc.Register(ctx, in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Email already registered")
	})

	t.Run("password confirmation mismatch", func(t *testing.T) {
		svc := newAccountService(newFakeUserRepo(), newFakeSessions(), &fakeEnqueuer{})
		in := validRegister()
		in.ConfirmPassword = "Different123!"
		_, err := svc.Register(ctx, in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Passwords do not match")
	})

	t.Run("weak password rejected", func(t *testing.T) {
		svc := newAccountService(newFakeUserRepo(), newFakeSessions(), &fakeEnqueuer{})
		in := validRegister()
		in.Password, in.ConfirmPassword = "weakpassword", "weakpassword"
		_, err := svc.Register(ctx, in)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users, sessions := newFakeUserRepo(), newFakeSessions()
	svc := newAccountService(users, sessions, &fakeEnqueuer{})

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	t.Run("success issues token and saves session", func(t *testing.T) {
		token, u, err := svc.Login(ctx, "alice", "Valid123!")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.NotEmpty(t, token)

		claims, err := svc.jwter.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UID)

		ok, err := sessions.Valid(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password and unknown user share one message", func(t *testing.T) {
		_, _, errPass := svc.Login(ctx, "alice", "Wrong123!")
		_, _, errUser := svc.Login(ctx, "nobody", "Valid123!")

		require.Error(t, errPass)
		require.Error(t, errUser)
		assert.True(t, apperr.IsKind(errPass, apperr.KindUnauthenticated))
		assert.Equal(t, errPass.Error(), errUser.Error())
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	users, sessions := newFakeUserRepo(), newFakeSessions()
	svc := newAccountService(users, sessions, &fakeEnqueuer{})

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "alice", "Valid123!")
	require.NoError(t, err)
	claims, err := svc.jwter.Parse(token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	ok, err := sessions.Valid(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// 重复登出幂等
	require.NoError(t, svc.Logout(ctx, claims.ID))
	require.NoError(t, svc.Logout(ctx, ""))
}

func TestSubmitContact(t *testing.T) {
	ctx := context.Background()
	mail := &fakeEnqueuer{}
	svc := newAccountService(newFakeUserRepo(), newFakeSessions(), mail)

	require.NoError(t, svc.SubmitContact(ctx, "Bob", "bob@example.com", "hello"))
	assert.Equal(t, []string{notify.KindContactEmail}, mail.kinds)

	err := svc.SubmitContact(ctx, "", "bob@example.com", "hello")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
