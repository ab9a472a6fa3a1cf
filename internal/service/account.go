package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"book-catalog/internal/core/apperr"
	"book-catalog/internal/core/auth"
	"book-catalog/internal/domain"
	"book-catalog/internal/notify"
	"book-catalog/internal/session"
	"book-catalog/pkg/utils"
)

type AccountService struct {
	users    domain.UserRepository
	sessions session.Store
	jwter    *auth.JWTer
	mail     notify.Enqueuer
	log      *zap.Logger
}

func NewAccountService(
	users domain.UserRepository,
	sessions session.Store,
	jwter *auth.JWTer,
	mail notify.Enqueuer,
	log *zap.Logger,
) *AccountService {
	return &AccountService{users: users, sessions: sessions, jwter: jwter, mail: mail, log: log}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register 注册新用户。欢迎邮件 best-effort 入队，失败不影响注册结果。
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" || len(username) > 64 {
		return nil, apperr.Validation("username must be 1-64 characters")
	}
	if email == "" || len(email) > 120 {
		return nil, apperr.Validation("email must be 1-120 characters")
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperr.Validation("Passwords do not match")
	}

	// 用户名精确匹配查重
	if existing, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, apperr.Internal("lookup username", err)
	} else if existing != nil {
		return nil, apperr.Validation("Username already exists")
	}
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, apperr.Internal("lookup email", err)
	} else if existing != nil {
		return nil, apperr.Validation("Email already registered")
	}

	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: utils.HashPassword(in.Password), // 只存哈希
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apperr.Internal("create user", err)
	}

	if _, err := s.mail.Enqueue(ctx, notify.KindRegistrationEmail, notify.RegistrationEmail{
		Email:    u.Email,
		Username: u.Username,
	}); err != nil {
		s.log.Warn("welcome email enqueue failed",
			zap.String("username", u.Username), zap.Error(err))
	}

	return u, nil
}

// Login 统一失败文案，避免用户名枚举
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", nil, apperr.Internal("lookup user", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, apperr.Unauthenticated("Invalid username or password")
	}

	token, jti, err := s.jwter.Issue(u.ID, u.Username)
	if err != nil {
		return "", nil, apperr.Internal("issue token", err)
	}
	if err := s.sessions.Save(ctx, jti, u.ID, s.jwter.TTL); err != nil {
		return "", nil, apperr.Internal("save session", err)
	}
	return token, u, nil
}

// Logout 吊销会话；幂等
func (s *AccountService) Logout(ctx context.Context, jti string) error {
	if jti == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return apperr.Internal("revoke session", err)
	}
	return nil
}

// SubmitContact 联系表单：入队即返回，不等待发送
func (s *AccountService) SubmitContact(ctx context.Context, name, email, message string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(message) == "" {
		return apperr.Validation("name, email and message are required")
	}
	if _, err := s.mail.Enqueue(ctx, notify.KindContactEmail, notify.ContactEmail{
		Name: name, Email: email, Message: message,
	}); err != nil {
		return apperr.Internal("enqueue contact email", err)
	}
	return nil
}
