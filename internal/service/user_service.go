package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/cellar-market/internal/cache"
	"github.com/cellar-market/internal/config"
	"github.com/cellar-market/internal/constants"
	"github.com/cellar-market/internal/logger"
	"github.com/cellar-market/internal/models"
	"github.com/cellar-market/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// RegisterUserInput 注册输入
type RegisterUserInput struct {
	Email       string
	Password    string
	DisplayName string
	Locale      string
}

// UpdateProfileInput 资料更新输入，nil 字段保持不变
type UpdateProfileInput struct {
	DisplayName *string
	Locale      *string
}

// UserService 用户账户服务
type UserService struct {
	repo     repository.UserRepository
	policy   config.PasswordPolicyConfig
	cacheTTL time.Duration
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, policy config.PasswordPolicyConfig, cacheTTL time.Duration) *UserService {
	return &UserService{repo: repo, policy: policy, cacheTTL: cacheTTL}
}

// Register 注册新用户
func (s *UserService) Register(input RegisterUserInput) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.policy, input.Password); err != nil {
		return nil, err
	}
	exist, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	locale := strings.TrimSpace(input.Locale)
	if locale == "" {
		locale = "en-US"
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hashed),
		DisplayName:  displayName,
		Locale:       locale,
		Status:       constants.UserStatusActive,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate 校验邮箱密码，供外部令牌签发方回调
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != constants.UserStatusActive {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByID 获取用户，优先读缓存
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}
	if cached, hit, err := cache.GetUserProfile(ctx, id); err != nil {
		logger.Warnw("user_cache_get_failed", "user_id", id, "error", err)
	} else if hit {
		return cached, nil
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := cache.SetUserProfile(ctx, user, s.cacheTTL); err != nil {
		logger.Warnw("user_cache_set_failed", "user_id", id, "error", err)
	}
	return user, nil
}

// UpdateProfile 更新昵称与语言偏好
func (s *UserService) UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Locale != nil {
		user.Locale = strings.TrimSpace(*input.Locale)
	}
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	if err := cache.DelUserProfile(ctx, id); err != nil {
		logger.Warnw("user_cache_del_failed", "user_id", id, "error", err)
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
