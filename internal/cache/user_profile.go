package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/cellar-market/internal/models"
)

const defaultUserProfileTTL = 5 * time.Minute

func userProfileKey(userID uint) string {
	return Key("user", "profile", strconv.FormatUint(uint64(userID), 10))
}

// GetUserProfile 读取用户资料缓存
func GetUserProfile(ctx context.Context, userID uint) (*models.User, bool, error) {
	return getJSON[models.User](ctx, userProfileKey(userID))
}

// SetUserProfile 写入用户资料缓存，ttl<=0 使用默认值
func SetUserProfile(ctx context.Context, user *models.User, ttl time.Duration) error {
	if user == nil || user.ID == 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultUserProfileTTL
	}
	return setJSON(ctx, userProfileKey(user.ID), user, ttl)
}

// DelUserProfile 资料变更后失效缓存
func DelUserProfile(ctx context.Context, userID uint) error {
	return del(ctx, userProfileKey(userID))
}
