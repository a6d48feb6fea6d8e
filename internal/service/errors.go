package service

import (
	"errors"
	"fmt"
)

// ErrNotFound 资源不存在，所有具体的不存在错误都可用 errors.Is 归到它
var ErrNotFound = errors.New("not found")

var (
	ErrWineNotFound      = fmt.Errorf("wine %w", ErrNotFound)
	ErrCartItemNotFound  = fmt.Errorf("cart item %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrSavedWineNotFound = fmt.Errorf("saved wine %w", ErrNotFound)
)

var (
	ErrInvalidUserID    = errors.New("user id is required")
	ErrInvalidWineID    = errors.New("wine id is required")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidEmail     = errors.New("email is invalid")
	ErrEmailExists      = errors.New("email already registered")
	ErrWeakPassword     = errors.New("password does not meet policy")
	ErrCatalogReloadOff = errors.New("catalog reload is not available")
)
