package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/cellar-market/internal/config"
)

type passwordPolicyError struct {
	minLength int
}

func (e passwordPolicyError) Error() string {
	return fmt.Sprintf("password must be at least %d characters", e.minLength)
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && utf8.RuneCountInString(password) < policy.MinLength {
		return passwordPolicyError{minLength: policy.MinLength}
	}
	return nil
}
