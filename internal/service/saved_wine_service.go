package service

import (
	"context"
	"strings"

	"github.com/cellar-market/internal/models"
	"github.com/cellar-market/internal/repository"
)

// SavedWineService 用户收藏服务，按稳定 key 引用酒款
type SavedWineService struct {
	repo  repository.SavedWineRepository
	users *UserService
	wines WineLookup
}

// NewSavedWineService 创建收藏服务
func NewSavedWineService(repo repository.SavedWineRepository, users *UserService, wines WineLookup) *SavedWineService {
	return &SavedWineService{repo: repo, users: users, wines: wines}
}

// List 列出用户收藏
func (s *SavedWineService) List(ctx context.Context, userID uint) ([]models.SavedWine, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.SavedWine{}
	}
	return items, nil
}

// Save 收藏酒款，wineID 可为下标或稳定 key，重复收藏不报错
func (s *SavedWineService) Save(ctx context.Context, userID uint, wineID string) (*models.SavedWine, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(wineID) == "" {
		return nil, ErrInvalidWineID
	}
	wine, err := s.wines.GetByID(wineID)
	if err != nil {
		return nil, err
	}
	saved := &models.SavedWine{
		UserID:  userID,
		WineKey: wine.Key,
		Title:   wine.Title,
	}
	if err := s.repo.Create(saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// Remove 取消收藏
func (s *SavedWineService) Remove(userID uint, wineKey string) error {
	wineKey = strings.TrimSpace(wineKey)
	if wineKey == "" {
		return ErrInvalidWineID
	}
	affected, err := s.repo.Delete(userID, wineKey)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSavedWineNotFound
	}
	return nil
}
