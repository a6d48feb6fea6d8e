package repository

import (
	"github.com/cellar-market/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedWineRepository 收藏数据访问接口
type SavedWineRepository interface {
	ListByUser(userID uint) ([]models.SavedWine, error)
	Create(saved *models.SavedWine) error
	Delete(userID uint, wineKey string) (int64, error)
}

// GormSavedWineRepository GORM 实现
type GormSavedWineRepository struct {
	db *gorm.DB
}

// NewSavedWineRepository 创建收藏仓库
func NewSavedWineRepository(db *gorm.DB) *GormSavedWineRepository {
	return &GormSavedWineRepository{db: db}
}

// ListByUser 按收藏时间倒序
func (r *GormSavedWineRepository) ListByUser(userID uint) ([]models.SavedWine, error) {
	var items []models.SavedWine
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create 已收藏时忽略
func (r *GormSavedWineRepository) Create(saved *models.SavedWine) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(saved).Error
}

// Delete 返回删除行数
func (r *GormSavedWineRepository) Delete(userID uint, wineKey string) (int64, error) {
	result := r.db.Where("user_id = ? AND wine_key = ?", userID, wineKey).Delete(&models.SavedWine{})
	return result.RowsAffected, result.Error
}
