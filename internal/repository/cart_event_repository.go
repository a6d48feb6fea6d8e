package repository

import (
	"strings"

	"github.com/cellar-market/internal/models"

	"gorm.io/gorm"
)

// CartEventRepository 购物车审计日志访问接口
type CartEventRepository interface {
	Create(event *models.CartEvent) error
	List(filter CartEventListFilter) ([]models.CartEvent, int64, error)
}

// GormCartEventRepository GORM 实现
type GormCartEventRepository struct {
	db *gorm.DB
}

// NewCartEventRepository 创建审计日志仓库
func NewCartEventRepository(db *gorm.DB) *GormCartEventRepository {
	return &GormCartEventRepository{db: db}
}

// Create 写入一条事件
func (r *GormCartEventRepository) Create(event *models.CartEvent) error {
	return r.db.Create(event).Error
}

// List 按发生时间倒序分页
func (r *GormCartEventRepository) List(filter CartEventListFilter) ([]models.CartEvent, int64, error) {
	query := r.db.Model(&models.CartEvent{})
	if userID := strings.TrimSpace(filter.UserID); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := strings.TrimSpace(filter.Action); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.CartEvent
	query = applyPagination(query.Order("occurred_at desc, id desc"), filter.Page, filter.PageSize)
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
