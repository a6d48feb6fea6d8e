package service

import (
	"strings"
	"time"

	"github.com/cellar-market/internal/models"
	"github.com/cellar-market/internal/queue"
	"github.com/cellar-market/internal/repository"
)

// CartEventService 购物车审计日志服务
type CartEventService struct {
	repo repository.CartEventRepository
}

// NewCartEventService 创建审计日志服务
func NewCartEventService(repo repository.CartEventRepository) *CartEventService {
	return &CartEventService{repo: repo}
}

// Record 持久化一条来自队列的事件
func (s *CartEventService) Record(payload queue.CartEventPayload) (*models.CartEvent, error) {
	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	occurredAt := payload.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	event := &models.CartEvent{
		UserID:     userID,
		Action:     payload.Action,
		WineID:     payload.WineID,
		WineKey:    payload.WineKey,
		Quantity:   payload.Quantity,
		OccurredAt: occurredAt,
	}
	if err := s.repo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

// List 分页查询事件
func (s *CartEventService) List(filter repository.CartEventListFilter) ([]models.CartEvent, int64, error) {
	events, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	if events == nil {
		events = []models.CartEvent{}
	}
	return events, total, nil
}
