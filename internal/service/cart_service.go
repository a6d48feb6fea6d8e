package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/cellar-market/internal/config"
	"github.com/cellar-market/internal/logger"
	"github.com/cellar-market/internal/metrics"
	"github.com/cellar-market/internal/models"
	"github.com/cellar-market/internal/queue"
	"github.com/cellar-market/internal/repository"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// CartEventPublisher 购物车事件发布方，由队列客户端实现
type CartEventPublisher interface {
	EnqueueCartEvent(payload queue.CartEventPayload, opts ...asynq.Option) error
}

// WineLookup 购物车解析酒款所需的目录能力
type WineLookup interface {
	GetByID(id string) (*models.WineRecord, error)
}

// CartPricing 购物车计价参数
type CartPricing struct {
	TaxRate     decimal.Decimal
	ShippingFee models.Money
}

// NewCartPricing 从配置构建计价参数
func NewCartPricing(cfg config.CartConfig) CartPricing {
	return CartPricing{
		TaxRate:     decimal.NewFromFloat(cfg.TaxRate),
		ShippingFee: models.NewMoneyFromFloat(cfg.ShippingFee),
	}
}

// CartWithTotals 购物车及实时汇总
type CartWithTotals struct {
	*models.Cart
	Summary models.CartSummary `json:"summary"`
}

// CartService 购物车服务
type CartService struct {
	store     repository.CartStore
	wines     WineLookup
	publisher CartEventPublisher
	pricing   CartPricing
	now       func() time.Time
}

// NewCartService 创建购物车服务，publisher 可为 nil
func NewCartService(store repository.CartStore, wines WineLookup, publisher CartEventPublisher, pricing CartPricing) *CartService {
	return &CartService{
		store:     store,
		wines:     wines,
		publisher: publisher,
		pricing:   pricing,
		now:       time.Now,
	}
}

// AddItem 加入购物车，同一酒款累加数量
func (s *CartService) AddItem(userID, wineID string, quantity int) (*models.Cart, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	wineID = strings.TrimSpace(wineID)
	if wineID == "" {
		return nil, ErrInvalidWineID
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	wine, err := s.wines.GetByID(wineID)
	if err != nil {
		return nil, err
	}

	var snapshot models.CartItem
	cart, err := s.store.Update(userID, func(cart *models.Cart) error {
		now := s.now()
		if idx := indexOfWineKey(cart, wine.Key); idx >= 0 {
			// 目录重载后下标可能变化，以当前目录为准
			cart.Items[idx].WineID = wine.ID
			cart.Items[idx].Quantity += quantity
			snapshot = cart.Items[idx]
		} else {
			snapshot = models.NewCartItem(*wine, quantity, now)
			cart.Items = append(cart.Items, snapshot)
		}
		s.releaseStalePosition(cart, wine.ID, wine.Key)
		cart.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(userID, models.CartActionAdd, snapshot.WineID, snapshot.WineKey, snapshot.Quantity)
	return cart, nil
}

// UpdateItem 直接设置数量，小于等于 0 时移除
func (s *CartService) UpdateItem(userID, wineID string, quantity int) (*models.Cart, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	var touched models.CartItem
	action := models.CartActionUpdate
	key := s.currentWineKey(wineID)
	cart, err := s.store.Update(userID, func(cart *models.Cart) error {
		idx := locateCartItem(cart, wineID, key)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		touched = cart.Items[idx]
		if quantity <= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			action = models.CartActionRemove
			touched.Quantity = 0
		} else {
			cart.Items[idx].Quantity = quantity
			touched.Quantity = quantity
		}
		cart.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(userID, action, touched.WineID, touched.WineKey, touched.Quantity)
	return cart, nil
}

// RemoveItem 移除购物车项
func (s *CartService) RemoveItem(userID, wineID string) (*models.Cart, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	var removed models.CartItem
	key := s.currentWineKey(wineID)
	cart, err := s.store.Update(userID, func(cart *models.Cart) error {
		idx := locateCartItem(cart, wineID, key)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		removed = cart.Items[idx]
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		cart.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(userID, models.CartActionRemove, removed.WineID, removed.WineKey, 0)
	return cart, nil
}

// Clear 清空购物车，对空车同样成功
func (s *CartService) Clear(userID string) (*models.Cart, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	cart, err := s.store.Update(userID, func(cart *models.Cart) error {
		cart.Items = []models.CartItem{}
		cart.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(userID, models.CartActionClear, -1, "", 0)
	return cart, nil
}

// GetWithTotals 只读获取购物车与汇总
func (s *CartService) GetWithTotals(userID string) (*CartWithTotals, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	cart := s.store.Get(userID)
	return &CartWithTotals{Cart: cart, Summary: s.Summarize(cart)}, nil
}

// Summarize 计算汇总：税为小计乘税率，有商品时收取固定运费
func (s *CartService) Summarize(cart *models.Cart) models.CartSummary {
	subtotal := models.NewMoneyFromDecimal(decimal.Zero)
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
		if item.Price != nil {
			subtotal = subtotal.Plus(item.Price.Times(item.Quantity))
		}
	}
	tax := models.NewMoneyFromDecimal(subtotal.Decimal.Mul(s.pricing.TaxRate))
	shipping := models.NewMoneyFromDecimal(decimal.Zero)
	if len(cart.Items) > 0 {
		shipping = s.pricing.ShippingFee
	}
	return models.CartSummary{
		ItemCount: count,
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  shipping,
		Total:     subtotal.Plus(tax).Plus(shipping),
	}
}

// emit 事件发布失败只记日志，不影响购物车变更结果
func (s *CartService) emit(userID, action string, wineID int, wineKey string, quantity int) {
	metrics.CartMutations.WithLabelValues(action).Inc()
	if s.publisher == nil {
		return
	}
	err := s.publisher.EnqueueCartEvent(queue.CartEventPayload{
		UserID:     userID,
		Action:     action,
		WineID:     wineID,
		WineKey:    wineKey,
		Quantity:   quantity,
		OccurredAt: s.now(),
	})
	if err != nil {
		logger.Warnw("cart_event_enqueue_failed",
			"user_id", userID,
			"action", action,
			"wine_id", wineID,
			"error", err,
		)
	}
}

func normalizeUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrInvalidUserID
	}
	return userID, nil
}

func indexOfWineKey(cart *models.Cart, key string) int {
	for i := range cart.Items {
		if cart.Items[i].WineKey == key {
			return i
		}
	}
	return -1
}

// currentWineKey 解析请求中的酒款在当前目录里的稳定 key，酒款已下架时返回空
func (s *CartService) currentWineKey(wineID string) string {
	wine, err := s.wines.GetByID(strings.TrimSpace(wineID))
	if err != nil || wine == nil {
		return ""
	}
	return wine.Key
}

// releaseStalePosition 其他购物车项仍占用该下标时，按 key 重新定位；已下架的置为 -1
func (s *CartService) releaseStalePosition(cart *models.Cart, wineID int, key string) {
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.WineID != wineID || item.WineKey == key {
			continue
		}
		item.WineID = -1
		if current, err := s.wines.GetByID(item.WineKey); err == nil && current != nil && current.Key == item.WineKey {
			item.WineID = current.ID
		}
	}
}

// locateCartItem 目录中仍有该酒款时按 key 定位，否则退回快照中的下标
func locateCartItem(cart *models.Cart, wineID, key string) int {
	if key != "" {
		return indexOfWineKey(cart, key)
	}
	return indexOfCartItem(cart, wineID)
}

// indexOfCartItem 按下标或稳定 key 定位购物车项
func indexOfCartItem(cart *models.Cart, wineID string) int {
	wineID = strings.TrimSpace(wineID)
	if wineID == "" {
		return -1
	}
	if n, err := strconv.Atoi(wineID); err == nil {
		return cart.FindItem(n)
	}
	return indexOfWineKey(cart, wineID)
}
