package repository

import (
	"sync"
	"time"

	"github.com/cellar-market/internal/models"
)

// CartStore 购物车存储，所有读写都以副本进出
type CartStore interface {
	// Get 获取或创建购物车
	Get(userID string) *models.Cart
	// Update 在该用户的锁内执行 fn；fn 返回错误时不落地任何修改
	Update(userID string, fn func(cart *models.Cart) error) (*models.Cart, error)
	Len() int
}

type cartEntry struct {
	mu   sync.Mutex
	cart *models.Cart
}

// MemoryCartStore 进程内购物车存储，进程退出即丢失
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]*cartEntry
	now   func() time.Time
}

// NewMemoryCartStore 创建内存购物车存储，now 为空时使用 time.Now
func NewMemoryCartStore(now func() time.Time) *MemoryCartStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryCartStore{
		carts: make(map[string]*cartEntry),
		now:   now,
	}
}

// Get 获取购物车副本，不存在时创建空车
func (s *MemoryCartStore) Get(userID string) *models.Cart {
	entry := s.entry(userID)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.cart.Clone()
}

// Update 以单用户互斥执行读改写
func (s *MemoryCartStore) Update(userID string, fn func(cart *models.Cart) error) (*models.Cart, error) {
	entry := s.entry(userID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.cart.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	entry.cart = working
	return working.Clone(), nil
}

// Len 已创建的购物车数量
func (s *MemoryCartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

func (s *MemoryCartStore) entry(userID string) *cartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.carts[userID]; ok {
		return entry
	}
	now := s.now()
	entry := &cartEntry{cart: &models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}}
	s.carts[userID] = entry
	return entry
}
