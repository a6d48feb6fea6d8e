package models

import "time"

// CartItem 购物车项，加入时对酒款做快照，不随目录变化
type CartItem struct {
	WineID    int       `json:"wine_id"`
	WineKey   string    `json:"wine_key"`
	Title     string    `json:"title"`
	Price     *Money    `json:"price"`
	Points    int       `json:"points"`
	Variety   string    `json:"variety"`
	Region    string    `json:"region"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// NewCartItem 由酒款生成快照项
func NewCartItem(wine WineRecord, quantity int, now time.Time) CartItem {
	item := CartItem{
		WineID:    wine.ID,
		WineKey:   wine.Key,
		Title:     wine.Title,
		Points:    wine.Points,
		Variety:   wine.Variety,
		Region:    wine.PrimaryRegion(),
		Thumbnail: wine.Thumbnail,
		Quantity:  quantity,
		AddedAt:   now,
	}
	if wine.Price != nil {
		price := *wine.Price
		item.Price = &price
	}
	return item
}

// Cart 单个用户的购物车，仅存于进程内存
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone 深拷贝，调用方拿到的副本可随意修改
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		if item.Price != nil {
			price := *item.Price
			item.Price = &price
		}
		out.Items[i] = item
	}
	return &out
}

// FindItem 返回指定酒款所在下标，不存在返回 -1
func (c *Cart) FindItem(wineID int) int {
	for i := range c.Items {
		if c.Items[i].WineID == wineID {
			return i
		}
	}
	return -1
}

// CartSummary 购物车汇总，每次读取时重新计算
type CartSummary struct {
	ItemCount int   `json:"item_count"`
	Subtotal  Money `json:"subtotal"`
	Tax       Money `json:"tax"`
	Shipping  Money `json:"shipping"`
	Total     Money `json:"total"`
}
