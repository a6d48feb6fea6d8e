package models

import "time"

// SavedWine 用户收藏的酒款，按稳定 key 引用
type SavedWine struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                              // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_wine_user_key" json:"user_id"`       // 用户ID
	WineKey   string    `gorm:"size:64;not null;uniqueIndex:idx_saved_wine_user_key" json:"wine_key"` // 酒款稳定标识
	Title     string    `gorm:"size:255;not null;default:''" json:"title"`                         // 收藏时的名称快照
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                           // 收藏时间
}

// TableName 指定表名
func (SavedWine) TableName() string {
	return "saved_wines"
}
