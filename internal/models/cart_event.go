package models

import "time"

// 购物车事件动作
const (
	CartActionAdd    = "add"
	CartActionUpdate = "update"
	CartActionRemove = "remove"
	CartActionClear  = "clear"
)

// CartEvent 购物车变更审计日志，由 worker 异步写入
type CartEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`                   // 主键
	UserID     string    `gorm:"size:128;not null;index" json:"user_id"` // 购物车所属用户
	Action     string    `gorm:"size:16;not null;index" json:"action"`   // add/update/remove/clear
	WineID     int       `gorm:"not null;default:-1" json:"wine_id"`     // 涉及酒款下标，clear 时为 -1
	WineKey    string    `gorm:"size:64;default:''" json:"wine_key"`     // 酒款稳定标识
	Quantity   int       `gorm:"not null;default:0" json:"quantity"`     // 变更后的数量
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`      // 发生时间
	CreatedAt  time.Time `json:"created_at"`                             // 入库时间
}

// TableName 指定表名
func (CartEvent) TableName() string {
	return "cart_events"
}
