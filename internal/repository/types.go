package repository

// CartEventListFilter 查询购物车事件的过滤条件
type CartEventListFilter struct {
	Page     int
	PageSize int
	UserID   string
	Action   string
}
