package constants

// 队列名称
const (
	QueueDefault = "default"
	QueueAudit   = "audit"
)

// 异步任务类型
const (
	TaskCartEvent = "cart:event"
)

// 运维角色
const (
	RoleCatalogAdmin = "catalog_admin"
	RoleAuditor      = "auditor"
)

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 分页默认值
const (
	CatalogDefaultPage  = 1
	CatalogDefaultLimit = 21
	AdminDefaultPage    = 1
	AdminDefaultSize    = 20
	AdminMaxPageSize    = 200
)

// 推荐规则
const (
	RecommendMinPoints = 90
	RecommendMaxItems  = 5
)

// 请求上下文键
const (
	CtxKeyRequestID = "request_id"
	CtxKeyUserID    = "user_id"
	CtxKeyOperator  = "operator"
)
