package provider

import (
	"time"

	"github.com/cellar-market/internal/authz"
	"github.com/cellar-market/internal/cache"
	"github.com/cellar-market/internal/config"
	"github.com/cellar-market/internal/logger"
	"github.com/cellar-market/internal/models"
	"github.com/cellar-market/internal/queue"
	"github.com/cellar-market/internal/repository"
	"github.com/cellar-market/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	WineRepo      repository.WineRepository
	CartStore     repository.CartStore
	UserRepo      repository.UserRepository
	SavedWineRepo repository.SavedWineRepository
	CartEventRepo repository.CartEventRepository

	// Services
	AuthzService     *authz.Service
	CatalogService   *service.CatalogService
	CartService      *service.CartService
	UserService      *service.UserService
	SavedWineService *service.SavedWineService
	CartEventService *service.CartEventService
}

// NewContainer 基于全局数据库与配置文件中的目录路径初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	return NewContainerWith(cfg, models.DB, repository.NewJSONWineRepository(cfg.Catalog.Path))
}

// NewContainerWith 使用指定数据库与目录仓库组装容器，测试时注入内存实现
func NewContainerWith(cfg *config.Config, db *gorm.DB, wines repository.WineRepository) *Container {
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		WineRepo:    wines,
	}
	c.initRepositories(db)
	c.initServices(db)
	return c
}

// Close 释放外部连接
func (c *Container) Close() {
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.CartStore = repository.NewMemoryCartStore(nil)
	c.UserRepo = repository.NewUserRepository(db)
	c.SavedWineRepo = repository.NewSavedWineRepository(db)
	c.CartEventRepo = repository.NewCartEventRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	if err := authzService.SyncOperators(c.Config.Admin.Operators); err != nil {
		logger.Errorw("provider_sync_operators_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService

	var publisher service.CartEventPublisher
	if c.QueueClient != nil {
		publisher = c.QueueClient
	}

	c.CatalogService = service.NewCatalogService(c.WineRepo)
	c.CartService = service.NewCartService(c.CartStore, c.CatalogService, publisher, service.NewCartPricing(c.Config.Cart))
	c.UserService = service.NewUserService(c.UserRepo, c.Config.Security.PasswordPolicy, time.Duration(c.Config.Cache.UserTTLSeconds)*time.Second)
	c.SavedWineService = service.NewSavedWineService(c.SavedWineRepo, c.UserService, c.CatalogService)
	c.CartEventService = service.NewCartEventService(c.CartEventRepo)
}
