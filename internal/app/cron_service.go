package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cellar-market/internal/logger"
	"github.com/cellar-market/internal/metrics"
	"github.com/cellar-market/internal/service"

	"github.com/robfig/cron/v3"
)

const catalogReloadJob = "catalog_reload"

// CatalogReloader 定时任务依赖的目录重载能力
type CatalogReloader interface {
	Reload() (*service.CatalogReloadResult, error)
}

// CronService 定时任务服务
type CronService struct {
	name      string
	scheduler *cron.Cron
}

// NewCatalogReloadService 按 cron 表达式定时重载目录，支持秒级可选字段与 @every 描述符
func NewCatalogReloadService(spec string, catalog CatalogReloader) (*CronService, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("cron spec is empty")
	}
	if catalog == nil {
		return nil, errors.New("catalog reloader is nil")
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	scheduler := cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(spec, func() { runCatalogReload(catalog) }); err != nil {
		return nil, err
	}
	return &CronService{name: "cron", scheduler: scheduler}, nil
}

func runCatalogReload(catalog CatalogReloader) {
	start := time.Now()
	result, err := catalog.Reload()
	duration := time.Since(start)
	metrics.RecordJob(catalogReloadJob, duration, err == nil)
	if err != nil {
		logger.Warnw("cron_job_failed", "job", catalogReloadJob, "duration_ms", duration.Milliseconds(), "error", err)
		return
	}
	logger.Infow("cron_job_completed",
		"job", catalogReloadJob,
		"duration_ms", duration.Milliseconds(),
		"count", result.Count,
		"version", result.Version,
	)
}

// Name 服务名称
func (s *CronService) Name() string {
	if s == nil || s.name == "" {
		return "cron"
	}
	return s.name
}

// Start 启动调度并阻塞到 ctx 结束
func (s *CronService) Start(ctx context.Context) error {
	if s == nil || s.scheduler == nil {
		return errors.New("cron not initialized")
	}
	s.scheduler.Start()
	<-ctx.Done()
	return nil
}

// Stop 停止调度，等待运行中的任务结束
func (s *CronService) Stop(ctx context.Context) error {
	if s == nil || s.scheduler == nil {
		return nil
	}
	done := s.scheduler.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
