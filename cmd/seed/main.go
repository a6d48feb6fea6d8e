package main

import (
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/cellar-market/internal/config"
	"github.com/cellar-market/internal/logger"
	"github.com/cellar-market/internal/models"
	"github.com/cellar-market/internal/repository"
	"github.com/cellar-market/internal/service"
)

type demoUser struct {
	Email       string
	Password    string
	DisplayName string
	Locale      string
}

var demoUsers = []demoUser{
	{Email: "sommelier@cellar.local", Password: "cellar-demo-pass", DisplayName: "Sommelier", Locale: "en-US"},
	{Email: "collector@cellar.local", Password: "cellar-demo-pass", DisplayName: "Collector", Locale: "fr-FR"},
}

// sampleCatalog 无目录文件时写入的示例数据，字段与常见葡萄酒评测数据集一致
var sampleCatalog = []map[string]interface{}{
	{"title": "Château Lafleur 2015 Pomerol", "price": 450, "points": 97, "variety": "Merlot", "region_1": "Pomerol", "region_2": "Bordeaux", "winery": "Château Lafleur", "country": "France", "province": "Bordeaux", "description": "Dense dark fruit with violets and graphite."},
	{"title": "Ridge 2016 Lytton Springs Zinfandel", "price": 42, "points": 93, "variety": "Zinfandel", "region_1": "Dry Creek Valley", "region_2": "Sonoma", "winery": "Ridge", "country": "US", "province": "California", "description": "Brambly fruit and black pepper."},
	{"title": "Dr. Loosen 2018 Wehlener Sonnenuhr Riesling Spätlese", "price": 32, "points": 92, "variety": "Riesling", "region_1": "Mosel", "winery": "Dr. Loosen", "country": "Germany", "province": "Mosel", "description": "Slate, lime and a touch of honey."},
	{"title": "Cloudy Bay 2020 Sauvignon Blanc", "price": 28, "points": 89, "variety": "Sauvignon Blanc", "region_1": "Marlborough", "winery": "Cloudy Bay", "country": "New Zealand", "province": "Marlborough", "description": "Passionfruit and cut grass."},
	{"title": "Penfolds 2017 Bin 389 Cabernet-Shiraz", "price": 65, "points": 94, "variety": "Cabernet-Shiraz", "region_1": "South Australia", "winery": "Penfolds", "country": "Australia", "province": "South Australia", "description": "Cassis, mocha and firm tannins."},
	{"title": "Marqués de Murrieta 2014 Reserva", "points": 91, "variety": "Tempranillo Blend", "region_1": "Rioja", "winery": "Marqués de Murrieta", "country": "Spain", "province": "Northern Spain", "description": "Red cherry, vanilla and dill."},
	{"title": "Domaine Tempier 2019 Bandol Rosé", "price": 48, "points": 90, "variety": "Rosé", "region_1": "Bandol", "region_2": "Provence", "winery": "Domaine Tempier", "country": "France", "province": "Provence", "description": "Peach, herbs and saline minerality."},
	{"title": "Barefoot NV Pinot Grigio", "price": 7, "points": 82, "variety": "Pinot Grigio", "region_1": "California", "winery": "Barefoot", "country": "US", "province": "California", "description": "Simple pear and citrus."},
}

func main() {
	force := flag.Bool("force-catalog", false, "覆盖已存在的目录文件")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := writeSampleCatalog(cfg.Catalog.Path, *force); err != nil {
		stdLog.Fatalf("写入示例目录失败: %v", err)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	users := service.NewUserService(
		repository.NewUserRepository(models.DB),
		cfg.Security.PasswordPolicy,
		time.Duration(cfg.Cache.UserTTLSeconds)*time.Second,
	)
	for _, u := range demoUsers {
		user, err := users.Register(service.RegisterUserInput{
			Email:       u.Email,
			Password:    u.Password,
			DisplayName: u.DisplayName,
			Locale:      u.Locale,
		})
		switch {
		case errors.Is(err, service.ErrEmailExists):
			// 已存在时确认演示密码仍可用
			if _, authErr := users.Authenticate(u.Email, u.Password); authErr != nil {
				stdLog.Printf("User exists with a different password: %s", u.Email)
				continue
			}
			stdLog.Printf("User already exists: %s", u.Email)
		case err != nil:
			stdLog.Printf("Failed to create user %s: %v", u.Email, err)
		default:
			stdLog.Printf("Created user: %s (id=%d)", user.Email, user.ID)
		}
	}

	stdLog.Printf("Seed completed")
}

// writeSampleCatalog 目录文件不存在时写入示例数据
func writeSampleCatalog(path string, force bool) error {
	if path == "" {
		return errors.New("catalog.path is empty")
	}
	if _, err := os.Stat(path); err == nil && !force {
		logger.Infow("seed_catalog_exists", "path", path)
		return nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sampleCatalog, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logger.Infow("seed_catalog_written", "path", path, "count", len(sampleCatalog))
	return nil
}
