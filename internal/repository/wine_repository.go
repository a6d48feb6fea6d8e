package repository

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cellar-market/internal/logger"
	"github.com/cellar-market/internal/models"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ErrCatalogMalformed 目录文件不是合法的 JSON 数组
var ErrCatalogMalformed = errors.New("catalog file is not a json array of wines")

// ErrCatalogPathUnset 内存目录没有可重载的文件
var ErrCatalogPathUnset = errors.New("catalog path not configured")

// wineKeyNamespace 派生稳定 key 使用的 UUIDv5 命名空间
var wineKeyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cellar-market/wines"))

// WineRepository 酒款目录访问接口
type WineRepository interface {
	All() []models.WineRecord
	GetByID(id string) (models.WineRecord, bool)
	Reload() (int, error)
	Version() uint64
}

// JSONWineRepository 基于 JSON 文件的只读目录，启动时加载一次，之后仅显式重载
type JSONWineRepository struct {
	path string

	mu      sync.RWMutex
	wines   []models.WineRecord
	byKey   map[string]int
	version uint64
}

// NewJSONWineRepository 创建目录仓库并立即加载，读取失败时以空目录启动
func NewJSONWineRepository(path string) *JSONWineRepository {
	r := &JSONWineRepository{path: path}
	r.swap(r.Load())
	return r
}

// NewStaticWineRepository 以内存数据构建目录，下标按传入顺序重新编号
func NewStaticWineRepository(wines []models.WineRecord) *JSONWineRepository {
	r := &JSONWineRepository{}
	r.swap(indexWines(wines))
	return r
}

// Load 读取并解析目录文件；任何失败都记录告警并返回空目录
func (r *JSONWineRepository) Load() []models.WineRecord {
	wines, err := readCatalog(r.path)
	if err != nil {
		logger.Warnw("catalog_load_failed", "path", r.path, "error", err)
		return []models.WineRecord{}
	}
	logger.Infow("catalog_loaded", "path", r.path, "count", len(wines))
	return wines
}

// Reload 重新读取目录文件，失败时保留旧快照
func (r *JSONWineRepository) Reload() (int, error) {
	if r.path == "" {
		return 0, ErrCatalogPathUnset
	}
	wines, err := readCatalog(r.path)
	if err != nil {
		logger.Warnw("catalog_reload_failed", "path", r.path, "error", err)
		return 0, err
	}
	r.swap(wines)
	logger.Infow("catalog_reloaded", "path", r.path, "count", len(wines), "version", r.Version())
	return len(wines), nil
}

// All 返回当前快照，调用方不得修改
func (r *JSONWineRepository) All() []models.WineRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.wines
}

// Version 每次成功加载后递增
func (r *JSONWineRepository) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// GetByID 数字按下标查找，其余按稳定 key 查找；非法或越界返回 false
func (r *JSONWineRepository) GetByID(id string) (models.WineRecord, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.WineRecord{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx, err := strconv.Atoi(id); err == nil {
		if idx < 0 || idx >= len(r.wines) {
			return models.WineRecord{}, false
		}
		return r.wines[idx], true
	}
	if idx, ok := r.byKey[id]; ok {
		return r.wines[idx], true
	}
	return models.WineRecord{}, false
}

func (r *JSONWineRepository) swap(wines []models.WineRecord) {
	byKey := make(map[string]int, len(wines))
	for i := range wines {
		byKey[wines[i].Key] = i
	}
	r.mu.Lock()
	r.wines = wines
	r.byKey = byKey
	r.version++
	r.mu.Unlock()
}

func readCatalog(path string) ([]models.WineRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog 解析目录 JSON，支持顶层数组或 {"wines": [...]}
// 单条记录字段类型不规范时尽量容忍（字符串数字、null 价格）。
func ParseCatalog(data []byte) ([]models.WineRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrCatalogMalformed
	}
	list := gjson.ParseBytes(data)
	if list.IsObject() {
		list = list.Get("wines")
	}
	if !list.IsArray() {
		return nil, ErrCatalogMalformed
	}

	wines := make([]models.WineRecord, 0, len(list.Array()))
	list.ForEach(func(_, item gjson.Result) bool {
		wines = append(wines, decodeWine(item))
		return true
	})
	return indexWines(wines), nil
}

func decodeWine(item gjson.Result) models.WineRecord {
	return models.WineRecord{
		Key:         sourceKey(item),
		Title:       strings.TrimSpace(item.Get("title").String()),
		Price:       decodePrice(item.Get("price")),
		Points:      int(item.Get("points").Int()),
		Variety:     strings.TrimSpace(item.Get("variety").String()),
		Region1:     strings.TrimSpace(item.Get("region_1").String()),
		Region2:     strings.TrimSpace(item.Get("region_2").String()),
		Winery:      strings.TrimSpace(item.Get("winery").String()),
		Description: item.Get("description").String(),
		Thumbnail:   strings.TrimSpace(item.Get("thumbnail").String()),
		Country:     strings.TrimSpace(item.Get("country").String()),
		Province:    strings.TrimSpace(item.Get("province").String()),
		Designation: strings.TrimSpace(item.Get("designation").String()),
	}
}

func decodePrice(v gjson.Result) *models.Money {
	switch v.Type {
	case gjson.Number:
		m := models.NewMoneyFromFloat(v.Float())
		return &m
	case gjson.String:
		m, err := models.ParseMoney(v.Str)
		if err != nil {
			return nil
		}
		return &m
	default:
		return nil
	}
}

// sourceKey 源数据自带的 key/id 字段
func sourceKey(item gjson.Result) string {
	for _, field := range []string{"key", "id"} {
		v := item.Get(field)
		if v.Exists() && v.Type != gjson.Null {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// indexWines 重新编号下标，并为缺少 key 的记录派生稳定 key；重复 key 追加序号区分
func indexWines(wines []models.WineRecord) []models.WineRecord {
	out := make([]models.WineRecord, len(wines))
	seen := make(map[string]int, len(wines))
	for i, wine := range wines {
		wine.ID = i
		if wine.Key == "" {
			wine.Key = deriveWineKey(wine)
		}
		if n := seen[wine.Key]; n > 0 {
			seen[wine.Key] = n + 1
			wine.Key = fmt.Sprintf("%s-%d", wine.Key, n)
		} else {
			seen[wine.Key] = 1
		}
		out[i] = wine
	}
	return out
}

func deriveWineKey(wine models.WineRecord) string {
	name := strings.ToLower(strings.Join([]string{wine.Winery, wine.Title, wine.Variety}, "|"))
	return uuid.NewSHA1(wineKeyNamespace, []byte(name)).String()
}
