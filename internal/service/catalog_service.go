package service

import (
	"errors"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cellar-market/internal/constants"
	"github.com/cellar-market/internal/metrics"
	"github.com/cellar-market/internal/models"
	"github.com/cellar-market/internal/repository"

	"github.com/shopspring/decimal"
)

// WinePage 目录分页结果
type WinePage struct {
	Items      []models.WineRecord `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

// WineFilterInput 目录筛选条件，零值字段不参与筛选
type WineFilterInput struct {
	Region   string
	Variety  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// CatalogReloadResult 目录重载结果
type CatalogReloadResult struct {
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

// CatalogService 目录查询服务
type CatalogService struct {
	repo repository.WineRepository
	intn func(n int) int

	facetMu      sync.Mutex
	facetVersion uint64
	regions      []string
	varieties    []string
}

// NewCatalogService 创建目录服务
func NewCatalogService(repo repository.WineRepository) *CatalogService {
	metrics.CatalogSize.Set(float64(len(repo.All())))
	return &CatalogService{
		repo: repo,
		intn: rand.IntN,
	}
}

// ParsePagination 解析分页参数，缺失、非数字或小于 1 时回落到默认值
func ParsePagination(rawPage, rawLimit string) (int, int) {
	return parsePositiveOr(rawPage, constants.CatalogDefaultPage),
		parsePositiveOr(rawLimit, constants.CatalogDefaultLimit)
}

// ParsePriceBound 解析价格上下限，非法输入视为未提供
func ParsePriceBound(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// Paginate 对目录做纯切片分页，超出范围的页返回空列表
func (s *CatalogService) Paginate(page, limit int) WinePage {
	if page < 1 {
		page = constants.CatalogDefaultPage
	}
	if limit < 1 {
		limit = constants.CatalogDefaultLimit
	}
	wines := s.repo.All()
	total := len(wines)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	result := WinePage{
		Items:      []models.WineRecord{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
	// 先比较页数，避免 page*limit 溢出
	if page-1 >= totalPages {
		return result
	}
	start := (page - 1) * limit
	end := start + limit
	if end > total {
		end = total
	}
	result.Items = append(result.Items, wines[start:end]...)
	return result
}

// Search 名称、描述、酒庄的大小写不敏感子串匹配；空查询返回空结果
func (s *CatalogService) Search(query string) []models.WineRecord {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := []models.WineRecord{}
	if needle == "" {
		return out
	}
	for _, wine := range s.repo.All() {
		if containsFold(wine.Title, needle) ||
			containsFold(wine.Description, needle) ||
			containsFold(wine.Winery, needle) {
			out = append(out, wine)
		}
	}
	return out
}

// Filter 所有提供的条件必须同时满足
func (s *CatalogService) Filter(input WineFilterInput) []models.WineRecord {
	region := strings.TrimSpace(input.Region)
	variety := strings.TrimSpace(input.Variety)

	out := []models.WineRecord{}
	for _, wine := range s.repo.All() {
		if region != "" && !strings.EqualFold(wine.Region1, region) && !strings.EqualFold(wine.Region2, region) {
			continue
		}
		if variety != "" && !strings.EqualFold(wine.Variety, variety) {
			continue
		}
		if !priceWithin(wine.Price, input.MinPrice, input.MaxPrice) {
			continue
		}
		out = append(out, wine)
	}
	return out
}

// Recommend 从高分酒款中随机取样，目前与用户无关
func (s *CatalogService) Recommend(userID string) []models.WineRecord {
	candidates := make([]models.WineRecord, 0)
	for _, wine := range s.repo.All() {
		if wine.Points >= constants.RecommendMinPoints {
			candidates = append(candidates, wine)
		}
	}
	n := constants.RecommendMaxItems
	if len(candidates) < n {
		n = len(candidates)
	}
	// 部分 Fisher-Yates，只洗前 n 个位置
	for i := 0; i < n; i++ {
		j := i + s.intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:n]
}

// GetByID 按下标或稳定 key 获取酒款
func (s *CatalogService) GetByID(id string) (*models.WineRecord, error) {
	wine, ok := s.repo.GetByID(id)
	if !ok {
		return nil, ErrWineNotFound
	}
	return &wine, nil
}

// UniqueRegions 去重排序后的产区列表，合并 region_1 与 region_2
func (s *CatalogService) UniqueRegions() []string {
	regions, _ := s.facets()
	return append([]string(nil), regions...)
}

// UniqueVarieties 去重排序后的品种列表
func (s *CatalogService) UniqueVarieties() []string {
	_, varieties := s.facets()
	return append([]string(nil), varieties...)
}

// Reload 显式重载目录
func (s *CatalogService) Reload() (*CatalogReloadResult, error) {
	count, err := s.repo.Reload()
	if err != nil {
		if errors.Is(err, repository.ErrCatalogPathUnset) {
			return nil, ErrCatalogReloadOff
		}
		return nil, err
	}
	metrics.CatalogSize.Set(float64(count))
	return &CatalogReloadResult{Count: count, Version: s.repo.Version()}, nil
}

// Size 当前目录条数
func (s *CatalogService) Size() int {
	return len(s.repo.All())
}

// facets 按目录版本缓存产区与品种
func (s *CatalogService) facets() ([]string, []string) {
	version := s.repo.Version()
	s.facetMu.Lock()
	defer s.facetMu.Unlock()
	if s.regions != nil && s.facetVersion == version {
		return s.regions, s.varieties
	}

	regionSet := map[string]struct{}{}
	varietySet := map[string]struct{}{}
	for _, wine := range s.repo.All() {
		addNonEmpty(regionSet, wine.Region1)
		addNonEmpty(regionSet, wine.Region2)
		addNonEmpty(varietySet, wine.Variety)
	}
	s.regions = sortedKeys(regionSet)
	s.varieties = sortedKeys(varietySet)
	s.facetVersion = version
	return s.regions, s.varieties
}

func priceWithin(price *models.Money, min, max *decimal.Decimal) bool {
	if min == nil && max == nil {
		return true
	}
	if price == nil {
		return false
	}
	if min != nil && price.Decimal.LessThan(*min) {
		return false
	}
	if max != nil && price.Decimal.GreaterThan(*max) {
		return false
	}
	return true
}

func containsFold(field, lowerNeedle string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), lowerNeedle)
}

func addNonEmpty(set map[string]struct{}, value string) {
	if value = strings.TrimSpace(value); value != "" {
		set[value] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func parsePositiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
