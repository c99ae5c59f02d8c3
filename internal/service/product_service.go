package service

import (
	"math"
	"strings"

	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/repository"

	"gorm.io/gorm"
)

// ProductQuery 商品列表查询参数
type ProductQuery struct {
	Page       int
	Limit      int
	CategoryID uint
	SellerID   uint
	Search     string
	Condition  string
	Sort       string
	Order      string
}

// ProductPage 商品分页结果
type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	Count    int              `json:"count"`
}

// CreateProductInput 发布商品输入
type CreateProductInput struct {
	Title       string
	Description string
	Price       models.Money
	CategoryID  uint
	Condition   string
	Images      []string
	Tags        []string
}

// UpdateProductInput 修改商品输入，nil 表示不修改
type UpdateProductInput struct {
	Title       *string
	Description *string
	Price       *models.Money
	CategoryID  *uint
	Condition   *string
	Images      []string
	Tags        []string
	Status      *string
}

var validConditions = map[string]struct{}{
	constants.ConditionNew:     {},
	constants.ConditionLikeNew: {},
	constants.ConditionGood:    {},
	constants.ConditionFair:    {},
	constants.ConditionPoor:    {},
}

// ProductService 商品服务
type ProductService struct {
	productRepo      repository.ProductRepository
	categoryRepo     repository.CategoryRepository
	cartRepo         repository.CartRepository
	listing          config.ListingConfig
	placeholderImage string
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, cartRepo repository.CartRepository, listing config.ListingConfig, placeholderImage string) *ProductService {
	return &ProductService{
		productRepo:      productRepo,
		categoryRepo:     categoryRepo,
		cartRepo:         cartRepo,
		listing:          listing,
		placeholderImage: placeholderImage,
	}
}

// ListProducts 浏览在售商品
func (s *ProductService) ListProducts(q ProductQuery) (*ProductPage, error) {
	page, limit := s.normalizePage(q.Page, q.Limit)
	filter := repository.ProductListFilter{
		Page:       page,
		PageSize:   limit,
		CategoryID: q.CategoryID,
		SellerID:   q.SellerID,
		Search:     strings.TrimSpace(q.Search),
		Condition:  strings.TrimSpace(q.Condition),
		Statuses:   []models.ProductStatus{models.ProductAvailable},
		SortBy:     q.Sort,
		SortDesc:   !strings.EqualFold(strings.TrimSpace(q.Order), "asc"),
	}
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     page,
		Pages:    int(math.Ceil(float64(total) / float64(limit))),
		Count:    len(products),
	}, nil
}

func (s *ProductService) normalizePage(page, limit int) (int, int) {
	defaultSize := s.listing.DefaultPageSize
	if defaultSize <= 0 {
		defaultSize = 12
	}
	maxSize := s.listing.MaxPageSize
	if maxSize <= 0 {
		maxSize = 100
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultSize
	}
	if limit > maxSize {
		limit = maxSize
	}
	return page, limit
}

// GetProduct 获取商品详情并累加浏览次数，任何状态均可查看
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	found, err := s.productRepo.IncrementViews(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetByIDWithSeller(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListMyProducts 卖家自己的全部商品
func (s *ProductService) ListMyProducts(sellerID uint) ([]models.Product, error) {
	return s.productRepo.ListBySeller(sellerID)
}

// CreateProduct 发布商品
func (s *ProductService) CreateProduct(sellerID uint, input CreateProductInput) (*models.Product, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, newValidationError("title", "validation.title")
	}
	if description == "" {
		return nil, newValidationError("description", "validation.description")
	}
	if input.Price.IsNegative() {
		return nil, newValidationError("price", "validation.price")
	}
	condition, err := normalizeCondition(input.Condition)
	if err != nil {
		return nil, err
	}
	if err := s.ensureActiveCategory(input.CategoryID); err != nil {
		return nil, err
	}

	images := cleanStrings(input.Images)
	if len(images) == 0 && s.placeholderImage != "" {
		images = []string{s.placeholderImage}
	}
	product := &models.Product{
		Title:       title,
		Description: description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		SellerID:    sellerID,
		Images:      images,
		Condition:   condition,
		Status:      models.ProductAvailable,
		Tags:        cleanStrings(input.Tags),
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(product.ID)
}

// UpdateProduct 卖家修改商品；状态仅允许 available 与 withdrawn 互转
func (s *ProductService) UpdateProduct(userID, id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsOwnedBy(userID) {
		return nil, ErrForbidden
	}
	loadedStatus := product.Status

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, newValidationError("title", "validation.title")
		}
		product.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, newValidationError("description", "validation.description")
		}
		product.Description = description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, newValidationError("price", "validation.price")
		}
		product.Price = *input.Price
	}
	if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
		if err := s.ensureActiveCategory(*input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Condition != nil {
		condition, err := normalizeCondition(*input.Condition)
		if err != nil {
			return nil, err
		}
		product.Condition = condition
	}
	if input.Images != nil {
		product.Images = cleanStrings(input.Images)
	}
	if input.Tags != nil {
		product.Tags = cleanStrings(input.Tags)
	}
	if input.Status != nil {
		next := models.ProductStatus(strings.TrimSpace(*input.Status))
		if err := checkSellerStatusChange(product.Status, next); err != nil {
			return nil, err
		}
		product.Status = next
	}

	product.Category = nil
	updated, err := s.productRepo.Update(product, loadedStatus)
	if err != nil {
		return nil, err
	}
	if !updated {
		// 读取后状态已被结账或其他请求改写
		current, err := s.productRepo.GetByID(product.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrProductNotFound
		}
		return nil, ErrInvalidProductStatus
	}
	return s.productRepo.GetByID(product.ID)
}

// DeleteProduct 卖家删除商品，同事务移除所有引用该商品的购物车行
func (s *ProductService) DeleteProduct(userID, id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !product.IsOwnedBy(userID) {
		return ErrForbidden
	}
	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Delete(product.ID); err != nil {
			return err
		}
		_, err := s.cartRepo.WithTx(tx).DeleteByProducts([]uint{product.ID})
		return err
	})
}

func (s *ProductService) ensureActiveCategory(categoryID uint) error {
	if categoryID == 0 {
		return newValidationError("category_id", "validation.category_id")
	}
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil || !category.IsActive {
		return ErrCategoryNotFound
	}
	return nil
}

func checkSellerStatusChange(current, next models.ProductStatus) error {
	if next == current {
		return nil
	}
	if !next.Valid() {
		return newValidationError("status", "validation.status")
	}
	if current == models.ProductSold || next == models.ProductSold {
		return ErrInvalidProductStatus
	}
	return nil
}

func normalizeCondition(raw string) (string, error) {
	condition := strings.ToLower(strings.TrimSpace(raw))
	if condition == "" {
		return constants.ConditionGood, nil
	}
	if _, ok := validConditions[condition]; !ok {
		return "", newValidationError("condition", "validation.condition")
	}
	return condition, nil
}

func cleanStrings(items []string) models.StringArray {
	result := make(models.StringArray, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
