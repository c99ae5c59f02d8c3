package service

import (
	"context"
	"strings"

	"github.com/ecofinds/internal/cache"
	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/repository"
)

// CategoryInput 分类写入参数
type CategoryInput struct {
	Name        string
	Description string
	IsActive    *bool
}

// CategoryService 分类服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// ListActive 启用分类，按名称排序，优先读缓存
func (s *CategoryService) ListActive(ctx context.Context) ([]models.Category, error) {
	if categories, hit, err := cache.GetActiveCategories(ctx); err == nil && hit {
		return categories, nil
	}
	categories, err := s.repo.List(repository.CategoryListFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	if err := cache.SetActiveCategories(ctx, categories); err != nil {
		logger.FromContext(ctx).Warnw("category_cache_store_failed", "error", err)
	}
	return categories, nil
}

// ListAll 后台分类列表
func (s *CategoryService) ListAll() ([]models.Category, error) {
	return s.repo.List(repository.CategoryListFilter{})
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newValidationError("name", "validation.name")
	}
	exist, err := s.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCategoryExists
	}
	category := &models.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IsActive:    input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.Create(category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

// Update 修改分类
func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if name := strings.TrimSpace(input.Name); name != "" && name != category.Name {
		exist, err := s.repo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if exist != nil && exist.ID != category.ID {
			return nil, ErrCategoryExists
		}
		category.Name = name
	}
	category.Description = strings.TrimSpace(input.Description)
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

// Delete 删除分类，仍被商品引用时拒绝
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := cache.InvalidateCategories(ctx); err != nil {
		logger.FromContext(ctx).Warnw("category_cache_invalidate_failed", "error", err)
	}
}
