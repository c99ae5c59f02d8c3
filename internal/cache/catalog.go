package cache

import (
	"context"
	"time"

	"github.com/ecofinds/internal/models"
)

const (
	activeCategoriesKey = "categories:active"
	activeCategoriesTTL = 30 * time.Minute
)

// GetActiveCategories 读取启用分类缓存
func GetActiveCategories(ctx context.Context) ([]models.Category, bool, error) {
	var categories []models.Category
	hit, err := GetJSON(ctx, activeCategoriesKey, &categories)
	if err != nil || !hit {
		return nil, hit, err
	}
	return categories, true, nil
}

// SetActiveCategories 写入启用分类缓存
func SetActiveCategories(ctx context.Context, categories []models.Category) error {
	return SetJSON(ctx, activeCategoriesKey, categories, activeCategoriesTTL)
}

// InvalidateCategories 分类变更后清除缓存
func InvalidateCategories(ctx context.Context) error {
	return Del(ctx, activeCategoriesKey)
}
