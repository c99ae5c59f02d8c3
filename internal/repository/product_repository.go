package repository

import (
	"strings"
	"time"

	"github.com/ecofinds/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productSortColumns 允许排序的列，兼容驼峰写法
var productSortColumns = map[string]string{
	"created_at": "created_at",
	"createdat":  "created_at",
	"updated_at": "updated_at",
	"updatedat":  "updated_at",
	"price":      "price",
	"title":      "title",
	"views":      "views",
}

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetByIDWithSeller(id uint) (*models.Product, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListBySeller(sellerID uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product, expected models.ProductStatus) (bool, error)
	Delete(id uint) error
	IncrementViews(id uint) (bool, error)
	ClaimForSale(id uint, soldAt time.Time) (bool, error)
	WithdrawAvailableBySeller(sellerID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// ResolveProductSortColumn 解析排序列，非法值回退到 created_at
func ResolveProductSortColumn(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if column, ok := productSortColumns[key]; ok {
		return column
	}
	return "created_at"
}

func publicUserColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "profile_image")
}

func publicProfileColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "profile_image", "bio", "location", "created_at")
}

// GetByID 根据 ID 获取商品（含分类）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	return firstOrNil[models.Product](r.db.Preload("Category").Where("id = ?", id))
}

// GetByIDWithSeller 获取商品详情（含分类与卖家公开信息）
func (r *GormProductRepository) GetByIDWithSeller(id uint) (*models.Product, error) {
	return firstOrNil[models.Product](r.db.
		Preload("Category").
		Preload("Seller", publicProfileColumns).
		Where("id = ?", id))
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Condition != "" {
		query = query.Where(clause.Eq{Column: clause.Column{Name: "condition"}, Value: filter.Condition})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, count := buildLikeCondition(dbDialectName(r.db), []string{"title", "description"}, []string{"tags"})
		query = query.Where(condition, repeatLikeArgs("%"+escapeLike(search)+"%", count)...)
	}

	query, total, err := countPage(query, filter.Page, filter.PageSize)
	if err != nil {
		return nil, 0, err
	}

	products := make([]models.Product, 0)
	err = query.
		Preload("Category").
		Preload("Seller", publicUserColumns).
		Order(clause.OrderByColumn{Column: clause.Column{Name: ResolveProductSortColumn(filter.SortBy)}, Desc: filter.SortDesc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: filter.SortDesc}).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListBySeller 卖家全部商品（不限状态），新发布在前
func (r *GormProductRepository) ListBySeller(sellerID uint) ([]models.Product, error) {
	products := make([]models.Product, 0)
	err := r.db.
		Preload("Category").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Omit(clause.Associations).Create(product).Error
}

// Update 更新卖家可编辑字段，不覆盖 views 等计数列。
// 仅当库中状态仍为 expected 时写入，status 列只在变更时写；返回 false 表示状态已被并发修改。
func (r *GormProductRepository) Update(product *models.Product, expected models.ProductStatus) (bool, error) {
	product.UpdatedAt = time.Now()
	columns := []string{"title", "description", "price", "category_id", "condition", "images", "tags", "updated_at"}
	if product.Status != expected {
		columns = append(columns, "status")
	}
	result := r.db.Model(product).
		Where("status = ?", expected).
		Select(columns).
		Updates(product)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete 软删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// IncrementViews 原子累加浏览次数，不刷新 updated_at
func (r *GormProductRepository) IncrementViews(id uint) (bool, error) {
	result := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	return result.RowsAffected > 0, result.Error
}

// ClaimForSale 条件更新：仅当商品仍为 available 时标记为 sold，返回是否抢占成功
func (r *GormProductRepository) ClaimForSale(id uint, soldAt time.Time) (bool, error) {
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND status = ?", id, models.ProductAvailable).
		Updates(map[string]interface{}{
			"status":     models.ProductSold,
			"sold_at":    soldAt,
			"updated_at": soldAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// WithdrawAvailableBySeller 下架卖家所有在售商品
func (r *GormProductRepository) WithdrawAvailableBySeller(sellerID uint) (int64, error) {
	result := r.db.Model(&models.Product{}).
		Where("seller_id = ? AND status = ?", sellerID, models.ProductAvailable).
		Updates(map[string]interface{}{
			"status":     models.ProductWithdrawn,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
