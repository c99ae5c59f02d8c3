package repository

import (
	"errors"
	"time"

	"github.com/ecofinds/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartItem, error)
	GetByIDForUser(id, userID uint) (*models.CartItem, error)
	GetByUserAndProduct(userID, productID uint) (*models.CartItem, error)
	AddQuantity(userID, productID uint, quantity int, at time.Time) error
	UpdateQuantity(id uint, quantity int) error
	DeleteForUser(id, userID uint) (bool, error)
	ClearByUser(userID uint) (int64, error)
	DeleteByIDsForUser(userID uint, ids []uint) (int64, error)
	DeleteByProducts(productIDs []uint) (int64, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户购物车项（含商品与分类），最近加入在前；已删除商品的 Product 为 nil
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	err := r.db.
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetByIDForUser 获取属于指定用户的购物车项
func (r *GormCartRepository) GetByIDForUser(id, userID uint) (*models.CartItem, error) {
	return r.first(r.db.Where("id = ? AND user_id = ?", id, userID))
}

// GetByUserAndProduct 根据用户与商品获取购物车项
func (r *GormCartRepository) GetByUserAndProduct(userID, productID uint) (*models.CartItem, error) {
	return r.first(r.db.Where("user_id = ? AND product_id = ?", userID, productID))
}

func (r *GormCartRepository) first(query *gorm.DB) (*models.CartItem, error) {
	var item models.CartItem
	if err := query.Preload("Product.Category").First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// AddQuantity 插入购物车行，(user, product) 已存在时原子累加数量
func (r *GormCartRepository) AddQuantity(userID, productID uint, quantity int, at time.Time) error {
	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   at,
		UpdatedAt: at,
	}
	return r.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"updated_at": at,
		}),
	}).Create(&item).Error
}

// UpdateQuantity 覆盖数量
func (r *GormCartRepository) UpdateQuantity(id uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error
}

// DeleteForUser 删除属于指定用户的购物车项
func (r *GormCartRepository) DeleteForUser(id, userID uint) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{})
	return result.RowsAffected > 0, result.Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// DeleteByIDsForUser 删除用户的指定购物车行，其余行保留
func (r *GormCartRepository) DeleteByIDsForUser(userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// DeleteByProducts 删除引用指定商品的所有购物车行
func (r *GormCartRepository) DeleteByProducts(productIDs []uint) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	result := r.db.Where("product_id IN ?", productIDs).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
