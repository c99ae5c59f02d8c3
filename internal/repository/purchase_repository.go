package repository

import (
	"github.com/ecofinds/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseRepository 购买记录数据访问接口
type PurchaseRepository interface {
	CreateBatch(purchases []models.Purchase) error
	GetByID(id uint) (*models.Purchase, error)
	ListByIDs(ids []uint) ([]models.Purchase, error)
	ListByBuyer(buyerID uint) ([]models.Purchase, error)
	ListBySeller(sellerID uint) ([]models.Purchase, error)
	List(filter PurchaseListFilter) ([]models.Purchase, int64, error)
	TransitionStatus(id uint, from, to, notes string) (bool, error)
	WithTx(tx *gorm.DB) *GormPurchaseRepository
}

// GormPurchaseRepository GORM 实现
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建购买记录仓库
func NewPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseRepository) WithTx(tx *gorm.DB) *GormPurchaseRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseRepository{db: tx}
}

// withRelations 商品含已删除记录，买卖双方只取公开字段
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Product", func(tx *gorm.DB) *gorm.DB {
			return tx.Unscoped().Select("id", "title", "price", "images", "condition", "status", "seller_id", "category_id")
		}).
		Preload("Buyer", publicUserColumns).
		Preload("Seller", publicUserColumns)
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("purchase_date DESC").Order("id DESC")
}

// CreateBatch 批量创建购买记录
func (r *GormPurchaseRepository) CreateBatch(purchases []models.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	return r.db.Omit(clause.Associations).Create(&purchases).Error
}

// GetByID 根据 ID 获取购买记录
func (r *GormPurchaseRepository) GetByID(id uint) (*models.Purchase, error) {
	return firstOrNil[models.Purchase](withRelations(r.db).Where("purchases.id = ?", id))
}

// ListByIDs 批量获取购买记录
func (r *GormPurchaseRepository) ListByIDs(ids []uint) ([]models.Purchase, error) {
	purchases := make([]models.Purchase, 0, len(ids))
	if len(ids) == 0 {
		return purchases, nil
	}
	if err := newestFirst(withRelations(r.db)).Where("id IN ?", ids).Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// ListByBuyer 买家购买历史
func (r *GormPurchaseRepository) ListByBuyer(buyerID uint) ([]models.Purchase, error) {
	purchases := make([]models.Purchase, 0)
	if err := newestFirst(withRelations(r.db)).Where("buyer_id = ?", buyerID).Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// ListBySeller 卖家销售记录
func (r *GormPurchaseRepository) ListBySeller(sellerID uint) ([]models.Purchase, error) {
	purchases := make([]models.Purchase, 0)
	if err := newestFirst(withRelations(r.db)).Where("seller_id = ?", sellerID).Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// List 购买记录列表（后台）
func (r *GormPurchaseRepository) List(filter PurchaseListFilter) ([]models.Purchase, int64, error) {
	query := r.db.Model(&models.Purchase{})
	if filter.BuyerID != 0 {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CheckoutNo != "" {
		query = query.Where("checkout_no = ?", filter.CheckoutNo)
	}

	query, total, err := countPage(query, filter.Page, filter.PageSize)
	if err != nil {
		return nil, 0, err
	}

	purchases := make([]models.Purchase, 0)
	if err := newestFirst(withRelations(query)).Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// TransitionStatus 条件更新状态：仅当当前状态为 from 时更新
func (r *GormPurchaseRepository) TransitionStatus(id uint, from, to, notes string) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if notes != "" {
		updates["notes"] = notes
	}
	result := r.db.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected == 1, result.Error
}
