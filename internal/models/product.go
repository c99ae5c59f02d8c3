package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductStatus 商品可售状态
type ProductStatus string

// 商品状态取值，替代 is_available / is_sold 两个独立布尔值
const (
	ProductAvailable ProductStatus = "available"
	ProductSold      ProductStatus = "sold"
	ProductWithdrawn ProductStatus = "withdrawn"
)

// Valid 是否为合法状态
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductAvailable, ProductSold, ProductWithdrawn:
		return true
	}
	return false
}

// Purchasable 是否可被加入购物车或购买
func (s ProductStatus) Purchasable() bool {
	return s == ProductAvailable
}

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                                                                      // 主键
	Title       string         `gorm:"type:varchar(100);not null" json:"title"`                                                                   // 标题
	Description string         `gorm:"type:text;not null" json:"description"`                                                                     // 描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                                                        // 价格
	CategoryID  uint           `gorm:"not null;index:idx_products_category_status,priority:1" json:"category_id"`                                 // 分类ID
	SellerID    uint           `gorm:"not null;index" json:"seller_id"`                                                                           // 卖家ID
	Images      StringArray    `gorm:"type:json" json:"images"`                                                                                   // 图片数组
	Condition   string         `gorm:"type:varchar(20);not null;default:'good'" json:"condition"`                                                 // 成色
	Status      ProductStatus  `gorm:"type:varchar(20);not null;default:'available';index:idx_products_category_status,priority:2" json:"status"` // 可售状态
	Tags        StringArray    `gorm:"type:json" json:"tags"`                                                                                     // 标签数组
	Views       int64          `gorm:"not null;default:0" json:"views"`                                                                           // 浏览次数
	SoldAt      *time.Time     `json:"sold_at,omitempty"`                                                                                         // 售出时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                                                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                                                            // 软删除时间

	// 关联
	Category *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`         // 分类信息
	Seller   *UserSummary `gorm:"foreignKey:SellerID;-:migration" json:"seller,omitempty"` // 卖家公开信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// IsOwnedBy 是否为指定用户发布
func (p *Product) IsOwnedBy(userID uint) bool {
	return p != nil && userID != 0 && p.SellerID == userID
}
