package models

import (
	"time"
)

// CartItem 购物车项，(user_id, product_id) 唯一
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                          // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product,priority:1" json:"user_id"`          // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product,priority:2;index" json:"product_id"` // 商品ID
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`                                            // 数量
	AddedAt   time.Time `gorm:"not null;index" json:"added_at"`                                                // 加入时间
	UpdatedAt time.Time `json:"updated_at"`                                                                    // 更新时间

	Product *Product `gorm:"foreignKey:ProductID;-:migration" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// ItemTotal 单行小计，商品缺失时为 0
func (c *CartItem) ItemTotal() Money {
	if c == nil || c.Product == nil {
		return Money{}
	}
	return c.Product.Price.Mul(c.Quantity)
}
