package models

import (
	"time"
)

// Purchase 购买记录，由结算创建，每个购物车行对应一条
type Purchase struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                            // 主键
	CheckoutNo   string    `gorm:"type:varchar(64);not null;index" json:"checkout_no"`              // 结算批次号
	BuyerID      uint      `gorm:"not null;index" json:"buyer_id"`                                  // 买家ID
	SellerID     uint      `gorm:"not null;index" json:"seller_id"`                                 // 卖家ID（下单时快照）
	ProductID    uint      `gorm:"not null;index" json:"product_id"`                                // 商品ID
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`                              // 数量
	UnitPrice    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`         // 成交单价
	TotalPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`        // 成交总价
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // 状态
	PurchaseDate time.Time `gorm:"not null;index" json:"purchase_date"`                             // 购买时间
	Notes        string    `gorm:"type:varchar(500);default:''" json:"notes"`                       // 备注
	CreatedAt    time.Time `json:"created_at"`                                                      // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                      // 更新时间

	// 关联
	Product *Product     `gorm:"foreignKey:ProductID;-:migration" json:"product,omitempty"` // 商品快照来源
	Buyer   *UserSummary `gorm:"foreignKey:BuyerID;-:migration" json:"buyer,omitempty"`     // 买家公开信息
	Seller  *UserSummary `gorm:"foreignKey:SellerID;-:migration" json:"seller,omitempty"`   // 卖家公开信息
}

// TableName 指定表名
func (Purchase) TableName() string {
	return "purchases"
}

// IsVisibleTo 买家或卖家可见
func (p *Purchase) IsVisibleTo(userID uint) bool {
	return p != nil && userID != 0 && (p.BuyerID == userID || p.SellerID == userID)
}
