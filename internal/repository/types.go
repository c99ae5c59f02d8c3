package repository

import "github.com/ecofinds/internal/models"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	CategoryID uint
	SellerID   uint
	Search     string
	Condition  string
	Statuses   []models.ProductStatus // 为空表示不限
	SortBy     string
	SortDesc   bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}

// PurchaseListFilter 查询购买记录列表的过滤条件
type PurchaseListFilter struct {
	Page       int
	PageSize   int
	BuyerID    uint
	SellerID   uint
	ProductID  uint
	Status     string
	CheckoutNo string
}

// CategoryListFilter 查询分类列表的过滤条件
type CategoryListFilter struct {
	OnlyActive bool
}
