package service

import (
	"time"

	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/repository"
)

// CartLine 购物车行（用于响应）
type CartLine struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
	Product   *models.Product `json:"product"`
	ItemTotal models.Money    `json:"item_total"`
}

// CartView 购物车汇总
type CartView struct {
	Items []CartLine   `json:"items"`
	Total models.Money `json:"total"`
	Count int          `json:"count"`
}

// InvalidCartItem 不可购买的购物车行
type InvalidCartItem struct {
	ItemID       uint   `json:"item_id"`
	ProductID    uint   `json:"product_id"`
	ProductTitle string `json:"product_title"`
	Code         string `json:"code"`
	Reason       string `json:"reason"`
}

// 失效原因编码
const (
	InvalidReasonSold        = "sold"
	InvalidReasonUnavailable = "unavailable"
)

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddToCart 加入购物车，同一商品重复加入时累加数量；quantity 为 0 视为 1
func (s *CartService) AddToCart(userID, productID uint, quantity int) (*models.CartItem, error) {
	if productID == 0 {
		return nil, newValidationError("product_id", "validation.product_id")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, newValidationError("quantity", "validation.quantity")
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.Status.Purchasable() {
		return nil, ErrProductUnavailable
	}
	if product.IsOwnedBy(userID) {
		return nil, ErrSelfPurchase
	}

	if err := s.cartRepo.AddQuantity(userID, productID, quantity, time.Now()); err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

// UpdateQuantity 修改购物车行数量
func (s *CartService) UpdateQuantity(userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, newValidationError("quantity", "validation.quantity")
	}
	item, err := s.cartRepo.GetByIDForUser(itemID, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if err := s.cartRepo.UpdateQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// RemoveFromCart 删除购物车行
func (s *CartService) RemoveFromCart(userID, itemID uint) error {
	deleted, err := s.cartRepo.DeleteForUser(itemID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCartItemNotFound
	}
	return nil
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(userID uint) error {
	_, err := s.cartRepo.ClearByUser(userID)
	return err
}

// GetCart 获取购物车及合计
func (s *CartService) GetCart(userID uint) (*CartView, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{
		Items: make([]CartLine, 0, len(items)),
		Total: models.Money{},
		Count: len(items),
	}
	for i := range items {
		item := &items[i]
		line := CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt,
			Product:   item.Product,
			ItemTotal: item.ItemTotal(),
		}
		view.Total = view.Total.Add(line.ItemTotal)
		view.Items = append(view.Items, line)
	}
	return view, nil
}

// ValidateCartItems 列出已售出、已下架或已删除商品的购物车行
func (s *CartService) ValidateCartItems(userID uint) ([]InvalidCartItem, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	invalid := make([]InvalidCartItem, 0)
	for _, item := range items {
		if item.Product != nil && item.Product.Status.Purchasable() {
			continue
		}
		entry := InvalidCartItem{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Code:      InvalidReasonUnavailable,
			Reason:    constants.CartReasonUnavailable,
		}
		if item.Product != nil {
			entry.ProductTitle = item.Product.Title
			if item.Product.Status == models.ProductSold {
				entry.Code = InvalidReasonSold
				entry.Reason = constants.CartReasonSold
			}
		}
		invalid = append(invalid, entry)
	}
	return invalid, nil
}
