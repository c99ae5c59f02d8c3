package public

import (
	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateCartItemRequest 修改购物车行请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.GetCart(userID)
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{
		"count": view.Count,
		"total": view.Total,
		"items": view.Items,
	})
}

// ValidateCart 列出购物车中已不可购买的条目
func (h *Handler) ValidateCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.CartService.ValidateCartItems(userID)
	if err != nil {
		respondMapped(c, err)
		return
	}
	for i := range items {
		items[i].Reason = tr(c, "cart.reason_"+items[i].Code)
	}
	response.Success(c, gin.H{
		"count": len(items),
		"items": items,
	})
}

// AddToCart 加入购物车
func (h *Handler) AddToCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.CartService.AddToCart(userID, req.ProductID, req.Quantity)
	if err != nil {
		respondMapped(c, err, cartErrorRules)
		return
	}
	response.Created(c, gin.H{
		"message": tr(c, "message.cart_item_added"),
		"item":    item,
	})
}

// UpdateCartItem 修改购物车行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseIDParam(c, "id", "error.cart_item_not_found")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.CartService.UpdateQuantity(userID, itemID, req.Quantity)
	if err != nil {
		respondMapped(c, err, cartErrorRules)
		return
	}
	response.Success(c, gin.H{
		"message": tr(c, "message.cart_item_updated"),
		"item":    item,
	})
}

// RemoveCartItem 删除购物车行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseIDParam(c, "id", "error.cart_item_not_found")
	if !ok {
		return
	}
	if err := h.CartService.RemoveFromCart(userID, itemID); err != nil {
		respondMapped(c, err, cartErrorRules)
		return
	}
	response.Message(c, tr(c, "message.cart_item_removed"))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.ClearCart(userID); err != nil {
		respondMapped(c, err)
		return
	}
	response.Message(c, tr(c, "message.cart_cleared"))
}
