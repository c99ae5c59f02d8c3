package public

import (
	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/http/response"

	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader 结算幂等键请求头
const IdempotencyKeyHeader = "Idempotency-Key"

// Checkout 结算购物车
func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	result, err := h.CheckoutService.Checkout(c.Request.Context(), userID, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		respondMapped(c, err, checkoutErrorRules)
		return
	}
	response.Created(c, gin.H{
		"message":     tr(c, "message.purchase_completed"),
		"checkout_no": result.CheckoutNo,
		"replayed":    result.Replayed,
		"purchases":   result.Purchases,
	})
}

// ListPurchases 我的购买记录
func (h *Handler) ListPurchases(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	purchases, err := h.PurchaseService.ListPurchases(userID)
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{
		"count":     len(purchases),
		"purchases": purchases,
	})
}

// ListSales 我的售出记录
func (h *Handler) ListSales(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	sales, err := h.PurchaseService.ListSales(userID)
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{
		"count": len(sales),
		"sales": sales,
	})
}

// GetPurchase 获取购买记录，仅买卖双方可见
func (h *Handler) GetPurchase(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id", "error.purchase_not_found")
	if !ok {
		return
	}
	purchase, err := h.PurchaseService.GetPurchase(userID, id)
	if err != nil {
		respondMapped(c, err, purchaseErrorRules)
		return
	}
	response.Success(c, gin.H{"purchase": purchase})
}
