package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/http/response"
	"github.com/ecofinds/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdatePurchaseStatusRequest 履约状态修改请求
type UpdatePurchaseStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=completed cancelled refunded"`
	Notes  string `json:"notes" binding:"omitempty,max=500"`
}

// GetAdminPurchases 购买记录列表
func (h *Handler) GetAdminPurchases(c *gin.Context) {
	page, pageSize := handlershared.ParsePageQuery(c)
	purchases, total, err := h.PurchaseService.ListAll(repository.PurchaseListFilter{
		Page:       page,
		PageSize:   pageSize,
		BuyerID:    queryUint(c, "buyer_id"),
		SellerID:   queryUint(c, "seller_id"),
		ProductID:  queryUint(c, "product_id"),
		Status:     strings.TrimSpace(c.Query("status")),
		CheckoutNo: strings.TrimSpace(c.Query("checkout_no")),
	})
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{
		"purchases": purchases,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"pages":     handlershared.TotalPages(total, pageSize),
	})
}

// UpdatePurchaseStatus 履约状态流转
func (h *Handler) UpdatePurchaseStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id", "error.purchase_not_found")
	if !ok {
		return
	}
	var req UpdatePurchaseStatusRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	purchase, err := h.PurchaseService.UpdatePurchaseStatus(id, req.Status, req.Notes)
	if err != nil {
		respondMapped(c, err, purchaseErrorRules)
		return
	}
	requestLog(c).Infow("admin_purchase_status_updated",
		"admin_id", adminID,
		"purchase_id", id,
		"status", purchase.Status,
	)
	response.Success(c, gin.H{"purchase": purchase})
}

func queryUint(c *gin.Context, key string) uint {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
