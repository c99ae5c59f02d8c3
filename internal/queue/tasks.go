package queue

import (
	"encoding/json"

	"github.com/ecofinds/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPurchaseCreated 购买记录创建后的卖家通知任务
	TaskPurchaseCreated = constants.TaskPurchaseCreated
	// TaskCartPruneSold 从其他用户购物车中移除已售商品
	TaskCartPruneSold = constants.TaskCartPruneSold
)

// PurchaseCreatedPayload 购买记录创建任务载荷
type PurchaseCreatedPayload struct {
	PurchaseID uint   `json:"purchase_id"`
	CheckoutNo string `json:"checkout_no"`
	BuyerID    uint   `json:"buyer_id"`
	SellerID   uint   `json:"seller_id"`
	ProductID  uint   `json:"product_id"`
}

// CartPruneSoldPayload 购物车清理任务载荷
type CartPruneSoldPayload struct {
	ProductIDs []uint `json:"product_ids"`
}

// NewPurchaseCreatedTask 创建购买记录任务
func NewPurchaseCreatedTask(payload PurchaseCreatedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPurchaseCreated, body), nil
}

// NewCartPruneSoldTask 创建购物车清理任务
func NewCartPruneSoldTask(payload CartPruneSoldPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartPruneSold, body), nil
}
