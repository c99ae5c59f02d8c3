package worker

import (
	"context"
	"encoding/json"

	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/provider"
	"github.com/ecofinds/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPurchaseCreated, c.handlePurchaseCreated)
	mux.HandleFunc(queue.TaskCartPruneSold, c.handleCartPruneSold)
}

// handlePurchaseCreated 通知卖家有新的购买；购买记录不存在时丢弃任务
func (c *Consumer) handlePurchaseCreated(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_purchase_created_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PurchaseCreatedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_purchase_created_unmarshal_failed", "error", err)
		return err
	}
	if payload.PurchaseID == 0 {
		logger.Debugw("worker_purchase_created_skip_invalid_payload", "purchase_id", payload.PurchaseID)
		return nil
	}
	purchase, err := c.PurchaseRepo.GetByID(payload.PurchaseID)
	if err != nil {
		logger.Warnw("worker_purchase_created_fetch_failed", "purchase_id", payload.PurchaseID, "error", err)
		return err
	}
	if purchase == nil {
		logger.Debugw("worker_purchase_created_skip_not_found", "purchase_id", payload.PurchaseID)
		return nil
	}

	var sellerName, productTitle string
	if purchase.Seller != nil {
		sellerName = purchase.Seller.Username
	}
	if purchase.Product != nil {
		productTitle = purchase.Product.Title
	}
	logger.FromContext(ctx).Infow("seller_notified",
		"purchase_id", purchase.ID,
		"checkout_no", purchase.CheckoutNo,
		"seller_id", purchase.SellerID,
		"seller_username", sellerName,
		"buyer_id", purchase.BuyerID,
		"product_title", productTitle,
		"total_price", purchase.TotalPrice.String(),
	)
	return nil
}

// handleCartPruneSold 从所有购物车中移除已售商品
func (c *Consumer) handleCartPruneSold(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_prune_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartPruneSoldPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_prune_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.ProductIDs) == 0 {
		return nil
	}
	removed, err := c.CartRepo.DeleteByProducts(payload.ProductIDs)
	if err != nil {
		logger.Warnw("worker_cart_prune_failed", "product_ids", payload.ProductIDs, "error", err)
		return err
	}
	logger.FromContext(ctx).Infow("cart_sold_items_pruned", "product_ids", payload.ProductIDs, "removed", removed)
	return nil
}
