package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ecofinds/internal/cache"
	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/events"
	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/metrics"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/queue"
	"github.com/ecofinds/internal/repository"

	"gorm.io/gorm"
)

// CheckoutResult 结算结果
type CheckoutResult struct {
	CheckoutNo string            `json:"checkout_no"`
	Purchases  []models.Purchase `json:"purchases"`
	Replayed   bool              `json:"-"`
}

// CheckoutService 结算编排：校验购物车、抢占商品、生成购买记录并移除已结算的购物车行
type CheckoutService struct {
	cfg          config.CheckoutConfig
	eventsCfg    config.EventsConfig
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	outboxRepo   repository.OutboxRepository
	queueClient  *queue.Client
	metrics      *metrics.Metrics
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cfg config.CheckoutConfig,
	eventsCfg config.EventsConfig,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	outboxRepo repository.OutboxRepository,
	queueClient *queue.Client,
	m *metrics.Metrics,
) *CheckoutService {
	return &CheckoutService{
		cfg:          cfg,
		eventsCfg:    eventsCfg,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		outboxRepo:   outboxRepo,
		queueClient:  queueClient,
		metrics:      m,
	}
}

// Checkout 将购物车整体结算为购买记录；任一商品不可购买时不产生任何写入
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, idempotencyKey string) (*CheckoutResult, error) {
	result, err := s.checkout(ctx, userID, strings.TrimSpace(idempotencyKey))
	s.observe(result, err)
	return result, err
}

func (s *CheckoutService) checkout(ctx context.Context, userID uint, idempotencyKey string) (*CheckoutResult, error) {
	log := logger.FromContext(ctx)

	if result, err := s.replay(ctx, userID, idempotencyKey); result != nil || err != nil {
		return result, err
	}

	lockKey := cache.CheckoutLockKey(userID)
	token, acquired, err := cache.AcquireLock(ctx, lockKey, s.lockTTL())
	if err != nil {
		log.Warnw("checkout_lock_unavailable", "user_id", userID, "error", err)
	} else if !acquired {
		return nil, ErrCheckoutInProgress
	}
	defer func() {
		if releaseErr := cache.ReleaseLock(context.Background(), lockKey, token); releaseErr != nil {
			log.Warnw("checkout_lock_release_failed", "user_id", userID, "error", releaseErr)
		}
	}()

	// 持锁后再查一次，覆盖首次查询与上一请求提交之间的窗口
	if result, err := s.replay(ctx, userID, idempotencyKey); result != nil || err != nil {
		return result, err
	}

	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	lineIDs := make([]uint, 0, len(items))
	for _, item := range items {
		if err := checkCartLinePurchasable(userID, item); err != nil {
			return nil, err
		}
		lineIDs = append(lineIDs, item.ID)
	}

	checkoutNo := generateCheckoutNo()
	now := time.Now()
	var purchases []models.Purchase
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		purchaseRepo := s.purchaseRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		purchases = make([]models.Purchase, 0, len(items))
		for _, item := range items {
			claimed, err := productRepo.ClaimForSale(item.ProductID, now)
			if err != nil {
				return err
			}
			if !claimed {
				return &ProductUnavailableError{ProductID: item.ProductID, Title: item.Product.Title}
			}
			// 价格以抢占后的行为准，忽略读取购物车之后卖家的改价
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return &ProductUnavailableError{ProductID: item.ProductID, Title: item.Product.Title}
			}
			purchases = append(purchases, models.Purchase{
				CheckoutNo:   checkoutNo,
				BuyerID:      userID,
				SellerID:     product.SellerID,
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				UnitPrice:    product.Price,
				TotalPrice:   product.Price.Mul(item.Quantity),
				Status:       constants.PurchaseStatusPending,
				PurchaseDate: now,
			})
		}
		if err := purchaseRepo.CreateBatch(purchases); err != nil {
			return err
		}
		if _, err := cartRepo.DeleteByIDsForUser(userID, lineIDs); err != nil {
			return err
		}
		if s.eventsCfg.Enabled && s.outboxRepo != nil {
			outbox := make([]models.OutboxEvent, 0, len(purchases))
			for _, purchase := range purchases {
				event, err := events.NewPurchaseCreatedOutbox(s.eventsCfg.PurchaseTopic, purchase)
				if err != nil {
					return err
				}
				outbox = append(outbox, event)
			}
			if err := s.outboxRepo.WithTx(tx).Insert(outbox); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var unavailable *ProductUnavailableError
		if !errors.As(err, &unavailable) {
			log.Errorw("checkout_transaction_failed", "user_id", userID, "checkout_no", checkoutNo, "error", err)
		}
		return nil, err
	}

	ids := make([]uint, 0, len(purchases))
	productIDs := make([]uint, 0, len(purchases))
	total := models.Money{}
	for _, purchase := range purchases {
		ids = append(ids, purchase.ID)
		productIDs = append(productIDs, purchase.ProductID)
		total = total.Add(purchase.TotalPrice)
	}
	log.Infow("checkout_committed",
		"user_id", userID,
		"checkout_no", checkoutNo,
		"items", len(purchases),
		"total", total.String(),
	)

	s.afterCommit(ctx, userID, idempotencyKey, checkoutNo, ids, productIDs, purchases)

	loaded, err := s.purchaseRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{CheckoutNo: checkoutNo, Purchases: loaded}, nil
}

// replay 命中幂等记录时返回原结算结果；未命中返回 nil
func (s *CheckoutService) replay(ctx context.Context, userID uint, idempotencyKey string) (*CheckoutResult, error) {
	if idempotencyKey == "" {
		return nil, nil
	}
	record, hit, err := cache.GetCheckoutRecord(ctx, userID, idempotencyKey)
	if err != nil {
		logger.FromContext(ctx).Warnw("checkout_idempotency_lookup_failed", "user_id", userID, "error", err)
		return nil, nil
	}
	if !hit || record == nil {
		return nil, nil
	}
	purchases, err := s.purchaseRepo.ListByIDs(record.PurchaseIDs)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{CheckoutNo: record.CheckoutNo, Purchases: purchases, Replayed: true}, nil
}

// afterCommit 提交后的副作用，失败只记录日志
func (s *CheckoutService) afterCommit(ctx context.Context, userID uint, idempotencyKey, checkoutNo string, ids, productIDs []uint, purchases []models.Purchase) {
	log := logger.FromContext(ctx)
	if idempotencyKey != "" {
		record := &cache.CheckoutRecord{CheckoutNo: checkoutNo, PurchaseIDs: ids}
		if err := cache.SetCheckoutRecord(ctx, userID, idempotencyKey, record, s.idempotencyTTL()); err != nil {
			log.Warnw("checkout_idempotency_store_failed", "user_id", userID, "checkout_no", checkoutNo, "error", err)
		}
	}

	for _, purchase := range purchases {
		payload := queue.PurchaseCreatedPayload{
			PurchaseID: purchase.ID,
			CheckoutNo: checkoutNo,
			BuyerID:    purchase.BuyerID,
			SellerID:   purchase.SellerID,
			ProductID:  purchase.ProductID,
		}
		if err := s.queueClient.EnqueuePurchaseCreated(payload); err != nil {
			log.Warnw("checkout_enqueue_purchase_created_failed", "purchase_id", purchase.ID, "error", err)
		}
	}

	if !s.cfg.PruneSoldFromCarts {
		return
	}
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueCartPruneSold(queue.CartPruneSoldPayload{ProductIDs: productIDs}); err != nil {
			log.Warnw("checkout_enqueue_cart_prune_failed", "checkout_no", checkoutNo, "error", err)
		}
		return
	}
	if _, err := s.cartRepo.DeleteByProducts(productIDs); err != nil {
		log.Warnw("checkout_cart_prune_failed", "checkout_no", checkoutNo, "error", err)
	}
}

func (s *CheckoutService) observe(result *CheckoutResult, err error) {
	switch {
	case err == nil && result != nil && result.Replayed:
		s.metrics.ObserveCheckout(metrics.CheckoutReplayed, 0)
	case err == nil && result != nil:
		s.metrics.ObserveCheckout(metrics.CheckoutSuccess, len(result.Purchases))
	case errors.Is(err, ErrCartEmpty):
		s.metrics.ObserveCheckout(metrics.CheckoutEmpty, 0)
	case errors.Is(err, ErrProductUnavailable), errors.Is(err, ErrSelfPurchase):
		s.metrics.ObserveCheckout(metrics.CheckoutUnavailable, 0)
	case errors.Is(err, ErrCheckoutInProgress):
		s.metrics.ObserveCheckout(metrics.CheckoutInProgress, 0)
	default:
		s.metrics.ObserveCheckout(metrics.CheckoutError, 0)
	}
}

func (s *CheckoutService) lockTTL() time.Duration {
	if s.cfg.LockSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.cfg.LockSeconds) * time.Second
}

func (s *CheckoutService) idempotencyTTL() time.Duration {
	if s.cfg.IdempotencySeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.cfg.IdempotencySeconds) * time.Second
}

func checkCartLinePurchasable(userID uint, item models.CartItem) error {
	if item.Product == nil {
		return &ProductUnavailableError{ProductID: item.ProductID, Title: fmt.Sprintf("#%d", item.ProductID)}
	}
	if !item.Product.Status.Purchasable() {
		return &ProductUnavailableError{ProductID: item.ProductID, Title: item.Product.Title}
	}
	if item.Product.IsOwnedBy(userID) {
		return ErrSelfPurchase
	}
	return nil
}

func generateCheckoutNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("EF%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
