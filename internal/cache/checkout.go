package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CheckoutRecord 幂等结算结果
type CheckoutRecord struct {
	CheckoutNo  string `json:"checkout_no"`
	PurchaseIDs []uint `json:"purchase_ids"`
}

// CheckoutLockKey 用户结算锁
func CheckoutLockKey(userID uint) string {
	return fmt.Sprintf("checkout:lock:%d", userID)
}

func checkoutIdempotencyKey(userID uint, key string) string {
	return fmt.Sprintf("checkout:idem:%d:%s", userID, strings.TrimSpace(key))
}

// GetCheckoutRecord 读取幂等结算结果
func GetCheckoutRecord(ctx context.Context, userID uint, key string) (*CheckoutRecord, bool, error) {
	if userID == 0 || strings.TrimSpace(key) == "" {
		return nil, false, nil
	}
	var record CheckoutRecord
	hit, err := GetJSON(ctx, checkoutIdempotencyKey(userID, key), &record)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &record, true, nil
}

// SetCheckoutRecord 写入幂等结算结果
func SetCheckoutRecord(ctx context.Context, userID uint, key string, record *CheckoutRecord, ttl time.Duration) error {
	if userID == 0 || strings.TrimSpace(key) == "" || record == nil {
		return nil
	}
	return SetJSON(ctx, checkoutIdempotencyKey(userID, key), record, ttl)
}
