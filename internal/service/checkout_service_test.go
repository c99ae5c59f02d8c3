package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ecofinds/internal/cache"
	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/metrics"
	"github.com/ecofinds/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutEmptyCartWritesNothing(t *testing.T) {
	f := newFixture(t)
	buyer := f.seedUser(t, "buyer")

	_, err := f.checkoutService().Checkout(context.Background(), buyer.ID, "")
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Zero(t, f.count(t, &models.Purchase{}))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Checkouts.WithLabelValues(metrics.CheckoutEmpty)))
}

func TestCheckoutCreatesPurchasesAndClearsCart(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Electronics")
	speaker := f.seedProduct(t, seller.ID, category.ID, "Speaker", "50")
	cable := f.seedProduct(t, seller.ID, category.ID, "Cable", "30")

	carts := f.cartService()
	_, err := carts.AddToCart(buyer.ID, speaker.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddToCart(buyer.ID, cable.ID, 1)
	require.NoError(t, err)

	result, err := f.checkoutService().Checkout(context.Background(), buyer.ID, "")
	require.NoError(t, err)
	require.Len(t, result.Purchases, 2)
	assert.NotEmpty(t, result.CheckoutNo)

	totals := map[uint]string{}
	for _, purchase := range result.Purchases {
		totals[purchase.ProductID] = purchase.TotalPrice.String()
		assert.Equal(t, constants.PurchaseStatusPending, purchase.Status)
		assert.Equal(t, buyer.ID, purchase.BuyerID)
		assert.Equal(t, seller.ID, purchase.SellerID)
		assert.Equal(t, result.CheckoutNo, purchase.CheckoutNo)
		require.NotNil(t, purchase.Product)
		require.NotNil(t, purchase.Seller)
		assert.Equal(t, "seller", purchase.Seller.Username)
	}
	assert.Equal(t, "100.00", totals[speaker.ID])
	assert.Equal(t, "30.00", totals[cable.ID])

	for _, id := range []uint{speaker.ID, cable.ID} {
		product := f.reloadProduct(t, id)
		assert.Equal(t, models.ProductSold, product.Status)
		assert.NotNil(t, product.SoldAt)
	}
	assert.Zero(t, f.count(t, &models.CartItem{}))
	assert.EqualValues(t, 2, f.count(t, &models.OutboxEvent{}))
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.CheckoutItems))
}

func TestCheckoutAbortsOnStaleProduct(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Books")
	atlas := f.seedProduct(t, seller.ID, category.ID, "Atlas", "25")
	diary := f.seedProduct(t, seller.ID, category.ID, "Diary", "10")

	carts := f.cartService()
	_, err := carts.AddToCart(buyer.ID, atlas.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddToCart(buyer.ID, diary.ID, 1)
	require.NoError(t, err)
	f.setStatus(t, diary.ID, models.ProductSold)

	_, err = f.checkoutService().Checkout(context.Background(), buyer.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProductUnavailable)
	var unavailable *ProductUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "Diary", unavailable.Title)

	assert.Zero(t, f.count(t, &models.Purchase{}))
	assert.EqualValues(t, 2, f.count(t, &models.CartItem{}))
	assert.Equal(t, models.ProductAvailable, f.reloadProduct(t, atlas.ID).Status)
}

func TestCheckoutRollsBackWhenClaimLosesRace(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Garden")
	victim := f.seedProduct(t, seller.ID, category.ID, "Shovel", "18")
	first := f.seedProduct(t, seller.ID, category.ID, "Rake", "12")

	carts := f.cartService()
	_, err := carts.AddToCart(buyer.ID, victim.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddToCart(buyer.ID, first.ID, 1)
	require.NoError(t, err)

	// 抢占 Rake 时同事务内把 Shovel 下架，模拟并发买家抢先
	trigger := fmt.Sprintf(`CREATE TRIGGER steal_victim AFTER UPDATE OF status ON products
WHEN NEW.id = %d AND NEW.status = 'sold'
BEGIN
	UPDATE products SET status = 'withdrawn' WHERE id = %d;
END;`, first.ID, victim.ID)
	require.NoError(t, f.db.Exec(trigger).Error)

	_, err = f.checkoutService().Checkout(context.Background(), buyer.ID, "")
	var unavailable *ProductUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "Shovel", unavailable.Title)

	assert.Zero(t, f.count(t, &models.Purchase{}))
	assert.Zero(t, f.count(t, &models.OutboxEvent{}))
	assert.EqualValues(t, 2, f.count(t, &models.CartItem{}))
	assert.Equal(t, models.ProductAvailable, f.reloadProduct(t, first.ID).Status)
	assert.Equal(t, models.ProductAvailable, f.reloadProduct(t, victim.ID).Status)
}

func TestCheckoutUsesPriceAtClaimTime(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Music")
	guitar := f.seedProduct(t, seller.ID, category.ID, "Guitar", "60")

	_, err := f.cartService().AddToCart(buyer.ID, guitar.ID, 1)
	require.NoError(t, err)

	// 卖家在购物车读取之后、抢占之前改价
	trigger := fmt.Sprintf(`CREATE TRIGGER reprice_guitar AFTER UPDATE OF status ON products
WHEN NEW.id = %d AND NEW.status = 'sold'
BEGIN
	UPDATE products SET price = '75.00' WHERE id = %d;
END;`, guitar.ID, guitar.ID)
	require.NoError(t, f.db.Exec(trigger).Error)

	result, err := f.checkoutService().Checkout(context.Background(), buyer.ID, "")
	require.NoError(t, err)
	require.Len(t, result.Purchases, 1)
	assert.Equal(t, "75.00", result.Purchases[0].UnitPrice.String())
	assert.Equal(t, "75.00", result.Purchases[0].TotalPrice.String())
}

func TestCheckoutKeepsCartLinesAddedDuringCheckout(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Outdoor")
	tent := f.seedProduct(t, seller.ID, category.ID, "Tent", "80")
	lantern := f.seedProduct(t, seller.ID, category.ID, "Lantern", "15")

	_, err := f.cartService().AddToCart(buyer.ID, tent.ID, 1)
	require.NoError(t, err)

	// 结算事务进行中，同一用户从另一个请求加入新商品
	trigger := fmt.Sprintf(`CREATE TRIGGER late_cart_line AFTER UPDATE OF status ON products
WHEN NEW.id = %d AND NEW.status = 'sold'
BEGIN
	INSERT INTO cart_items (user_id, product_id, quantity, added_at, updated_at)
	VALUES (%d, %d, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
END;`, tent.ID, buyer.ID, lantern.ID)
	require.NoError(t, f.db.Exec(trigger).Error)

	result, err := f.checkoutService().Checkout(context.Background(), buyer.ID, "")
	require.NoError(t, err)
	require.Len(t, result.Purchases, 1)
	assert.Equal(t, tent.ID, result.Purchases[0].ProductID)

	var remaining []uint
	require.NoError(t, f.db.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Pluck("product_id", &remaining).Error)
	assert.Equal(t, []uint{lantern.ID}, remaining)
}

func TestCheckoutReplaysIdempotencyKey(t *testing.T) {
	useRedis(t)
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Kitchen")
	kettle := f.seedProduct(t, seller.ID, category.ID, "Kettle", "20")

	_, err := f.cartService().AddToCart(buyer.ID, kettle.ID, 1)
	require.NoError(t, err)

	svc := f.checkoutService()
	first, err := svc.Checkout(context.Background(), buyer.ID, "order-1")
	require.NoError(t, err)
	require.Len(t, first.Purchases, 1)
	assert.False(t, first.Replayed)

	second, err := svc.Checkout(context.Background(), buyer.ID, "order-1")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.CheckoutNo, second.CheckoutNo)
	require.Len(t, second.Purchases, 1)
	assert.Equal(t, first.Purchases[0].ID, second.Purchases[0].ID)
	assert.EqualValues(t, 1, f.count(t, &models.Purchase{}))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Checkouts.WithLabelValues(metrics.CheckoutReplayed)))

	_, err = svc.Checkout(context.Background(), buyer.ID, "order-2")
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckoutRejectsWhileLockHeld(t *testing.T) {
	server := useRedis(t)
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Toys")
	kite := f.seedProduct(t, seller.ID, category.ID, "Kite", "9")

	_, err := f.cartService().AddToCart(buyer.ID, kite.ID, 1)
	require.NoError(t, err)

	lockKey := "ecofinds:" + cache.CheckoutLockKey(buyer.ID)
	require.NoError(t, server.Set(lockKey, "other-request"))

	_, err = f.checkoutService().Checkout(context.Background(), buyer.ID, "order-1")
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.Zero(t, f.count(t, &models.Purchase{}))
	assert.EqualValues(t, 1, f.count(t, &models.CartItem{}))
	assert.Equal(t, models.ProductAvailable, f.reloadProduct(t, kite.ID).Status)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Checkouts.WithLabelValues(metrics.CheckoutInProgress)))

	held, err := server.Get(lockKey)
	require.NoError(t, err)
	assert.Equal(t, "other-request", held)

	server.Del(lockKey)
	result, err := f.checkoutService().Checkout(context.Background(), buyer.ID, "order-1")
	require.NoError(t, err)
	require.Len(t, result.Purchases, 1)
	assert.False(t, server.Exists(lockKey))
}

func TestCheckoutConcurrentSameKeyCommitsOnce(t *testing.T) {
	useRedis(t)
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Tools")
	drill := f.seedProduct(t, seller.ID, category.ID, "Drill", "45")

	_, err := f.cartService().AddToCart(buyer.ID, drill.ID, 1)
	require.NoError(t, err)

	svc := f.checkoutService()
	var wg sync.WaitGroup
	results := make([]*CheckoutResult, 2)
	errs := make([]error, 2)
	start := make(chan struct{})
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = svc.Checkout(context.Background(), buyer.ID, "order-1")
		}(i)
	}
	close(start)
	wg.Wait()

	committed := 0
	for i := range results {
		if errs[i] != nil {
			assert.ErrorIs(t, errs[i], ErrCheckoutInProgress)
			continue
		}
		if !results[i].Replayed {
			committed++
		}
	}
	assert.Equal(t, 1, committed)
	assert.EqualValues(t, 1, f.count(t, &models.Purchase{}))
}

func TestCheckoutPrunesSoldProductFromOtherCarts(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	rival := f.seedUser(t, "rival")
	category := f.seedCategory(t, "Music")
	guitar := f.seedProduct(t, seller.ID, category.ID, "Guitar", "200")

	carts := f.cartService()
	_, err := carts.AddToCart(buyer.ID, guitar.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddToCart(rival.ID, guitar.ID, 1)
	require.NoError(t, err)

	_, err = f.checkoutService().Checkout(context.Background(), buyer.ID, "key-1")
	require.NoError(t, err)

	view, err := carts.GetCart(rival.ID)
	require.NoError(t, err)
	assert.Zero(t, view.Count)

	_, err = f.checkoutService().Checkout(context.Background(), rival.ID, "")
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckoutRejectsOwnProduct(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	category := f.seedCategory(t, "Art")
	painting := f.seedProduct(t, seller.ID, category.ID, "Painting", "75")
	require.NoError(t, f.cartRepo.AddQuantity(seller.ID, painting.ID, 1, painting.CreatedAt))

	_, err := f.checkoutService().Checkout(context.Background(), seller.ID, "")
	assert.ErrorIs(t, err, ErrSelfPurchase)
	assert.Equal(t, models.ProductAvailable, f.reloadProduct(t, painting.ID).Status)
}
