package service

import (
	"errors"
	"testing"

	"github.com/ecofinds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartTwiceIncrementsSingleLine(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Electronics")
	product := f.seedProduct(t, seller.ID, category.ID, "Camera", "50")

	svc := f.cartService()
	_, err := svc.AddToCart(buyer.ID, product.ID, 2)
	require.NoError(t, err)
	item, err := svc.AddToCart(buyer.ID, product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)
	assert.EqualValues(t, 1, f.count(t, &models.CartItem{}))
}

func TestAddToCartDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Books")
	product := f.seedProduct(t, seller.ID, category.ID, "Novel", "8")
	svc := f.cartService()

	item, err := svc.AddToCart(buyer.ID, product.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	_, err = svc.AddToCart(buyer.ID, product.ID, -1)
	assert.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)

	_, err = svc.AddToCart(buyer.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddToCartRejectsOwnAndUnavailableProducts(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Furniture")
	chair := f.seedProduct(t, seller.ID, category.ID, "Chair", "20")
	table := f.seedProduct(t, seller.ID, category.ID, "Table", "40")
	f.setStatus(t, table.ID, models.ProductSold)
	svc := f.cartService()

	_, err := svc.AddToCart(seller.ID, chair.ID, 1)
	assert.ErrorIs(t, err, ErrSelfPurchase)

	_, err = svc.AddToCart(buyer.ID, table.ID, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	f.setStatus(t, chair.ID, models.ProductWithdrawn)
	_, err = svc.AddToCart(buyer.ID, chair.ID, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.Zero(t, f.count(t, &models.CartItem{}))
}

func TestUpdateAndRemoveRequireOwnership(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	other := f.seedUser(t, "other")
	category := f.seedCategory(t, "Sports")
	product := f.seedProduct(t, seller.ID, category.ID, "Bike", "120")
	svc := f.cartService()

	item, err := svc.AddToCart(buyer.ID, product.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(other.ID, item.ID, 4)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	_, err = svc.UpdateQuantity(buyer.ID, item.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.UpdateQuantity(buyer.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	assert.ErrorIs(t, svc.RemoveFromCart(other.ID, item.ID), ErrCartItemNotFound)
	require.NoError(t, svc.RemoveFromCart(buyer.ID, item.ID))
	assert.ErrorIs(t, svc.RemoveFromCart(buyer.ID, item.ID), ErrCartItemNotFound)

	require.NoError(t, svc.ClearCart(buyer.ID))
	require.NoError(t, svc.ClearCart(buyer.ID))
}

func TestGetCartTotalsAndDeletedProducts(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Clothing")
	jacket := f.seedProduct(t, seller.ID, category.ID, "Jacket", "50")
	shoes := f.seedProduct(t, seller.ID, category.ID, "Shoes", "30")
	hat := f.seedProduct(t, seller.ID, category.ID, "Hat", "12.50")
	svc := f.cartService()

	_, err := svc.AddToCart(buyer.ID, jacket.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(buyer.ID, shoes.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(buyer.ID, hat.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.productRepo.Delete(hat.ID))

	view, err := svc.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Count)
	assert.Equal(t, "130.00", view.Total.String())

	sum := models.Money{}
	var orphan *CartLine
	for i := range view.Items {
		sum = sum.Add(view.Items[i].ItemTotal)
		if view.Items[i].ProductID == hat.ID {
			orphan = &view.Items[i]
		}
	}
	assert.Equal(t, view.Total.String(), sum.String())
	require.NotNil(t, orphan)
	assert.Nil(t, orphan.Product)
	assert.True(t, orphan.ItemTotal.IsZero())
}

func TestValidateCartItemsReportsReasons(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Toys")
	sold := f.seedProduct(t, seller.ID, category.ID, "Robot", "15")
	withdrawn := f.seedProduct(t, seller.ID, category.ID, "Puzzle", "5")
	fine := f.seedProduct(t, seller.ID, category.ID, "Kite", "9")
	svc := f.cartService()

	for _, p := range []*models.Product{sold, withdrawn, fine} {
		_, err := svc.AddToCart(buyer.ID, p.ID, 1)
		require.NoError(t, err)
	}
	f.setStatus(t, sold.ID, models.ProductSold)
	f.setStatus(t, withdrawn.ID, models.ProductWithdrawn)

	invalid, err := svc.ValidateCartItems(buyer.ID)
	require.NoError(t, err)
	require.Len(t, invalid, 2)

	reasons := map[uint]InvalidCartItem{}
	for _, item := range invalid {
		reasons[item.ProductID] = item
	}
	assert.Equal(t, "Product has been sold", reasons[sold.ID].Reason)
	assert.Equal(t, InvalidReasonSold, reasons[sold.ID].Code)
	assert.Equal(t, "Product is no longer available", reasons[withdrawn.ID].Reason)
	assert.Equal(t, "Puzzle", reasons[withdrawn.ID].ProductTitle)
}
